package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/headliner/pkg/browser"
)

// CloseOverlays dismisses every visible popup matched by the overlay
// selectors. Failures are ignored; overlays are optional.
func (r *Runner) CloseOverlays(ctx context.Context) {
	for _, xpath := range r.settings.Selectors.Overlays {
		elements, err := r.page.QueryXPath(xpath)
		if err != nil {
			r.log.Debugf("overlay query %s failed: %v", xpath, err)
			continue
		}

		for _, el := range elements {
			if visible, err := el.IsVisible(); err != nil || !visible {
				continue
			}

			if err := el.Click(r.settings.Timeouts.Click); err != nil {
				if jsErr := el.JSClick(); jsErr != nil {
					r.log.Debugf("could not dismiss overlay %s: %v", xpath, jsErr)
				}
				continue
			}
			r.log.Debugf("dismissed overlay %s", xpath)
			_ = r.page.Pause(ctx, r.settings.Delays.AfterOverlay)
		}
	}
}

// IsLoggedIn opens the profile page and infers the session state from where
// the portal sends the browser.
func (r *Runner) IsLoggedIn(ctx context.Context) (bool, error) {
	if err := r.page.Goto(ctx, r.settings.ProfileURL); err != nil {
		return false, fmt.Errorf("failed to open profile page: %w", err)
	}
	if err := r.page.Pause(ctx, r.settings.Delays.AfterProfileLoad); err != nil {
		return false, err
	}
	r.CloseOverlays(ctx)

	current := r.page.URL()
	loggedIn := r.matcher.LoggedIn(current)
	r.log.Infof("profile page resolved to %s (logged in: %t)", current, loggedIn)
	return loggedIn, nil
}

// Login fills and submits the login form, then waits for the portal to
// redirect to a logged-in page.
func (r *Runner) Login(ctx context.Context, creds Credentials) error {
	if err := r.page.Goto(ctx, r.settings.LoginURL); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}

	timeout := r.settings.Timeouts.LoginField
	var fields [3]browser.Element
	for i, name := range []string{ChainEmail, ChainPassword, ChainSubmit} {
		match, err := r.find(ctx, name, browser.StatePresent, timeout)
		if err != nil {
			if errors.Is(err, browser.ErrNoMatch) {
				return ErrLoginFields
			}
			return err
		}
		fields[i] = match.Element
	}
	email, password, submit := fields[0], fields[1], fields[2]

	if err := email.Fill(creds.Email); err != nil {
		return fmt.Errorf("failed to enter email: %w", err)
	}
	if err := password.Fill(creds.Password); err != nil {
		return fmt.Errorf("failed to enter password: %w", err)
	}
	if err := r.click(ChainSubmit, submit); err != nil {
		return err
	}

	if err := r.page.WaitForURL(ctx, r.matcher.IsLoggedInPage, r.settings.Timeouts.LoginRedirect); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.log.Warnf("login redirect not observed: %v", err)
		return ErrLoginFailed
	}

	r.out.Successf("Login successful.")
	return nil
}

// OpenHeadlineEditor loads the profile page and opens the headline editor panel.
func (r *Runner) OpenHeadlineEditor(ctx context.Context) error {
	if err := r.page.Goto(ctx, r.settings.ProfileURL); err != nil {
		return fmt.Errorf("failed to open profile page: %w", err)
	}
	if _, err := r.page.WaitForXPath(ctx, "//body", browser.WaitOptions{
		State:   browser.WaitAttached,
		Timeout: r.settings.Timeouts.PageBody,
	}); err != nil {
		return fmt.Errorf("profile page did not load: %w", err)
	}
	if err := r.page.Pause(ctx, r.settings.Delays.AfterEditorPage); err != nil {
		return err
	}
	r.CloseOverlays(ctx)

	match, err := r.find(ctx, ChainEditButton, browser.StateClickable, r.settings.Timeouts.EditButton)
	if err != nil {
		if errors.Is(err, browser.ErrNoMatch) {
			return fmt.Errorf("%w: %v", ErrEditorNotFound, err)
		}
		return err
	}
	if err := r.click(ChainEditButton, match.Element); err != nil {
		return err
	}

	if _, err := r.page.WaitForXPath(ctx, r.settings.Selectors.EditorPanel, browser.WaitOptions{
		State:   browser.WaitAttached,
		Timeout: r.settings.Timeouts.EditorPanel,
	}); err != nil {
		return fmt.Errorf("headline editor did not open: %w", err)
	}

	return r.page.Pause(ctx, r.settings.Delays.AfterEditorOpen)
}

// HeadlineField locates the headline input inside the open editor.
func (r *Runner) HeadlineField(ctx context.Context) (browser.Element, error) {
	match, err := r.find(ctx, ChainField, browser.StatePresent, r.settings.Timeouts.Field)
	if err != nil {
		if errors.Is(err, browser.ErrNoMatch) {
			return nil, fmt.Errorf("%w: %v", ErrFieldNotFound, err)
		}
		return nil, err
	}
	return match.Element, nil
}

// ClickSave clicks the editor's save control.
func (r *Runner) ClickSave(ctx context.Context) error {
	match, err := r.find(ctx, ChainSave, browser.StateClickable, r.settings.Timeouts.SaveButton)
	if err != nil {
		if errors.Is(err, browser.ErrNoMatch) {
			return fmt.Errorf("%w: %v", ErrSaveNotFound, err)
		}
		return err
	}
	if err := r.click(ChainSave, match.Element); err != nil {
		return err
	}
	return r.page.Pause(ctx, r.settings.Delays.AfterSaveClick)
}

// isFormControl reports whether tag holds its text in a value property.
func isFormControl(tag string) bool {
	return tag == "textarea" || tag == "input"
}

// ReadFieldValue returns the field's text with surrounding newlines removed.
func ReadFieldValue(el browser.Element) (string, error) {
	tag, err := el.TagName()
	if err != nil {
		return "", err
	}

	var value string
	if isFormControl(tag) {
		value, err = el.Value()
	} else {
		value, err = el.Text()
	}
	if err != nil {
		return "", fmt.Errorf("failed to read headline: %w", err)
	}
	return strings.Trim(value, "\n"), nil
}

// SetFieldValue replaces the field's content with value.
func SetFieldValue(el browser.Element, value string, clickTimeout time.Duration) error {
	tag, err := el.TagName()
	if err != nil {
		return err
	}

	if !isFormControl(tag) {
		if err := el.SetText(value); err != nil {
			return fmt.Errorf("failed to write headline: %w", err)
		}
		return nil
	}

	// Focus first so the page's own input handlers see the edit.
	if _, err := browser.ClickWithFallback(el, clickTimeout); err != nil {
		return fmt.Errorf("failed to focus headline field: %w", err)
	}
	if err := el.Fill(value); err != nil {
		return fmt.Errorf("failed to write headline: %w", err)
	}
	return nil
}

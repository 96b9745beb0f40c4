package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session is the page of a launched persistent-profile browser.
type Session struct {
	context    playwright.BrowserContext
	page       playwright.Page
	profileDir string
}

var _ Page = (*Session)(nil)

// ProfileDir returns the user data directory the browser runs on.
func (s *Session) ProfileDir() string {
	return s.profileDir
}

// Goto navigates the page to url.
func (s *Session) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gotoOpts := playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}
	if timeout, capped := capTimeout(ctx, 0); capped {
		gotoOpts.Timeout = playwright.Float(float64(timeout.Milliseconds()))
	}

	if _, err := s.page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// URL returns the current page URL.
func (s *Session) URL() string {
	return s.page.URL()
}

// WaitForXPath waits for xpath to reach the requested state.
func (s *Session) WaitForXPath(ctx context.Context, xpath string, opts WaitOptions) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := playwright.WaitForSelectorStateAttached
	if opts.State == WaitVisible {
		state = playwright.WaitForSelectorStateVisible
	}

	waitOpts := playwright.PageWaitForSelectorOptions{State: state}
	if timeout, _ := capTimeout(ctx, opts.Timeout); timeout > 0 {
		waitOpts.Timeout = playwright.Float(float64(timeout.Milliseconds()))
	}

	handle, err := s.page.WaitForSelector(xpathSelector(xpath), waitOpts)
	if err != nil {
		return nil, fmt.Errorf("wait failed: %w", err)
	}
	if handle == nil {
		return nil, fmt.Errorf("no element matched %s", xpath)
	}
	return &elementHandle{handle: handle}, nil
}

// QueryXPath returns all elements currently matching xpath.
func (s *Session) QueryXPath(xpath string) ([]Element, error) {
	handles, err := s.page.QuerySelectorAll(xpathSelector(xpath))
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}

	elements := make([]Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &elementHandle{handle: h})
	}
	return elements, nil
}

// WaitForURL polls the page URL until match accepts it.
func (s *Session) WaitForURL(ctx context.Context, match func(url string) bool, timeout time.Duration) error {
	return pollURL(ctx, s.URL, match, timeout, 250*time.Millisecond)
}

// Pause sleeps for d or until ctx is done.
func (s *Session) Pause(ctx context.Context, d time.Duration) error {
	return Sleep(ctx, d)
}

// Sleep waits for d, returning early with ctx.Err() on cancellation.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func pollURL(ctx context.Context, current func() string, match func(string) bool, timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		url := current()
		if match(url) {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("timed out after %s waiting for URL (last: %s)", timeout, url)
		}
		if err := Sleep(ctx, interval); err != nil {
			return err
		}
	}
}

// capTimeout shortens d to the time left before ctx's deadline, since a
// Playwright call in flight does not observe ctx. A zero d means no timeout
// of its own. capped reports whether the deadline decided the result.
func capTimeout(ctx context.Context, d time.Duration) (timeout time.Duration, capped bool) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return d, false
	}

	left := time.Until(deadline)
	if d > 0 && d <= left {
		return d, false
	}
	// Playwright treats 0 as "no timeout".
	if left < time.Millisecond {
		left = time.Millisecond
	}
	return left, true
}

// xpathSelector forces the Playwright xpath engine; selectors that start
// with "(" are otherwise parsed as CSS.
func xpathSelector(xpath string) string {
	if strings.HasPrefix(xpath, "xpath=") {
		return xpath
	}
	return "xpath=" + xpath
}

package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoMatch is returned when no XPath in a chain resolves to a usable element.
var ErrNoMatch = errors.New("no locator matched")

// ElementState is the condition a chain candidate must satisfy to win.
type ElementState int

const (
	// StatePresent requires the element in the DOM and visible.
	StatePresent ElementState = iota
	// StateVisible waits for visibility directly.
	StateVisible
	// StateClickable requires a visible, enabled element.
	StateClickable
)

// String returns the state name.
func (s ElementState) String() string {
	switch s {
	case StatePresent:
		return "present"
	case StateVisible:
		return "visible"
	case StateClickable:
		return "clickable"
	default:
		return "unknown"
	}
}

// Chain is an ordered list of XPath locators for one logical element.
type Chain struct {
	Name   string
	XPaths []string
}

// Match is the winning candidate of a chain.
type Match struct {
	Element Element
	XPath   string
	Index   int
}

// Attempt records why a chain candidate was rejected.
type Attempt struct {
	XPath string
	Err   error
}

// NoMatchError lists every rejected candidate of a chain.
type NoMatchError struct {
	Chain    string
	Attempts []Attempt
}

func (e *NoMatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", ErrNoMatch, e.Chain)
	for i, a := range e.Attempts {
		fmt.Fprintf(&b, "; [%d] %v", i, a.Err)
	}
	return b.String()
}

// Unwrap makes errors.Is(err, ErrNoMatch) work.
func (e *NoMatchError) Unwrap() error {
	return ErrNoMatch
}

// Find tries each XPath in order, giving each up to timeout to reach state,
// and returns the first visible match.
func (c Chain) Find(ctx context.Context, page Page, state ElementState, timeout time.Duration) (*Match, error) {
	if len(c.XPaths) == 0 {
		return nil, fmt.Errorf("locator chain %q is empty", c.Name)
	}

	noMatch := &NoMatchError{Chain: c.Name}
	for i, xpath := range c.XPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		el, err := c.try(ctx, page, xpath, state, timeout)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			noMatch.Attempts = append(noMatch.Attempts, Attempt{XPath: xpath, Err: err})
			continue
		}

		return &Match{Element: el, XPath: xpath, Index: i}, nil
	}

	return nil, noMatch
}

func (c Chain) try(ctx context.Context, page Page, xpath string, state ElementState, timeout time.Duration) (Element, error) {
	waitState := WaitAttached
	if state != StatePresent {
		waitState = WaitVisible
	}

	deadline := time.Now().Add(timeout)
	el, err := page.WaitForXPath(ctx, xpath, WaitOptions{State: waitState, Timeout: timeout})
	if err != nil {
		return nil, err
	}

	visible, err := el.IsVisible()
	if err != nil {
		return nil, fmt.Errorf("visibility check failed: %w", err)
	}
	if !visible {
		return nil, fmt.Errorf("element is not visible")
	}

	if state == StateClickable {
		if err := waitEnabled(ctx, el, deadline); err != nil {
			return nil, err
		}
	}

	return el, nil
}

// enabledPollInterval is how often a disabled candidate is rechecked.
var enabledPollInterval = 100 * time.Millisecond

// waitEnabled polls el until it is enabled or deadline passes.
func waitEnabled(ctx context.Context, el Element, deadline time.Time) error {
	for {
		enabled, err := el.IsEnabled()
		if err != nil {
			return fmt.Errorf("enabled check failed: %w", err)
		}
		if enabled {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("element is disabled")
		}
		if err := Sleep(ctx, enabledPollInterval); err != nil {
			return err
		}
	}
}

// ClickWithFallback clicks el natively and falls back to a script click when
// the native click fails, e.g. because another element intercepts it.
// It reports whether the fallback was used.
func ClickWithFallback(el Element, timeout time.Duration) (usedScript bool, err error) {
	clickErr := el.Click(timeout)
	if clickErr == nil {
		return false, nil
	}

	if err := el.JSClick(); err != nil {
		return true, fmt.Errorf("%w (after native click error: %v)", err, clickErr)
	}
	return true, nil
}

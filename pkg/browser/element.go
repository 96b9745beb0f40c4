package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

type elementHandle struct {
	handle playwright.ElementHandle
}

var _ Element = (*elementHandle)(nil)

func (e *elementHandle) IsVisible() (bool, error) {
	return e.handle.IsVisible()
}

func (e *elementHandle) IsEnabled() (bool, error) {
	return e.handle.IsEnabled()
}

func (e *elementHandle) Click(timeout time.Duration) error {
	opts := playwright.ElementHandleClickOptions{}
	if timeout > 0 {
		opts.Timeout = playwright.Float(float64(timeout.Milliseconds()))
	}
	if err := e.handle.Click(opts); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (e *elementHandle) JSClick() error {
	if _, err := e.handle.Evaluate("el => el.click()"); err != nil {
		return fmt.Errorf("script click failed: %w", err)
	}
	return nil
}

func (e *elementHandle) TagName() (string, error) {
	v, err := e.handle.Evaluate("el => el.tagName")
	if err != nil {
		return "", fmt.Errorf("tag name lookup failed: %w", err)
	}
	name, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("unexpected tag name type %T", v)
	}
	return strings.ToLower(name), nil
}

func (e *elementHandle) Value() (string, error) {
	return e.handle.InputValue()
}

func (e *elementHandle) Text() (string, error) {
	return e.handle.InnerText()
}

func (e *elementHandle) Fill(value string) error {
	if err := e.handle.Fill(value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (e *elementHandle) SetText(value string) error {
	if _, err := e.handle.Evaluate("(el, value) => { el.innerText = value; }", value); err != nil {
		return fmt.Errorf("setting text failed: %w", err)
	}
	return nil
}

package browser

import (
	"context"
	"time"
)

// Page is the subset of a browser tab the workflow needs.
type Page interface {
	// Goto navigates to url and waits for the load event.
	Goto(ctx context.Context, url string) error

	// URL returns the current page URL.
	URL() string

	// WaitForXPath waits until an element matching xpath reaches opts.State.
	WaitForXPath(ctx context.Context, xpath string, opts WaitOptions) (Element, error)

	// QueryXPath returns every element currently matching xpath, without waiting.
	QueryXPath(xpath string) ([]Element, error)

	// WaitForURL polls the current URL until match reports true or timeout elapses.
	WaitForURL(ctx context.Context, match func(url string) bool, timeout time.Duration) error

	// Pause sleeps for d unless ctx is cancelled first.
	Pause(ctx context.Context, d time.Duration) error
}

// Element is a handle to a DOM element.
type Element interface {
	IsVisible() (bool, error)
	IsEnabled() (bool, error)

	// Click performs a native (mouse) click.
	Click(timeout time.Duration) error

	// JSClick dispatches HTMLElement.click() from script, bypassing
	// overlapping elements.
	JSClick() error

	// TagName returns the lower-case tag name.
	TagName() (string, error)

	// Value returns the value of an input or textarea.
	Value() (string, error)

	// Text returns the rendered inner text.
	Text() (string, error)

	// Fill replaces the value of an input or textarea.
	Fill(value string) error

	// SetText assigns innerText from script, for contenteditable elements.
	SetText(value string) error
}

// WaitState is the condition WaitForXPath waits for.
type WaitState string

const (
	// WaitAttached waits for the element to be present in the DOM.
	WaitAttached WaitState = "attached"
	// WaitVisible waits for the element to be present and visible.
	WaitVisible WaitState = "visible"
)

// WaitOptions configures WaitForXPath.
type WaitOptions struct {
	State   WaitState
	Timeout time.Duration
}

// SessionOptions configures the launched browser.
type SessionOptions struct {
	// ProfileDir is the persistent user data directory.
	ProfileDir string

	// BinaryPath optionally points at a Chrome/Chromium executable to use
	// instead of the Playwright-managed one.
	BinaryPath string

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the window and viewport size
	Viewport *Viewport

	// Args are appended to DefaultArgs.
	Args []string

	// PageLoadTimeout bounds every navigation.
	PageLoadTimeout time.Duration

	// Timeout is the default for every other page operation.
	Timeout time.Duration
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// InstallOptions configures driver and browser installation.
type InstallOptions struct {
	// Skip assumes driver and browsers are already installed.
	Skip bool

	// SkipBrowsers installs only the driver, for use with SessionOptions.BinaryPath.
	SkipBrowsers bool
}

// Default values for session options
const (
	DefaultViewportWidth   = 1920
	DefaultViewportHeight  = 1080
	DefaultPageLoadTimeout = 60 * time.Second
	DefaultTimeout         = 30 * time.Second
)

// DefaultArgs are the Chromium switches every session starts with.
var DefaultArgs = []string{
	"--disable-notifications",
	"--disable-infobars",
	"--disable-gpu",
	"--no-first-run",
	"--no-default-browser-check",
	"--disable-extensions",
}

package browser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Manager owns the Playwright driver and the single browser session of a run.
type Manager struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	session     *Session
	initialized bool
}

// NewManager creates a new manager.
func NewManager() *Manager {
	return &Manager{}
}

// Initialize installs (unless skipped) and starts the Playwright driver.
// This must be called before Launch.
func (m *Manager) Initialize(opts InstallOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	runOpts := &playwright.RunOptions{
		Browsers:            []string{"chromium"},
		SkipInstallBrowsers: opts.SkipBrowsers,
		Verbose:             false,
		Stdout:              io.Discard,
		Stderr:              io.Discard,
	}

	if !opts.Skip {
		if err := playwright.Install(runOpts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// Launch starts Chromium on a persistent profile and returns its page.
// Only one session may be open at a time.
func (m *Manager) Launch(opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, fmt.Errorf("browser manager not initialized")
	}
	if m.session != nil {
		return nil, fmt.Errorf("a browser session is already open")
	}

	opts = withDefaults(opts)
	if opts.ProfileDir == "" {
		return nil, fmt.Errorf("profile directory is required")
	}
	if err := os.MkdirAll(opts.ProfileDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     launchArgs(opts),
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
		Timeout: playwright.Float(float64(opts.PageLoadTimeout.Milliseconds())),
	}
	if opts.BinaryPath != "" {
		launchOpts.ExecutablePath = playwright.String(opts.BinaryPath)
	}

	browserContext, err := m.playwright.Chromium.LaunchPersistentContext(opts.ProfileDir, launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	// A persistent context usually opens with a blank tab already.
	var page playwright.Page
	if pages := browserContext.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = browserContext.NewPage()
		if err != nil {
			_ = browserContext.Close()
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	page.SetDefaultNavigationTimeout(float64(opts.PageLoadTimeout.Milliseconds()))
	page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))

	m.session = &Session{
		context:    browserContext,
		page:       page,
		profileDir: opts.ProfileDir,
	}
	return m.session, nil
}

// Shutdown closes the session and stops Playwright. Safe to call more than once.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	if m.session != nil {
		if err := m.session.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
		m.session = nil
	}

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		m.playwright = nil
		m.initialized = false
	}

	return errors.Join(errs...)
}

func withDefaults(opts SessionOptions) SessionOptions {
	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.PageLoadTimeout <= 0 {
		opts.PageLoadTimeout = DefaultPageLoadTimeout
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return opts
}

func launchArgs(opts SessionOptions) []string {
	args := make([]string, 0, len(DefaultArgs)+len(opts.Args)+1)
	args = append(args, fmt.Sprintf("--window-size=%d,%d", opts.Viewport.Width, opts.Viewport.Height))
	args = append(args, DefaultArgs...)
	return append(args, opts.Args...)
}

package portal

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/headliner/pkg/browser"
	"github.com/entrhq/headliner/pkg/headline"
)

// Reporter receives user-facing progress messages.
type Reporter interface {
	Step(message string)
	Infof(format string, args ...interface{})
	Successf(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Verbosef(format string, args ...interface{})
}

// Logger receives diagnostic traces.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// Credentials are used only when the profile is logged out.
type Credentials struct {
	Email    string
	Password string
}

// Complete reports whether both halves are present.
func (c Credentials) Complete() bool {
	return c.Email != "" && c.Password != ""
}

// Result describes what a run observed and did.
type Result struct {
	WasLoggedIn    bool
	LoginPerformed bool
	Before         string
	After          string
	Changed        bool
	Saved          bool

	// Locators maps a chain name to the XPath that matched.
	Locators map[string]string
}

// Runner walks the profile page and toggles the headline.
type Runner struct {
	page     browser.Page
	settings Settings
	creds    Credentials
	dryRun   bool
	matcher  *URLMatcher
	chains   map[string]browser.Chain
	out      Reporter
	log      Logger
	result   *Result
}

// Option configures a Runner.
type Option func(*Runner)

// WithCredentials sets the login used when the profile is logged out.
func WithCredentials(creds Credentials) Option {
	return func(r *Runner) {
		r.creds = creds
	}
}

// WithDryRun computes the new headline without writing or saving it.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) {
		r.dryRun = dryRun
	}
}

// WithReporter sets the progress reporter.
func WithReporter(out Reporter) Option {
	return func(r *Runner) {
		r.out = out
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// NewRunner creates a runner for page.
func NewRunner(page browser.Page, settings Settings, opts ...Option) (*Runner, error) {
	matcher, err := NewURLMatcher(settings.ProfileURL, settings.LoginURLPatterns, settings.LoggedInURLPatterns)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		page:     page,
		settings: settings,
		matcher:  matcher,
		chains:   settings.Selectors.Chains(),
		out:      nopReporter{},
		log:      nopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run logs in if needed, toggles the trailing period of the headline and
// saves it. The returned Result is populated as far as the run got, also
// when an error is returned.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.result = &Result{Locators: make(map[string]string)}

	loggedIn, err := r.IsLoggedIn(ctx)
	if err != nil {
		return r.result, err
	}
	r.result.WasLoggedIn = loggedIn

	if !loggedIn {
		if !r.creds.Complete() {
			return r.result, ErrNotLoggedIn
		}
		r.out.Step("Not logged in. Attempting login...")
		if err := r.Login(ctx, r.creds); err != nil {
			return r.result, err
		}
		r.result.LoginPerformed = true
		if err := r.page.Pause(ctx, r.settings.Delays.AfterLogin); err != nil {
			return r.result, err
		}
	}

	r.out.Step("Opening Resume headline editor...")
	if err := r.OpenHeadlineEditor(ctx); err != nil {
		return r.result, err
	}

	field, err := r.HeadlineField(ctx)
	if err != nil {
		return r.result, err
	}

	current, err := ReadFieldValue(field)
	if err != nil {
		return r.result, err
	}

	change := headline.Plan(current)
	r.result.Before = change.Before
	r.result.After = change.After
	r.result.Changed = change.Changed

	if !change.Changed {
		r.out.Infof("No change needed.")
		return r.result, nil
	}

	r.out.Infof("Updating headline from: '%s' -> '%s'", change.Before, change.After)
	if r.dryRun {
		r.out.Warningf("dry run: headline not written")
		return r.result, nil
	}

	if err := SetFieldValue(field, change.After, r.settings.Timeouts.Click); err != nil {
		return r.result, err
	}
	if err := r.ClickSave(ctx); err != nil {
		return r.result, err
	}
	if err := r.page.Pause(ctx, r.settings.Delays.AfterSave); err != nil {
		return r.result, err
	}

	r.result.Saved = true
	r.out.Successf("Saved.")
	return r.result, nil
}

// find runs the named chain and records the winning XPath.
func (r *Runner) find(ctx context.Context, name string, state browser.ElementState, timeout time.Duration) (*browser.Match, error) {
	chain := r.chains[name]
	r.log.Debugf("looking up %s (%d candidates, %s, %s each)", name, len(chain.XPaths), state, timeout)

	match, err := chain.Find(ctx, r.page, state, timeout)
	if err != nil {
		r.log.Warnf("lookup of %s failed: %v", name, err)
		return nil, err
	}

	r.log.Debugf("%s matched candidate %d: %s", name, match.Index, match.XPath)
	r.out.Verbosef("%s matched candidate %d", name, match.Index+1)
	if r.result != nil {
		r.result.Locators[name] = match.XPath
	}
	return match, nil
}

func (r *Runner) click(name string, el browser.Element) error {
	usedScript, err := browser.ClickWithFallback(el, r.settings.Timeouts.Click)
	if err != nil {
		return fmt.Errorf("failed to click %s: %w", name, err)
	}
	if usedScript {
		r.log.Debugf("native click on %s failed, used script click", name)
	}
	return nil
}

type nopReporter struct{}

func (nopReporter) Step(string)                     {}
func (nopReporter) Infof(string, ...interface{})    {}
func (nopReporter) Successf(string, ...interface{}) {}
func (nopReporter) Warningf(string, ...interface{}) {}
func (nopReporter) Verbosef(string, ...interface{}) {}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}

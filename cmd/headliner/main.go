// Package main provides the headliner command, which toggles the trailing
// period of a Naukri resume headline so the profile registers as updated.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entrhq/headliner/pkg/browser"
	"github.com/entrhq/headliner/pkg/config"
	"github.com/entrhq/headliner/pkg/console"
	"github.com/entrhq/headliner/pkg/logging"
	"github.com/entrhq/headliner/pkg/portal"
	"github.com/entrhq/headliner/pkg/report"
	"github.com/entrhq/headliner/pkg/runlog"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile  string
	Email       string
	Password    string
	BinaryPath  string
	ProfileDir  string
	RunLog      string
	Headless    bool
	DryRun      bool
	Timeout     time.Duration
	Verbosity   string
	Artifacts   string
	SkipInstall bool
	ShowVersion bool

	// set records which flags were given explicitly.
	set map[string]bool
}

// launcher starts and stops the browser. *browser.Manager implements it.
type launcher interface {
	Initialize(opts browser.InstallOptions) error
	Launch(opts browser.SessionOptions) (*browser.Session, error)
	Shutdown() error
}

var _ launcher = (*browser.Manager)(nil)

func main() {
	cli, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if cli.ShowVersion {
		fmt.Printf("Headliner v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, cli, browser.NewManager()); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags(args []string, output io.Writer) (*CLIConfig, error) {
	cli := &CLIConfig{set: make(map[string]bool)}

	fs := flag.NewFlagSet("headliner", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cli.ConfigFile, "config", "", "Path to configuration file (YAML)")
	fs.StringVar(&cli.Email, "email", "", "Naukri login email (or "+config.EnvEmail+")")
	fs.StringVar(&cli.Password, "password", "", "Naukri login password (or "+config.EnvPassword+")")
	fs.StringVar(&cli.BinaryPath, "binary", "", "Path to a Chrome/Chromium binary (or "+config.EnvBinary+")")
	fs.StringVar(&cli.ProfileDir, "profile-dir", "", "Persistent browser profile directory (default ~/.headliner/profile)")
	fs.StringVar(&cli.RunLog, "run-log", "", "Run counter file (default ~/.headliner/log.txt)")
	fs.BoolVar(&cli.Headless, "headless", false, "Run the browser without a window")
	fs.BoolVar(&cli.DryRun, "dry-run", false, "Compute the new headline without saving it")
	fs.DurationVar(&cli.Timeout, "timeout", 5*time.Minute, "Overall execution timeout")
	fs.StringVar(&cli.Verbosity, "verbosity", "", "Console output: quiet, normal, verbose or debug")
	fs.StringVar(&cli.Artifacts, "artifacts", "", "Write summary.json and summary.md to this directory")
	fs.BoolVar(&cli.SkipInstall, "skip-install", false, "Assume the Playwright driver and browser are installed")
	fs.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(output, "Headliner - keep a Naukri profile fresh by toggling the headline's trailing period\n\n")
		fmt.Fprintf(output, "Usage: headliner [options]\n\n")
		fmt.Fprintf(output, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nExamples:\n")
		fmt.Fprintf(output, "  # First run: log in through the persistent profile\n")
		fmt.Fprintf(output, "  headliner -email me@example.com -password secret\n\n")
		fmt.Fprintf(output, "  # Later runs reuse the saved session\n")
		fmt.Fprintf(output, "  headliner -headless\n\n")
		fmt.Fprintf(output, "  # See what would change\n")
		fmt.Fprintf(output, "  headliner -dry-run -verbosity verbose\n\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { cli.set[f.Name] = true })
	return cli, nil
}

// apply overrides cfg with the flags that were given.
func (cli *CLIConfig) apply(cfg *config.Config) {
	if cli.Email != "" {
		cfg.Credentials.Email = cli.Email
	}
	if cli.Password != "" {
		cfg.Credentials.Password = cli.Password
	}
	if cli.BinaryPath != "" {
		cfg.Browser.BinaryPath = cli.BinaryPath
	}
	if cli.ProfileDir != "" {
		cfg.Browser.ProfileDir = cli.ProfileDir
	}
	if cli.RunLog != "" {
		cfg.RunLog = cli.RunLog
	}
	if cli.Verbosity != "" {
		cfg.Logging.Verbosity = cli.Verbosity
	}
	if cli.Artifacts != "" {
		cfg.Artifacts.Enabled = true
		cfg.Artifacts.OutputDir = cli.Artifacts
	}
	if cli.set["headless"] {
		cfg.Browser.Headless = cli.Headless
	}
	if cli.set["dry-run"] {
		cfg.DryRun = cli.DryRun
	}
	if cli.set["skip-install"] {
		cfg.Browser.SkipInstall = cli.SkipInstall
	}
	if cli.set["timeout"] {
		cfg.Timeout = cli.Timeout
	}
}

// loadConfig resolves defaults, the config file, the environment and flags
// into a validated configuration.
func loadConfig(cli *CLIConfig, getenv func(string) string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cli.ConfigFile != "" {
		var err error
		if cfg, err = config.LoadFile(cli.ConfigFile); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv(getenv)
	cli.apply(cfg)

	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// run executes one headline update and reports its outcome.
func run(ctx context.Context, cli *CLIConfig, browsers launcher) error {
	cfg, err := loadConfig(cli, os.Getenv)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out := console.New(console.ParseLevel(cfg.Logging.Verbosity))
	out.Header(fmt.Sprintf("Headliner v%s", version))

	start := time.Now()
	entry, err := runlog.Record(cfg.RunLog, start)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	out.Infof("%s", entry)

	logger, logErr := logging.Open(cfg.Logging.Dir, "headliner")
	defer logger.Close()
	logger.SetLevel(logging.ParseLevel(cfg.Logging.Level))
	if logErr == nil {
		out.Verbosef("Debug log: %s", logger.LogPath())
	}
	logger.Infof("%s (session %s)", entry, logger.SessionID())

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	summary := report.NewSummary(entry.Number, start)
	result, runErr := execute(ctx, cfg, browsers, out, logger)
	if result != nil {
		summary.WasLoggedIn = result.WasLoggedIn
		summary.LoginPerformed = result.LoginPerformed
		summary.Before = result.Before
		summary.After = result.After
		summary.Saved = result.Saved
		summary.Locators = result.Locators
	}
	summary.Finish(time.Now(), cfg.DryRun, runErr)

	if runErr != nil {
		logger.Errorf("run failed: %v", runErr)
	} else {
		logger.Infof("run finished: %s", summary.Status)
	}

	out.Summary(summary)

	if cfg.Artifacts.Enabled {
		writer := report.NewWriter(cfg.Artifacts.OutputDir)
		if err := writer.WriteAll(summary); err != nil {
			out.Warningf("failed to write run summary: %v", err)
			logger.Warnf("failed to write run summary: %v", err)
		} else {
			out.Verbosef("Run summary written to %s", cfg.Artifacts.OutputDir)
		}
	}

	return runErr
}

// execute drives the browser through the portal workflow. The browser is
// always shut down before execute returns.
func execute(ctx context.Context, cfg *config.Config, manager launcher, out *console.Logger, logger *logging.Logger) (*portal.Result, error) {
	browserLog := logger.For("browser")

	if cfg.Browser.BinaryPath != "" {
		out.Infof("Using Chrome binary at %s", cfg.Browser.BinaryPath)
	}

	defer func() {
		if err := manager.Shutdown(); err != nil {
			out.Warningf("browser shutdown: %v", err)
			browserLog.Warnf("shutdown failed: %v", err)
		}
		browserLog.Debugf("browser shut down")
	}()

	out.Step("Starting browser...")
	install := browser.InstallOptions{
		Skip:         cfg.Browser.SkipInstall,
		SkipBrowsers: cfg.Browser.BinaryPath != "",
	}
	if err := manager.Initialize(install); err != nil {
		return nil, err
	}

	session, err := manager.Launch(sessionOptions(cfg))
	if err != nil {
		return nil, err
	}
	browserLog.Infof("launched browser with profile %s (headless=%t)", session.ProfileDir(), cfg.Browser.Headless)

	runner, err := portal.NewRunner(session, cfg.Portal,
		portal.WithCredentials(portal.Credentials{
			Email:    cfg.Credentials.Email,
			Password: cfg.Credentials.Password,
		}),
		portal.WithDryRun(cfg.DryRun),
		portal.WithReporter(out),
		portal.WithLogger(logger.For("portal")),
	)
	if err != nil {
		return nil, err
	}

	return runner.Run(ctx)
}

func sessionOptions(cfg *config.Config) browser.SessionOptions {
	return browser.SessionOptions{
		ProfileDir: cfg.Browser.ProfileDir,
		BinaryPath: cfg.Browser.BinaryPath,
		Headless:   cfg.Browser.Headless,
		Viewport: &browser.Viewport{
			Width:  cfg.Browser.Width,
			Height: cfg.Browser.Height,
		},
		Args:            cfg.Browser.Args,
		PageLoadTimeout: cfg.Browser.PageLoadTimeout,
	}
}

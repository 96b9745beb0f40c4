// Package config loads and validates the headliner configuration.
//
// Values are resolved in this order, later sources winning:
// built-in defaults, the YAML file, environment variables, command-line flags.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/headliner/pkg/console"
	"github.com/entrhq/headliner/pkg/portal"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvEmail    = "HEADLINER_EMAIL"
	EnvPassword = "HEADLINER_PASSWORD"
	EnvBinary   = "HEADLINER_BINARY"
)

// Config is the complete run configuration.
type Config struct {
	Portal      portal.Settings   `yaml:"portal"`
	Browser     BrowserConfig     `yaml:"browser"`
	Credentials CredentialsConfig `yaml:"credentials"`

	// RunLog is the append-only run counter file.
	RunLog string `yaml:"run_log"`

	Logging   LoggingConfig  `yaml:"logging"`
	Artifacts ArtifactConfig `yaml:"artifacts"`

	// DryRun computes the new headline without saving it.
	DryRun bool `yaml:"dry_run"`

	// Timeout bounds the whole run.
	Timeout time.Duration `yaml:"timeout"`
}

// BrowserConfig configures the automated browser.
type BrowserConfig struct {
	ProfileDir      string        `yaml:"profile_dir"`
	BinaryPath      string        `yaml:"binary_path"`
	Headless        bool          `yaml:"headless"`
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
	Args            []string      `yaml:"args"`
	PageLoadTimeout time.Duration `yaml:"page_load_timeout"`

	// SkipInstall assumes the Playwright driver and browser are present.
	SkipInstall bool `yaml:"skip_install"`
}

// CredentialsConfig holds the portal login.
type CredentialsConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls console output: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity"`

	// Dir holds the per-run debug log files. Empty means ~/.headliner/logs.
	Dir string `yaml:"dir"`

	// Level is the minimum file log level: debug, info, warn, error
	Level string `yaml:"level"`
}

// ArtifactConfig defines run summary output.
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled"`
	OutputDir string `yaml:"output_dir"`
}

// DefaultConfig returns a configuration suitable for most use cases
func DefaultConfig() *Config {
	return &Config{
		Portal: portal.DefaultSettings(),
		Browser: BrowserConfig{
			ProfileDir:      filepath.Join("~", ".headliner", "profile"),
			Width:           1920,
			Height:          1080,
			PageLoadTimeout: 60 * time.Second,
		},
		RunLog: filepath.Join("~", ".headliner", "log.txt"),
		Logging: LoggingConfig{
			Verbosity: "normal",
			Level:     "debug",
		},
		Artifacts: ArtifactConfig{
			OutputDir: filepath.Join("~", ".headliner", "artifacts"),
		},
		Timeout: 5 * time.Minute,
	}
}

// LoadFile reads a YAML file over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Keys absent from data keep their
// default values; lists present in data replace the default lists.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides credentials and the browser binary from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvEmail); v != "" {
		c.Credentials.Email = v
	}
	if v := getenv(EnvPassword); v != "" {
		c.Credentials.Password = v
	}
	if v := getenv(EnvBinary); v != "" {
		c.Browser.BinaryPath = v
	}
}

// ExpandPaths replaces a leading ~ in every path setting with the home directory.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{
		&c.Browser.ProfileDir,
		&c.Browser.BinaryPath,
		&c.RunLog,
		&c.Logging.Dir,
		&c.Artifacts.OutputDir,
	} {
		expanded, err := ExpandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// ExpandHome expands "~" and "~/..." against the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validateURL("profile_url", c.Portal.ProfileURL); err != nil {
		return err
	}
	if err := validateURL("login_url", c.Portal.LoginURL); err != nil {
		return err
	}

	if len(c.Portal.LoginURLPatterns) == 0 {
		return fmt.Errorf("at least one login URL pattern is required")
	}
	if len(c.Portal.LoggedInURLPatterns) == 0 {
		return fmt.Errorf("at least one logged-in URL pattern is required")
	}
	if err := portal.CompileGlobs(c.Portal.LoginURLPatterns); err != nil {
		return fmt.Errorf("invalid login URL pattern: %w", err)
	}
	if err := portal.CompileGlobs(c.Portal.LoggedInURLPatterns); err != nil {
		return fmt.Errorf("invalid logged-in URL pattern: %w", err)
	}

	if err := validateSelectors(c.Portal.Selectors); err != nil {
		return err
	}
	if err := validateDurations(c); err != nil {
		return err
	}

	if c.Browser.ProfileDir == "" {
		return fmt.Errorf("browser profile directory is required")
	}
	if c.Browser.Width <= 0 || c.Browser.Height <= 0 {
		return fmt.Errorf("browser window size must be positive, got %dx%d", c.Browser.Width, c.Browser.Height)
	}

	if (c.Credentials.Email == "") != (c.Credentials.Password == "") {
		return fmt.Errorf("email and password must be provided together")
	}

	if c.RunLog == "" {
		return fmt.Errorf("run log path is required")
	}

	if c.Artifacts.Enabled && c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifacts output directory is required when artifacts are enabled")
	}

	// Set default verbosity if not specified
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	if !contains(console.Verbosities, c.Logging.Verbosity) {
		return fmt.Errorf("invalid logging verbosity: %s (must be one of %s)", c.Logging.Verbosity, strings.Join(console.Verbosities, ", "))
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	if !contains([]string{"debug", "info", "warn", "error"}, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn', or 'error')", c.Logging.Level)
	}

	return nil
}

func validateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https, got %q", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s: missing host", name)
	}
	return nil
}

func validateSelectors(s portal.Selectors) error {
	chains := map[string][]string{
		"email":       s.Email,
		"password":    s.Password,
		"submit":      s.Submit,
		"edit_button": s.EditButton,
		"field":       s.Field,
		"save":        s.Save,
	}
	for name, xpaths := range chains {
		if len(xpaths) == 0 {
			return fmt.Errorf("selectors.%s must list at least one XPath", name)
		}
		for i, xp := range xpaths {
			if strings.TrimSpace(xp) == "" {
				return fmt.Errorf("selectors.%s[%d] is empty", name, i)
			}
		}
	}
	if strings.TrimSpace(s.EditorPanel) == "" {
		return fmt.Errorf("selectors.editor_panel is required")
	}
	return nil
}

func validateDurations(c *Config) error {
	t, d := c.Portal.Timeouts, c.Portal.Delays
	durations := map[string]time.Duration{
		"timeout":                   c.Timeout,
		"browser.page_load_timeout": c.Browser.PageLoadTimeout,
		"timeouts.login_field":      t.LoginField,
		"timeouts.login_redirect":   t.LoginRedirect,
		"timeouts.page_body":        t.PageBody,
		"timeouts.edit_button":      t.EditButton,
		"timeouts.editor_panel":     t.EditorPanel,
		"timeouts.field":            t.Field,
		"timeouts.save_button":      t.SaveButton,
		"timeouts.click":            t.Click,
		"delays.after_profile_load": d.AfterProfileLoad,
		"delays.after_login":        d.AfterLogin,
		"delays.after_editor_page":  d.AfterEditorPage,
		"delays.after_overlay":      d.AfterOverlay,
		"delays.after_editor_open":  d.AfterEditorOpen,
		"delays.after_save_click":   d.AfterSaveClick,
		"delays.after_save":         d.AfterSave,
	}
	for name, v := range durations {
		if v < 0 {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/headliner/pkg/portal"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, portal.DefaultProfileURL, cfg.Portal.ProfileURL)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
	assert.False(t, cfg.DryRun)
	assert.False(t, cfg.Artifacts.Enabled)
}

func TestParse_OverridesKeepDefaults(t *testing.T) {
	data := []byte(`
browser:
  headless: true
  profile_dir: /tmp/naukri-profile
credentials:
  email: me@example.com
  password: secret
portal:
  timeouts:
    save_button: 3s
  selectors:
    save:
      - "//button[@id='saveHeadline']"
logging:
  verbosity: verbose
dry_run: true
`)

	cfg, err := Parse(data)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "/tmp/naukri-profile", cfg.Browser.ProfileDir)
	assert.Equal(t, 1920, cfg.Browser.Width, "untouched keys keep defaults")
	assert.Equal(t, "me@example.com", cfg.Credentials.Email)
	assert.Equal(t, 3*time.Second, cfg.Portal.Timeouts.SaveButton)
	assert.Equal(t, 15*time.Second, cfg.Portal.Timeouts.Field)
	assert.Equal(t, []string{"//button[@id='saveHeadline']"}, cfg.Portal.Selectors.Save)
	assert.Equal(t, portal.DefaultSelectors().EditButton, cfg.Portal.Selectors.EditButton)
	assert.Equal(t, "verbose", cfg.Logging.Verbosity)
	assert.True(t, cfg.DryRun)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("browser: [unterminated"))
	assert.Error(t, err)

	_, err = Parse([]byte("timeout: not-a-duration"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headliner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run_log: /tmp/runs.txt\n"), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/runs.txt", cfg.RunLog)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "missing profile url", mutate: func(c *Config) { c.Portal.ProfileURL = "" }, wantErr: "profile_url is required"},
		{name: "bad scheme", mutate: func(c *Config) { c.Portal.LoginURL = "ftp://naukri.com/login" }, wantErr: "scheme"},
		{name: "missing host", mutate: func(c *Config) { c.Portal.ProfileURL = "https:///profile" }, wantErr: "missing host"},
		{name: "no login patterns", mutate: func(c *Config) { c.Portal.LoginURLPatterns = nil }, wantErr: "login URL pattern"},
		{name: "bad glob", mutate: func(c *Config) { c.Portal.LoggedInURLPatterns = []string{"[oops"} }, wantErr: "logged-in URL pattern"},
		{name: "empty chain", mutate: func(c *Config) { c.Portal.Selectors.Field = nil }, wantErr: "selectors.field"},
		{name: "blank xpath", mutate: func(c *Config) { c.Portal.Selectors.Save = []string{" "} }, wantErr: "selectors.save[0]"},
		{name: "no editor panel", mutate: func(c *Config) { c.Portal.Selectors.EditorPanel = "" }, wantErr: "editor_panel"},
		{name: "negative timeout", mutate: func(c *Config) { c.Portal.Timeouts.Click = -time.Second }, wantErr: "timeouts.click"},
		{name: "negative delay", mutate: func(c *Config) { c.Portal.Delays.AfterSave = -1 }, wantErr: "delays.after_save"},
		{name: "no profile dir", mutate: func(c *Config) { c.Browser.ProfileDir = "" }, wantErr: "profile directory"},
		{name: "zero width", mutate: func(c *Config) { c.Browser.Width = 0 }, wantErr: "window size"},
		{name: "email without password", mutate: func(c *Config) { c.Credentials.Email = "a@b.c" }, wantErr: "together"},
		{name: "password without email", mutate: func(c *Config) { c.Credentials.Password = "x" }, wantErr: "together"},
		{name: "no run log", mutate: func(c *Config) { c.RunLog = "" }, wantErr: "run log"},
		{name: "artifacts without dir", mutate: func(c *Config) { c.Artifacts = ArtifactConfig{Enabled: true} }, wantErr: "artifacts output"},
		{name: "bad verbosity", mutate: func(c *Config) { c.Logging.Verbosity = "loud" }, wantErr: "verbosity"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_FillsLoggingDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging = LoggingConfig{}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "normal", cfg.Logging.Verbosity)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvEmail:    "env@example.com",
		EnvPassword: "from-env",
	}

	cfg := DefaultConfig()
	cfg.Browser.BinaryPath = "/usr/bin/chromium"
	cfg.ApplyEnv(func(key string) string { return env[key] })

	assert.Equal(t, "env@example.com", cfg.Credentials.Email)
	assert.Equal(t, "from-env", cfg.Credentials.Password)
	assert.Equal(t, "/usr/bin/chromium", cfg.Browser.BinaryPath, "unset variables leave values alone")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{input: "~", want: home},
		{input: "~/.headliner/log.txt", want: filepath.Join(home, ".headliner", "log.txt")},
		{input: "/abs/path", want: "/abs/path"},
		{input: "relative/path", want: "relative/path"},
		{input: "~other/path", want: "~other/path"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ExpandHome(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_ExpandPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := DefaultConfig()
	require.NoError(t, cfg.ExpandPaths())

	assert.Equal(t, filepath.Join(home, ".headliner", "profile"), cfg.Browser.ProfileDir)
	assert.Equal(t, filepath.Join(home, ".headliner", "log.txt"), cfg.RunLog)
	assert.Equal(t, filepath.Join(home, ".headliner", "artifacts"), cfg.Artifacts.OutputDir)
	assert.Empty(t, cfg.Logging.Dir)
}

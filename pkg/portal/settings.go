package portal

import "time"

// Default portal URLs.
const (
	DefaultProfileURL = "https://www.naukri.com/mnjuser/profile"
	DefaultLoginURL   = "https://www.naukri.com/nlogin/login"
)

// Settings describes where the workflow goes and what it looks for.
type Settings struct {
	ProfileURL string `yaml:"profile_url"`
	LoginURL   string `yaml:"login_url"`

	// LoginURLPatterns are globs; a URL matching any of them is a login page.
	LoginURLPatterns []string `yaml:"login_url_patterns"`

	// LoggedInURLPatterns are globs that signal a completed login.
	LoggedInURLPatterns []string `yaml:"logged_in_url_patterns"`

	Selectors Selectors `yaml:"selectors"`
	Timeouts  Timeouts  `yaml:"timeouts"`
	Delays    Delays    `yaml:"delays"`
}

// Timeouts bound each wait. Chain timeouts apply per candidate XPath.
type Timeouts struct {
	LoginField    time.Duration `yaml:"login_field"`
	LoginRedirect time.Duration `yaml:"login_redirect"`
	PageBody      time.Duration `yaml:"page_body"`
	EditButton    time.Duration `yaml:"edit_button"`
	EditorPanel   time.Duration `yaml:"editor_panel"`
	Field         time.Duration `yaml:"field"`
	SaveButton    time.Duration `yaml:"save_button"`
	Click         time.Duration `yaml:"click"`
}

// Delays are fixed settle times after actions that trigger page scripts.
type Delays struct {
	AfterProfileLoad time.Duration `yaml:"after_profile_load"`
	AfterLogin       time.Duration `yaml:"after_login"`
	AfterEditorPage  time.Duration `yaml:"after_editor_page"`
	AfterOverlay     time.Duration `yaml:"after_overlay"`
	AfterEditorOpen  time.Duration `yaml:"after_editor_open"`
	AfterSaveClick   time.Duration `yaml:"after_save_click"`
	AfterSave        time.Duration `yaml:"after_save"`
}

// DefaultSettings returns the settings for the Naukri profile page.
func DefaultSettings() Settings {
	return Settings{
		ProfileURL:          DefaultProfileURL,
		LoginURL:            DefaultLoginURL,
		LoginURLPatterns:    []string{"*nlogin*"},
		LoggedInURLPatterns: []string{"*mnjuser*"},
		Selectors:           DefaultSelectors(),
		Timeouts: Timeouts{
			LoginField:    10 * time.Second,
			LoginRedirect: 20 * time.Second,
			PageBody:      30 * time.Second,
			EditButton:    15 * time.Second,
			EditorPanel:   20 * time.Second,
			Field:         15 * time.Second,
			SaveButton:    10 * time.Second,
			Click:         5 * time.Second,
		},
		Delays: Delays{
			AfterProfileLoad: 3 * time.Second,
			AfterLogin:       2 * time.Second,
			AfterEditorPage:  2 * time.Second,
			AfterOverlay:     300 * time.Millisecond,
			AfterEditorOpen:  500 * time.Millisecond,
			AfterSaveClick:   800 * time.Millisecond,
			AfterSave:        time.Second,
		},
	}
}

package portal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/headliner/pkg/browser/browsertest"
	"github.com/entrhq/headliner/pkg/console"
)

const loginRedirect = "https://www.naukri.com/nlogin/login?URL=https://www.naukri.com/mnjuser/profile"

type fixture struct {
	page     *browsertest.Page
	settings Settings
	edit     *browsertest.Element
	field    *browsertest.Element
	save     *browsertest.Element
}

// newFixture builds a logged-in profile page whose first candidate of every
// chain matches.
func newFixture(t *testing.T, headlineText string) *fixture {
	t.Helper()

	s := DefaultSettings()
	page := browsertest.NewPage()
	page.Add("//body", browsertest.NewElement("body"))
	page.Add(s.Selectors.EditorPanel, browsertest.NewElement("div"))

	f := &fixture{
		page:     page,
		settings: s,
		edit:     page.Add(s.Selectors.EditButton[0], browsertest.NewElement("span")),
		field:    page.Add(s.Selectors.Field[0], &browsertest.Element{Tag: "textarea", Val: headlineText}),
		save:     page.Add(s.Selectors.Save[0], browsertest.NewElement("button")),
	}
	return f
}

// loggedOut makes the profile URL bounce to the login page until the login
// form is submitted.
func (f *fixture) loggedOut() (email, password, submit *browsertest.Element) {
	sel := f.settings.Selectors
	f.page.Redirect(f.settings.ProfileURL, loginRedirect)

	email = f.page.Add(sel.Email[0], browsertest.NewElement("input"))
	password = f.page.Add(sel.Password[0], browsertest.NewElement("input"))
	submit = f.page.Add(sel.Submit[0], browsertest.NewElement("button"))
	submit.OnClick = func() {
		f.page.Redirect(f.settings.ProfileURL, "")
		f.page.SetURL("https://www.naukri.com/mnjuser/homepage")
	}
	return email, password, submit
}

func (f *fixture) runner(t *testing.T, opts ...Option) *Runner {
	t.Helper()
	r, err := NewRunner(f.page, f.settings, opts...)
	require.NoError(t, err)
	return r
}

func TestRun_AppendsPeriodAndSaves(t *testing.T) {
	f := newFixture(t, "Senior Go Engineer")

	result, err := f.runner(t).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.WasLoggedIn)
	assert.False(t, result.LoginPerformed)
	assert.Equal(t, "Senior Go Engineer", result.Before)
	assert.Equal(t, "Senior Go Engineer.", result.After)
	assert.True(t, result.Changed)
	assert.True(t, result.Saved)

	assert.Equal(t, []string{"Senior Go Engineer."}, f.field.Fills)
	assert.Equal(t, 1, f.edit.TotalClicks())
	assert.Equal(t, 1, f.save.TotalClicks())

	assert.Equal(t, f.settings.Selectors.EditButton[0], result.Locators[ChainEditButton])
	assert.Equal(t, f.settings.Selectors.Field[0], result.Locators[ChainField])
	assert.Equal(t, f.settings.Selectors.Save[0], result.Locators[ChainSave])

	assert.Equal(t, []string{DefaultProfileURL, DefaultProfileURL}, f.page.Visited())
}

func TestRun_RemovesPeriod(t *testing.T) {
	f := newFixture(t, "Senior Go Engineer.\n")

	result, err := f.runner(t).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer.", result.Before, "surrounding newlines are trimmed on read")
	assert.Equal(t, "Senior Go Engineer", result.After)
	assert.Equal(t, "Senior Go Engineer", f.field.Val)
}

func TestRun_ReportsProgress(t *testing.T) {
	f := newFixture(t, "Go")
	var buf bytes.Buffer

	_, err := f.runner(t, WithReporter(console.NewWithWriter(console.LevelNormal, &buf))).Run(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Opening Resume headline editor...")
	assert.Contains(t, out, "Updating headline from: 'Go' -> 'Go.'")
	assert.Contains(t, out, "Saved.")
}

func TestRun_NotLoggedInWithoutCredentials(t *testing.T) {
	f := newFixture(t, "Go")
	f.page.Redirect(f.settings.ProfileURL, loginRedirect)

	result, err := f.runner(t, WithCredentials(Credentials{Email: "me@example.com"})).Run(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.False(t, result.WasLoggedIn)
	assert.Equal(t, []string{DefaultProfileURL}, f.page.Visited())
	assert.Empty(t, f.field.Fills)
}

func TestRun_LogsInWhenLoggedOut(t *testing.T) {
	f := newFixture(t, "Go developer")
	email, password, submit := f.loggedOut()

	creds := Credentials{Email: "me@example.com", Password: "hunter2"}
	result, err := f.runner(t, WithCredentials(creds)).Run(context.Background())
	require.NoError(t, err)

	assert.False(t, result.WasLoggedIn)
	assert.True(t, result.LoginPerformed)
	assert.True(t, result.Saved)

	assert.Equal(t, []string{"me@example.com"}, email.Fills)
	assert.Equal(t, []string{"hunter2"}, password.Fills)
	assert.Equal(t, 1, submit.TotalClicks())
	assert.Equal(t, []string{DefaultProfileURL, DefaultLoginURL, DefaultProfileURL}, f.page.Visited())
	assert.Equal(t, f.settings.Selectors.Submit[0], result.Locators[ChainSubmit])
}

func TestRun_LoginSubmitInterceptedUsesScriptClick(t *testing.T) {
	f := newFixture(t, "Go")
	_, _, submit := f.loggedOut()
	submit.ClickErr = errors.New("element click intercepted")

	_, err := f.runner(t, WithCredentials(Credentials{Email: "a", Password: "b"})).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, submit.JSClicks)
}

func TestRun_LoginFieldsMissing(t *testing.T) {
	f := newFixture(t, "Go")
	f.loggedOut()
	f.page.Remove(f.settings.Selectors.Password[0])

	_, err := f.runner(t, WithCredentials(Credentials{Email: "a", Password: "b"})).Run(context.Background())
	assert.ErrorIs(t, err, ErrLoginFields)
}

func TestRun_LoginNotConfirmed(t *testing.T) {
	f := newFixture(t, "Go")
	_, _, submit := f.loggedOut()
	submit.OnClick = nil // stays on the login page, e.g. OTP prompt

	result, err := f.runner(t, WithCredentials(Credentials{Email: "a", Password: "b"})).Run(context.Background())
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.False(t, result.LoginPerformed)
}

func TestRun_EditButtonFallback(t *testing.T) {
	f := newFixture(t, "Go")
	sel := f.settings.Selectors
	f.page.Remove(sel.EditButton[0])
	f.page.Add(sel.EditButton[1], &browsertest.Element{Tag: "span", Disabled: true})
	f.settings.Timeouts.EditButton = 50 * time.Millisecond
	third := f.page.Add(sel.EditButton[2], browsertest.NewElement("a"))

	result, err := f.runner(t).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sel.EditButton[2], result.Locators[ChainEditButton])
	assert.Equal(t, 1, third.TotalClicks())
}

func TestRun_EditButtonMissing(t *testing.T) {
	f := newFixture(t, "Go")
	f.page.Remove(f.settings.Selectors.EditButton[0])

	_, err := f.runner(t).Run(context.Background())
	assert.ErrorIs(t, err, ErrEditorNotFound)
	assert.Contains(t, err.Error(), "edit button")
}

func TestRun_EditorPanelNeverOpens(t *testing.T) {
	f := newFixture(t, "Go")
	f.page.Remove(f.settings.Selectors.EditorPanel)

	_, err := f.runner(t).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "headline editor did not open")
}

func TestRun_FieldMissing(t *testing.T) {
	f := newFixture(t, "Go")
	f.page.Remove(f.settings.Selectors.Field[0])

	_, err := f.runner(t).Run(context.Background())
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestRun_SaveMissing(t *testing.T) {
	f := newFixture(t, "Go")
	f.page.Remove(f.settings.Selectors.Save[0])

	result, err := f.runner(t).Run(context.Background())
	assert.ErrorIs(t, err, ErrSaveNotFound)
	assert.False(t, result.Saved)
	assert.Equal(t, "Go.", result.After)
}

func TestRun_DryRun(t *testing.T) {
	f := newFixture(t, "Go")

	result, err := f.runner(t, WithDryRun(true)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Go.", result.After)
	assert.False(t, result.Saved)
	assert.Empty(t, f.field.Fills)
	assert.Equal(t, 0, f.save.TotalClicks())
}

func TestRun_ContentEditableField(t *testing.T) {
	f := newFixture(t, "")
	sel := f.settings.Selectors
	f.page.Remove(sel.Field[0])
	div := f.page.Add(sel.Field[2], &browsertest.Element{Tag: "div", InnerTxt: "\nCloud engineer.\n"})

	result, err := f.runner(t).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Cloud engineer.", result.Before)
	assert.Equal(t, "Cloud engineer", div.InnerTxt)
	assert.Empty(t, div.Fills)
}

func TestRun_OffSiteRedirectIsLoggedOut(t *testing.T) {
	f := newFixture(t, "Go")
	f.page.Redirect(f.settings.ProfileURL, "https://accounts.example.org/sso")

	result, err := f.runner(t).Run(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.False(t, result.WasLoggedIn)
}

func TestRun_CancelledContext(t *testing.T) {
	f := newFixture(t, "Go")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.runner(t).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.field.Fills)
}

func TestCloseOverlays(t *testing.T) {
	f := newFixture(t, "Go")
	sel := f.settings.Selectors

	visible := browsertest.NewElement("div")
	hidden := &browsertest.Element{Tag: "div", Hidden: true}
	intercepted := &browsertest.Element{Tag: "button", ClickErr: errors.New("intercepted")}
	f.page.Lists[sel.Overlays[0]] = []*browsertest.Element{visible, hidden}
	f.page.Lists[sel.Overlays[2]] = []*browsertest.Element{intercepted}

	f.runner(t).CloseOverlays(context.Background())

	assert.Equal(t, 1, visible.Clicks)
	assert.Equal(t, 0, hidden.TotalClicks())
	assert.Equal(t, 1, intercepted.JSClicks)
	assert.Equal(t, f.settings.Delays.AfterOverlay, f.page.Paused)
}

func TestReadFieldValue(t *testing.T) {
	tests := []struct {
		name string
		el   *browsertest.Element
		want string
	}{
		{name: "textarea value", el: &browsertest.Element{Tag: "textarea", Val: "\n a \n"}, want: " a "},
		{name: "input value", el: &browsertest.Element{Tag: "input", Val: "x.", InnerTxt: "ignored"}, want: "x."},
		{name: "div text", el: &browsertest.Element{Tag: "div", Val: "ignored", InnerTxt: "\n\nhello\n"}, want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFieldValue(tt.el)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetFieldValue_FillFailure(t *testing.T) {
	el := &browsertest.Element{Tag: "textarea", FillErr: errors.New("not editable")}
	err := SetFieldValue(el, "x", 0)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "not editable"))
}

func TestNewRunner_InvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.LoginURLPatterns = []string{"[broken"}
	_, err := NewRunner(browsertest.NewPage(), s)
	assert.Error(t, err)
}

func TestCredentials_Complete(t *testing.T) {
	assert.True(t, Credentials{Email: "a", Password: "b"}.Complete())
	assert.False(t, Credentials{Email: "a"}.Complete())
	assert.False(t, Credentials{}.Complete())
}

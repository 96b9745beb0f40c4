package portal

import "errors"

var (
	// ErrNotLoggedIn is returned when the profile is logged out and no credentials were supplied.
	ErrNotLoggedIn = errors.New("not logged in and no email/password provided")

	// ErrLoginFields is returned when the login form cannot be located.
	ErrLoginFields = errors.New("could not locate login fields; login may require manual action")

	// ErrLoginFailed is returned when the login form was submitted but the profile never loaded.
	ErrLoginFailed = errors.New("login failed or OTP required; manual intervention needed")

	// ErrEditorNotFound is returned when no resume headline edit control is found.
	ErrEditorNotFound = errors.New("could not locate resume headline edit button")

	// ErrFieldNotFound is returned when the headline input cannot be found.
	ErrFieldNotFound = errors.New("could not find headline input field")

	// ErrSaveNotFound is returned when no save control is found.
	ErrSaveNotFound = errors.New("save button not found")
)

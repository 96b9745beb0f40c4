// Package browser drives a Chromium instance through Playwright.
//
// The package is built around three pieces:
//
//  1. Manager: owns the Playwright driver and launches a persistent-profile
//     browser, so cookies and logins survive between runs.
//  2. Session: the single page of that browser, exposed through the Page
//     interface together with Element for the handles it returns.
//  3. Chain: an ordered list of XPath locators tried one after another until
//     one resolves to a usable element.
//
// Everything above this package talks to Page and Element only, which keeps
// the workflow code testable with the fakes in browsertest.
//
// # Example Usage
//
//	manager := browser.NewManager()
//	if err := manager.Initialize(browser.InstallOptions{}); err != nil {
//	    return err
//	}
//	defer manager.Shutdown()
//
//	session, err := manager.Launch(browser.SessionOptions{ProfileDir: dir})
//	if err != nil {
//	    return err
//	}
//
//	save := browser.Chain{Name: "save", XPaths: []string{"//button[.='Save']"}}
//	match, err := save.Find(ctx, session, browser.StateClickable, 10*time.Second)
package browser

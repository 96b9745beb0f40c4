package portal

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/net/publicsuffix"
)

// URLMatcher classifies page URLs for login detection.
type URLMatcher struct {
	login    []glob.Glob
	loggedIn []glob.Glob
	site     string
}

// NewURLMatcher compiles the glob patterns. profileURL determines the site
// (registrable domain) the session is expected to stay on.
func NewURLMatcher(profileURL string, loginPatterns, loggedInPatterns []string) (*URLMatcher, error) {
	site, err := registrableDomain(profileURL)
	if err != nil {
		return nil, fmt.Errorf("invalid profile URL: %w", err)
	}

	login, err := compileGlobs(loginPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid login URL pattern: %w", err)
	}

	loggedIn, err := compileGlobs(loggedInPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid logged-in URL pattern: %w", err)
	}

	return &URLMatcher{login: login, loggedIn: loggedIn, site: site}, nil
}

// CompileGlobs checks that every pattern is a valid glob.
func CompileGlobs(patterns []string) error {
	_, err := compileGlobs(patterns)
	return err
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("'%s': %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// IsLoginPage reports whether rawURL matches a login pattern.
func (m *URLMatcher) IsLoginPage(rawURL string) bool {
	return matchAny(m.login, rawURL)
}

// IsLoggedInPage reports whether rawURL matches a logged-in pattern. Login
// pages never qualify, even when they carry a logged-in URL as a return
// parameter.
func (m *URLMatcher) IsLoggedInPage(rawURL string) bool {
	return matchAny(m.loggedIn, rawURL) && !m.IsLoginPage(rawURL)
}

// OnSite reports whether rawURL belongs to the same registrable domain as
// the profile URL, so www.example.com and login.example.com both count.
func (m *URLMatcher) OnSite(rawURL string) bool {
	site, err := registrableDomain(rawURL)
	if err != nil {
		return false
	}
	return site == m.site
}

// LoggedIn reports whether landing on rawURL after opening the profile
// means the session is authenticated.
func (m *URLMatcher) LoggedIn(rawURL string) bool {
	return m.OnSite(rawURL) && !m.IsLoginPage(rawURL)
}

func matchAny(globs []glob.Glob, s string) bool {
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}

// registrableDomain returns the eTLD+1 of rawURL's host. Hosts without a
// public suffix (localhost, IP addresses) are returned as-is.
func registrableDomain(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("URL %q has no host", rawURL)
	}
	if net.ParseIP(host) != nil {
		return host, nil
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host, nil
	}
	return domain, nil
}

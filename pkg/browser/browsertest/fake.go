// Package browsertest provides in-memory fakes of browser.Page and
// browser.Element for tests that must not start a real browser.
package browsertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/headliner/pkg/browser"
)

// Element is a scripted browser.Element.
type Element struct {
	mu sync.Mutex

	Tag      string
	Hidden   bool
	Disabled bool
	Val      string
	InnerTxt string

	ClickErr   error
	JSClickErr error
	FillErr    error

	// OnClick runs after every successful native or script click.
	OnClick func()

	Clicks   int
	JSClicks int
	Fills    []string
}

var _ browser.Element = (*Element)(nil)

// NewElement returns a visible, enabled element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

func (e *Element) IsVisible() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.Hidden, nil
}

func (e *Element) IsEnabled() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.Disabled, nil
}

func (e *Element) Click(time.Duration) error {
	e.mu.Lock()
	if e.ClickErr != nil {
		e.mu.Unlock()
		return e.ClickErr
	}
	e.Clicks++
	onClick := e.OnClick
	e.mu.Unlock()

	if onClick != nil {
		onClick()
	}
	return nil
}

func (e *Element) JSClick() error {
	e.mu.Lock()
	if e.JSClickErr != nil {
		e.mu.Unlock()
		return e.JSClickErr
	}
	e.JSClicks++
	onClick := e.OnClick
	e.mu.Unlock()

	if onClick != nil {
		onClick()
	}
	return nil
}

func (e *Element) TagName() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Tag, nil
}

func (e *Element) Value() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Val, nil
}

func (e *Element) Text() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.InnerTxt, nil
}

func (e *Element) Fill(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FillErr != nil {
		return e.FillErr
	}
	e.Val = value
	e.Fills = append(e.Fills, value)
	return nil
}

func (e *Element) SetText(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.InnerTxt = value
	return nil
}

// SetDisabled changes the enabled state, e.g. from a timer.
func (e *Element) SetDisabled(disabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Disabled = disabled
}

// TotalClicks counts native and script clicks.
func (e *Element) TotalClicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Clicks + e.JSClicks
}

// Page is a scripted browser.Page. Elements are keyed by XPath.
type Page struct {
	mu sync.Mutex

	CurrentURL string

	// Elements answers WaitForXPath.
	Elements map[string]*Element

	// Lists answers QueryXPath.
	Lists map[string][]*Element

	// Redirects maps a visited URL to the URL the page ends up on.
	Redirects map[string]string

	// GotoErr fails every navigation when set.
	GotoErr error

	Visits []string
	Waits  []string
	Paused time.Duration
}

var _ browser.Page = (*Page)(nil)

// NewPage returns an empty page at about:blank.
func NewPage() *Page {
	return &Page{
		CurrentURL: "about:blank",
		Elements:   make(map[string]*Element),
		Lists:      make(map[string][]*Element),
		Redirects:  make(map[string]string),
	}
}

// Add registers el under xpath and returns it.
func (p *Page) Add(xpath string, el *Element) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Elements[xpath] = el
	return el
}

// Redirect makes navigation to from land on to. An empty to removes the redirect.
func (p *Page) Redirect(from, to string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if to == "" {
		delete(p.Redirects, from)
		return
	}
	p.Redirects[from] = to
}

// Remove unregisters the element at xpath.
func (p *Page) Remove(xpath string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.Elements, xpath)
}

// SetURL changes the current URL, e.g. from an OnClick hook.
func (p *Page) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CurrentURL = url
}

func (p *Page) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.Visits = append(p.Visits, url)
	if p.GotoErr != nil {
		return p.GotoErr
	}
	if target, ok := p.Redirects[url]; ok {
		p.CurrentURL = target
		return nil
	}
	p.CurrentURL = url
	return nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.CurrentURL
}

func (p *Page) WaitForXPath(ctx context.Context, xpath string, opts browser.WaitOptions) (browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.Waits = append(p.Waits, xpath)
	el, ok := p.Elements[xpath]
	p.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("timeout %s exceeded waiting for %s", opts.Timeout, xpath)
	}
	if opts.State == browser.WaitVisible {
		if visible, _ := el.IsVisible(); !visible {
			return nil, fmt.Errorf("timeout %s exceeded waiting for %s to be visible", opts.Timeout, xpath)
		}
	}
	return el, nil
}

func (p *Page) QueryXPath(xpath string) ([]browser.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	list := p.Lists[xpath]
	elements := make([]browser.Element, 0, len(list))
	for _, el := range list {
		elements = append(elements, el)
	}
	return elements, nil
}

func (p *Page) WaitForURL(ctx context.Context, match func(string) bool, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if url := p.URL(); !match(url) {
		return fmt.Errorf("timed out after %s waiting for URL (last: %s)", timeout, url)
	}
	return nil
}

func (p *Page) Pause(ctx context.Context, d time.Duration) error {
	p.mu.Lock()
	p.Paused += d
	p.mu.Unlock()
	return ctx.Err()
}

// Visited returns a copy of the navigation history.
func (p *Page) Visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.Visits...)
}

package htmldoc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/themizzi/shopcheck/internal/browser"
)

// Document is the last page loaded in a tab. Fills mutate the parsed tree in
// place, so a later form submission sends what was typed.
type Document struct {
	c *Context

	mu    sync.Mutex
	url   *url.URL
	doc   *goquery.Document
	focus *goquery.Selection
}

func (d *Document) Goto(ctx context.Context, raw string) error {
	u, err := browser.CheckURL(raw)
	if err != nil {
		return err
	}
	return d.load(ctx, http.MethodGet, u, nil)
}

func (d *Document) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.url == nil {
		return "about:blank"
	}
	return d.url.String()
}

func (d *Document) Locator(selector string) browser.Locator {
	return &Locator{d: d, chain: browser.Chain{{Kind: browser.StepCSS, Selector: selector}}}
}

func (d *Document) ByRole(role string, opts browser.RoleOptions) browser.Locator {
	return &Locator{d: d, chain: browser.Chain{{Kind: browser.StepRole, Role: role, Name: opts.Name, Exact: opts.Exact}}}
}

func (d *Document) ByPlaceholder(text string) browser.Locator {
	return &Locator{d: d, chain: browser.Chain{{Kind: browser.StepPlaceholder, Name: text}}}
}

// Press sends key to the focused element. Enter in a form field submits the form.
func (d *Document) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return browser.Fail("press", key, err)
	}
	d.mu.Lock()
	focus := d.focus
	d.mu.Unlock()
	if focus == nil {
		return nil
	}
	return d.pressOn(ctx, focus, key, "keyboard")
}

func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc = nil
	d.focus = nil
	return nil
}

// load fetches u and replaces the current document. HTTP error statuses are
// rendered like any other page, as a browser would.
func (d *Document) load(ctx context.Context, method string, u *url.URL, form url.Values) error {
	ctx, cancel := browser.Bound(ctx, d.c.timeout)
	defer cancel()

	var body io.Reader = http.NoBody
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return browser.Fail("goto", u.String(), fmt.Errorf("%w: %w", browser.ErrNavigation, err))
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := d.c.client.Do(req)
	if err != nil {
		return browser.Fail("goto", u.String(), fmt.Errorf("%w: %w", browser.ErrNavigation, err))
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return browser.Fail("goto", u.String(), fmt.Errorf("%w: %w", browser.ErrNavigation, err))
	}

	final := *resp.Request.URL
	if final.Path == "" {
		final.Path = "/"
	}

	d.mu.Lock()
	d.doc = doc
	d.url = &final
	d.focus = nil
	d.mu.Unlock()
	return nil
}

// resolve applies the chain to the current document.
func (d *Document) resolve(chain browser.Chain) (*goquery.Selection, error) {
	d.mu.Lock()
	doc := d.doc
	d.mu.Unlock()

	if doc == nil {
		return &goquery.Selection{}, nil
	}

	root := doc.Selection
	sel := root
	for _, step := range chain {
		switch step.Kind {
		case browser.StepCSS:
			if _, err := cascadia.Compile(step.Selector); err != nil {
				return nil, fmt.Errorf("%w: invalid selector %q: %v", browser.ErrActionRejected, step.Selector, err)
			}
			sel = sel.Find(step.Selector)
		case browser.StepRole:
			sel = sel.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
				if implicitRole(s) != step.Role {
					return false
				}
				return step.Name == "" || browser.MatchName(accessibleName(root, s), step.Name, step.Exact)
			})
		case browser.StepPlaceholder:
			sel = sel.Find("input[placeholder], textarea[placeholder]").FilterFunction(func(_ int, s *goquery.Selection) bool {
				placeholder, _ := s.Attr("placeholder")
				return browser.MatchName(placeholder, step.Name, step.Exact)
			})
		case browser.StepNth:
			i, ok := browser.PickIndex(step.Index, sel.Length())
			if !ok {
				return &goquery.Selection{}, nil
			}
			sel = sel.Eq(i)
		}
	}
	return sel, nil
}

// resolveOne applies strict mode: exactly one element must match. A static
// document never changes on its own, so there is nothing to wait for.
func (d *Document) resolveOne(action string, chain browser.Chain) (*goquery.Selection, error) {
	sel, err := d.resolve(chain)
	if err != nil {
		return nil, browser.Fail(action, chain.String(), err)
	}
	switch n := sel.Length(); {
	case n == 0:
		return nil, browser.NotFound(action, chain.String(), nil)
	case n > 1:
		return nil, browser.Rejected(action, chain.String(),
			fmt.Sprintf("strict mode violation: locator resolved to %d elements", n))
	}
	return sel, nil
}

func (d *Document) root() *goquery.Selection {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return &goquery.Selection{}
	}
	return d.doc.Selection
}

func (d *Document) setFocus(s *goquery.Selection) {
	d.mu.Lock()
	d.focus = s
	d.mu.Unlock()
}

func (d *Document) resolveURL(ref string) (*url.URL, error) {
	d.mu.Lock()
	base := d.url
	d.mu.Unlock()

	target, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, err
	}
	if base == nil {
		return target, nil
	}
	return base.ResolveReference(target), nil
}

func (d *Document) pressOn(ctx context.Context, s *goquery.Selection, key, target string) error {
	if key != "Enter" {
		return nil
	}
	if goquery.NodeName(s) != "input" || !editable(s) {
		return nil
	}
	form := formOf(d.root(), s)
	if form == nil {
		return nil
	}

	// Implicit submission goes through the form's default button when it has one.
	var submitter *goquery.Selection
	form.Find("button, input").EachWithBreak(func(_ int, c *goquery.Selection) bool {
		if isSubmitControl(c) {
			submitter = c
			return false
		}
		return true
	})
	if submitter != nil && disabled(submitter) {
		return nil
	}
	if err := d.submit(ctx, form, submitter); err != nil {
		return browser.Fail("press", target, err)
	}
	return nil
}

// submit sends the form's successful controls.
func (d *Document) submit(ctx context.Context, form, submitter *goquery.Selection) error {
	action, _ := form.Attr("action")
	if submitter != nil {
		if override, ok := submitter.Attr("formaction"); ok {
			action = override
		}
	}
	target, err := d.resolveURL(action)
	if err != nil {
		return fmt.Errorf("%w: bad form action %q: %w", browser.ErrNavigation, action, err)
	}

	method, _ := form.Attr("method")
	method = strings.ToUpper(strings.TrimSpace(method))
	if method != http.MethodPost {
		method = http.MethodGet
	}

	values := url.Values{}
	form.Find("input, textarea, select").Each(func(_ int, c *goquery.Selection) {
		name, _ := c.Attr("name")
		if name == "" || disabled(c) {
			return
		}
		switch goquery.NodeName(c) {
		case "textarea":
			values.Add(name, c.Text())
		case "select":
			opt := c.Find("option[selected]").First()
			if opt.Length() == 0 {
				opt = c.Find("option").First()
			}
			if v, ok := opt.Attr("value"); ok {
				values.Add(name, v)
			} else {
				values.Add(name, innerText(opt))
			}
		default:
			switch inputType(c) {
			case "submit", "button", "reset", "image", "file":
				return
			case "checkbox", "radio":
				if _, checked := c.Attr("checked"); !checked {
					return
				}
				v, ok := c.Attr("value")
				if !ok {
					v = "on"
				}
				values.Add(name, v)
			default:
				v, _ := c.Attr("value")
				values.Add(name, v)
			}
		}
	})
	if submitter != nil {
		if name, ok := submitter.Attr("name"); ok && name != "" {
			v, _ := submitter.Attr("value")
			values.Add(name, v)
		}
	}

	if method == http.MethodGet {
		target.RawQuery = values.Encode()
		return d.load(ctx, method, target, nil)
	}
	return d.load(ctx, method, target, values)
}

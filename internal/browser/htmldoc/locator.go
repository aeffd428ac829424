package htmldoc

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/themizzi/shopcheck/internal/browser"
)

// Locator is a selector chain bound to a Document.
type Locator struct {
	d     *Document
	chain browser.Chain
}

func (l *Locator) Locator(selector string) browser.Locator {
	return &Locator{d: l.d, chain: l.chain.With(browser.Step{Kind: browser.StepCSS, Selector: selector})}
}

func (l *Locator) Nth(index int) browser.Locator {
	return &Locator{d: l.d, chain: l.chain.With(browser.Step{Kind: browser.StepNth, Index: index})}
}

func (l *Locator) First() browser.Locator {
	return l.Nth(0)
}

func (l *Locator) String() string {
	return l.chain.String()
}

func (l *Locator) All(ctx context.Context) ([]browser.Locator, error) {
	n, err := l.Count(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]browser.Locator, n)
	for i := range out {
		out[i] = l.Nth(i)
	}
	return out, nil
}

func (l *Locator) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, browser.Fail("count", l.String(), err)
	}
	sel, err := l.d.resolve(l.chain)
	if err != nil {
		return 0, browser.Fail("count", l.String(), err)
	}
	return sel.Length(), nil
}

func (l *Locator) AllInnerTexts(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, browser.Fail("all inner texts", l.String(), err)
	}
	sel, err := l.d.resolve(l.chain)
	if err != nil {
		return nil, browser.Fail("all inner texts", l.String(), err)
	}
	texts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, innerText(s))
	})
	return texts, nil
}

func (l *Locator) InnerText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", browser.Fail("inner text", l.String(), err)
	}
	s, err := l.d.resolveOne("inner text", l.chain)
	if err != nil {
		return "", err
	}
	return innerText(s), nil
}

func (l *Locator) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return browser.Fail("fill", l.String(), err)
	}
	s, err := l.d.resolveOne("fill", l.chain)
	if err != nil {
		return err
	}

	switch {
	case !visible(s):
		return browser.Rejected("fill", l.String(), "element is not visible")
	case !editable(s):
		return browser.Rejected("fill", l.String(), fmt.Sprintf("<%s> is not an editable element", goquery.NodeName(s)))
	case disabled(s):
		return browser.Rejected("fill", l.String(), "element is disabled")
	}
	if _, ok := s.Attr("readonly"); ok {
		return browser.Rejected("fill", l.String(), "element is readonly")
	}

	if goquery.NodeName(s) == "input" {
		s.SetAttr("value", value)
	} else {
		s.SetText(value)
	}
	l.d.setFocus(s)
	return nil
}

func (l *Locator) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return browser.Fail("click", l.String(), err)
	}
	s, err := l.d.resolveOne("click", l.chain)
	if err != nil {
		return err
	}
	if !visible(s) {
		return browser.Rejected("click", l.String(), "element is not visible")
	}
	if disabled(s) {
		return browser.Rejected("click", l.String(), "element is disabled")
	}
	l.d.setFocus(s)

	switch {
	case goquery.NodeName(s) == "a":
		href, ok := s.Attr("href")
		if !ok || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return nil
		}
		target, err := l.d.resolveURL(href)
		if err != nil {
			return browser.Fail("click", l.String(), fmt.Errorf("%w: %w", browser.ErrNavigation, err))
		}
		if err := l.d.load(ctx, "GET", target, nil); err != nil {
			return browser.Fail("click", l.String(), err)
		}
	case isSubmitControl(s):
		form := formOf(l.d.root(), s)
		if form == nil {
			return nil
		}
		if err := l.d.submit(ctx, form, s); err != nil {
			return browser.Fail("click", l.String(), err)
		}
	case goquery.NodeName(s) == "input" && inputType(s) == "checkbox":
		if _, checked := s.Attr("checked"); checked {
			s.RemoveAttr("checked")
		} else {
			s.SetAttr("checked", "checked")
		}
	case goquery.NodeName(s) == "input" && inputType(s) == "radio":
		if name, ok := s.Attr("name"); ok {
			if form := formOf(l.d.root(), s); form != nil {
				form.Find(`input[type="radio"][name="` + name + `"]`).RemoveAttr("checked")
			}
		}
		s.SetAttr("checked", "checked")
	}
	return nil
}

func (l *Locator) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return browser.Fail("press", l.String(), err)
	}
	s, err := l.d.resolveOne("press", l.chain)
	if err != nil {
		return err
	}
	l.d.setFocus(s)
	return l.d.pressOn(ctx, s, key, l.String())
}

func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, browser.Fail("is visible", l.String(), err)
	}
	sel, err := l.d.resolve(l.chain)
	if err != nil {
		return false, browser.Fail("is visible", l.String(), err)
	}
	switch n := sel.Length(); {
	case n == 0:
		return false, nil
	case n > 1:
		return false, browser.Rejected("is visible", l.String(),
			fmt.Sprintf("strict mode violation: locator resolved to %d elements", n))
	}
	return visible(sel), nil
}

func (l *Locator) WaitVisible(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return browser.Fail("wait visible", l.String(), err)
	}
	sel, err := l.d.resolve(l.chain)
	if err != nil {
		return browser.Fail("wait visible", l.String(), err)
	}
	switch n := sel.Length(); {
	case n == 0:
		return browser.NotFound("wait visible", l.String(), nil)
	case n > 1:
		return browser.Rejected("wait visible", l.String(),
			fmt.Sprintf("strict mode violation: locator resolved to %d elements", n))
	}
	if !visible(sel) {
		return browser.Fail("wait visible", l.String(), fmt.Errorf("%w: element is hidden", browser.ErrTimeout))
	}
	return nil
}

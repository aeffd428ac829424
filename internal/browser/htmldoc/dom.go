package htmldoc

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/themizzi/shopcheck/internal/browser"
)

var headingTags = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}

// implicitRole returns the ARIA role of an element, explicit or implied by its tag.
func implicitRole(s *goquery.Selection) string {
	if role, ok := s.Attr("role"); ok && strings.TrimSpace(role) != "" {
		return strings.Fields(role)[0]
	}

	tag := goquery.NodeName(s)
	switch {
	case tag == "a" || tag == "area":
		if _, ok := s.Attr("href"); ok {
			return "link"
		}
	case tag == "button":
		return "button"
	case tag == "input":
		switch inputType(s) {
		case "text", "email", "tel", "url":
			return "textbox"
		case "search":
			return "searchbox"
		case "submit", "button", "reset", "image":
			return "button"
		case "checkbox":
			return "checkbox"
		case "radio":
			return "radio"
		}
	case tag == "textarea":
		return "textbox"
	case tag == "select":
		return "combobox"
	case headingTags[tag]:
		return "heading"
	case tag == "table":
		return "table"
	case tag == "tr":
		return "row"
	case tag == "td":
		return "cell"
	case tag == "th":
		return "columnheader"
	case tag == "ul" || tag == "ol":
		return "list"
	case tag == "li":
		return "listitem"
	case tag == "img":
		return "img"
	case tag == "nav":
		return "navigation"
	case tag == "form":
		return "form"
	}
	return ""
}

func inputType(s *goquery.Selection) string {
	t, _ := s.Attr("type")
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return "text"
	}
	return t
}

// accessibleName approximates the accessible name computation for the
// elements page objects look up by role.
func accessibleName(root *goquery.Selection, s *goquery.Selection) string {
	if v, ok := s.Attr("aria-label"); ok && strings.TrimSpace(v) != "" {
		return v
	}
	if ids, ok := s.Attr("aria-labelledby"); ok {
		var parts []string
		for _, id := range strings.Fields(ids) {
			parts = append(parts, innerText(root.Find("#"+id)))
		}
		if name := strings.Join(parts, " "); strings.TrimSpace(name) != "" {
			return name
		}
	}

	tag := goquery.NodeName(s)
	switch tag {
	case "input", "textarea", "select":
		switch inputType(s) {
		case "submit", "button", "reset":
			if v, ok := s.Attr("value"); ok {
				return v
			}
			if inputType(s) == "submit" {
				return "Submit"
			}
			return ""
		case "image":
			alt, _ := s.Attr("alt")
			return alt
		}
		if id, ok := s.Attr("id"); ok && id != "" {
			if label := root.Find(`label[for="` + id + `"]`); label.Length() > 0 {
				return innerText(label.First())
			}
		}
		if label := s.Closest("label"); label.Length() > 0 {
			return innerText(label)
		}
		if title, ok := s.Attr("title"); ok {
			return title
		}
		placeholder, _ := s.Attr("placeholder")
		return placeholder
	case "img":
		alt, _ := s.Attr("alt")
		return alt
	}
	return innerText(s)
}

// visible reports whether neither the element nor an ancestor is hidden by
// markup. Stylesheets are not evaluated.
func visible(s *goquery.Selection) bool {
	for n := s.Get(0); n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.Data {
		case "head", "script", "style", "template", "noscript":
			return false
		}
		el := goquery.NewDocumentFromNode(n).Selection
		if _, hidden := el.Attr("hidden"); hidden {
			return false
		}
		if n.Data == "input" && inputType(el) == "hidden" {
			return false
		}
		if style, ok := el.Attr("style"); ok {
			compact := strings.ReplaceAll(strings.ToLower(style), " ", "")
			if strings.Contains(compact, "display:none") || strings.Contains(compact, "visibility:hidden") {
				return false
			}
		}
	}
	return true
}

func disabled(s *goquery.Selection) bool {
	if _, ok := s.Attr("disabled"); ok {
		return true
	}
	if fieldset := s.Closest("fieldset[disabled]"); fieldset.Length() > 0 {
		return true
	}
	return false
}

func editable(s *goquery.Selection) bool {
	switch goquery.NodeName(s) {
	case "textarea":
		return true
	case "input":
		switch inputType(s) {
		case "submit", "button", "reset", "image", "checkbox", "radio", "hidden", "file":
			return false
		}
		return true
	}
	v, ok := s.Attr("contenteditable")
	return ok && v != "false"
}

// innerText returns the rendered text of the selection, skipping elements
// that never render and collapsing whitespace.
func innerText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		collectText(&b, n)
	}
	return browser.NormalizeSpace(b.String())
}

func collectText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "template", "noscript", "head":
			return
		case "br":
			b.WriteString(" ")
			return
		}
		if n.Data == "input" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
	if n.Type == html.ElementNode && blockTags[n.Data] {
		b.WriteString(" ")
	}
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "dd": true,
	"div": true, "dl": true, "dt": true, "fieldset": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "li": true, "main": true, "nav": true, "ol": true, "p": true,
	"section": true, "table": true, "tbody": true, "td": true, "th": true, "thead": true,
	"tr": true, "ul": true,
}

// formOf returns the form owning a control, if any.
func formOf(root *goquery.Selection, s *goquery.Selection) *goquery.Selection {
	if id, ok := s.Attr("form"); ok && id != "" {
		if f := root.Find("form#" + id); f.Length() > 0 {
			return f.First()
		}
	}
	f := s.Closest("form")
	if f.Length() == 0 {
		return nil
	}
	return f
}

func isSubmitControl(s *goquery.Selection) bool {
	switch goquery.NodeName(s) {
	case "button":
		t, ok := s.Attr("type")
		return !ok || strings.EqualFold(strings.TrimSpace(t), "submit") || strings.TrimSpace(t) == ""
	case "input":
		t := inputType(s)
		return t == "submit" || t == "image"
	}
	return false
}

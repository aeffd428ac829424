// Package pages holds one page object per screen of the shop, the practice
// web table and the marketplace search. Each page object binds its locators
// once, in its constructor, against the browser.Document it is given. The
// locators resolve again on every call, so a page object stays valid across
// navigations for as long as the markup it names does not change.
package pages

import "strings"

// URL joins a base URL and a path. An empty base stays empty so that the
// navigation fails instead of guessing a host.
func URL(base, path string) string {
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + path
}

package pages

import (
	"context"

	"github.com/themizzi/shopcheck/internal/browser"
)

// SearchPlaceholder is the prefix of the search box placeholder
const SearchPlaceholder = "Buscar productos, marcas y má"

// SearchPage is the marketplace header and its result list
type SearchPage struct {
	doc          browser.Document
	searchInput  browser.Locator
	searchBox    browser.Locator
	searchButton browser.Locator
	results      browser.Locator
	titles       browser.Locator
	myPurchases  browser.Locator
	signIn       browser.Locator
}

func NewSearchPage(doc browser.Document) *SearchPage {
	return &SearchPage{
		doc:          doc,
		searchInput:  doc.Locator(`input[id="cb1-edit"]`),
		searchBox:    doc.ByPlaceholder(SearchPlaceholder),
		searchButton: doc.ByRole("button", browser.RoleOptions{Name: "Buscar"}),
		results:      doc.Locator("ol.ui-search-layout"),
		titles:       doc.Locator("ol.ui-search-layout li h2"),
		myPurchases:  doc.ByRole("link", browser.RoleOptions{Name: "Mis compras"}),
		signIn:       doc.ByRole("link", browser.RoleOptions{Name: "Ingresa", Exact: true}),
	}
}

// Goto opens url, the marketplace home of some site
func (p *SearchPage) Goto(ctx context.Context, url string) error {
	return p.doc.Goto(ctx, url)
}

// ChooseSite follows the country link named site
func (p *SearchPage) ChooseSite(ctx context.Context, site string) error {
	return p.doc.ByRole("link", browser.RoleOptions{Name: site, Exact: true}).Click(ctx)
}

// Search types query, presses Enter and waits for the result list
func (p *SearchPage) Search(ctx context.Context, query string) error {
	if err := p.searchInput.Fill(ctx, query); err != nil {
		return err
	}
	if err := p.doc.Press(ctx, "Enter"); err != nil {
		return err
	}
	return p.results.WaitVisible(ctx)
}

// SearchByPlaceholder does what Search does, finding the box by its
// placeholder and pressing Enter on it
func (p *SearchPage) SearchByPlaceholder(ctx context.Context, query string) error {
	if err := p.searchBox.Click(ctx); err != nil {
		return err
	}
	if err := p.searchBox.Fill(ctx, query); err != nil {
		return err
	}
	if err := p.searchBox.Press(ctx, "Enter"); err != nil {
		return err
	}
	return p.results.WaitVisible(ctx)
}

// ClickSearchButton submits the current query again
func (p *SearchPage) ClickSearchButton(ctx context.Context) error {
	return p.searchButton.Click(ctx)
}

// Titles are the result titles in page order
func (p *SearchPage) Titles(ctx context.Context) ([]string, error) {
	return p.titles.AllInnerTexts(ctx)
}

func (p *SearchPage) OpenMyPurchases(ctx context.Context) error {
	return p.myPurchases.Click(ctx)
}

func (p *SearchPage) OpenSignIn(ctx context.Context) error {
	return p.signIn.Click(ctx)
}

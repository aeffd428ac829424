package pages

import (
	"context"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/extract"
)

// WebTablePath is where the practice table lives under a base URL
const WebTablePath = "/automation-practice-webtable/"

// TablePage is the countries practice table
type TablePage struct {
	doc   browser.Document
	table browser.Locator
}

func NewTablePage(doc browser.Document) *TablePage {
	return &TablePage{
		doc:   doc,
		table: doc.Locator("#countries"),
	}
}

// NavigateTo opens the table page under baseURL
func (p *TablePage) NavigateTo(ctx context.Context, baseURL string) error {
	return p.doc.Goto(ctx, URL(baseURL, WebTablePath))
}

// Rows returns every row of the table, the header row included
func (p *TablePage) Rows(ctx context.Context) ([]browser.Locator, error) {
	return p.table.Locator("tr").All(ctx)
}

// Countries reads the data rows
func (p *TablePage) Countries(ctx context.Context) ([]extract.Country, error) {
	return extract.Countries(ctx, p.table)
}

// CountriesByLanguage keeps the countries whose primary language is
// language, ignoring case
func (p *TablePage) CountriesByLanguage(ctx context.Context, language string) ([]extract.Country, error) {
	countries, err := p.Countries(ctx)
	if err != nil {
		return nil, err
	}
	return extract.ByLanguage(countries, language), nil
}

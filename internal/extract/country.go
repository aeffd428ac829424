package extract

import (
	"context"

	"github.com/themizzi/shopcheck/internal/browser"
)

// Country is one row of the practice web table.
type Country struct {
	Name            string `json:"name"`
	Capital         string `json:"capital"`
	Currency        string `json:"currency"`
	PrimaryLanguage string `json:"primaryLanguage"`
}

// Record keys of CountrySchema.
const (
	FieldName     = "name"
	FieldCapital  = "capital"
	FieldCurrency = "currency"
	FieldLanguage = "primaryLanguage"
)

// CountrySchema reads the countries table. The first column holds a checkbox
// and the first row holds the headings.
var CountrySchema = Schema{
	Rows: "tr",
	Fields: []Field{
		{Name: FieldName, Selector: "td:nth-child(2)"},
		{Name: FieldCapital, Selector: "td:nth-child(3)"},
		{Name: FieldCurrency, Selector: "td:nth-child(4)"},
		{Name: FieldLanguage, Selector: "td:nth-child(5)"},
	},
	HeaderRows: 1,
}

// CountryFromRecord converts a record read with CountrySchema.
func CountryFromRecord(r Record) Country {
	return Country{
		Name:            r[FieldName],
		Capital:         r[FieldCapital],
		Currency:        r[FieldCurrency],
		PrimaryLanguage: r[FieldLanguage],
	}
}

// Countries extracts every country of the table at root.
func Countries(ctx context.Context, root browser.Locator) ([]Country, error) {
	return ExtractAs(ctx, root, CountrySchema, CountryFromRecord)
}

// ByLanguage keeps the countries whose primary language is language, ignoring case.
func ByLanguage(countries []Country, language string) []Country {
	return FilterBy(countries, func(c Country) string { return c.PrimaryLanguage }, language)
}

package scenario

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/extract"
	"github.com/themizzi/shopcheck/internal/pages"
)

// CountriesResult holds every country of the table and those that matched
type CountriesResult struct {
	All     []extract.Country
	Matches []extract.Country
}

// Countries reads the practice table and keeps the countries whose primary
// language is language.
func (r *Runner) Countries(ctx context.Context, language string) (*CountriesResult, error) {
	bctx, doc, err := r.open(ctx, false)
	if err != nil {
		return nil, err
	}
	defer bctx.Close()

	table := pages.NewTablePage(doc)
	result := &CountriesResult{}

	err = Run(ctx, r.logger(), "countries", []Step{
		{"open table", func(ctx context.Context) error {
			return table.NavigateTo(ctx, r.Target.BaseURL)
		}},
		{"read countries", func(ctx context.Context) error {
			all, err := table.Countries(ctx)
			if err != nil {
				return err
			}
			result.All = all
			if len(result.All) == 0 {
				return &AssertionError{What: "country rows", Want: "at least one row", Got: 0}
			}
			return nil
		}},
		{"filter by language", func(ctx context.Context) error {
			result.Matches = extract.ByLanguage(result.All, language)
			for _, c := range result.Matches {
				r.logger().WithFields(logrus.Fields{
					"name":     c.Name,
					"capital":  c.Capital,
					"currency": c.Currency,
				}).Info("Country speaks " + language)
			}
			return nil
		}},
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

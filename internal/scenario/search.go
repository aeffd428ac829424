package scenario

import (
	"context"

	"github.com/themizzi/shopcheck/internal/pages"
)

// SearchHomePath is the marketplace home under the target's base URL when
// no explicit search URL is configured
const SearchHomePath = "/search-home"

func (r *Runner) searchHome() string {
	if r.Target.SearchURL != "" {
		return r.Target.SearchURL
	}
	return pages.URL(r.Target.BaseURL, SearchHomePath)
}

// Search opens the marketplace, switches to site when one is given, searches
// for query and returns the result titles. An empty result list fails the
// scenario.
func (r *Runner) Search(ctx context.Context, site, query string) ([]string, error) {
	bctx, doc, err := r.open(ctx, false)
	if err != nil {
		return nil, err
	}
	defer bctx.Close()

	search := pages.NewSearchPage(doc)
	var titles []string

	steps := []Step{
		{"open marketplace", func(ctx context.Context) error {
			return search.Goto(ctx, r.searchHome())
		}},
	}
	if site != "" {
		steps = append(steps, Step{"choose site", func(ctx context.Context) error {
			return search.ChooseSite(ctx, site)
		}})
	}
	steps = append(steps,
		Step{"search", func(ctx context.Context) error {
			return search.Search(ctx, query)
		}},
		Step{"read titles", func(ctx context.Context) error {
			got, err := search.Titles(ctx)
			if err != nil {
				return err
			}
			if len(got) == 0 {
				return &AssertionError{What: "search results", Want: "at least one title", Got: 0}
			}
			for _, title := range got {
				r.logger().WithField("title", title).Info("Search result")
			}
			titles = got
			return nil
		}},
	)

	if err := Run(ctx, r.logger(), "search", steps); err != nil {
		return nil, err
	}
	return titles, nil
}

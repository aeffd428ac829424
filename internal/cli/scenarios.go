package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/scenario"
	"github.com/themizzi/shopcheck/internal/session"
)

// ScenarioDependencies holds what the browser commands share
type ScenarioDependencies struct {
	Runner *scenario.Runner
	Out    io.Writer
}

// NewStateStore opens the session store at the configured storage state path
func NewStateStore(browserCfg config.BrowserConfig) *session.Store {
	store := session.NewOSStore(browserCfg.StorageState)
	store.MaxAge = browserCfg.StateMaxAge
	return store
}

// NewRunner builds a scenario runner whose session store lives at the
// configured storage state path
func NewRunner(engine browser.Engine, browserCfg config.BrowserConfig, target config.TargetConfig, log logrus.FieldLogger) *scenario.Runner {
	return &scenario.Runner{
		Engine:  engine,
		Target:  target,
		Timeout: browserCfg.ActionTimeout,
		Store:   NewStateStore(browserCfg),
		Log:     log,
	}
}

// RunAuth logs in and saves the session snapshot
func RunAuth(ctx context.Context, deps ScenarioDependencies) error {
	state, err := deps.Runner.CaptureSession(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Out, "Captured %d cookies and %d origins to %s\n",
		len(state.Cookies), len(state.Origins), deps.Runner.Store.Path())
	return nil
}

// RunAuthInvalidate marks the saved session stale. Runs that reuse it warn
// until the auth command captures a new one.
func RunAuthInvalidate(store *session.Store, out io.Writer) error {
	if err := store.Invalidate(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Marked %s stale\n", store.Path())
	return nil
}

// RunAuthClear deletes the saved session
func RunAuthClear(store *session.Store, out io.Writer) error {
	if err := store.Remove(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %s\n", store.Path())
	return nil
}

// RunCheckout buys one random item
func RunCheckout(ctx context.Context, deps ScenarioDependencies) error {
	result, err := deps.Runner.Purchase(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Out, "Bought %s (%s), item %d of %d\n",
		result.Product.Name, result.Product.Price, result.Index+1, result.InventorySize)
	fmt.Fprintf(deps.Out, "Item total: %s\n", result.ItemTotal)
	if result.OrderReference != "" {
		fmt.Fprintf(deps.Out, "Order reference: %s\n", result.OrderReference)
	}
	fmt.Fprintln(deps.Out, result.Confirmation)
	return nil
}

// RunCountries prints the countries whose primary language is language
func RunCountries(ctx context.Context, deps ScenarioDependencies, language string) error {
	result, err := deps.Runner.Countries(ctx, language)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(deps.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COUNTRY\tCAPITAL\tCURRENCY\tLANGUAGE")
	for _, c := range result.Matches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Capital, c.Currency, c.PrimaryLanguage)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(deps.Out, "%d of %d countries speak %s\n", len(result.Matches), len(result.All), language)
	return nil
}

// RunSearch prints up to limit result titles; zero prints all of them
func RunSearch(ctx context.Context, deps ScenarioDependencies, site, query string, limit int) error {
	titles, err := deps.Runner.Search(ctx, site, query)
	if err != nil {
		return err
	}
	for i, title := range titles {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(deps.Out, "%2d. %s\n", i+1, title)
	}
	return nil
}

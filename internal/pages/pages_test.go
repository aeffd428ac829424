package pages_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/browser/htmldoc"
	"github.com/themizzi/shopcheck/internal/extract"
	"github.com/themizzi/shopcheck/internal/pages"
	"github.com/themizzi/shopcheck/internal/shoptest"
)

func newDocument(t *testing.T, server *shoptest.Server) browser.Document {
	t.Helper()

	engine := htmldoc.New(htmldoc.WithTransport(server.Client().Transport))
	bctx, err := engine.NewContext(context.Background(), browser.ContextOptions{Timeout: 2 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { bctx.Close() })

	doc, err := bctx.NewDocument(context.Background())
	require.NoError(t, err)
	return doc
}

func path(t *testing.T, doc browser.Document) string {
	t.Helper()
	u, err := url.Parse(doc.URL())
	require.NoError(t, err)
	return u.Path
}

func loggedIn(t *testing.T, server *shoptest.Server) browser.Document {
	t.Helper()
	doc := newDocument(t, server)
	login := pages.NewLoginPage(doc)
	ctx := context.Background()
	require.NoError(t, login.Goto(ctx, server.URL))
	require.NoError(t, login.Login(ctx, "standard_user", "secret_sauce"))
	require.NoError(t, pages.NewInventoryPage(doc).WaitLoaded(ctx))
	return doc
}

func TestURL(t *testing.T) {
	assert.Equal(t, "", pages.URL("", "/search"))
	assert.Equal(t, "http://shop.test/search", pages.URL("http://shop.test/", "/search"))
	assert.Equal(t, "http://shop.test/search", pages.URL("http://shop.test", "/search"))
}

func TestLoginPage_Login(t *testing.T) {
	server := shoptest.NewServer(t)
	doc := newDocument(t, server)
	ctx := context.Background()

	login := pages.NewLoginPage(doc)
	require.NoError(t, login.Goto(ctx, server.URL))
	shown, err := login.IsShown(ctx)
	require.NoError(t, err)
	assert.True(t, shown)

	require.NoError(t, login.Login(ctx, "standard_user", "secret_sauce"))
	assert.Equal(t, "/inventory.html", path(t, doc))

	message, err := login.AwaitOutcome(ctx)
	require.NoError(t, err)
	assert.Empty(t, message)

	shown, err = login.IsShown(ctx)
	require.NoError(t, err)
	assert.False(t, shown)
}

func TestLoginPage_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     string
	}{
		{
			name:     "locked out",
			username: "locked_out_user",
			password: "secret_sauce",
			want:     "Epic sadface: Sorry, this user has been locked out.",
		},
		{
			name:     "wrong password",
			username: "standard_user",
			password: "wrong",
			want:     "Epic sadface: Username and password do not match any user in this service",
		},
		{
			name:     "no password",
			username: "standard_user",
			want:     "Epic sadface: Password is required",
		},
	}

	server := shoptest.NewServer(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDocument(t, server)
			ctx := context.Background()
			login := pages.NewLoginPage(doc)

			require.NoError(t, login.Goto(ctx, server.URL))
			require.NoError(t, login.Login(ctx, tt.username, tt.password))

			got, err := login.ErrorMessage(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			outcome, err := login.AwaitOutcome(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome)
		})
	}
}

func TestLoginPage_Failures(t *testing.T) {
	server := shoptest.NewServer(t)
	ctx := context.Background()

	t.Run("no outcome on the page", func(t *testing.T) {
		doc := newDocument(t, server)
		require.NoError(t, doc.Goto(ctx, server.URL+"/automation-practice-webtable/"))

		_, err := pages.NewLoginPage(doc).AwaitOutcome(ctx)
		assert.ErrorIs(t, err, browser.ErrNotFound)
	})

	t.Run("empty base url", func(t *testing.T) {
		login := pages.NewLoginPage(newDocument(t, server))
		err := login.Goto(ctx, pages.URL("", "/"))
		assert.ErrorIs(t, err, browser.ErrNavigation)
	})

	t.Run("not on the login screen", func(t *testing.T) {
		doc := newDocument(t, server)
		require.NoError(t, doc.Goto(ctx, pages.URL(server.URL, pages.WebTablePath)))

		err := pages.NewLoginPage(doc).Login(ctx, "standard_user", "secret_sauce")
		require.Error(t, err)
		assert.True(t, browser.IsResolution(err))

		var actionErr *browser.ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Equal(t, "fill", actionErr.Action)
		assert.Equal(t, "#user-name", actionErr.Target)
	})
}

func TestInventoryPage(t *testing.T) {
	server := shoptest.NewServer(t)
	doc := loggedIn(t, server)
	ctx := context.Background()
	inventory := pages.NewInventoryPage(doc)

	title, err := inventory.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Products", title)

	products, err := inventory.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 6)
	assert.Equal(t, pages.Product{
		Name:        "Sauce Labs Backpack",
		Description: products[0].Description,
		Price:       "$29.99",
	}, products[0])

	items, err := inventory.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, len(products))

	third, err := inventory.Product(ctx, items[2])
	require.NoError(t, err)
	assert.Equal(t, products[2], third)

	count, err := inventory.CartCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, inventory.AddToCart(ctx, items[2]))
	require.NoError(t, inventory.AddToCart(ctx, items[0]))
	count, err = inventory.CartCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The add button of an item already in the cart is gone.
	err = inventory.AddToCart(ctx, items[0])
	assert.True(t, browser.IsResolution(err))

	require.NoError(t, inventory.RemoveFromCart(ctx, items[0]))
	count, err = inventory.CartCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, inventory.OpenCart(ctx))
	cart := pages.NewCartPage(doc)
	require.NoError(t, cart.WaitLoaded(ctx))

	item, err := cart.Item(ctx)
	require.NoError(t, err)
	assert.Equal(t, third, item)

	lines, err := cart.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, []pages.Product{third}, lines)

	require.NoError(t, cart.ContinueShopping(ctx))
	assert.Equal(t, "/inventory.html", path(t, doc))
}

func TestCartPage_ItemIsStrict(t *testing.T) {
	server := shoptest.NewServer(t)
	doc := loggedIn(t, server)
	ctx := context.Background()
	inventory := pages.NewInventoryPage(doc)

	items, err := inventory.Items(ctx)
	require.NoError(t, err)
	require.NoError(t, inventory.AddToCart(ctx, items[0]))
	require.NoError(t, inventory.AddToCart(ctx, items[1]))
	require.NoError(t, inventory.OpenCart(ctx))

	_, err = pages.NewCartPage(doc).Item(ctx)
	assert.True(t, browser.IsAction(err))
}

func TestCheckoutPages(t *testing.T) {
	server := shoptest.NewServer(t)
	doc := loggedIn(t, server)
	ctx := context.Background()
	inventory := pages.NewInventoryPage(doc)

	items, err := inventory.Items(ctx)
	require.NoError(t, err)
	added, err := inventory.Product(ctx, items[0])
	require.NoError(t, err)
	require.NoError(t, inventory.AddToCart(ctx, items[0]))
	require.NoError(t, inventory.OpenCart(ctx))
	require.NoError(t, pages.NewCartPage(doc).Checkout(ctx))

	info := pages.NewCheckoutInfoPage(doc)
	require.NoError(t, info.Submit(ctx, "John", "Doe", ""))
	message, err := info.ErrorMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Error: Postal Code is required", message)

	require.NoError(t, info.Submit(ctx, "John", "Doe", "12345"))

	overview := pages.NewCheckoutOverviewPage(doc)
	require.NoError(t, overview.WaitLoaded(ctx))
	itemTotal, err := overview.ItemTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, added.Price, itemTotal)
	tax, err := overview.Tax(ctx)
	require.NoError(t, err)
	assert.Equal(t, "$2.40", tax)
	total, err := overview.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, "$32.39", total)

	require.NoError(t, overview.Finish(ctx))

	complete := pages.NewCheckoutCompletePage(doc)
	require.NoError(t, complete.WaitLoaded(ctx))
	header, err := complete.Header(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Thank you for your order!", header)

	reference, err := complete.OrderReference(ctx)
	require.NoError(t, err)
	order, err := server.Orders.GetOrderByReference(reference)
	require.NoError(t, err)
	assert.Equal(t, "standard_user", order.Username)
	assert.Equal(t, int64(3239), order.Total)

	require.NoError(t, complete.BackHome(ctx))
	assert.Equal(t, "/inventory.html", path(t, doc))
}

func TestTablePage(t *testing.T) {
	server := shoptest.NewServer(t)
	doc := newDocument(t, server)
	ctx := context.Background()
	table := pages.NewTablePage(doc)

	require.NoError(t, table.NavigateTo(ctx, server.URL))

	rows, err := table.Rows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, len(server.Shop.Countries)+1)

	countries, err := table.Countries(ctx)
	require.NoError(t, err)
	require.Len(t, countries, len(server.Shop.Countries))
	assert.Equal(t, extract.Country{
		Name:            "Afghanistan",
		Capital:         "Kabul",
		Currency:        "Afghani",
		PrimaryLanguage: "Dari Persian; Pashto",
	}, countries[0])

	portuguese, err := table.CountriesByLanguage(ctx, "PORTUGUESE")
	require.NoError(t, err)
	names := make([]string, 0, len(portuguese))
	for _, c := range portuguese {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Angola", "Brazil", "Mozambique", "Portugal"}, names)

	none, err := table.CountriesByLanguage(ctx, "Klingon")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestSearchPage(t *testing.T) {
	server := shoptest.NewServer(t)
	doc := newDocument(t, server)
	ctx := context.Background()
	search := pages.NewSearchPage(doc)

	require.NoError(t, search.Goto(ctx, pages.URL(server.URL, "/search-home")))
	require.NoError(t, search.ChooseSite(ctx, "Colombia"))
	assert.Equal(t, "site=MCO", mustURL(t, doc).RawQuery)

	require.NoError(t, search.Search(ctx, "Iphone"))
	titles, err := search.Titles(ctx)
	require.NoError(t, err)
	assert.Len(t, titles, 6)
	for _, title := range titles {
		assert.Contains(t, strings.ToLower(title), "iphone")
	}
	assert.Equal(t, "MCO", mustURL(t, doc).Query().Get("site"))

	require.NoError(t, search.ClickSearchButton(ctx))
	again, err := search.Titles(ctx)
	require.NoError(t, err)
	assert.Equal(t, titles, again)

	require.NoError(t, search.SearchByPlaceholder(ctx, "samsung"))
	samsung, err := search.Titles(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, samsung)
	assert.NotEqual(t, titles, samsung)

	err = search.Search(ctx, "zzzz")
	assert.True(t, browser.IsResolution(err))

	require.NoError(t, search.OpenMyPurchases(ctx))
	assert.Equal(t, "/", path(t, doc))
}

func TestSearchPage_SignIn(t *testing.T) {
	server := shoptest.NewServer(t)
	doc := newDocument(t, server)
	ctx := context.Background()
	search := pages.NewSearchPage(doc)

	require.NoError(t, search.Goto(ctx, pages.URL(server.URL, "/search-home?site=MLC")))
	require.NoError(t, search.OpenSignIn(ctx))
	assert.Equal(t, "/", path(t, doc))

	shown, err := pages.NewLoginPage(doc).IsShown(ctx)
	require.NoError(t, err)
	assert.True(t, shown)
}

func mustURL(t *testing.T, doc browser.Document) *url.URL {
	t.Helper()
	u, err := url.Parse(doc.URL())
	require.NoError(t, err)
	return u
}

package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/models"
	"github.com/themizzi/shopcheck/internal/services"
	"github.com/themizzi/shopcheck/web"
)

// Shop holds everything the demo shop's routes need
type Shop struct {
	Templates fs.FS
	Static    fs.FS
	Auth      services.AuthService
	Catalog   services.Catalog
	Carts     services.CartService
	Checkout  services.CheckoutService
	Orders    services.OrderService
	Countries []models.Country
	Sites     []Site
	// Accounts are advertised on the login page
	Accounts []string
	Logger   *logrus.Logger
}

// NewShop assembles the default catalog, accounts and embedded pages
// around an order store
func NewShop(orderRepo services.OrderRepository) Shop {
	accounts := services.DefaultAccounts()
	names := make([]string, 0, len(accounts))
	for _, a := range accounts {
		names = append(names, a.Username)
	}

	catalog := services.NewCatalog(services.DefaultProducts(), services.DefaultListings())
	carts := services.NewCartService(catalog)
	orders := services.NewOrderService(orderRepo)

	return Shop{
		Templates: web.Templates(),
		Static:    web.Static(),
		Auth:      services.NewAuthService(accounts, services.DefaultSessionTTL),
		Catalog:   catalog,
		Carts:     carts,
		Checkout:  services.NewCheckoutService(carts, orders),
		Orders:    orders,
		Countries: services.DefaultCountries(),
		Sites:     DefaultSites(),
		Accounts:  names,
	}
}

// NewRouter wires the shop's pages. Everything behind the login page
// redirects anonymous visitors to it.
func NewRouter(shop Shop) (http.Handler, error) {
	if shop.Templates == nil {
		return nil, errors.New("shop templates are required")
	}
	if shop.Auth == nil || shop.Catalog == nil || shop.Carts == nil || shop.Checkout == nil || shop.Orders == nil {
		return nil, errors.New("shop services are required")
	}

	login, err := NewLoginHandler(shop.Templates, shop.Auth, shop.Accounts)
	if err != nil {
		return nil, fmt.Errorf("failed to create login handler: %w", err)
	}
	inventory, err := NewInventoryHandler(shop.Templates, shop.Catalog, shop.Carts)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory handler: %w", err)
	}
	cart, err := NewCartHandler(shop.Templates, shop.Carts)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart handler: %w", err)
	}
	info, err := NewCheckoutInfoHandler(shop.Templates, shop.Checkout, shop.Carts)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout handler: %w", err)
	}
	overview, err := NewCheckoutOverviewHandler(shop.Templates, shop.Checkout)
	if err != nil {
		return nil, fmt.Errorf("failed to create overview handler: %w", err)
	}
	complete, err := NewCompleteHandler(shop.Templates, shop.Orders)
	if err != nil {
		return nil, fmt.Errorf("failed to create confirmation handler: %w", err)
	}
	webtable, err := NewWebTableHandler(shop.Templates, shop.Countries)
	if err != nil {
		return nil, fmt.Errorf("failed to create web table handler: %w", err)
	}
	search, err := NewSearchHandler(shop.Templates, shop.Catalog, shop.Sites)
	if err != nil {
		return nil, fmt.Errorf("failed to create search handler: %w", err)
	}

	protect := func(h http.Handler) http.Handler { return RequireLogin(shop.Auth, h) }

	mux := http.NewServeMux()
	mux.Handle("/", login)
	mux.Handle("/logout", NewLogoutHandler(shop.Auth))
	mux.Handle("/inventory.html", protect(inventory))
	mux.Handle("/cart.html", protect(cart))
	mux.Handle("/cart/add", protect(NewCartAddHandler(shop.Carts)))
	mux.Handle("/cart/remove", protect(NewCartRemoveHandler(shop.Carts)))
	mux.Handle("/checkout-step-one.html", protect(info))
	mux.Handle("/checkout-step-two.html", protect(overview))
	mux.Handle("/checkout/finish", protect(NewCheckoutFinishHandler(shop.Checkout)))
	mux.Handle("/checkout-complete.html", protect(complete))
	mux.Handle("/api/orders/", protect(NewOrderAPIHandler(shop.Orders)))
	mux.Handle("/automation-practice-webtable/", webtable)
	mux.Handle("/search-home", search)
	mux.Handle("/search", search)
	if shop.Static != nil {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(shop.Static))))
	}

	logger := shop.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logRequests(logger, mux), nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(logger *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("Request served")
	})
}

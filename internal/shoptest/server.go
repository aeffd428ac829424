// Package shoptest runs the demo shop on a loopback port for tests of code
// that drives it through a browser engine.
package shoptest

import (
	"net/http/httptest"
	"testing"

	"github.com/themizzi/shopcheck/internal/handlers"
	"github.com/themizzi/shopcheck/internal/logging"
	"github.com/themizzi/shopcheck/internal/repository"
)

// Server is a running demo shop backed by an in-memory order store
type Server struct {
	*httptest.Server
	Orders *repository.MemoryOrderRepository
	Shop   handlers.Shop
}

// NewServer starts a shop that is closed when the test finishes
func NewServer(t testing.TB) *Server {
	t.Helper()

	orders := repository.NewMemoryOrderRepository()
	shop := handlers.NewShop(orders)
	shop.Logger = logging.Discard()

	router, err := handlers.NewRouter(shop)
	if err != nil {
		t.Fatalf("Failed to build shop router: %v", err)
	}

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &Server{Server: server, Orders: orders, Shop: shop}
}

package cli

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/database"
	"github.com/themizzi/shopcheck/internal/handlers"
	"github.com/themizzi/shopcheck/internal/repository"
	"github.com/themizzi/shopcheck/internal/services"
)

// BuildShopHandler wires the demo shop onto the configured order store. The
// returned closer releases the database connection, if any.
func BuildShopHandler(cfg config.ServerConfig, getenv func(string) string, logger *logrus.Logger) (http.Handler, func() error, error) {
	var (
		orders services.OrderRepository
		closer = func() error { return nil }
	)

	switch cfg.OrderStore {
	case config.OrderStorePostgres:
		if err := database.Connect(getenv); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		logger.Info("Connected to database successfully")
		if err := database.RunMigrations(); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		orders = repository.NewOrderRepository()
		closer = database.Close
	default:
		orders = repository.NewMemoryOrderRepository()
	}

	shop := handlers.NewShop(orders)
	shop.Logger = logger

	handler, err := handlers.NewRouter(shop)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("failed to build router: %w", err)
	}
	return handler, closer, nil
}

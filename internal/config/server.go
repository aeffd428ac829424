package config

import "fmt"

// Order stores the demo shop can persist to
const (
	OrderStoreMemory   = "memory"
	OrderStorePostgres = "postgres"
)

// ServerConfig holds demo shop server configuration
type ServerConfig struct {
	Port       string
	OrderStore string
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(getenv func(string) string) (ServerConfig, error) {
	config := ServerConfig{
		Port:       getenv("PORT"),
		OrderStore: getenv("ORDER_STORE"),
	}
	if config.Port == "" {
		config.Port = "8080"
	}

	switch config.OrderStore {
	case "":
		config.OrderStore = OrderStoreMemory
	case OrderStoreMemory, OrderStorePostgres:
	default:
		return config, fmt.Errorf("ORDER_STORE must be %q or %q, got %q", OrderStoreMemory, OrderStorePostgres, config.OrderStore)
	}

	return config, nil
}

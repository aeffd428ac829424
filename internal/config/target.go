package config

// TargetConfig describes the site under test
type TargetConfig struct {
	// BaseURL is empty when URL is unset; navigation then fails fast.
	BaseURL  string
	Username string
	Password string
	// SearchURL overrides the marketplace home, which otherwise lives at
	// /search-home under BaseURL.
	SearchURL string
}

// LoadTargetConfig loads the target site from environment variables
func LoadTargetConfig(getenv func(string) string) TargetConfig {
	config := TargetConfig{
		BaseURL:   getenv("URL"),
		Username:  getenv("SHOP_USERNAME"),
		Password:  getenv("SHOP_PASSWORD"),
		SearchURL: getenv("SEARCH_URL"),
	}
	if config.Username == "" {
		config.Username = "standard_user"
	}
	if config.Password == "" {
		config.Password = "secret_sauce"
	}
	return config
}

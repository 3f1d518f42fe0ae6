package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/tradeforge/accountsync/pkg/validation"
)

type Config struct {
	Development bool
	// API configuration
	APIPort    int
	APIBaseURL string
	// Payment configuration
	PaymentReturnURL  string
	Denominations     []int64
	DenominationsFile string
	// Profile configuration
	PlaceholderEmailDomain string
	MobilePrefix           string
	// Local development backend configuration
	DatabasePath string
}

// defaultDenominations is the fixed set of top-up amounts offered when no
// denominations file is configured.
var defaultDenominations = []int64{50, 100, 200, 500, 1000}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:            getEnvAsBool("DEVELOPMENT", false),
		APIPort:                getEnvAsInt("API_PORT", 6580),
		APIBaseURL:             getEnv("API_BASE_URL", "http://localhost:6580"),
		PaymentReturnURL:       getEnv("PAYMENT_RETURN_URL", "http://localhost:6580/console/wallet"),
		DenominationsFile:      getEnv("DENOMINATIONS_FILE", ""),
		PlaceholderEmailDomain: getEnv("PLACEHOLDER_EMAIL_DOMAIN", validation.DefaultPlaceholderDomain),
		MobilePrefix:           getEnv("MOBILE_PREFIX", validation.DefaultMobilePrefix),
		DatabasePath:           getEnv("DATABASE_PATH", "accountsync.db"),
	}

	if cfg.DenominationsFile != "" {
		denominations, err := LoadDenominations(cfg.DenominationsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load denominations: %w", err)
		}
		cfg.Denominations = denominations
	} else {
		cfg.Denominations = defaultDenominations
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}

	if c.PaymentReturnURL == "" {
		return fmt.Errorf("PAYMENT_RETURN_URL is required")
	}

	if c.MobilePrefix == "" || len(c.MobilePrefix) >= validation.PhoneLength {
		return fmt.Errorf("invalid MOBILE_PREFIX: %q", c.MobilePrefix)
	}
	for _, r := range c.MobilePrefix {
		if r < '0' || r > '9' {
			return fmt.Errorf("MOBILE_PREFIX must contain digits only")
		}
	}

	if len(c.Denominations) == 0 {
		return fmt.Errorf("at least one top-up denomination is required")
	}
	for _, amount := range c.Denominations {
		if amount <= 0 {
			return fmt.Errorf("invalid top-up denomination: %d", amount)
		}
	}

	return nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

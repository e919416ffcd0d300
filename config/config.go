// Package config loads the process configuration from the environment.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config is the immutable process configuration, read once at startup and
// passed into the catalog and facilitator constructors.
type Config struct {
	// WalletAddress is the payment recipient. The process refuses to
	// start without it.
	WalletAddress string `envconfig:"WALLET_ADDRESS"`

	// Port is the HTTP listening port.
	Port int `envconfig:"PORT" default:"3000"`

	// FacilitatorURL is the base URL of the payment verification service.
	// When empty the service runs in offline mode and accepts any payment
	// header.
	FacilitatorURL string `envconfig:"FACILITATOR_URL"`

	// Network is the CAIP-2 chain identifier payments are scoped to.
	Network string `envconfig:"NETWORK" default:"eip155:8453"`

	// Asset is the payment token contract address. Defaults to USDC on Base.
	Asset string `envconfig:"ASSET" default:"0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"`

	// PriceAtomic is the per-request price in the asset's minor unit.
	PriceAtomic string `envconfig:"PRICE_ATOMIC" default:"500"`

	// AssetSymbol and AssetDecimals drive the human-readable price string.
	AssetSymbol   string `envconfig:"ASSET_SYMBOL" default:"USDC"`
	AssetDecimals int32  `envconfig:"ASSET_DECIMALS" default:"6"`
}

// Load reads .env (if present) and the process environment, then validates
// the result.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if c.WalletAddress == "" {
		return fmt.Errorf("WALLET_ADDRESS environment variable is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be in 1..65535, got %d", c.Port)
	}

	price, err := decimal.NewFromString(c.PriceAtomic)
	if err != nil {
		return fmt.Errorf("PRICE_ATOMIC must be a decimal string: %w", err)
	}
	if price.IsNegative() {
		return fmt.Errorf("PRICE_ATOMIC must not be negative, got %s", c.PriceAtomic)
	}

	if c.Network == "" {
		return fmt.Errorf("NETWORK must not be empty")
	}

	if c.Asset == "" {
		return fmt.Errorf("ASSET must not be empty")
	}

	return nil
}

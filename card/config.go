package card

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/jonanatree/securitycard/internal/expiry"
)

// Config is the configuration for the security card application.
type Config struct {
	HTTPAddr string
	// CardNumber and CardExpiry are the fixed values printed on the demo
	// card; only the CVV rotates.
	CardNumber string
	CardExpiry string
	// InitialAccountBalance seeds the main account ledger, in minor units.
	InitialAccountBalance int64
	// CreditCeiling is the per-operation limit for card top-ups. Zero means
	// "use InitialAccountBalance".
	CreditCeiling int64
	// DefaultPrice is charged when a transaction carries no product info.
	DefaultPrice int64
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:              "localhost:5000",
		CardNumber:            "83840742168075216433",
		CardExpiry:            "02/28",
		InitialAccountBalance: 250000,
		DefaultPrice:          3199,
	}
}

// LoadConfig builds a Config from defaults overridden by environment
// variables. A .env file is honored when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if v := os.Getenv("SECURITYCARD_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("SECURITYCARD_CARD_NUMBER"); v != "" {
		cfg.CardNumber = v
	}
	if v := os.Getenv("SECURITYCARD_CARD_EXPIRY"); v != "" {
		cfg.CardExpiry = v
	}
	if v := os.Getenv("SECURITYCARD_ACCOUNT_BALANCE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid SECURITYCARD_ACCOUNT_BALANCE: %q", v)
		}
		cfg.InitialAccountBalance = n
	}
	if v := os.Getenv("SECURITYCARD_CREDIT_CEILING"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid SECURITYCARD_CREDIT_CEILING: %q", v)
		}
		cfg.CreditCeiling = n
	}

	if err := expiry.ValidateMMYY(cfg.CardExpiry); err != nil {
		return nil, fmt.Errorf("card expiry: %w", err)
	}

	return cfg, nil
}

// creditCeiling resolves the effective top-up limit.
func (c *Config) creditCeiling() int64 {
	if c.CreditCeiling > 0 {
		return c.CreditCeiling
	}
	return c.InitialAccountBalance
}

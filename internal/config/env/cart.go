package envconfig

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type cartEnv struct {
	TaxRate      string        `env:"CART_TAX_RATE" envDefault:"0.03"`
	Currency     string        `env:"CART_CURRENCY" envDefault:"USD"`
	ClearRetries uint64        `env:"CART_CLEAR_RETRIES" envDefault:"3"`
	ClearBackoff time.Duration `env:"CART_CLEAR_BACKOFF" envDefault:"100ms"`
	CookieName   string        `env:"CART_SESSION_COOKIE" envDefault:"nexus_session-id"`
}

type cart struct {
	raw      cartEnv
	taxRate  decimal.Decimal
	currency currency.Unit
}

func NewCartConfig() (*cart, error) {
	var raw cartEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}

	taxRate, err := decimal.NewFromString(raw.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("CART_TAX_RATE: %w", err)
	}
	if taxRate.IsNegative() || taxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("CART_TAX_RATE must be in [0, 1), got %s", taxRate)
	}

	cur, err := currency.ParseISO(raw.Currency)
	if err != nil {
		return nil, fmt.Errorf("CART_CURRENCY: %w", err)
	}

	return &cart{raw: raw, taxRate: taxRate, currency: cur}, nil
}

func (cfg *cart) TaxRate() decimal.Decimal    { return cfg.taxRate }
func (cfg *cart) Currency() currency.Unit     { return cfg.currency }
func (cfg *cart) ClearRetries() uint64        { return cfg.raw.ClearRetries }
func (cfg *cart) ClearBackoff() time.Duration { return cfg.raw.ClearBackoff }
func (cfg *cart) SessionCookie() string       { return cfg.raw.CookieName }

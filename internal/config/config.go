package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type AppConfig struct {
	// Logging
	LogLevel  string
	LogFormat string

	SeedSampleData bool
	CurrencySymbol string

	// Billing desk
	InvoiceStartNumber int64
	InvoiceDueDays     int
	AnnualDiscount     decimal.Decimal

	// Clinic desk
	TaxRate decimal.Decimal

	// Keys that were set but could not be parsed and fell back to defaults.
	Invalid []string
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	cfg := AppConfig{
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "warn")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "console")),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₹"),
	}

	cfg.SeedSampleData = cfg.getEnvBool("SEED_SAMPLE_DATA", true)
	cfg.InvoiceStartNumber = cfg.getEnvInt64("BILLING_INVOICE_START", 1000)
	cfg.InvoiceDueDays = int(cfg.getEnvInt64("BILLING_DUE_DAYS", 15))
	cfg.AnnualDiscount = cfg.getEnvDecimal("BILLING_ANNUAL_DISCOUNT", decimal.RequireFromString("0.10"))
	cfg.TaxRate = cfg.getEnvDecimal("CLINIC_TAX_RATE", decimal.RequireFromString("0.12"))

	return cfg
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *AppConfig) getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		c.Invalid = append(c.Invalid, key)
		return fallback
	}
	return b
}

func (c *AppConfig) getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		c.Invalid = append(c.Invalid, key)
		return fallback
	}
	return n
}

func (c *AppConfig) getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() || d.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		c.Invalid = append(c.Invalid, key)
		return fallback
	}
	return d
}

package config

import (
	"fmt"
	"strings"

	"github.com/acme/billing/internal/domain/billing"
	"github.com/acme/billing/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all engine configuration
type Config struct {
	App     AppConfig
	Log     LogConfig
	Billing BillingConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// BillingConfig holds the business parameters as decimal strings. Rates and
// amounts stay strings until parsed so no float ever touches them.
type BillingConfig struct {
	MinimumInvoiceAmount  string
	BulkDiscountThreshold string
	BulkDiscountRate      string
	LateFeeMonthlyRate    string
	LateFeeGraceDays      int
	LargeInvoiceThreshold string
	DefaultTaxRate        string
	QuarterAdjustment     string
	StateRates            map[string]string
	CustomerOverrides     map[string]string
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
//  1. Environment variables with BILLING_ prefix (e.g. BILLING_LOG_LEVEL)
//  2. config.toml
//  3. Built-in defaults (the legacy business parameters)
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("BILLING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Billing: BillingConfig{
			MinimumInvoiceAmount:  v.GetString("billing.minimum_invoice_amount"),
			BulkDiscountThreshold: v.GetString("billing.bulk_discount_threshold"),
			BulkDiscountRate:      v.GetString("billing.bulk_discount_rate"),
			LateFeeMonthlyRate:    v.GetString("billing.late_fee_monthly_rate"),
			LateFeeGraceDays:      v.GetInt("billing.late_fee_grace_days"),
			LargeInvoiceThreshold: v.GetString("billing.large_invoice_threshold"),
			DefaultTaxRate:        v.GetString("billing.default_tax_rate"),
			QuarterAdjustment:     v.GetString("billing.quarter_adjustment"),
			StateRates:            v.GetStringMapString("billing.state_rates"),
			CustomerOverrides:     v.GetStringMapString("billing.customer_overrides"),
		},
	}

	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "billing-engine"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
}

// PricingPolicy parses the billing section into a domain policy. Fields left
// unset fall back to the legacy defaults, so a partial config overrides only
// what it names. The result is validated before it is returned.
func (c *Config) PricingPolicy() (billing.PricingPolicy, error) {
	policy := billing.DefaultPricingPolicy()
	b := c.Billing

	var err error
	if b.MinimumInvoiceAmount != "" {
		if policy.MinimumInvoiceAmount, err = valueobject.NewMoneyFromString(b.MinimumInvoiceAmount); err != nil {
			return billing.PricingPolicy{}, fmt.Errorf("billing.minimum_invoice_amount: %w", err)
		}
	}
	if b.BulkDiscountThreshold != "" {
		if policy.BulkDiscountThreshold, err = valueobject.NewMoneyFromString(b.BulkDiscountThreshold); err != nil {
			return billing.PricingPolicy{}, fmt.Errorf("billing.bulk_discount_threshold: %w", err)
		}
	}
	if b.BulkDiscountRate != "" {
		if policy.BulkDiscountRate, err = decimal.NewFromString(b.BulkDiscountRate); err != nil {
			return billing.PricingPolicy{}, fmt.Errorf("billing.bulk_discount_rate: %w", err)
		}
	}
	if b.LateFeeMonthlyRate != "" {
		if policy.LateFeeMonthlyRate, err = decimal.NewFromString(b.LateFeeMonthlyRate); err != nil {
			return billing.PricingPolicy{}, fmt.Errorf("billing.late_fee_monthly_rate: %w", err)
		}
	}
	if b.LateFeeGraceDays > 0 {
		policy.LateFeeGraceDays = b.LateFeeGraceDays
	}
	if b.LargeInvoiceThreshold != "" {
		if policy.LargeInvoiceThreshold, err = valueobject.NewMoneyFromString(b.LargeInvoiceThreshold); err != nil {
			return billing.PricingPolicy{}, fmt.Errorf("billing.large_invoice_threshold: %w", err)
		}
	}
	if b.DefaultTaxRate != "" {
		if policy.TaxTable.DefaultRate, err = decimal.NewFromString(b.DefaultTaxRate); err != nil {
			return billing.PricingPolicy{}, fmt.Errorf("billing.default_tax_rate: %w", err)
		}
	}
	if b.QuarterAdjustment != "" {
		if policy.TaxTable.QuarterAdjustment, err = decimal.NewFromString(b.QuarterAdjustment); err != nil {
			return billing.PricingPolicy{}, fmt.Errorf("billing.quarter_adjustment: %w", err)
		}
	}
	if len(b.StateRates) > 0 {
		if policy.TaxTable.StateRates, err = parseRateMap(b.StateRates, "billing.state_rates"); err != nil {
			return billing.PricingPolicy{}, err
		}
	}
	if len(b.CustomerOverrides) > 0 {
		if policy.TaxTable.CustomerOverrides, err = parseRateMap(b.CustomerOverrides, "billing.customer_overrides"); err != nil {
			return billing.PricingPolicy{}, err
		}
	}

	if err := policy.Validate(); err != nil {
		return billing.PricingPolicy{}, err
	}
	return policy, nil
}

// parseRateMap parses a string rate map, upper-casing keys. Viper lowercases
// all map keys on read; state codes and customer IDs are upper-case by
// convention, so the upper-cased form is the canonical one.
func parseRateMap(raw map[string]string, section string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal, len(raw))
	for key, value := range raw {
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", section, key, err)
		}
		rates[strings.ToUpper(key)] = rate
	}
	return rates, nil
}

package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("falls back to defaults without a config file", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "billing-engine", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, "stdout", cfg.Log.Output)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Setenv("BILLING_LOG_LEVEL", "debug")
		t.Setenv("BILLING_APP_ENV", "production")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestPricingPolicy(t *testing.T) {
	t.Run("empty billing config yields the legacy defaults", func(t *testing.T) {
		cfg := &Config{}

		policy, err := cfg.PricingPolicy()
		require.NoError(t, err)

		assert.Equal(t, "25.00", policy.MinimumInvoiceAmount.String())
		assert.Equal(t, "10000.00", policy.BulkDiscountThreshold.String())
		assert.True(t, policy.BulkDiscountRate.Equal(decimal.RequireFromString("0.03")))
		assert.True(t, policy.LateFeeMonthlyRate.Equal(decimal.RequireFromString("0.015")))
		assert.Equal(t, 30, policy.LateFeeGraceDays)
		assert.Equal(t, "50000.00", policy.LargeInvoiceThreshold.String())
		assert.True(t, policy.TaxTable.DefaultRate.Equal(decimal.RequireFromString("0.05")))
		assert.True(t, policy.TaxTable.StateRates["CA"].Equal(decimal.RequireFromString("0.0725")))
		assert.True(t, policy.TaxTable.CustomerOverrides["CUST001"].IsZero())
	})

	t.Run("partial config overrides only what it names", func(t *testing.T) {
		cfg := &Config{
			Billing: BillingConfig{
				MinimumInvoiceAmount: "50.00",
				LateFeeGraceDays:     45,
			},
		}

		policy, err := cfg.PricingPolicy()
		require.NoError(t, err)

		assert.Equal(t, "50.00", policy.MinimumInvoiceAmount.String())
		assert.Equal(t, 45, policy.LateFeeGraceDays)
		// Everything else keeps the defaults.
		assert.Equal(t, "10000.00", policy.BulkDiscountThreshold.String())
		assert.True(t, policy.TaxTable.StateRates["CA"].Equal(decimal.RequireFromString("0.0725")))
	})

	t.Run("rate map keys are upper-cased", func(t *testing.T) {
		// Viper lowercases map keys on read; the parsed table must still
		// serve upper-case state codes and customer IDs.
		cfg := &Config{
			Billing: BillingConfig{
				StateRates:        map[string]string{"ca": "0.0725", "ny": "0.08"},
				CustomerOverrides: map[string]string{"cust001": "0"},
			},
		}

		policy, err := cfg.PricingPolicy()
		require.NoError(t, err)

		assert.True(t, policy.TaxTable.StateRates["CA"].Equal(decimal.RequireFromString("0.0725")))
		assert.True(t, policy.TaxTable.StateRates["NY"].Equal(decimal.RequireFromString("0.08")))
		assert.True(t, policy.TaxTable.CustomerOverrides["CUST001"].IsZero())
		assert.NotContains(t, policy.TaxTable.StateRates, "ca")
	})

	t.Run("rejects malformed decimals", func(t *testing.T) {
		cfg := &Config{
			Billing: BillingConfig{BulkDiscountRate: "three percent"},
		}
		_, err := cfg.PricingPolicy()
		assert.Error(t, err)
	})

	t.Run("rejects out-of-range rates", func(t *testing.T) {
		cfg := &Config{
			Billing: BillingConfig{BulkDiscountRate: "1.5"},
		}
		_, err := cfg.PricingPolicy()
		assert.Error(t, err)
	})
}

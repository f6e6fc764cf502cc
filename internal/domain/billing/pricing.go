package billing

import (
	"github.com/acme/billing/internal/domain/shared"
	"github.com/acme/billing/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PricingPolicy carries every business parameter the invoice computations
// depend on. Like TaxTable it is injected configuration: the defaults
// reproduce the legacy constants, but nothing in the engine assumes them.
type PricingPolicy struct {
	// MinimumInvoiceAmount is silently substituted when the summed line
	// totals fall below it. The validation service separately flags such
	// invoices with a warning.
	MinimumInvoiceAmount valueobject.Money
	// BulkDiscountThreshold is the inclusive subtotal at which the bulk
	// discount starts to apply.
	BulkDiscountThreshold valueobject.Money
	// BulkDiscountRate is the discount fraction applied to the subtotal.
	BulkDiscountRate decimal.Decimal
	// LateFeeMonthlyRate is charged on the post-tax total per
	// full-or-partial month past the grace period.
	LateFeeMonthlyRate decimal.Decimal
	// LateFeeGraceDays is the number of days past due before any fee.
	LateFeeGraceDays int
	// LargeInvoiceThreshold triggers a non-blocking warning from the
	// validation service. It never affects pricing.
	LargeInvoiceThreshold valueobject.Money
	// TaxTable drives tax-rate resolution.
	TaxTable TaxTable
}

// DefaultPricingPolicy returns the legacy batch process parameters
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		MinimumInvoiceAmount:  valueobject.MustMoneyFromString("25.00"),
		BulkDiscountThreshold: valueobject.MustMoneyFromString("10000.00"),
		BulkDiscountRate:      decimal.RequireFromString("0.03"),
		LateFeeMonthlyRate:    decimal.RequireFromString("0.015"),
		LateFeeGraceDays:      30,
		LargeInvoiceThreshold: valueobject.MustMoneyFromString("50000.00"),
		TaxTable:              DefaultTaxTable(),
	}
}

// Validate checks the policy parameters for internal consistency
func (p PricingPolicy) Validate() error {
	one := decimal.NewFromInt(1)
	if p.BulkDiscountRate.IsNegative() || p.BulkDiscountRate.GreaterThan(one) {
		return shared.NewDomainError("INVALID_POLICY", "Bulk discount rate must be between 0 and 1")
	}
	if p.LateFeeMonthlyRate.IsNegative() || p.LateFeeMonthlyRate.GreaterThan(one) {
		return shared.NewDomainError("INVALID_POLICY", "Late fee monthly rate must be between 0 and 1")
	}
	if p.LateFeeGraceDays < 0 {
		return shared.NewDomainError("INVALID_POLICY", "Late fee grace days cannot be negative")
	}
	return p.TaxTable.Validate()
}

package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/acme/billing/internal/domain/shared"
	"github.com/acme/billing/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TaxRule is an immutable pair of a tax rate and a human-readable
// description of where the rate came from, kept for audit trails.
type TaxRule struct {
	rate        decimal.Decimal
	description string
}

// NewTaxRule creates a TaxRule. The rate must lie in [0, 1].
func NewTaxRule(rate decimal.Decimal, description string) (TaxRule, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return TaxRule{}, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}
	return TaxRule{rate: rate, description: description}, nil
}

// Rate returns the tax rate
func (r TaxRule) Rate() decimal.Decimal {
	return r.rate
}

// Description returns the provenance of the rate, e.g.
// "CA Sales Tax + Q4 Adjustment" or "Customer Override (CUST447)"
func (r TaxRule) Description() string {
	return r.description
}

// Apply returns the rounded tax amount for the given taxable amount
func (r TaxRule) Apply(amount valueobject.Money) valueobject.Money {
	return amount.MustMultiply(r.rate)
}

// WithAddedRate derives a new rule with the delta added to the rate and the
// label appended to the description. Used for the Q4 adjustment.
func (r TaxRule) WithAddedRate(delta decimal.Decimal, label string) TaxRule {
	return TaxRule{
		rate:        r.rate.Add(delta),
		description: r.description + " + " + label,
	}
}

// TaxTable holds the business parameters for tax resolution. It is injected
// into the resolver rather than compiled in, so alternate tables can be
// configured and tested without a rebuild.
type TaxTable struct {
	// StateRates maps upper-cased 2-letter state codes to sales tax rates.
	StateRates map[string]decimal.Decimal
	// DefaultRate applies when the state is blank or not in the table.
	DefaultRate decimal.Decimal
	// QuarterAdjustment is added (not multiplied) to the resolved state rate
	// for invoices dated October through December. Overrides are exempt.
	QuarterAdjustment decimal.Decimal
	// CustomerOverrides maps customer IDs to negotiated rates. A zero rate
	// marks the customer tax exempt.
	CustomerOverrides map[string]decimal.Decimal
}

// DefaultTaxTable returns the rate table the legacy batch process shipped
// with. Finance updates these quarterly via configuration.
func DefaultTaxTable() TaxTable {
	return TaxTable{
		StateRates: map[string]decimal.Decimal{
			"CA": decimal.RequireFromString("0.0725"),
			"NY": decimal.RequireFromString("0.08"),
			"TX": decimal.RequireFromString("0.0625"),
			"FL": decimal.RequireFromString("0.06"),
			"WA": decimal.RequireFromString("0.065"),
		},
		DefaultRate:       decimal.RequireFromString("0.05"),
		QuarterAdjustment: decimal.RequireFromString("0.005"),
		CustomerOverrides: map[string]decimal.Decimal{
			"CUST001": decimal.Zero,			// tax exempt - nonprofit
			"CUST447": decimal.RequireFromString("0.045"),	// negotiated rate
			"CUST892": decimal.RequireFromString("0.0725"),	// always CA rate
		},
	}
}

// Validate checks that every rate in the table lies in [0, 1] and the
// quarter adjustment is non-negative.
func (t TaxTable) Validate() error {
	one := decimal.NewFromInt(1)
	for state, rate := range t.StateRates {
		if rate.IsNegative() || rate.GreaterThan(one) {
			return shared.NewDomainError("INVALID_TAX_RATE", fmt.Sprintf("State rate for %s must be between 0 and 1", state))
		}
	}
	if t.DefaultRate.IsNegative() || t.DefaultRate.GreaterThan(one) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Default rate must be between 0 and 1")
	}
	if t.QuarterAdjustment.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Quarter adjustment cannot be negative")
	}
	for id, rate := range t.CustomerOverrides {
		if rate.IsNegative() || rate.GreaterThan(one) {
			return shared.NewDomainError("INVALID_TAX_RATE", fmt.Sprintf("Override rate for %s must be between 0 and 1", id))
		}
	}
	return nil
}

// TaxRateResolver resolves the effective tax rule for an invoice.
// Resolution is pure and idempotent: the same (state, customer, date)
// inputs always yield the same rule.
type TaxRateResolver struct {
	table TaxTable
}

// NewTaxRateResolver creates a resolver over the given table
func NewTaxRateResolver(table TaxTable) *TaxRateResolver {
	return &TaxRateResolver{table: table}
}

// Resolve returns the effective tax rule, evaluated in strict priority order:
//  1. an override carried on the customer record, verbatim
//  2. an override from the table for the customer ID, verbatim
//  3. the state rate (case-insensitive lookup), else the default rate,
//     with the quarter adjustment added for invoices dated Oct-Dec
//
// Overrides, including the 0% exempt marker, are never quarter-adjusted.
func (r *TaxRateResolver) Resolve(state string, customer Customer, invoiceDate time.Time) TaxRule {
	if override, ok := customer.TaxOverride(); ok {
		return TaxRule{
			rate:        override,
			description: fmt.Sprintf("Customer Override (%s)", customer.ID()),
		}
	}
	if override, ok := r.table.CustomerOverrides[customer.ID()]; ok {
		return TaxRule{
			rate:        override,
			description: fmt.Sprintf("Customer Override (%s)", customer.ID()),
		}
	}

	rule := r.stateRule(state)
	if isFourthQuarter(invoiceDate) {
		rule = rule.WithAddedRate(r.table.QuarterAdjustment, "Q4 Adjustment")
	}
	return rule
}

func (r *TaxRateResolver) stateRule(state string) TaxRule {
	code := strings.ToUpper(strings.TrimSpace(state))
	if rate, ok := r.table.StateRates[code]; ok {
		return TaxRule{rate: rate, description: code + " Sales Tax"}
	}
	return TaxRule{rate: r.table.DefaultRate, description: "Default Tax Rate"}
}

// isFourthQuarter reports whether the date falls in October through December
// inclusive. Boundaries: Oct 1 and Dec 31 qualify, Sep 30 and Jan 1 do not.
func isFourthQuarter(date time.Time) bool {
	return date.Month() >= time.October
}

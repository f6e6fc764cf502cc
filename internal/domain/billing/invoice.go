package billing

import (
	"strings"
	"time"

	"github.com/acme/billing/internal/domain/shared"
	"github.com/acme/billing/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// daysPerFeeMonth is the fixed month length the legacy process used for
// late-fee accrual. Calendar months are irrelevant here.
const daysPerFeeMonth = 30

// Invoice is the valuation aggregate: a customer, at least one line item,
// the invoice and due dates, and the pricing policy in force when it was
// created.
//
// Every field is fixed at construction; slice-valued state is copied in and
// copied out, so no caller can alias internal state. Derived monetary values
// are never stored - subtotal, discount, tax, total and late fees are
// recomputed from current state on every call, which keeps the aggregate
// safe to reuse across repeated evaluations such as a daily late-fee sweep.
type Invoice struct {
	entity      shared.BaseEntity
	number      string
	customer    Customer
	items       []LineItem
	invoiceDate time.Time
	dueDate     time.Time
	policy      PricingPolicy
}

// NewInvoice constructs an Invoice, failing fast on the first structural
// violation. Callers wanting every problem reported at once should run the
// input through ValidationService first.
//
// Invoice-number uniqueness is the caller's concern, enforced through the
// repository existence check before construction.
func NewInvoice(
	number string,
	customer Customer,
	items []LineItem,
	invoiceDate time.Time,
	dueDate time.Time,
	policy PricingPolicy,
) (*Invoice, error) {
	number = strings.TrimSpace(number)

	if number == "" {
		return nil, shared.NewDomainError("INVOICE_VALIDATION", "Invoice number cannot be blank")
	}
	if customer.IsZero() {
		return nil, shared.NewDomainError("INVOICE_VALIDATION", "Customer is required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVOICE_VALIDATION", "Invoice must have at least one line item")
	}
	if invoiceDate.IsZero() {
		return nil, shared.NewDomainError("INVOICE_VALIDATION", "Invoice date is required")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVOICE_VALIDATION", "Due date is required")
	}
	if dueDate.Before(invoiceDate) {
		return nil, shared.NewDomainError("INVOICE_VALIDATION", "Due date cannot be before invoice date")
	}
	for _, item := range items {
		if item.UnitPrice().Amount().IsNegative() {
			return nil, shared.NewDomainError("INVOICE_VALIDATION", "Line item unit price cannot be negative")
		}
	}

	copied := make([]LineItem, len(items))
	copy(copied, items)

	return &Invoice{
		entity:      shared.NewBaseEntity(),
		number:      number,
		customer:    customer,
		items:       copied,
		invoiceDate: invoiceDate,
		dueDate:     dueDate,
		policy:      policy,
	}, nil
}

// ID returns the internal aggregate identity
func (inv *Invoice) ID() uuid.UUID {
	return inv.entity.GetID()
}

// CreatedAt returns the construction timestamp, set once
func (inv *Invoice) CreatedAt() time.Time {
	return inv.entity.GetCreatedAt()
}

// Number returns the caller-assigned invoice number
func (inv *Invoice) Number() string {
	return inv.number
}

// Customer returns the billed party
func (inv *Invoice) Customer() Customer {
	return inv.customer
}

// LineItems returns a copy of the ordered line items
func (inv *Invoice) LineItems() []LineItem {
	items := make([]LineItem, len(inv.items))
	copy(items, inv.items)
	return items
}

// InvoiceDate returns the invoice date
func (inv *Invoice) InvoiceDate() time.Time {
	return inv.invoiceDate
}

// DueDate returns the due date
func (inv *Invoice) DueDate() time.Time {
	return inv.dueDate
}

// Policy returns the pricing policy in force for this invoice
func (inv *Invoice) Policy() PricingPolicy {
	return inv.policy
}

// Subtotal returns the sum of all line totals, silently floored at the
// policy minimum. The floor is intentional legacy behavior, not a rejection;
// the validation service flags below-minimum invoices with a warning.
func (inv *Invoice) Subtotal() valueobject.Money {
	sum := valueobject.Zero()
	for _, item := range inv.items {
		sum = sum.Add(item.LineTotal())
	}
	if sum.LessThan(inv.policy.MinimumInvoiceAmount) {
		return inv.policy.MinimumInvoiceAmount
	}
	return sum
}

// BulkDiscount returns subtotal x discount rate when the subtotal meets the
// threshold (inclusive), otherwise zero.
func (inv *Invoice) BulkDiscount() valueobject.Money {
	subtotal := inv.Subtotal()
	if subtotal.GreaterThanOrEqual(inv.policy.BulkDiscountThreshold) {
		return subtotal.MustMultiply(inv.policy.BulkDiscountRate)
	}
	return valueobject.Zero()
}

// DiscountedSubtotal returns subtotal minus bulk discount. The discount is a
// fraction of the subtotal, so the result is always non-negative.
func (inv *Invoice) DiscountedSubtotal() valueobject.Money {
	return inv.Subtotal().MustSubtract(inv.BulkDiscount())
}

// EffectiveTaxRule returns the resolved tax rule for this invoice, carrying
// the provenance string for audit purposes.
func (inv *Invoice) EffectiveTaxRule() TaxRule {
	resolver := NewTaxRateResolver(inv.policy.TaxTable)
	return resolver.Resolve(inv.customer.Address().State(), inv.customer, inv.invoiceDate)
}

// Tax applies the effective tax rule to the discounted subtotal. The bulk
// discount reduces the taxable amount, so discount always precedes tax.
func (inv *Invoice) Tax() valueobject.Money {
	return inv.EffectiveTaxRule().Apply(inv.DiscountedSubtotal())
}

// Total returns discounted subtotal plus tax
func (inv *Invoice) Total() valueobject.Money {
	return inv.DiscountedSubtotal().Add(inv.Tax())
}

// LateFee returns the fee accrued as of the given date.
//
// Days past due are whole days elapsed since the due date. Within the grace
// period the fee is zero; from the first day at or past it, one fee month
// accrues per started 30-day block (day 30 = 1 month, day 60 = 2, day 91 = 3).
// The fee is total x monthly rate x months late, uncapped.
func (inv *Invoice) LateFee(asOf time.Time) valueobject.Money {
	daysPastDue := int(asOf.Sub(inv.dueDate).Hours() / 24)
	if daysPastDue < inv.policy.LateFeeGraceDays {
		return valueobject.Zero()
	}

	monthsLate := (daysPastDue-inv.policy.LateFeeGraceDays)/daysPerFeeMonth + 1
	rate := inv.policy.LateFeeMonthlyRate.Mul(decimal.NewFromInt(int64(monthsLate)))
	return inv.Total().MustMultiply(rate)
}

// TotalWithLateFee returns the effective amount due as of the given date
func (inv *Invoice) TotalWithLateFee(asOf time.Time) valueobject.Money {
	return inv.Total().Add(inv.LateFee(asOf))
}

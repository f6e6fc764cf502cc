package billing

import (
	"strings"

	"github.com/acme/billing/internal/domain/shared"
	"github.com/acme/billing/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LineItem is a value object representing one invoiced line.
// It is immutable - description, quantity and unit price are fixed at
// construction, and the line total is derived on demand.
type LineItem struct {
	description string
	quantity    int64
	unitPrice   valueobject.Money
}

// NewLineItem creates a new LineItem. The description must be non-blank and
// the quantity positive; the unit price is non-negative by construction of
// Money.
func NewLineItem(description string, quantity int64, unitPrice valueobject.Money) (LineItem, error) {
	description = strings.TrimSpace(description)

	if description == "" {
		return LineItem{}, shared.NewDomainError("INVALID_LINE_ITEM", "Description cannot be blank")
	}
	if quantity <= 0 {
		return LineItem{}, shared.NewDomainError("INVALID_LINE_ITEM", "Quantity must be positive")
	}

	return LineItem{
		description: description,
		quantity:    quantity,
		unitPrice:   unitPrice,
	}, nil
}

// Description returns the line description
func (li LineItem) Description() string {
	return li.description
}

// Quantity returns the invoiced quantity
func (li LineItem) Quantity() int64 {
	return li.quantity
}

// UnitPrice returns the unit price
func (li LineItem) UnitPrice() valueobject.Money {
	return li.unitPrice
}

// LineTotal returns unit price x quantity, rounded to the cent
func (li LineItem) LineTotal() valueobject.Money {
	return li.unitPrice.MustMultiply(decimal.NewFromInt(li.quantity))
}

// Equals returns true if both line items are equal
func (li LineItem) Equals(other LineItem) bool {
	return li.description == other.description &&
		li.quantity == other.quantity &&
		li.unitPrice.Equals(other.unitPrice)
}

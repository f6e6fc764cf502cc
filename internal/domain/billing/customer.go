package billing

import (
	"strings"

	"github.com/acme/billing/internal/domain/shared"
	"github.com/acme/billing/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Customer is a value object identifying the billed party.
// It is immutable - all fields are set at construction.
//
// A customer may carry a negotiated tax override rate. An override of zero
// marks the customer as tax exempt; any override supersedes the state rate
// table and is never adjusted by the Q4 rule.
type Customer struct {
	id          string
	name        string
	address     valueobject.Address
	taxOverride *decimal.Decimal
}

// NewCustomer creates a new Customer. ID and name are required and must be
// non-blank after trimming; the address must not be empty.
func NewCustomer(id, name string, address valueobject.Address) (Customer, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	if id == "" {
		return Customer{}, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be blank")
	}
	if name == "" {
		return Customer{}, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be blank")
	}
	if address.IsEmpty() {
		return Customer{}, shared.NewDomainError("INVALID_CUSTOMER", "Customer address is required")
	}

	return Customer{
		id:      id,
		name:    name,
		address: address,
	}, nil
}

// NewCustomerWithTaxOverride creates a Customer carrying a negotiated tax
// override. The override must lie in [0, 1]; zero means tax exempt.
func NewCustomerWithTaxOverride(id, name string, address valueobject.Address, override decimal.Decimal) (Customer, error) {
	c, err := NewCustomer(id, name, address)
	if err != nil {
		return Customer{}, err
	}
	if override.IsNegative() || override.GreaterThan(decimal.NewFromInt(1)) {
		return Customer{}, shared.NewDomainError("INVALID_CUSTOMER", "Tax override must be between 0 and 1")
	}
	c.taxOverride = &override
	return c, nil
}

// ID returns the customer ID
func (c Customer) ID() string {
	return c.id
}

// Name returns the customer name
func (c Customer) Name() string {
	return c.name
}

// Address returns the billing address
func (c Customer) Address() valueobject.Address {
	return c.address
}

// TaxOverride returns the negotiated override rate, or false if none is set
func (c Customer) TaxOverride() (decimal.Decimal, bool) {
	if c.taxOverride == nil {
		return decimal.Decimal{}, false
	}
	return *c.taxOverride, true
}

// IsExempt returns true if the customer carries a zero tax override
func (c Customer) IsExempt() bool {
	return c.taxOverride != nil && c.taxOverride.IsZero()
}

// IsZero returns true if the customer is the zero value
func (c Customer) IsZero() bool {
	return c.id == "" && c.name == "" && c.address.IsEmpty()
}

// Equals returns true if both customers are equal
func (c Customer) Equals(other Customer) bool {
	if c.id != other.id || c.name != other.name || !c.address.Equals(other.address) {
		return false
	}
	if (c.taxOverride == nil) != (other.taxOverride == nil) {
		return false
	}
	return c.taxOverride == nil || c.taxOverride.Equal(*other.taxOverride)
}

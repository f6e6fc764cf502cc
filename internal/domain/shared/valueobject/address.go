package valueobject

import (
	"fmt"
	"strings"

	"github.com/acme/billing/internal/domain/shared"
)

// Address is a value object representing a US billing address.
// It is immutable - all fields are set at construction and validated there.
// The state code is stored upper-cased so downstream rate lookups are
// case-insensitive; mapping full state names to 2-letter codes is an
// ingestion concern, not handled here.
type Address struct {
	street     string
	city       string
	state      string
	postalCode string
}

// NewAddress creates a new Address. All four fields are required and must be
// non-blank after trimming.
func NewAddress(street, city, state, postalCode string) (Address, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	state = strings.ToUpper(strings.TrimSpace(state))
	postalCode = strings.TrimSpace(postalCode)

	if street == "" {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "Street cannot be blank")
	}
	if city == "" {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "City cannot be blank")
	}
	if state == "" {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "State cannot be blank")
	}
	if postalCode == "" {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "Postal code cannot be blank")
	}

	return Address{
		street:     street,
		city:       city,
		state:      state,
		postalCode: postalCode,
	}, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(street, city, state, postalCode string) Address {
	addr, err := NewAddress(street, city, state, postalCode)
	if err != nil {
		panic(err)
	}
	return addr
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// State returns the upper-cased state code
func (a Address) State() string {
	return a.state
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// IsEmpty returns true if the address is the zero value
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == "" && a.state == "" && a.postalCode == ""
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a.street == other.street &&
		a.city == other.city &&
		a.state == other.state &&
		a.postalCode == other.postalCode
}

// String returns the single-line formatted address
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	return fmt.Sprintf("%s, %s, %s %s", a.street, a.city, a.state, a.postalCode)
}

package valueobject

import (
	"testing"

	"github.com/acme/billing/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("creates address with all fields", func(t *testing.T) {
		addr, err := NewAddress("123 Main St", "Springfield", "CA", "94105")
		require.NoError(t, err)
		assert.Equal(t, "123 Main St", addr.Street())
		assert.Equal(t, "Springfield", addr.City())
		assert.Equal(t, "CA", addr.State())
		assert.Equal(t, "94105", addr.PostalCode())
	})

	t.Run("trims whitespace and upper-cases the state", func(t *testing.T) {
		addr, err := NewAddress("  123 Main St ", " Springfield ", " ca ", " 94105 ")
		require.NoError(t, err)
		assert.Equal(t, "123 Main St", addr.Street())
		assert.Equal(t, "CA", addr.State())
	})

	t.Run("rejects blank required fields", func(t *testing.T) {
		cases := []struct {
			name                            string
			street, city, state, postalCode string
		}{
			{"blank street", "  ", "Springfield", "CA", "94105"},
			{"blank city", "123 Main St", "", "CA", "94105"},
			{"blank state", "123 Main St", "Springfield", "", "94105"},
			{"blank postal code", "123 Main St", "Springfield", "CA", "\t"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewAddress(tc.street, tc.city, tc.state, tc.postalCode)
				require.Error(t, err)

				var derr *shared.DomainError
				require.ErrorAs(t, err, &derr)
				assert.Equal(t, "INVALID_ADDRESS", derr.Code)
			})
		}
	})
}

func TestAddressEquals(t *testing.T) {
	a := MustNewAddress("123 Main St", "Springfield", "CA", "94105")
	b := MustNewAddress("123 Main St", "Springfield", "ca", "94105")
	c := MustNewAddress("456 Oak Ave", "Springfield", "CA", "94105")

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestAddressString(t *testing.T) {
	addr := MustNewAddress("123 Main St", "Springfield", "CA", "94105")
	assert.Equal(t, "123 Main St, Springfield, CA 94105", addr.String())
	assert.Empty(t, Address{}.String())
	assert.True(t, Address{}.IsEmpty())
	assert.False(t, addr.IsEmpty())
}

package valueobject

import (
	"testing"

	"github.com/acme/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount", func(t *testing.T) {
		m, err := NewMoney(decimal.RequireFromString("100.50"))
		require.NoError(t, err)
		assert.Equal(t, "100.50", m.String())
	})

	t.Run("rounds to the cent at construction", func(t *testing.T) {
		m, err := NewMoneyFromString("33.333")
		require.NoError(t, err)
		assert.Equal(t, "33.33", m.String())
	})

	t.Run("rounds half up", func(t *testing.T) {
		m, err := NewMoneyFromString("1.005")
		require.NoError(t, err)
		assert.Equal(t, "1.01", m.String())
	})

	t.Run("rejects negative amount with typed error", func(t *testing.T) {
		_, err := NewMoney(decimal.RequireFromString("-0.01"))
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_AMOUNT", derr.Code)
	})

	t.Run("accepts zero", func(t *testing.T) {
		m, err := NewMoney(decimal.Zero)
		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45")
		require.NoError(t, err)
		assert.Equal(t, "123.45", m.String())
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number")
		assert.Error(t, err)
	})

	t.Run("negative string", func(t *testing.T) {
		_, err := NewMoneyFromString("-5.00")
		assert.ErrorIs(t, err, shared.ErrNegativeAmount)
	})
}

func TestNewMoneyFromFloat(t *testing.T) {
	m, err := NewMoneyFromFloat(99.99)
	require.NoError(t, err)
	assert.Equal(t, "99.99", m.String())
}

func TestMustMoneyFromString(t *testing.T) {
	assert.Equal(t, "25.00", MustMoneyFromString("25.00").String())
	assert.Panics(t, func() { MustMoneyFromString("-1") })
}

func TestMoneyAdd(t *testing.T) {
	m1 := MustMoneyFromString("100.50")
	m2 := MustMoneyFromString("50.25")
	assert.Equal(t, "150.75", m1.Add(m2).String())
}

func TestMoneySubtract(t *testing.T) {
	t.Run("subtracts smaller amount", func(t *testing.T) {
		result, err := MustMoneyFromString("100.00").Subtract(MustMoneyFromString("30.00"))
		require.NoError(t, err)
		assert.Equal(t, "70.00", result.String())
	})

	t.Run("rejects negative result", func(t *testing.T) {
		_, err := MustMoneyFromString("30.00").Subtract(MustMoneyFromString("100.00"))
		assert.ErrorIs(t, err, shared.ErrNegativeAmount)
	})

	t.Run("must subtract panics on negative result", func(t *testing.T) {
		assert.Panics(t, func() {
			MustMoneyFromString("30.00").MustSubtract(MustMoneyFromString("100.00"))
		})
	})
}

func TestMoneyMultiply(t *testing.T) {
	t.Run("rounds the product to the cent", func(t *testing.T) {
		// 33.333 is held as 33.33; 33.33 x 3.333 = 111.08889 -> 111.09.
		// Rounding happens at every step, not only at the end.
		m := MustMoneyFromString("33.333")
		result, err := m.Multiply(decimal.RequireFromString("3.333"))
		require.NoError(t, err)
		assert.Equal(t, "111.09", result.String())
	})

	t.Run("applies a tax rate exactly", func(t *testing.T) {
		m := MustMoneyFromString("100.00")
		result, err := m.Multiply(decimal.RequireFromString("0.0725"))
		require.NoError(t, err)
		assert.Equal(t, "7.25", result.String())
	})

	t.Run("rejects negative factor", func(t *testing.T) {
		_, err := MustMoneyFromString("10.00").Multiply(decimal.RequireFromString("-1"))
		assert.ErrorIs(t, err, shared.ErrNegativeAmount)
	})
}

func TestMoneyComparisons(t *testing.T) {
	small := MustMoneyFromString("9999.99")
	big := MustMoneyFromString("10000.00")

	assert.True(t, small.LessThan(big))
	assert.False(t, big.LessThan(small))
	assert.True(t, big.GreaterThanOrEqual(small))
	assert.True(t, big.GreaterThanOrEqual(big))
	assert.True(t, big.Equals(MustMoneyFromString("10000.00")))
	assert.False(t, big.Equals(small))
	assert.Equal(t, -1, small.Cmp(big))
	assert.Equal(t, 0, big.Cmp(big))
	assert.Equal(t, 1, big.Cmp(small))
}

func TestMoneyZero(t *testing.T) {
	z := Zero()
	assert.True(t, z.IsZero())
	assert.False(t, z.IsPositive())
	assert.Equal(t, "0.00", z.String())
}

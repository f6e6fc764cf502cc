package billing

import (
	"context"
	"testing"
	"time"

	"github.com/acme/billing/internal/domain/billing"
	"github.com/acme/billing/internal/domain/shared"
	"github.com/acme/billing/internal/infrastructure/event"
	"github.com/acme/billing/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() (*InvoiceService, *persistence.MemoryInvoiceRepository, *event.MemoryPublisher) {
	repo := persistence.NewMemoryInvoiceRepository()
	publisher := event.NewMemoryPublisher(zap.NewNop())
	svc := NewInvoiceService(repo, publisher, billing.DefaultPricingPolicy(), zap.NewNop())
	return svc, repo, publisher
}

func sampleInput(number string) billing.InvoiceInput {
	return billing.InvoiceInput{
		Number: number,
		Customer: billing.CustomerInput{
			ID:   "CUST123",
			Name: "Acme Industrial",
			Address: billing.AddressInput{
				Street:     "123 Main St",
				City:       "Springfield",
				State:      "CA",
				PostalCode: "94105",
			},
		},
		Items: []billing.LineItemInput{
			{Description: "Widget A", Quantity: 1, UnitPrice: decimal.RequireFromString("100.00")},
		},
		InvoiceDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("creates, persists and announces the invoice", func(t *testing.T) {
		svc, repo, publisher := newTestService()

		invoice, err := svc.CreateInvoice(ctx, sampleInput("INV-1001"))
		require.NoError(t, err)
		assert.Equal(t, "107.25", invoice.Total().String())

		stored, err := repo.FindByNumber(ctx, "INV-1001")
		require.NoError(t, err)
		assert.Equal(t, invoice.ID(), stored.ID())

		events := publisher.EventsOfType(billing.EventTypeInvoiceCreated)
		require.Len(t, events, 1)
		created, ok := events[0].(*billing.InvoiceCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, "INV-1001", created.InvoiceNumber)
		assert.Equal(t, "CUST123", created.CustomerID)
		assert.Equal(t, "107.25", created.Total)
		assert.Equal(t, "CA Sales Tax", created.TaxRule)
	})

	t.Run("rejects duplicate invoice numbers", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.CreateInvoice(ctx, sampleInput("INV-1001"))
		require.NoError(t, err)

		_, err = svc.CreateInvoice(ctx, sampleInput("INV-1001"))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("returns every blocking violation at once", func(t *testing.T) {
		svc, repo, _ := newTestService()

		input := sampleInput("INV-1001")
		input.Customer.ID = ""
		input.Items[0].Quantity = 0

		_, err := svc.CreateInvoice(ctx, input)
		require.Error(t, err)

		var vErr *ValidationFailedError
		require.ErrorAs(t, err, &vErr)
		assert.Len(t, vErr.Result.FieldViolations(), 2)

		exists, err := repo.Exists(ctx, "INV-1001")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("warnings do not block creation", func(t *testing.T) {
		svc, _, _ := newTestService()

		input := sampleInput("INV-1002")
		input.Items = []billing.LineItemInput{
			{Description: "Widget A", Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
		}

		invoice, err := svc.CreateInvoice(ctx, input)
		require.NoError(t, err)
		// Subtotal 10.00 floored to the 25.00 minimum.
		assert.Equal(t, "25.00", invoice.Subtotal().String())
	})

	t.Run("carried tax override flows through", func(t *testing.T) {
		svc, _, _ := newTestService()

		override := decimal.Zero
		input := sampleInput("INV-1003")
		input.Customer.ID = "CUST555"
		input.Customer.TaxOverride = &override

		invoice, err := svc.CreateInvoice(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "0.00", invoice.Tax().String())
		assert.Equal(t, "Customer Override (CUST555)", invoice.EffectiveTaxRule().Description())
	})
}

func TestGetValuation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.CreateInvoice(ctx, sampleInput("INV-1001"))
	require.NoError(t, err)

	t.Run("values the invoice as of a date", func(t *testing.T) {
		asOf := time.Date(2024, time.August, 19, 0, 0, 0, 0, time.UTC) // 35 days past due
		dto, err := svc.GetValuation(ctx, "INV-1001", asOf)
		require.NoError(t, err)

		assert.Equal(t, "INV-1001", dto.InvoiceNumber)
		assert.Equal(t, "CUST123", dto.CustomerID)
		assert.Equal(t, "100.00", dto.Subtotal)
		assert.Equal(t, "0.00", dto.BulkDiscount)
		assert.Equal(t, "100.00", dto.DiscountedSubtotal)
		assert.Equal(t, "7.25", dto.Tax)
		assert.Equal(t, "CA Sales Tax", dto.TaxRule)
		assert.Equal(t, "107.25", dto.Total)
		assert.Equal(t, "1.61", dto.LateFee)
		assert.Equal(t, "108.86", dto.AmountDue)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		_, err := svc.GetValuation(ctx, "INV-9999", time.Now())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestAssessLateFees(t *testing.T) {
	ctx := context.Background()
	svc, _, publisher := newTestService()

	// INV-1001 due 2024-07-15; INV-2001 due a month later, still in grace at
	// the sweep date.
	_, err := svc.CreateInvoice(ctx, sampleInput("INV-1001"))
	require.NoError(t, err)

	later := sampleInput("INV-2001")
	later.InvoiceDate = time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)
	later.DueDate = time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)
	_, err = svc.CreateInvoice(ctx, later)
	require.NoError(t, err)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2024, time.August, 19, 0, 0, 0, 0, time.UTC)

	assessments, err := svc.AssessLateFees(ctx, from, to, asOf)
	require.NoError(t, err)

	require.Len(t, assessments, 1)
	assert.Equal(t, "INV-1001", assessments[0].InvoiceNumber)
	assert.Equal(t, "1.61", assessments[0].LateFee)
	assert.Equal(t, "108.86", assessments[0].AmountDue)

	events := publisher.EventsOfType(billing.EventTypeInvoiceProcessed)
	require.Len(t, events, 1)
	processed, ok := events[0].(*billing.InvoiceProcessedEvent)
	require.True(t, ok)
	assert.Equal(t, "INV-1001", processed.InvoiceNumber)
	assert.Equal(t, "1.61", processed.LateFee)

	t.Run("empty range yields no assessments", func(t *testing.T) {
		assessments, err := svc.AssessLateFees(ctx, to.AddDate(1, 0, 0), to.AddDate(2, 0, 0), asOf)
		require.NoError(t, err)
		assert.Empty(t, assessments)
	})
}

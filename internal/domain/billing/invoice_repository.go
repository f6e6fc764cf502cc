package billing

import (
	"context"
	"time"
)

// InvoiceRepository defines the persistence port for invoice aggregates.
// The engine only consumes this interface; durable storage lives outside
// this module.
type InvoiceRepository interface {
	// Save persists a new invoice
	Save(ctx context.Context, invoice *Invoice) error

	// FindByNumber retrieves an invoice by its business key.
	// Returns shared.ErrNotFound if no invoice carries the number.
	FindByNumber(ctx context.Context, number string) (*Invoice, error)

	// FindByCustomer retrieves all invoices for a customer
	FindByCustomer(ctx context.Context, customerID string) ([]*Invoice, error)

	// FindByDateRange retrieves invoices whose invoice date falls within
	// [from, to] inclusive
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*Invoice, error)

	// Exists reports whether an invoice with the given number is already
	// persisted. Consulted before construction to enforce number uniqueness.
	Exists(ctx context.Context, number string) (bool, error)
}

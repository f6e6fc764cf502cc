package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/acme/billing/internal/domain/billing"
	"github.com/acme/billing/internal/domain/shared"
)

// MemoryInvoiceRepository is an in-process implementation of the invoice
// repository port, keyed by invoice number. Durable storage is outside this
// module; this adapter backs the application service and tests.
//
// Aggregates are immutable after construction, so storing and handing out
// pointers is safe for concurrent readers.
type MemoryInvoiceRepository struct {
	mu       sync.RWMutex
	byNumber map[string]*billing.Invoice
}

// NewMemoryInvoiceRepository creates an empty repository
func NewMemoryInvoiceRepository() *MemoryInvoiceRepository {
	return &MemoryInvoiceRepository{
		byNumber: make(map[string]*billing.Invoice),
	}
}

// Save persists a new invoice. Duplicate numbers are rejected with
// shared.ErrAlreadyExists.
func (r *MemoryInvoiceRepository) Save(_ context.Context, invoice *billing.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byNumber[invoice.Number()]; ok {
		return shared.ErrAlreadyExists
	}
	r.byNumber[invoice.Number()] = invoice
	return nil
}

// FindByNumber retrieves an invoice by its business key
func (r *MemoryInvoiceRepository) FindByNumber(_ context.Context, number string) (*billing.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	invoice, ok := r.byNumber[number]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return invoice, nil
}

// FindByCustomer retrieves all invoices for a customer, ordered by number
func (r *MemoryInvoiceRepository) FindByCustomer(_ context.Context, customerID string) ([]*billing.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var invoices []*billing.Invoice
	for _, invoice := range r.byNumber {
		if invoice.Customer().ID() == customerID {
			invoices = append(invoices, invoice)
		}
	}
	sortByNumber(invoices)
	return invoices, nil
}

// FindByDateRange retrieves invoices dated within [from, to] inclusive,
// ordered by number
func (r *MemoryInvoiceRepository) FindByDateRange(_ context.Context, from, to time.Time) ([]*billing.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var invoices []*billing.Invoice
	for _, invoice := range r.byNumber {
		date := invoice.InvoiceDate()
		if !date.Before(from) && !date.After(to) {
			invoices = append(invoices, invoice)
		}
	}
	sortByNumber(invoices)
	return invoices, nil
}

// Exists reports whether an invoice with the given number is persisted
func (r *MemoryInvoiceRepository) Exists(_ context.Context, number string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byNumber[number]
	return ok, nil
}

// sortByNumber keeps query results deterministic regardless of map order
func sortByNumber(invoices []*billing.Invoice) {
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].Number() < invoices[j].Number()
	})
}

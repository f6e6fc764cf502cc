package billing

import (
	"time"

	"github.com/acme/billing/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceCreated   = "InvoiceCreated"
	EventTypeInvoiceProcessed = "InvoiceProcessed"
)

// InvoiceCreatedEvent is published when a new invoice passes validation and
// is persisted
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	CustomerID    string `json:"customer_id"`
	Subtotal      string `json:"subtotal"`
	Tax           string `json:"tax"`
	Total         string `json:"total"`
	TaxRule       string `json:"tax_rule"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, invoice.ID()),
		InvoiceNumber:   invoice.Number(),
		CustomerID:      invoice.Customer().ID(),
		Subtotal:        invoice.Subtotal().String(),
		Tax:             invoice.Tax().String(),
		Total:           invoice.Total().String(),
		TaxRule:         invoice.EffectiveTaxRule().Description(),
	}
}

// InvoiceProcessedEvent is published when a late-fee sweep assesses a fee
// against an invoice
type InvoiceProcessedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string    `json:"invoice_number"`
	CustomerID    string    `json:"customer_id"`
	AsOf          time.Time `json:"as_of"`
	LateFee       string    `json:"late_fee"`
	AmountDue     string    `json:"amount_due"`
}

// NewInvoiceProcessedEvent creates a new InvoiceProcessedEvent
func NewInvoiceProcessedEvent(invoice *Invoice, asOf time.Time) *InvoiceProcessedEvent {
	return &InvoiceProcessedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceProcessed, AggregateTypeInvoice, invoice.ID()),
		InvoiceNumber:   invoice.Number(),
		CustomerID:      invoice.Customer().ID(),
		AsOf:            asOf,
		LateFee:         invoice.LateFee(asOf).String(),
		AmountDue:       invoice.TotalWithLateFee(asOf).String(),
	}
}

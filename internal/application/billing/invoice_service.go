package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/acme/billing/internal/domain/billing"
	"github.com/acme/billing/internal/domain/shared"
	"github.com/acme/billing/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ValidationFailedError is returned when invoice input fails accumulate-all
// validation. It carries the full validation result so callers can report
// every violation, not just the first.
type ValidationFailedError struct {
	Result billing.ValidationResult
}

// Error implements the error interface
func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("invoice validation failed: %d field violation(s), %d blocking rule violation(s)",
		len(e.Result.FieldViolations()), len(e.Result.Errors()))
}

// InvoiceValuationDTO is the read-side projection of an invoice valuation.
// Monetary values are fixed two-decimal strings so downstream consumers see
// byte-exact results.
type InvoiceValuationDTO struct {
	InvoiceNumber      string    `json:"invoice_number"`
	CustomerID         string    `json:"customer_id"`
	Subtotal           string    `json:"subtotal"`
	BulkDiscount       string    `json:"bulk_discount"`
	DiscountedSubtotal string    `json:"discounted_subtotal"`
	Tax                string    `json:"tax"`
	TaxRule            string    `json:"tax_rule"`
	Total              string    `json:"total"`
	LateFee            string    `json:"late_fee"`
	AmountDue          string    `json:"amount_due"`
	AsOf               time.Time `json:"as_of"`
}

// LateFeeAssessment is one line of a late-fee sweep report
type LateFeeAssessment struct {
	InvoiceNumber string    `json:"invoice_number"`
	CustomerID    string    `json:"customer_id"`
	DueDate       time.Time `json:"due_date"`
	LateFee       string    `json:"late_fee"`
	AmountDue     string    `json:"amount_due"`
}

// InvoiceService orchestrates invoice creation and valuation over the
// repository and event ports. All pricing arithmetic stays in the domain
// layer; this service validates, wires value objects and reports outcomes.
type InvoiceService struct {
	repo      billing.InvoiceRepository
	publisher shared.EventPublisher
	validator *billing.ValidationService
	policy    billing.PricingPolicy
	logger    *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	repo billing.InvoiceRepository,
	publisher shared.EventPublisher,
	policy billing.PricingPolicy,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		repo:      repo,
		publisher: publisher,
		validator: billing.NewValidationService(policy),
		policy:    policy,
		logger:    logger,
	}
}

// CreateInvoice validates the input, constructs the aggregate, persists it
// and announces the creation.
//
// The duplicate-number check runs before validation so callers retrying a
// submission get ErrAlreadyExists rather than a second validation pass.
// Validation is accumulate-all: a *ValidationFailedError carries every
// blocking violation found. Warnings are logged and do not block.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input billing.InvoiceInput) (*billing.Invoice, error) {
	exists, err := s.repo.Exists(ctx, input.Number)
	if err != nil {
		return nil, fmt.Errorf("checking invoice number: %w", err)
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	result := s.validator.ValidateInvoice(input)
	for _, w := range result.Warnings() {
		s.logger.Warn("invoice validation warning",
			zap.String("invoice_number", input.Number),
			zap.String("rule", w.Rule),
			zap.String("message", w.Message),
			zap.Any("context", w.Context),
		)
	}
	if !result.IsValid() {
		return nil, &ValidationFailedError{Result: result}
	}

	invoice, err := s.buildInvoice(input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("saving invoice %s: %w", invoice.Number(), err)
	}

	event := billing.NewInvoiceCreatedEvent(invoice)
	if err := s.publisher.Publish(ctx, event); err != nil {
		// The invoice is already durable; a publish failure must not undo it.
		s.logger.Error("failed to publish invoice created event",
			zap.String("invoice_number", invoice.Number()),
			zap.Error(err),
		)
	}

	s.logger.Info("invoice created",
		zap.String("invoice_number", invoice.Number()),
		zap.String("customer_id", invoice.Customer().ID()),
		zap.String("total", invoice.Total().String()),
		zap.String("tax_rule", invoice.EffectiveTaxRule().Description()),
	)
	return invoice, nil
}

// GetValuation returns the full valuation of an invoice as of the given date
func (s *InvoiceService) GetValuation(ctx context.Context, number string, asOf time.Time) (*InvoiceValuationDTO, error) {
	invoice, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	return &InvoiceValuationDTO{
		InvoiceNumber:      invoice.Number(),
		CustomerID:         invoice.Customer().ID(),
		Subtotal:           invoice.Subtotal().String(),
		BulkDiscount:       invoice.BulkDiscount().String(),
		DiscountedSubtotal: invoice.DiscountedSubtotal().String(),
		Tax:                invoice.Tax().String(),
		TaxRule:            invoice.EffectiveTaxRule().Description(),
		Total:              invoice.Total().String(),
		LateFee:            invoice.LateFee(asOf).String(),
		AmountDue:          invoice.TotalWithLateFee(asOf).String(),
		AsOf:               asOf,
	}, nil
}

// AssessLateFees runs the daily sweep: every invoice dated within [from, to]
// is revalued as of asOf, and fee-bearing invoices are reported and
// announced. The computation is pure; nothing is mutated or re-persisted.
func (s *InvoiceService) AssessLateFees(ctx context.Context, from, to, asOf time.Time) ([]LateFeeAssessment, error) {
	invoices, err := s.repo.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading invoices for sweep: %w", err)
	}

	var assessments []LateFeeAssessment
	for _, invoice := range invoices {
		fee := invoice.LateFee(asOf)
		if fee.IsZero() {
			continue
		}

		assessments = append(assessments, LateFeeAssessment{
			InvoiceNumber: invoice.Number(),
			CustomerID:    invoice.Customer().ID(),
			DueDate:       invoice.DueDate(),
			LateFee:       fee.String(),
			AmountDue:     invoice.TotalWithLateFee(asOf).String(),
		})

		event := billing.NewInvoiceProcessedEvent(invoice, asOf)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish invoice processed event",
				zap.String("invoice_number", invoice.Number()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("late fee sweep complete",
		zap.Time("as_of", asOf),
		zap.Int("invoices_checked", len(invoices)),
		zap.Int("fees_assessed", len(assessments)),
	)
	return assessments, nil
}

// buildInvoice converts validated input into domain value objects and the
// aggregate. Construction errors here mean the fail-fast checks caught
// something the accumulate-all pass also reports; they are surfaced as-is.
func (s *InvoiceService) buildInvoice(input billing.InvoiceInput) (*billing.Invoice, error) {
	address, err := valueobject.NewAddress(
		input.Customer.Address.Street,
		input.Customer.Address.City,
		input.Customer.Address.State,
		input.Customer.Address.PostalCode,
	)
	if err != nil {
		return nil, err
	}

	var customer billing.Customer
	if input.Customer.TaxOverride != nil {
		customer, err = billing.NewCustomerWithTaxOverride(input.Customer.ID, input.Customer.Name, address, *input.Customer.TaxOverride)
	} else {
		customer, err = billing.NewCustomer(input.Customer.ID, input.Customer.Name, address)
	}
	if err != nil {
		return nil, err
	}

	items := make([]billing.LineItem, 0, len(input.Items))
	for _, in := range input.Items {
		price, err := valueobject.NewMoney(in.UnitPrice)
		if err != nil {
			return nil, err
		}
		item, err := billing.NewLineItem(in.Description, in.Quantity, price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return billing.NewInvoice(input.Number, customer, items, input.InvoiceDate, input.DueDate, s.policy)
}

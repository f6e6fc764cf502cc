package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ViolationSeverity classifies business-rule violations
type ViolationSeverity string

const (
	SeverityError   ViolationSeverity = "error"
	SeverityWarning ViolationSeverity = "warning"
)

// FieldViolation describes a single missing or malformed input field.
// Field violations are always blocking.
type FieldViolation struct {
	Field   string
	Message string
}

// RuleViolation describes a broken business rule with a severity and
// optional structured context. Warnings never block processing.
type RuleViolation struct {
	Rule     string
	Severity ViolationSeverity
	Message  string
	Context  map[string]string
}

// ValidationResult aggregates the violations found in one validation pass.
// Violations are kept in insertion order, which for every validator below
// matches the input field order, so output is stable and deterministic.
type ValidationResult struct {
	fieldViolations []FieldViolation
	ruleViolations  []RuleViolation
}

// AddFieldViolation records a missing or malformed field
func (r *ValidationResult) AddFieldViolation(field, message string) {
	r.fieldViolations = append(r.fieldViolations, FieldViolation{
		Field:   field,
		Message: message,
	})
}

// AddRuleViolation records a business-rule violation
func (r *ValidationResult) AddRuleViolation(rule string, severity ViolationSeverity, message string, context map[string]string) {
	r.ruleViolations = append(r.ruleViolations, RuleViolation{
		Rule:     rule,
		Severity: severity,
		Message:  message,
		Context:  context,
	})
}

// FieldViolations returns a copy of the field violations in input order
func (r *ValidationResult) FieldViolations() []FieldViolation {
	out := make([]FieldViolation, len(r.fieldViolations))
	copy(out, r.fieldViolations)
	return out
}

// RuleViolations returns a copy of the rule violations in evaluation order
func (r *ValidationResult) RuleViolations() []RuleViolation {
	out := make([]RuleViolation, len(r.ruleViolations))
	copy(out, r.ruleViolations)
	return out
}

// Errors returns the error-severity rule violations
func (r *ValidationResult) Errors() []RuleViolation {
	var out []RuleViolation
	for _, v := range r.ruleViolations {
		if v.Severity == SeverityError {
			out = append(out, v)
		}
	}
	return out
}

// Warnings returns the warning-severity rule violations
func (r *ValidationResult) Warnings() []RuleViolation {
	var out []RuleViolation
	for _, v := range r.ruleViolations {
		if v.Severity == SeverityWarning {
			out = append(out, v)
		}
	}
	return out
}

// IsValid reports whether processing may proceed: no field violations and
// no error-severity rule violations. Warnings do not block.
func (r *ValidationResult) IsValid() bool {
	return len(r.fieldViolations) == 0 && len(r.Errors()) == 0
}

// IsEmpty reports whether no violations of any kind were found
func (r *ValidationResult) IsEmpty() bool {
	return len(r.fieldViolations) == 0 && len(r.ruleViolations) == 0
}

// merge appends another result's violations, prefixing field paths
func (r *ValidationResult) merge(prefix string, other ValidationResult) {
	for _, v := range other.fieldViolations {
		r.fieldViolations = append(r.fieldViolations, FieldViolation{
			Field:   prefix + v.Field,
			Message: v.Message,
		})
	}
	r.ruleViolations = append(r.ruleViolations, other.ruleViolations...)
}

// AddressInput is the raw address shape submitted by callers
type AddressInput struct {
	Street     string
	City       string
	State      string
	PostalCode string
}

// CustomerInput is the raw customer shape submitted by callers
type CustomerInput struct {
	ID          string
	Name        string
	Address     AddressInput
	TaxOverride *decimal.Decimal
}

// LineItemInput is the raw line-item shape submitted by callers
type LineItemInput struct {
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// InvoiceInput is the raw invoice-creation shape submitted by callers
type InvoiceInput struct {
	Number      string
	Customer    CustomerInput
	Items       []LineItemInput
	InvoiceDate time.Time
	DueDate     time.Time
}

// ValidationService runs accumulate-all validation: every violation found is
// collected and returned, never thrown, so callers see the full picture in a
// single pass. The aggregate constructors remain fail-fast; call sites pick
// the philosophy they need.
//
// The service is stateless and safe for concurrent use.
type ValidationService struct {
	policy PricingPolicy
}

// NewValidationService creates a validation service over the given policy
func NewValidationService(policy PricingPolicy) *ValidationService {
	return &ValidationService{policy: policy}
}

// ValidateAddress checks the address shape for required fields
func (s *ValidationService) ValidateAddress(in AddressInput) ValidationResult {
	var result ValidationResult
	if isBlank(in.Street) {
		result.AddFieldViolation("street", "Street is required")
	}
	if isBlank(in.City) {
		result.AddFieldViolation("city", "City is required")
	}
	if isBlank(in.State) {
		result.AddFieldViolation("state", "State is required")
	}
	if isBlank(in.PostalCode) {
		result.AddFieldViolation("postalCode", "Postal code is required")
	}
	return result
}

// ValidateCustomer checks the customer shape, including its address
func (s *ValidationService) ValidateCustomer(in CustomerInput) ValidationResult {
	var result ValidationResult
	if isBlank(in.ID) {
		result.AddFieldViolation("id", "Customer ID is required")
	}
	if isBlank(in.Name) {
		result.AddFieldViolation("name", "Customer name is required")
	}
	result.merge("address.", s.ValidateAddress(in.Address))
	if in.TaxOverride != nil {
		if in.TaxOverride.IsNegative() || in.TaxOverride.GreaterThan(decimal.NewFromInt(1)) {
			result.AddFieldViolation("taxOverride", "Tax override must be between 0 and 1")
		}
	}
	return result
}

// ValidateLineItem checks a single line-item shape
func (s *ValidationService) ValidateLineItem(in LineItemInput) ValidationResult {
	var result ValidationResult
	if isBlank(in.Description) {
		result.AddFieldViolation("description", "Description is required")
	}
	if in.Quantity <= 0 {
		result.AddFieldViolation("quantity", "Quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		result.AddFieldViolation("unitPrice", "Unit price cannot be negative")
	}
	return result
}

// ValidateInvoice checks the full invoice-creation shape and evaluates the
// subtotal business rules. Violations appear in input field order: number,
// customer, items, dates, then business rules.
func (s *ValidationService) ValidateInvoice(in InvoiceInput) ValidationResult {
	var result ValidationResult

	if isBlank(in.Number) {
		result.AddFieldViolation("number", "Invoice number is required")
	}
	result.merge("customer.", s.ValidateCustomer(in.Customer))

	if len(in.Items) == 0 {
		result.AddFieldViolation("items", "Invoice must have at least one line item")
	}
	for i, item := range in.Items {
		result.merge(fmt.Sprintf("items[%d].", i), s.ValidateLineItem(item))
	}

	if in.InvoiceDate.IsZero() {
		result.AddFieldViolation("invoiceDate", "Invoice date is required")
	}
	if in.DueDate.IsZero() {
		result.AddFieldViolation("dueDate", "Due date is required")
	} else if !in.InvoiceDate.IsZero() && in.DueDate.Before(in.InvoiceDate) {
		result.AddFieldViolation("dueDate", "Due date cannot be before invoice date")
	}

	s.checkSubtotalRules(in.Items, &result)
	return result
}

// checkSubtotalRules evaluates the floor-amount and large-invoice rules on
// the raw (pre-floor) subtotal. Both are warnings: the aggregate floors
// silently and large invoices price normally, but callers are told.
func (s *ValidationService) checkSubtotalRules(items []LineItemInput, result *ValidationResult) {
	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 || item.UnitPrice.IsNegative() {
			return // structural problems already reported; subtotal meaningless
		}
		line := item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)).Round(2)
		subtotal = subtotal.Add(line)
	}
	if len(items) == 0 {
		return
	}

	if subtotal.LessThan(s.policy.MinimumInvoiceAmount.Amount()) {
		result.AddRuleViolation(
			"BELOW_MINIMUM_SUBTOTAL",
			SeverityWarning,
			fmt.Sprintf("Subtotal %s is below the minimum invoice amount %s and will be floored",
				subtotal.StringFixed(2), s.policy.MinimumInvoiceAmount),
			map[string]string{
				"subtotal": subtotal.StringFixed(2),
				"minimum":  s.policy.MinimumInvoiceAmount.String(),
			},
		)
	}
	if subtotal.GreaterThanOrEqual(s.policy.LargeInvoiceThreshold.Amount()) {
		result.AddRuleViolation(
			"LARGE_INVOICE",
			SeverityWarning,
			fmt.Sprintf("Subtotal %s is unusually large (threshold %s)",
				subtotal.StringFixed(2), s.policy.LargeInvoiceThreshold),
			map[string]string{
				"subtotal":  subtotal.StringFixed(2),
				"threshold": s.policy.LargeInvoiceThreshold.String(),
			},
		)
	}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

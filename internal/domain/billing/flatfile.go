package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FlatFileRow is the legacy CSV row contract, one column per field:
// customer_id, customer_name, address, city, state, zip, amount,
// invoice_date, due_date, items. The items column is a pipe-delimited list
// of description:quantity:price triples.
//
// Only validation of the row shape lives here; reading the files themselves
// is an ingestion concern outside this module.
type FlatFileRow struct {
	CustomerID   string
	CustomerName string
	Address      string
	City         string
	State        string
	Zip          string
	Amount       string
	InvoiceDate  string
	DueDate      string
	Items        string
}

// flatFileDateFormats are the date layouts seen in production feeds
var flatFileDateFormats = []string{
	"01/02/2006", // MM/DD/YYYY
	"2006-01-02", // YYYY-MM-DD
	"01-02-2006", // MM-DD-YYYY
}

// parseFlatFileDate tries each known layout in order
func parseFlatFileDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range flatFileDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// ValidateFlatFileRow checks a single legacy feed row, accumulating every
// violation. Below-minimum amounts are a warning, matching the legacy
// behavior of flagging (not rejecting) such rows.
func (s *ValidationService) ValidateFlatFileRow(row FlatFileRow) ValidationResult {
	var result ValidationResult

	if isBlank(row.CustomerID) {
		result.AddFieldViolation("customer_id", "Customer ID is required")
	}
	if isBlank(row.CustomerName) {
		result.AddFieldViolation("customer_name", "Customer name is required")
	}
	if isBlank(row.Address) {
		result.AddFieldViolation("address", "Address is required")
	}
	if isBlank(row.City) {
		result.AddFieldViolation("city", "City is required")
	}
	if isBlank(row.State) {
		result.AddFieldViolation("state", "State is required")
	}
	if isBlank(row.Zip) {
		result.AddFieldViolation("zip", "Zip is required")
	}

	s.validateRowAmount(row.Amount, &result)

	invoiceDate, invOK := s.validateRowDate("invoice_date", row.InvoiceDate, &result)
	dueDate, dueOK := s.validateRowDate("due_date", row.DueDate, &result)
	if invOK && dueOK && dueDate.Before(invoiceDate) {
		result.AddFieldViolation("due_date", "Due date cannot be before invoice date")
	}

	validateRowItems(row.Items, &result)
	return result
}

func (s *ValidationService) validateRowAmount(amount string, result *ValidationResult) {
	if isBlank(amount) {
		result.AddFieldViolation("amount", "Amount is required")
		return
	}
	parsed, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		result.AddFieldViolation("amount", "Amount must be a number")
		return
	}
	if parsed.IsNegative() {
		result.AddFieldViolation("amount", "Amount cannot be negative")
		return
	}
	if parsed.LessThan(s.policy.MinimumInvoiceAmount.Amount()) {
		result.AddRuleViolation(
			"BELOW_MINIMUM_SUBTOTAL",
			SeverityWarning,
			fmt.Sprintf("Amount %s is below the minimum invoice amount %s",
				parsed.StringFixed(2), s.policy.MinimumInvoiceAmount),
			map[string]string{
				"subtotal": parsed.StringFixed(2),
				"minimum":  s.policy.MinimumInvoiceAmount.String(),
			},
		)
	}
}

func (s *ValidationService) validateRowDate(field, value string, result *ValidationResult) (time.Time, bool) {
	if isBlank(value) {
		result.AddFieldViolation(field, "Date is required")
		return time.Time{}, false
	}
	parsed, err := parseFlatFileDate(value)
	if err != nil {
		result.AddFieldViolation(field, "Date must be MM/DD/YYYY, YYYY-MM-DD or MM-DD-YYYY")
		return time.Time{}, false
	}
	return parsed, true
}

// validateRowItems checks the pipe-delimited items column. An empty column
// is allowed: legacy rows carry the amount separately and items are
// informational.
func validateRowItems(items string, result *ValidationResult) {
	items = strings.TrimSpace(items)
	if items == "" {
		return
	}

	for i, entry := range strings.Split(items, "|") {
		field := fmt.Sprintf("items[%d]", i)
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			result.AddFieldViolation(field, "Item must be description:quantity:price")
			continue
		}
		if isBlank(parts[0]) {
			result.AddFieldViolation(field, "Item description is required")
		}
		if qty, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64); err != nil || qty <= 0 {
			result.AddFieldViolation(field, "Item quantity must be a positive integer")
		}
		if price, err := decimal.NewFromString(strings.TrimSpace(parts[2])); err != nil || price.IsNegative() {
			result.AddFieldViolation(field, "Item price must be a non-negative number")
		}
	}
}

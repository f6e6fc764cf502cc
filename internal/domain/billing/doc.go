// Package billing implements the invoice valuation bounded context.
//
// It reproduces, bit-for-bit, the arithmetic of the legacy invoice batch
// process while staying safe for reuse in a real-time request path:
// every type is immutable after construction and every derived monetary
// value is recomputed on demand, so a single invoice instance can serve
// arbitrary concurrent callers without locking.
//
// Key Aggregates:
//   - Invoice: customer + ordered line items + dates, with on-demand
//     subtotal, bulk discount, tax, total and late-fee computations
//
// Value Objects:
//   - Customer: billing party with an optional negotiated tax override
//   - LineItem: description, quantity and unit price with a derived total
//   - TaxRule: an immutable (rate, provenance) pair
//
// Services:
//   - TaxRateResolver: customer override -> state table -> Q4 adjustment
//   - ValidationService: accumulate-all validators returning typed
//     violations instead of failing on the first problem
//
// Business parameters (rate tables, discount thresholds, late-fee rates)
// are injected through TaxTable and PricingPolicy rather than compiled in,
// so alternate tables never require a rebuild.
package billing

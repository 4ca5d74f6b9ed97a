package pipeline

import (
	"strings"
	"time"

	"github.com/retail-tools/retail-atlas/pkg/models/domain"
	"github.com/retail-tools/retail-atlas/pkg/models/store"
)

// rejectReason classifies why a raw record failed validation. The first
// failing rule wins, checked in the order below.
type rejectReason int

const (
	rejectNone rejectReason = iota
	rejectMissingCustomer
	rejectNonPositiveQuantity
	rejectNonPositivePrice
	rejectBadTimestamp
)

// IsValid reports whether a raw transaction satisfies every validity rule:
// a non-blank customer id, positive quantity, positive unit price and a
// parseable invoice timestamp. Whitespace-only customer ids count as missing.
func IsValid(t store.Transaction) bool {
	_, reason := classify(t)
	return reason == rejectNone
}

// classify runs all validity rules and, on success, returns the record in its
// clean form with the timestamp already parsed so the cleaner never parses
// twice.
func classify(t store.Transaction) (domain.CleanTransaction, rejectReason) {
	customerID := strings.TrimSpace(t.CustomerID)
	if customerID == "" {
		return domain.CleanTransaction{}, rejectMissingCustomer
	}
	if t.Quantity <= 0 {
		return domain.CleanTransaction{}, rejectNonPositiveQuantity
	}
	if t.UnitPrice <= 0 {
		return domain.CleanTransaction{}, rejectNonPositivePrice
	}
	ts, err := time.Parse(domain.InvoiceTimeLayout, strings.TrimSpace(t.InvoiceTimestamp))
	if err != nil {
		// An unparseable timestamp invalidates the record, never the run.
		return domain.CleanTransaction{}, rejectBadTimestamp
	}

	return domain.CleanTransaction{
		InvoiceID:   t.InvoiceID,
		StockCode:   t.StockCode,
		Description: t.Description,
		Quantity:    t.Quantity,
		InvoiceTime: ts,
		UnitPrice:   t.UnitPrice,
		CustomerID:  customerID,
		Country:     t.Country,
	}, rejectNone
}

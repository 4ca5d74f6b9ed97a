package domain

import "time"

// InvoiceTimeLayout is the timestamp format used by the retail export feeds:
// month/day/year followed by a 24-hour clock, no zero padding.
const InvoiceTimeLayout = "1/2/2006 15:04"

// CleanTransaction is a raw transaction that passed every validity rule:
// customer id present, quantity and unit price positive, timestamp parsed.
type CleanTransaction struct {
	InvoiceID   string
	StockCode   string
	Description string
	Quantity    int
	InvoiceTime time.Time
	UnitPrice   float64
	CustomerID  string
	Country     string
}

// BusinessTransaction is a clean transaction with its derived revenue.
// Revenue is exact (unrounded); rounding happens only at report boundaries.
type BusinessTransaction struct {
	CleanTransaction
	Revenue float64
}

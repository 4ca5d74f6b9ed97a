package store

// Transaction is one raw retail line item exactly as it was read from a
// source. Nothing is validated or parsed at this level; the timestamp stays a
// string until the cleaning stage decides whether it is usable.
type Transaction struct {
	InvoiceID        string
	StockCode        string
	Description      string
	Quantity         int
	InvoiceTimestamp string // month/day/year hour:minute, 24-hour
	UnitPrice        float64
	CustomerID       string
	Country          string
}

type LoadStats struct {
	RowsRead    int
	RowsSkipped int // rows a source could not even shape into a Transaction
}

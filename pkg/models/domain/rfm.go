package domain

// RFMRecord holds the three customer-value metrics for one customer.
type RFMRecord struct {
	CustomerID string
	// Recency is the number of calendar days between the dataset's reference
	// date and this customer's latest invoice. Never negative.
	Recency int
	// Frequency counts distinct invoices, not line items.
	Frequency int
	// Monetary is the customer's total revenue, rounded to 2 decimals.
	Monetary float64
}

// MetricStats is a min/max/average triple over one RFM metric.
type MetricStats struct {
	Min float64
	Max float64
	Avg float64 // rounded to 2 decimals
}

// Summary reduces an RFM table to per-metric statistics.
type Summary struct {
	Customers int
	Recency   MetricStats
	Frequency MetricStats
	Monetary  MetricStats
}

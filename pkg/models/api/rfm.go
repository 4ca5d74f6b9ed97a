package api

import "time"

type Source struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type RFMRecord struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency_days"`
	Frequency  int     `json:"frequency"`
	Monetary   float64 `json:"monetary"`
}

type MetricStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

type Summary struct {
	Customers int         `json:"customers"`
	Recency   MetricStats `json:"recency"`
	Frequency MetricStats `json:"frequency"`
	Monetary  MetricStats `json:"monetary"`
}

type RFMResult struct {
	RunID         string      `json:"run_id"`
	Source        string      `json:"source"`
	ReferenceDate time.Time   `json:"reference_date"`
	RowsRead      int         `json:"rows_read"`
	RowsRejected  int         `json:"rows_rejected"`
	Records       []RFMRecord `json:"records"`
}

type TopCustomer struct {
	CustomerID string  `json:"customer_id"`
	Monetary   float64 `json:"monetary"`
	Frequency  int     `json:"frequency"`
}

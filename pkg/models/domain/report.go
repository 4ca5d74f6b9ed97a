package domain

import "time"

// Report represents a complete analysis report over one source's transactions
type Report struct {
	Title        string
	Period       TimePeriod
	Sections     []ReportSection
	TotalRevenue float64
}

// TimePeriod represents the invoice time range covered by a report
type TimePeriod struct {
	Start time.Time
	End   time.Time
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail represents one row within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}

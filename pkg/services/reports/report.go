package reports

import (
	"fmt"

	"github.com/retail-tools/retail-atlas/pkg/models/domain"
	"github.com/retail-tools/retail-atlas/pkg/services/pipeline"
)

type Kind string

const (
	KindCountry   Kind = "country"
	KindProduct   Kind = "product"
	KindMonth     Kind = "month"
	KindCustomers Kind = "customers"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCountry, KindProduct, KindMonth, KindCustomers:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown report kind %q", s)
	}
}

// Build assembles a renderable report of the given kind from a pipeline run.
// topN only applies to the customers report.
func Build(kind Kind, result *pipeline.Result, topN int) (*domain.Report, error) {
	switch kind {
	case KindCountry:
		return countryReport(result), nil
	case KindProduct:
		return productReport(result), nil
	case KindMonth:
		return monthReport(result), nil
	case KindCustomers:
		return customersReport(result, topN), nil
	default:
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}
}

// BuildSummary turns the RFM summary of a run into a renderable report.
func BuildSummary(result *pipeline.Result) *domain.Report {
	s := result.Summary
	report := newReport("RFM Summary", result)
	report.Sections = append(report.Sections, domain.ReportSection{
		Title: "Customer Value Metrics",
		Summary: map[string]interface{}{
			"Customers":      s.Customers,
			"Reference Date": result.ReferenceDate.Format("2006-01-02"),
			"Rows Rejected":  result.Stats.Rejected(),
		},
		Details: []domain.ReportDetail{
			{Name: "Recency (min)", Value: s.Recency.Min, Unit: "days"},
			{Name: "Recency (max)", Value: s.Recency.Max, Unit: "days"},
			{Name: "Recency (avg)", Value: s.Recency.Avg, Unit: "days"},
			{Name: "Frequency (min)", Value: s.Frequency.Min, Unit: "invoices"},
			{Name: "Frequency (max)", Value: s.Frequency.Max, Unit: "invoices"},
			{Name: "Frequency (avg)", Value: s.Frequency.Avg, Unit: "invoices"},
			{Name: "Monetary (min)", Value: s.Monetary.Min, Unit: "revenue"},
			{Name: "Monetary (max)", Value: s.Monetary.Max, Unit: "revenue"},
			{Name: "Monetary (avg)", Value: s.Monetary.Avg, Unit: "revenue"},
		},
	})
	return report
}

func countryReport(result *pipeline.Result) *domain.Report {
	report := newReport("Revenue by Country", result)
	section := domain.ReportSection{
		Title:   "Countries",
		Summary: map[string]interface{}{"Countries": 0},
	}
	rows := RevenueByCountry(result.Transactions)
	for _, row := range rows {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        row.Country,
			Value:       row.Revenue,
			Unit:        "revenue",
			Description: fmt.Sprintf("%d line items", row.Transactions),
		})
	}
	section.Summary["Countries"] = len(rows)
	report.Sections = append(report.Sections, section)
	return report
}

func productReport(result *pipeline.Result) *domain.Report {
	report := newReport("Revenue by Product", result)
	section := domain.ReportSection{
		Title:   "Products",
		Summary: map[string]interface{}{"Products": 0},
	}
	rows := RevenueByProduct(result.Transactions)
	for _, row := range rows {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        row.StockCode,
			Value:       row.Revenue,
			Unit:        "revenue",
			Description: row.Description,
		})
	}
	section.Summary["Products"] = len(rows)
	report.Sections = append(report.Sections, section)
	return report
}

func monthReport(result *pipeline.Result) *domain.Report {
	report := newReport("Revenue by Month", result)
	section := domain.ReportSection{
		Title:   "Months",
		Summary: map[string]interface{}{"Months": 0},
	}
	rows := RevenueByMonth(result.Transactions)
	for _, row := range rows {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        fmt.Sprintf("%04d-%02d", row.Year, row.Month),
			Value:       row.Revenue,
			Unit:        "revenue",
			Description: fmt.Sprintf("%d invoices", row.Invoices),
		})
	}
	section.Summary["Months"] = len(rows)
	report.Sections = append(report.Sections, section)
	return report
}

func customersReport(result *pipeline.Result, topN int) *domain.Report {
	report := newReport("Top Customers", result)
	section := domain.ReportSection{
		Title:   "Customers by Monetary Value",
		Summary: map[string]interface{}{"Total Customers": len(result.RFM)},
	}
	for _, row := range TopCustomers(result.RFM, topN) {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        row.CustomerID,
			Value:       row.Monetary,
			Unit:        "revenue",
			Description: fmt.Sprintf("%d invoices", row.Frequency),
		})
	}
	report.Sections = append(report.Sections, section)
	return report
}

func newReport(title string, result *pipeline.Result) *domain.Report {
	report := &domain.Report{Title: title, Period: period(result)}
	total := 0.0
	for _, t := range result.Transactions {
		total += t.Revenue
	}
	report.TotalRevenue = round2(total)
	return report
}

func period(result *pipeline.Result) domain.TimePeriod {
	p := domain.TimePeriod{}
	for _, t := range result.Transactions {
		if p.Start.IsZero() || t.InvoiceTime.Before(p.Start) {
			p.Start = t.InvoiceTime
		}
		if t.InvoiceTime.After(p.End) {
			p.End = t.InvoiceTime
		}
	}
	return p
}

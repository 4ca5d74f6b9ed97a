package reports

import (
	"math"
	"sort"
	"time"

	"github.com/retail-tools/retail-atlas/pkg/models/domain"
)

// CountryRevenue is total revenue attributed to one country.
type CountryRevenue struct {
	Country      string
	Revenue      float64
	Transactions int
}

// ProductRevenue is total revenue attributed to one stock code.
type ProductRevenue struct {
	StockCode   string
	Description string
	Revenue     float64
	Quantity    int
}

// MonthRevenue is total revenue for one calendar month.
type MonthRevenue struct {
	Year     int
	Month    time.Month
	Revenue  float64
	Invoices int
}

// TopCustomer is one row of the top-N customer ranking.
type TopCustomer struct {
	CustomerID string
	Monetary   float64
	Frequency  int
}

// RevenueByCountry groups revenue per country, highest first.
func RevenueByCountry(txs []domain.BusinessTransaction) []CountryRevenue {
	type acc struct {
		revenue float64
		count   int
	}
	byCountry := make(map[string]*acc)
	for _, t := range txs {
		a, ok := byCountry[t.Country]
		if !ok {
			a = &acc{}
			byCountry[t.Country] = a
		}
		a.revenue += t.Revenue
		a.count++
	}

	rows := make([]CountryRevenue, 0, len(byCountry))
	for country, a := range byCountry {
		rows = append(rows, CountryRevenue{
			Country:      country,
			Revenue:      round2(a.revenue),
			Transactions: a.count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].Country < rows[j].Country
	})
	return rows
}

// RevenueByProduct groups revenue per stock code, highest first. The
// description of the first line item seen for a code is kept as its label.
func RevenueByProduct(txs []domain.BusinessTransaction) []ProductRevenue {
	type acc struct {
		description string
		revenue     float64
		quantity    int
	}
	byCode := make(map[string]*acc)
	for _, t := range txs {
		a, ok := byCode[t.StockCode]
		if !ok {
			a = &acc{description: t.Description}
			byCode[t.StockCode] = a
		}
		a.revenue += t.Revenue
		a.quantity += t.Quantity
	}

	rows := make([]ProductRevenue, 0, len(byCode))
	for code, a := range byCode {
		rows = append(rows, ProductRevenue{
			StockCode:   code,
			Description: a.description,
			Revenue:     round2(a.revenue),
			Quantity:    a.quantity,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].StockCode < rows[j].StockCode
	})
	return rows
}

// RevenueByMonth groups revenue per calendar month, chronological.
func RevenueByMonth(txs []domain.BusinessTransaction) []MonthRevenue {
	type key struct {
		year  int
		month time.Month
	}
	type acc struct {
		revenue  float64
		invoices map[string]struct{}
	}
	byMonth := make(map[key]*acc)
	for _, t := range txs {
		k := key{year: t.InvoiceTime.Year(), month: t.InvoiceTime.Month()}
		a, ok := byMonth[k]
		if !ok {
			a = &acc{invoices: make(map[string]struct{})}
			byMonth[k] = a
		}
		a.revenue += t.Revenue
		a.invoices[t.InvoiceID] = struct{}{}
	}

	rows := make([]MonthRevenue, 0, len(byMonth))
	for k, a := range byMonth {
		rows = append(rows, MonthRevenue{
			Year:     k.year,
			Month:    k.month,
			Revenue:  round2(a.revenue),
			Invoices: len(a.invoices),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})
	return rows
}

// TopCustomers ranks customers by monetary value, highest first, ties broken
// by customer id so the output is deterministic. n <= 0 means all customers.
func TopCustomers(records []domain.RFMRecord, n int) []TopCustomer {
	ranked := make([]TopCustomer, 0, len(records))
	for _, r := range records {
		ranked = append(ranked, TopCustomer{
			CustomerID: r.CustomerID,
			Monetary:   r.Monetary,
			Frequency:  r.Frequency,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Monetary != ranked[j].Monetary {
			return ranked[i].Monetary > ranked[j].Monetary
		}
		return ranked[i].CustomerID < ranked[j].CustomerID
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

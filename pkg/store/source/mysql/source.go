package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"github.com/retail-tools/retail-atlas/pkg/models/store"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type Config struct {
	DSN   string
	Table string
}

// Source reads raw transactions from a MySQL table with the retail export
// schema. The invoice timestamp is kept as the raw string the table stores;
// parsing it is the pipeline's job.
type Source struct {
	db    *sql.DB
	table string
}

func Open(cfg Config) (*Source, error) {
	if !tableNamePattern.MatchString(cfg.Table) {
		return nil, fmt.Errorf("invalid table name %q", cfg.Table)
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Source{db: db, table: cfg.Table}, nil
}

// NewSource wraps an existing handle; used by tests.
func NewSource(db *sql.DB, table string) *Source {
	return &Source{db: db, table: table}
}

func (s *Source) Read(ctx context.Context) ([]store.Transaction, store.LoadStats, error) {
	logger := zerolog.Ctx(ctx)

	// Table name is validated against tableNamePattern, everything else is
	// a plain column list; no user input reaches the query text.
	query := fmt.Sprintf(`
		SELECT
			invoice_no,
			stock_code,
			description,
			quantity,
			invoice_date,
			unit_price,
			customer_id,
			country
		FROM %s
	`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, store.LoadStats{}, fmt.Errorf("transaction query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		if cerr := rows.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close transaction rows")
		}
	}(rows)

	var (
		transactions []store.Transaction
		stats        store.LoadStats
	)
	for rows.Next() {
		var (
			invoiceNo, stockCode, description, country sql.NullString
			invoiceDate, customerID                    sql.NullString
			quantity                                   sql.NullInt64
			unitPrice                                  sql.NullFloat64
		)
		if err := rows.Scan(
			&invoiceNo, &stockCode, &description, &quantity,
			&invoiceDate, &unitPrice, &customerID, &country,
		); err != nil {
			return nil, stats, err
		}

		stats.RowsRead++
		transactions = append(transactions, store.Transaction{
			InvoiceID:        invoiceNo.String,
			StockCode:        stockCode.String,
			Description:      description.String,
			Quantity:         int(quantity.Int64),
			InvoiceTimestamp: invoiceDate.String,
			UnitPrice:        unitPrice.Float64,
			CustomerID:       customerID.String, // NULL becomes "", rejected downstream
			Country:          country.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, stats, err
	}

	return transactions, stats, nil
}

func (s *Source) Close() error {
	return s.db.Close()
}

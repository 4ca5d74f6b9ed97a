package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/retail-tools/retail-atlas/pkg/models/store"
)

// Source materializes a full batch of raw transactions. Read returns
// everything or fails; there is no partial consumption. Close releases
// whatever backs the source (file handle, connection pool) and must be safe
// to call after a failed Read.
type Source interface {
	Read(ctx context.Context) ([]store.Transaction, store.LoadStats, error)
	Close() error
}

// Header is the column layout shared by the file based sources.
var Header = []string{
	"InvoiceNo", "StockCode", "Description", "Quantity",
	"InvoiceDate", "UnitPrice", "CustomerID", "Country",
}

// IsHeader reports whether a row is the column header of a retail export.
func IsHeader(row []string) bool {
	if len(row) < len(Header) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(row[0]), Header[0])
}

// ParseRow shapes one string row into a raw transaction. Numeric fields that
// do not parse at all make the row unusable (a source-level skip); business
// validity of the values is the pipeline's concern, not ours.
func ParseRow(row []string) (store.Transaction, error) {
	if len(row) < len(Header) {
		return store.Transaction{}, fmt.Errorf("row has %d columns, want %d", len(row), len(Header))
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return store.Transaction{}, fmt.Errorf("quantity %q: %w", row[3], err)
	}
	unitPrice, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	if err != nil {
		return store.Transaction{}, fmt.Errorf("unit price %q: %w", row[5], err)
	}

	return store.Transaction{
		InvoiceID:        strings.TrimSpace(row[0]),
		StockCode:        strings.TrimSpace(row[1]),
		Description:      strings.TrimSpace(row[2]),
		Quantity:         quantity,
		InvoiceTimestamp: strings.TrimSpace(row[4]),
		UnitPrice:        unitPrice,
		CustomerID:       row[6],
		Country:          strings.TrimSpace(row[7]),
	}, nil
}

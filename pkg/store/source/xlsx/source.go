package xlsx

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/retail-tools/retail-atlas/pkg/models/store"
	"github.com/retail-tools/retail-atlas/pkg/store/source"
)

// Source reads a retail transaction export from an Excel workbook. An empty
// sheet name means the workbook's first sheet.
type Source struct {
	path  string
	sheet string
}

func NewSource(path, sheet string) *Source {
	return &Source{path: path, sheet: sheet}
}

func (s *Source) Read(ctx context.Context) ([]store.Transaction, store.LoadStats, error) {
	logger := zerolog.Ctx(ctx)

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, store.LoadStats{}, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close workbook")
		}
	}()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, store.LoadStats{}, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	var (
		transactions []store.Transaction
		stats        store.LoadStats
	)
	for i, row := range rows {
		if i == 0 && source.IsHeader(row) {
			continue
		}
		if len(row) == 0 {
			continue
		}

		stats.RowsRead++
		t, err := source.ParseRow(row)
		if err != nil {
			stats.RowsSkipped++
			logger.Debug().Err(err).Int("row", i+1).Msg("skipping unparseable workbook row")
			continue
		}
		transactions = append(transactions, t)
	}

	return transactions, stats, nil
}

func (s *Source) Close() error { return nil }

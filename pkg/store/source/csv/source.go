package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/retail-tools/retail-atlas/pkg/models/store"
	"github.com/retail-tools/retail-atlas/pkg/store/source"
)

// Source reads a retail transaction export in CSV form. The file is opened
// on Read and released before Read returns, success or not.
type Source struct {
	path string
}

func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Read(ctx context.Context) ([]store.Transaction, store.LoadStats, error) {
	logger := zerolog.Ctx(ctx)

	f, err := os.Open(s.path)
	if err != nil {
		return nil, store.LoadStats{}, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are skipped, not fatal

	var (
		transactions []store.Transaction
		stats        store.LoadStats
		line         int
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read %s: %w", s.path, err)
		}
		line++

		if line == 1 && source.IsHeader(row) {
			continue
		}

		stats.RowsRead++
		t, err := source.ParseRow(row)
		if err != nil {
			stats.RowsSkipped++
			logger.Debug().Err(err).Int("line", line).Msg("skipping unparseable csv row")
			continue
		}
		transactions = append(transactions, t)
	}

	return transactions, stats, nil
}

func (s *Source) Close() error { return nil }

package pipeline

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail-tools/retail-atlas/pkg/models/domain"
)

func businessTx(t *testing.T, customer, invoice, ts string, qty int, price float64) domain.BusinessTransaction {
	t.Helper()
	parsed, err := time.Parse(domain.InvoiceTimeLayout, ts)
	require.NoError(t, err)
	return domain.BusinessTransaction{
		CleanTransaction: domain.CleanTransaction{
			InvoiceID:   invoice,
			CustomerID:  customer,
			Quantity:    qty,
			UnitPrice:   price,
			InvoiceTime: parsed,
		},
		Revenue: float64(qty) * price,
	}
}

func sortRecords(records []domain.RFMRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].CustomerID < records[j].CustomerID
	})
}

func TestAggregate(t *testing.T) {
	t.Run("single invoice with multiple line items", func(t *testing.T) {
		txs := []domain.BusinessTransaction{
			businessTx(t, "A", "I1", "1/1/2020 10:00", 2, 5.0),
			businessTx(t, "A", "I1", "1/1/2020 10:00", 1, 5.0),
		}

		records, reference, err := Aggregate(txs)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "A", records[0].CustomerID)
		assert.Equal(t, 1, records[0].Frequency, "line items on one invoice are one shopping trip")
		assert.Equal(t, 15.0, records[0].Monetary)
		assert.Equal(t, 0, records[0].Recency)
		assert.Equal(t, txs[0].InvoiceTime, reference)
	})

	t.Run("recency anchored on the global max timestamp", func(t *testing.T) {
		txs := []domain.BusinessTransaction{
			businessTx(t, "A", "I1", "1/10/2020 12:00", 1, 1.0),
			businessTx(t, "B", "I2", "1/5/2020 9:30", 1, 1.0),
		}

		records, reference, err := Aggregate(txs)

		require.NoError(t, err)
		require.Len(t, records, 2)
		sortRecords(records)
		assert.Equal(t, 0, records[0].Recency)
		assert.Equal(t, 5, records[1].Recency)
		assert.Equal(t, time.Date(2020, 1, 10, 12, 0, 0, 0, time.UTC), reference)
	})

	t.Run("recency ignores time of day", func(t *testing.T) {
		// B's last invoice is late in the evening one day before the
		// reference; the gap is still a full calendar day.
		txs := []domain.BusinessTransaction{
			businessTx(t, "A", "I1", "1/10/2020 8:00", 1, 1.0),
			businessTx(t, "B", "I2", "1/9/2020 23:55", 1, 1.0),
		}

		records, _, err := Aggregate(txs)

		require.NoError(t, err)
		sortRecords(records)
		assert.Equal(t, 1, records[1].Recency)
	})

	t.Run("frequency counts distinct invoices", func(t *testing.T) {
		txs := []domain.BusinessTransaction{
			businessTx(t, "A", "I1", "1/1/2020 10:00", 1, 2.0),
			businessTx(t, "A", "I2", "1/3/2020 10:00", 1, 2.0),
			businessTx(t, "A", "I2", "1/3/2020 10:05", 2, 3.0),
			businessTx(t, "A", "I3", "1/7/2020 10:00", 1, 2.0),
		}

		records, _, err := Aggregate(txs)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 3, records[0].Frequency)
	})

	t.Run("monetary sums and rounds to 2 decimals", func(t *testing.T) {
		txs := []domain.BusinessTransaction{
			businessTx(t, "A", "I1", "1/1/2020 10:00", 3, 1.1),  // 3.3000000000000003
			businessTx(t, "A", "I2", "1/2/2020 10:00", 1, 0.333), // 0.333
		}

		records, _, err := Aggregate(txs)

		require.NoError(t, err)
		assert.Equal(t, 3.63, records[0].Monetary)
	})

	t.Run("empty input fails with ErrEmptyDataset", func(t *testing.T) {
		_, _, err := Aggregate(nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptyDataset))
	})

	t.Run("recency is never negative", func(t *testing.T) {
		txs := []domain.BusinessTransaction{
			businessTx(t, "A", "I1", "3/15/2021 14:00", 1, 1.0),
			businessTx(t, "B", "I2", "7/2/2019 11:00", 2, 4.5),
			businessTx(t, "C", "I3", "12/31/2020 23:59", 5, 0.42),
			businessTx(t, "B", "I4", "1/1/2021 0:01", 1, 9.99),
		}

		records, _, err := Aggregate(txs)

		require.NoError(t, err)
		for _, r := range records {
			assert.GreaterOrEqual(t, r.Recency, 0, "customer %s", r.CustomerID)
		}
	})

	t.Run("idempotent across runs", func(t *testing.T) {
		txs := []domain.BusinessTransaction{
			businessTx(t, "A", "I1", "1/1/2020 10:00", 2, 5.0),
			businessTx(t, "B", "I2", "1/5/2020 10:00", 1, 3.0),
			businessTx(t, "A", "I3", "1/9/2020 10:00", 4, 2.5),
		}

		first, _, err := Aggregate(txs)
		require.NoError(t, err)
		second, _, err := Aggregate(txs)
		require.NoError(t, err)

		sortRecords(first)
		sortRecords(second)
		assert.Equal(t, first, second)
	})
}

func TestAggregateParallel_MatchesSequential(t *testing.T) {
	txs := []domain.BusinessTransaction{
		businessTx(t, "A", "I1", "1/1/2020 10:00", 2, 5.0),
		businessTx(t, "B", "I2", "1/5/2020 10:00", 1, 3.0),
		businessTx(t, "C", "I3", "1/9/2020 10:00", 4, 2.5),
		businessTx(t, "A", "I4", "1/2/2020 10:00", 1, 7.0),
		businessTx(t, "B", "I2", "1/5/2020 10:30", 3, 1.5),
		businessTx(t, "D", "I5", "1/8/2020 16:45", 2, 0.85),
	}

	sequential, seqRef, err := Aggregate(txs)
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 4, 8} {
		parallel, parRef, err := AggregateParallel(context.Background(), txs, workers)
		require.NoError(t, err)

		sortRecords(sequential)
		sortRecords(parallel)
		assert.Equal(t, sequential, parallel, "workers=%d", workers)
		assert.Equal(t, seqRef, parRef)
	}
}

func TestAggregateParallel_Empty(t *testing.T) {
	_, _, err := AggregateParallel(context.Background(), nil, 4)
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestDaysBetween(t *testing.T) {
	ref := time.Date(2020, 1, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, daysBetween(ref, ref))
	assert.Equal(t, 5, daysBetween(time.Date(2020, 1, 5, 23, 0, 0, 0, time.UTC), ref))
	assert.Equal(t, 1, daysBetween(time.Date(2020, 1, 9, 23, 59, 0, 0, time.UTC), ref))
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/retail-tools/retail-atlas/pkg/models/domain"
)

// ErrEmptyDataset signals that a stage received zero records after cleaning.
// There is no reference date to anchor recency on, so the whole computation
// fails rather than returning meaningless output.
var ErrEmptyDataset = errors.New("empty dataset")

// rfmAccumulator folds one customer's transactions. Merging two accumulators
// for the same customer is associative: max, set union and sum all commute,
// which is what makes the partitioned variant below safe.
type rfmAccumulator struct {
	lastInvoice time.Time
	invoices    map[string]struct{}
	revenue     float64
}

func newRFMAccumulator() *rfmAccumulator {
	return &rfmAccumulator{invoices: make(map[string]struct{})}
}

func (a *rfmAccumulator) add(t domain.BusinessTransaction) {
	if t.InvoiceTime.After(a.lastInvoice) {
		a.lastInvoice = t.InvoiceTime
	}
	a.invoices[t.InvoiceID] = struct{}{}
	a.revenue += t.Revenue
}

func (a *rfmAccumulator) merge(other *rfmAccumulator) {
	if other.lastInvoice.After(a.lastInvoice) {
		a.lastInvoice = other.lastInvoice
	}
	for id := range other.invoices {
		a.invoices[id] = struct{}{}
	}
	a.revenue += other.revenue
}

func (a *rfmAccumulator) record(customerID string, reference time.Time) domain.RFMRecord {
	return domain.RFMRecord{
		CustomerID: customerID,
		Recency:    daysBetween(a.lastInvoice, reference),
		Frequency:  len(a.invoices),
		Monetary:   round2(a.revenue),
	}
}

// Aggregate computes one RFMRecord per customer. The reference date is the
// maximum invoice time across the whole batch, computed in a first pass, so
// recency is always >= 0. Output order is unspecified. Returns
// ErrEmptyDataset on empty input.
func Aggregate(transactions []domain.BusinessTransaction) ([]domain.RFMRecord, time.Time, error) {
	if len(transactions) == 0 {
		return nil, time.Time{}, fmt.Errorf("aggregate: %w", ErrEmptyDataset)
	}

	reference := transactions[0].InvoiceTime
	for _, t := range transactions[1:] {
		if t.InvoiceTime.After(reference) {
			reference = t.InvoiceTime
		}
	}

	byCustomer := make(map[string]*rfmAccumulator)
	for _, t := range transactions {
		acc, ok := byCustomer[t.CustomerID]
		if !ok {
			acc = newRFMAccumulator()
			byCustomer[t.CustomerID] = acc
		}
		acc.add(t)
	}

	records := make([]domain.RFMRecord, 0, len(byCustomer))
	for customerID, acc := range byCustomer {
		records = append(records, acc.record(customerID, reference))
	}
	return records, reference, nil
}

// AggregateParallel is Aggregate with the per-customer fold split across
// workers. Each worker owns the customers hashing into its partition, so no
// accumulator is ever shared; the final merge is the only synchronization
// point. Results are identical to Aggregate up to ordering.
func AggregateParallel(
	ctx context.Context,
	transactions []domain.BusinessTransaction,
	workers int,
) ([]domain.RFMRecord, time.Time, error) {
	if len(transactions) == 0 {
		return nil, time.Time{}, fmt.Errorf("aggregate: %w", ErrEmptyDataset)
	}
	if workers < 1 {
		workers = 1
	}

	reference := transactions[0].InvoiceTime
	for _, t := range transactions[1:] {
		if t.InvoiceTime.After(reference) {
			reference = t.InvoiceTime
		}
	}

	partitions := make([]map[string]*rfmAccumulator, workers)
	g, _ := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			part := make(map[string]*rfmAccumulator)
			for _, t := range transactions {
				if int(customerHash(t.CustomerID))%workers != w {
					continue
				}
				acc, ok := part[t.CustomerID]
				if !ok {
					acc = newRFMAccumulator()
					part[t.CustomerID] = acc
				}
				acc.add(t)
			}
			partitions[w] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, time.Time{}, err
	}

	merged := make(map[string]*rfmAccumulator)
	for _, part := range partitions {
		for customerID, acc := range part {
			if existing, ok := merged[customerID]; ok {
				existing.merge(acc)
			} else {
				merged[customerID] = acc
			}
		}
	}

	records := make([]domain.RFMRecord, 0, len(merged))
	for customerID, acc := range merged {
		records = append(records, acc.record(customerID, reference))
	}
	return records, reference, nil
}

func customerHash(id string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return h.Sum32()
}

// daysBetween counts calendar days from t up to the reference date, ignoring
// the time of day on both sides. Matches DATEDIFF semantics of the feed this
// data comes from.
func daysBetween(t, reference time.Time) int {
	day := func(x time.Time) time.Time {
		return time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, time.UTC)
	}
	return int(day(reference).Sub(day(t)).Hours() / 24)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

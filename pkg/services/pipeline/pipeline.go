package pipeline

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/retail-tools/retail-atlas/pkg/models/domain"
	"github.com/retail-tools/retail-atlas/pkg/models/store"
)

// Result is the complete output of one batch run. It is an immutable
// snapshot; re-running on the same input produces an equal result modulo
// RunID and record ordering.
type Result struct {
	RunID         string
	ReferenceDate time.Time
	Transactions  []domain.BusinessTransaction
	RFM           []domain.RFMRecord
	Summary       domain.Summary
	Stats         CleanStats
}

// Batches at or above this many transactions aggregate across GOMAXPROCS
// workers; smaller ones stay on the single-pass fold.
const parallelAggregateThreshold = 50_000

// Run executes the full batch: clean, annotate, aggregate, summarize.
// The only failure mode is an empty dataset after cleaning; everything else
// is a deterministic transformation of the input.
func Run(ctx context.Context, raw []store.Transaction) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	runID := uuid.NewString()

	cleaned, stats := Clean(ctx, raw)
	annotated := Annotate(cleaned)

	var (
		records   []domain.RFMRecord
		reference time.Time
		err       error
	)
	if len(annotated) >= parallelAggregateThreshold {
		records, reference, err = AggregateParallel(ctx, annotated, runtime.GOMAXPROCS(0))
	} else {
		records, reference, err = Aggregate(annotated)
	}
	if err != nil {
		return nil, err
	}

	summary, err := Summarize(records)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("run_id", runID).
		Time("reference_date", reference).
		Int("transactions", len(annotated)).
		Int("customers", len(records)).
		Msg("pipeline run complete")

	return &Result{
		RunID:         runID,
		ReferenceDate: reference,
		Transactions:  annotated,
		RFM:           records,
		Summary:       summary,
		Stats:         stats,
	}, nil
}

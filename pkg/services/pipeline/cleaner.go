package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/retail-tools/retail-atlas/pkg/models/domain"
	"github.com/retail-tools/retail-atlas/pkg/models/store"
)

// CleanStats counts what the cleaner did with a batch, broken down by the
// first rule each rejected record failed.
type CleanStats struct {
	Input               int
	Kept                int
	MissingCustomer     int
	NonPositiveQuantity int
	NonPositivePrice    int
	BadTimestamp        int
}

func (s CleanStats) Rejected() int {
	return s.MissingCustomer + s.NonPositiveQuantity + s.NonPositivePrice + s.BadTimestamp
}

// Clean filters raw transactions down to the ones satisfying every validity
// rule, preserving input order. The input slice is never mutated. Rejections
// are not errors; they are counted and logged for observability.
func Clean(ctx context.Context, raw []store.Transaction) ([]domain.CleanTransaction, CleanStats) {
	logger := zerolog.Ctx(ctx)

	stats := CleanStats{Input: len(raw)}
	cleaned := make([]domain.CleanTransaction, 0, len(raw))

	for _, t := range raw {
		ct, reason := classify(t)
		switch reason {
		case rejectNone:
			cleaned = append(cleaned, ct)
			stats.Kept++
		case rejectMissingCustomer:
			stats.MissingCustomer++
		case rejectNonPositiveQuantity:
			stats.NonPositiveQuantity++
		case rejectNonPositivePrice:
			stats.NonPositivePrice++
		case rejectBadTimestamp:
			stats.BadTimestamp++
		}
	}

	logger.Info().
		Int("input", stats.Input).
		Int("kept", stats.Kept).
		Int("missing_customer", stats.MissingCustomer).
		Int("non_positive_quantity", stats.NonPositiveQuantity).
		Int("non_positive_price", stats.NonPositivePrice).
		Int("bad_timestamp", stats.BadTimestamp).
		Msg("cleaned transaction batch")

	return cleaned, stats
}

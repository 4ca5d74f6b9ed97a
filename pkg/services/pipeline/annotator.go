package pipeline

import (
	"github.com/retail-tools/retail-atlas/pkg/models/domain"
)

// Annotate derives revenue for each clean transaction. Revenue stays exact
// here; the two-decimal rounding only happens at aggregation and report
// boundaries.
func Annotate(cleaned []domain.CleanTransaction) []domain.BusinessTransaction {
	annotated := make([]domain.BusinessTransaction, 0, len(cleaned))
	for _, ct := range cleaned {
		annotated = append(annotated, domain.BusinessTransaction{
			CleanTransaction: ct,
			Revenue:          float64(ct.Quantity) * ct.UnitPrice,
		})
	}
	return annotated
}

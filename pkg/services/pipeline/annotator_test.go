package pipeline

import (
	"context"
	"testing"

	"github.com/retail-tools/retail-atlas/pkg/models/store"
)

func TestAnnotate_RevenueIsExact(t *testing.T) {
	rec := validRecord()
	rec.Quantity = 3
	rec.UnitPrice = 1.1

	cleaned, _ := Clean(context.Background(), []store.Transaction{rec})
	annotated := Annotate(cleaned)

	if len(annotated) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(annotated))
	}
	// Exact product, not the rounded 3.30.
	want := float64(rec.Quantity) * rec.UnitPrice
	if got := annotated[0].Revenue; got != want {
		t.Errorf("revenue = %v, want %v", got, want)
	}
}

func TestAnnotate_Empty(t *testing.T) {
	if got := Annotate(nil); len(got) != 0 {
		t.Errorf("expected no output for empty input, got %d", len(got))
	}
}

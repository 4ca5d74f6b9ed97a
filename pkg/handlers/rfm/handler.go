package rfm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/retail-tools/retail-atlas/pkg/adapters"
	"github.com/retail-tools/retail-atlas/pkg/models/api"
	"github.com/retail-tools/retail-atlas/pkg/models/domain"
	"github.com/retail-tools/retail-atlas/pkg/services/pipeline"
	"github.com/retail-tools/retail-atlas/pkg/services/registry"
	"github.com/retail-tools/retail-atlas/pkg/services/reports"
)

const defaultTopN = 10

// AnalysisService is what the handler needs from the analysis layer.
type AnalysisService interface {
	Profiles() []domain.SourceProfile
	Analyze(ctx context.Context, profile string) (*pipeline.Result, error)
}

type Handler struct {
	svc AnalysisService
}

func NewHandler(svc AnalysisService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	response := make([]api.Source, 0)
	for _, p := range h.svc.Profiles() {
		response = append(response, adapters.MapSourceProfileDomainToApi(p))
	}
	writeJSON(r.Context(), w, http.StatusOK, response)
}

func (h *Handler) GetRFM(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sourceName := chi.URLParam(r, "source")

	result, err := h.svc.Analyze(ctx, sourceName)
	if err != nil {
		writeAnalysisError(ctx, w, sourceName, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, api.RFMResult{
		RunID:         result.RunID,
		Source:        sourceName,
		ReferenceDate: result.ReferenceDate,
		RowsRead:      result.Stats.Input,
		RowsRejected:  result.Stats.Rejected(),
		Records:       adapters.MapRFMRecordsDomainToApi(result.RFM),
	})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sourceName := chi.URLParam(r, "source")

	result, err := h.svc.Analyze(ctx, sourceName)
	if err != nil {
		writeAnalysisError(ctx, w, sourceName, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, adapters.MapSummaryDomainToApi(result.Summary))
}

func (h *Handler) GetTopCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sourceName := chi.URLParam(r, "source")

	n := defaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(ctx, w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}

	result, err := h.svc.Analyze(ctx, sourceName)
	if err != nil {
		writeAnalysisError(ctx, w, sourceName, err)
		return
	}

	ranked := reports.TopCustomers(result.RFM, n)
	response := make([]api.TopCustomer, 0, len(ranked))
	for _, c := range ranked {
		response = append(response, api.TopCustomer{
			CustomerID: c.CustomerID,
			Monetary:   c.Monetary,
			Frequency:  c.Frequency,
		})
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

func writeAnalysisError(ctx context.Context, w http.ResponseWriter, sourceName string, err error) {
	logger := zerolog.Ctx(ctx)

	switch {
	case errors.Is(err, registry.ErrProfileNotFound):
		writeError(ctx, w, http.StatusNotFound, "unknown source "+sourceName)
	case errors.Is(err, pipeline.ErrEmptyDataset):
		writeError(ctx, w, http.StatusUnprocessableEntity, "source "+sourceName+" has no valid transactions")
	default:
		logger.Error().Err(err).Str("source", sourceName).Msg("analysis failed")
		writeError(ctx, w, http.StatusInternalServerError, "analysis failed")
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, w, status, map[string]string{"error": msg})
}

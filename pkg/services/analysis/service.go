package analysis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/retail-tools/retail-atlas/pkg/models/domain"
	"github.com/retail-tools/retail-atlas/pkg/services/pipeline"
	"github.com/retail-tools/retail-atlas/pkg/store/source"
)

// SourceOpener resolves profile names into readable sources. Implemented by
// registry.Registry.
type SourceOpener interface {
	Profiles() []domain.SourceProfile
	Open(name string) (source.Source, error)
}

// Service ties a source registry to the batch pipeline. One Analyze call is
// one complete batch run: open the source, drain it, close it, compute.
type Service struct {
	sources SourceOpener
}

func NewService(sources SourceOpener) *Service {
	return &Service{sources: sources}
}

func (s *Service) Profiles() []domain.SourceProfile {
	return s.sources.Profiles()
}

// Analyze runs the full pipeline over the named source profile. The source
// is closed before returning, whatever happened.
func (s *Service) Analyze(ctx context.Context, profile string) (*pipeline.Result, error) {
	logger := zerolog.Ctx(ctx)

	src, err := s.sources.Open(profile)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			logger.Warn().Err(cerr).Str("profile", profile).Msg("failed to close source")
		}
	}()

	raw, loadStats, err := src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source %q: %w", profile, err)
	}

	logger.Info().
		Str("profile", profile).
		Int("rows_read", loadStats.RowsRead).
		Int("rows_skipped", loadStats.RowsSkipped).
		Msg("source materialized")

	return pipeline.Run(ctx, raw)
}

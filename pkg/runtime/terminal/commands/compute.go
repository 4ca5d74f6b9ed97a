package commands

import (
	"fmt"
	"time"

	"github.com/retail-tools/retail-atlas/pkg/runtime/terminal/export"
	"github.com/retail-tools/retail-atlas/pkg/services/pipeline"
	"github.com/retail-tools/retail-atlas/pkg/services/registry"
	"github.com/retail-tools/retail-atlas/pkg/services/reports"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// OpenRegistry creates a source registry from a profiles file.
type OpenRegistry func(profilesPath string) (*registry.Registry, error)

type ComputeCmd struct {
	profilesPath string
	source       string
	openRegistry OpenRegistry
	reporter     *export.Reporter
}

func NewComputeCmd(openRegistry OpenRegistry, reporter *export.Reporter) *cobra.Command {
	cc := &ComputeCmd{openRegistry: openRegistry, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute RFM metrics for a configured source",
		RunE:  cc.run,
	}

	cmd.Flags().StringVar(&cc.profilesPath, "profiles", "", "Path to the source profiles file")
	cmd.Flags().StringVar(&cc.source, "source", "", "Source profile to compute metrics for")

	_ = cmd.MarkFlagRequired("profiles")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func (cc *ComputeCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	reg, err := cc.openRegistry(cc.profilesPath)
	if err != nil {
		return fmt.Errorf("failed to load profiles from %s: %w", cc.profilesPath, err)
	}

	src, err := reg.Open(cc.source)
	if err != nil {
		return fmt.Errorf("failed to open source %q: %w", cc.source, err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Str("source", cc.source).Msg("failed to close source")
		}
	}()

	bar := progressbar.Default(3, "computing rfm")

	started := time.Now()
	raw, loadStats, err := src.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read source %q: %w", cc.source, err)
	}
	_ = bar.Add(1)

	result, err := pipeline.Run(ctx, raw)
	if err != nil {
		return fmt.Errorf("failed to compute metrics for source %q: %w", cc.source, err)
	}
	_ = bar.Add(1)

	report := reports.BuildSummary(result)
	_ = bar.Add(1)

	logger.Info().
		Str("source", cc.source).
		Int("rows_read", loadStats.RowsRead).
		Int("rows_skipped", loadStats.RowsSkipped).
		Int("customers", result.Summary.Customers).
		Dur("elapsed", time.Since(started)).
		Msg("rfm computation finished")

	return cc.reporter.Handle(report)
}

package commands

import (
	"fmt"

	"github.com/retail-tools/retail-atlas/pkg/runtime/terminal/export"
	"github.com/retail-tools/retail-atlas/pkg/services/analysis"
	"github.com/retail-tools/retail-atlas/pkg/services/reports"

	"github.com/spf13/cobra"
)

type ReportCmd struct {
	profilesPath string
	source       string
	kind         string
	top          int
	openRegistry OpenRegistry
	reporter     *export.Reporter
}

func NewReportCmd(openRegistry OpenRegistry, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{openRegistry: openRegistry, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a revenue or customer report for a configured source",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.profilesPath, "profiles", "", "Path to the source profiles file")
	cmd.Flags().StringVar(&rc.source, "source", "", "Source profile to report on")
	cmd.Flags().StringVar(&rc.kind, "kind", "", "Report kind (country, product, month, customers)")
	cmd.Flags().IntVar(&rc.top, "top", 10, "Number of customers in the customers report")

	_ = cmd.MarkFlagRequired("profiles")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	kind, err := reports.ParseKind(rc.kind)
	if err != nil {
		return err
	}

	reg, err := rc.openRegistry(rc.profilesPath)
	if err != nil {
		return fmt.Errorf("failed to load profiles from %s: %w", rc.profilesPath, err)
	}

	svc := analysis.NewService(reg)
	result, err := svc.Analyze(cmd.Context(), rc.source)
	if err != nil {
		return fmt.Errorf("failed to analyze source %q: %w", rc.source, err)
	}

	report, err := reports.Build(kind, result, rc.top)
	if err != nil {
		return err
	}

	return rc.reporter.Handle(report)
}

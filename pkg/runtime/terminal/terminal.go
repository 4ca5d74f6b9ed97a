package terminal

import (
	"context"
	"io"
	"os"

	"github.com/retail-tools/retail-atlas/pkg/runtime/terminal/commands"
	"github.com/retail-tools/retail-atlas/pkg/runtime/terminal/export"
	"github.com/retail-tools/retail-atlas/pkg/services/registry"

	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	openRegistry commands.OpenRegistry
	reporter     *export.Reporter
	rootCmd      *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	OpenRegistry commands.OpenRegistry
	Output       io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenRegistry == nil {
		opts.OpenRegistry = registry.New
	}

	cli := &CLI{
		openRegistry: opts.OpenRegistry,
		reporter:     export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

// Execute runs the CLI. The context carries the zerolog logger the commands
// and pipeline log through.
func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retail-atlas",
		Short: "Retail transaction analysis tool",
	}

	cmd.AddCommand(commands.NewComputeCmd(cli.openRegistry, cli.reporter))
	cmd.AddCommand(commands.NewReportCmd(cli.openRegistry, cli.reporter))
	cmd.AddCommand(commands.NewSourcesCmd(cli.openRegistry))

	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type SourcesCmd struct {
	profilesPath string
	openRegistry OpenRegistry
}

func NewSourcesCmd(openRegistry OpenRegistry) *cobra.Command {
	sc := &SourcesCmd{openRegistry: openRegistry}
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List configured source profiles",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.profilesPath, "profiles", "", "Path to the source profiles file")

	_ = cmd.MarkFlagRequired("profiles")

	return cmd
}

func (sc *SourcesCmd) run(cmd *cobra.Command, args []string) error {
	reg, err := sc.openRegistry(sc.profilesPath)
	if err != nil {
		return fmt.Errorf("failed to load profiles from %s: %w", sc.profilesPath, err)
	}

	profiles := reg.Profiles()
	if len(profiles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No source profiles configured")
		return nil
	}

	for _, profile := range profiles {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", profile.Name, profile.Type)
	}

	return nil
}

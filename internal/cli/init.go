package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the working directory and reload the catalog",
		Long: `Create stories/, stories/by_Genre/<genre>/ and images/basic/dice_1..9/
with their image symlinks, then load the catalog file (dices.tsv) into the
database, replacing any stored catalog.

Missing image files are logged but do not fail the command.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := rootOpts.prepare()
			if err != nil {
				return err
			}
			defer st.Close()

			c, err := rootOpts.reloadCatalog(cmd.Context(), st)
			if err != nil {
				return err
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if rootOpts.Format == "json" {
				return out.Success(map[string]any{"root": rootOpts.cfg.Root, "entries": c.Len()})
			}
			return out.Success(fmt.Sprintf("catalog loaded: %d entries", c.Len()))
		},
	}
}

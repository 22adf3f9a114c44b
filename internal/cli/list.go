package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/storyteller/internal/document"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Limit int
}

// RequestSummary is one line of list output.
type RequestSummary struct {
	ID    string `json:"id"`
	Stamp string `json:"stamp"`
	Genre string `json:"genre"`
	Title string `json:"title,omitempty"`
	Done  bool   `json:"done"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored story requests, newest first",
		Example: `  storyteller list
  storyteller list --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of requests (0 = all)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	reqs, err := st.ListRequests(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list requests", err)
	}

	summaries := make([]RequestSummary, len(reqs))
	for i, r := range reqs {
		summaries[i] = RequestSummary{
			ID:    r.ID,
			Stamp: r.Stamp,
			Genre: r.Genre.String(),
			Title: document.Title(r.Answer),
			Done:  r.Answered(),
		}
	}

	if opts.Format == "json" {
		out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return out.Success(summaries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTAMP\tGENRE\tTITLE")
	for _, s := range summaries {
		title := s.Title
		if !s.Done {
			title = "(pending)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Stamp, s.Genre, title)
	}
	return w.Flush()
}

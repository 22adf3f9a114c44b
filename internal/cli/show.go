package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/roach88/storyteller/internal/document"
	"github.com/roach88/storyteller/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Raw   bool
	Style string
	Width int
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <request-id>",
		Short: "Render a stored story in the terminal",
		Long: `Re-render the document of a stored story from the database and print it.

The Markdown is rendered with glamour; --raw prints it unrendered.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "print Markdown without rendering")
	cmd.Flags().StringVar(&opts.Style, "style", "auto", "glamour style (auto, dark, light, notty, ...)")
	cmd.Flags().IntVar(&opts.Width, "width", 80, "word wrap width")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	req, err := st.ReadRequest(ctx, id)
	if errors.Is(err, store.ErrRequestNotFound) {
		return WrapExitError(ExitFailure, fmt.Sprintf("no story %q", id), err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read request", err)
	}
	if !req.Answered() {
		return WrapExitError(ExitFailure, fmt.Sprintf("story %q has no answer", id), errPending)
	}

	draws, err := st.ReadDraws(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read draws", err)
	}

	a, err := document.Render(document.Story{Request: req, Draws: draws})
	if err != nil {
		return WrapExitError(ExitFailure, "failed to render story", err)
	}

	if opts.Raw {
		_, err := fmt.Fprint(cmd.OutOrStdout(), a.Content)
		return err
	}

	out, err := renderMarkdown(a.Content, opts.Style, opts.Width)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to render markdown", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

// renderMarkdown renders md for the terminal.
func renderMarkdown(md, style string, width int) (string, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

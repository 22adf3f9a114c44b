package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/storyteller/internal/dice"
	"github.com/roach88/storyteller/internal/document"
	"github.com/roach88/storyteller/internal/layout"
	"github.com/roach88/storyteller/internal/llm"
	"github.com/roach88/storyteller/internal/story"
	"github.com/roach88/storyteller/internal/teller"
)

// TellOptions holds flags for telling stories.
type TellOptions struct {
	*RootOptions
	Genre string
}

// parseCount validates the number-of-stories argument.
func parseCount(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, NewExitError(ExitFailure, fmt.Sprintf("number of stories %q is not a number", arg))
	}
	if n < teller.MinCount || n > teller.MaxCount {
		return 0, WrapExitError(ExitFailure, "execution aborted", fmt.Errorf("%w: got %d", teller.ErrCount, n))
	}
	return n, nil
}

func runTell(opts *TellOptions, arg string, cmd *cobra.Command) error {
	n, err := parseCount(arg)
	if err != nil {
		return err
	}

	var genre story.Genre
	if opts.Genre != "" {
		if genre, err = story.ParseGenre(opts.Genre); err != nil {
			return WrapExitError(ExitFailure, "invalid --genre", err)
		}
	}

	ctx := cmd.Context()
	log := opts.logger

	st, err := opts.prepare()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error("error closing database", zap.Error(closeErr))
		}
	}()

	cat, err := opts.catalog(ctx, st)
	if err != nil {
		return err
	}
	engine, err := dice.New(cat, opts.Deps.DiceOptions...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create dice engine", err)
	}

	var client llm.Client = opts.Deps.Client
	if client == nil {
		client = llm.NewOllama(opts.cfg.OllamaConfig(), log)
	}

	t, err := teller.New(engine, st, client,
		document.NewPublisher(layout.Stories(opts.cfg.Root), log),
		teller.WithLogger(log),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create teller", err)
	}

	results, err := t.TellN(ctx, n, genre)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("%d of %d stories generated", len(results), n), err)
	}

	if opts.Format == "json" {
		out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return out.Success(results)
	}
	if opts.Verbose {
		for _, r := range results {
			fmt.Fprintln(cmd.OutOrStdout(), r.Path)
		}
	}
	return nil
}

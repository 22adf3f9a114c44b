package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/storyteller/internal/config"
	"github.com/roach88/storyteller/internal/dice"
	"github.com/roach88/storyteller/internal/llm"
)

// RootOptions holds global flags for all commands and the state shared by
// them once PersistentPreRunE has run.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	Root       string

	Deps Deps

	cfg      config.Config
	logger   *zap.Logger
	closeLog func()
}

// Deps replaces production collaborators, for tests and dry runs.
type Deps struct {
	// Client replaces the Ollama client.
	Client llm.Client

	// DiceOptions are passed to dice.New.
	DiceOptions []dice.Option

	// Environ replaces the process environment for configuration.
	Environ map[string]string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

const rootLong = `storyteller simulates the "Story Cubes" story generator.

For each short story it
  (1) rolls the 9 story cubes
  (2) compiles the prompt from the 9 drawn topics
  (3) sends the prompt to a local Ollama service
  (4) stores the roll, the prompt and the answer in the SQLite database
  (5) writes a Markdown document to stories/
  (6) links the document at stories/by_Genre/<genre>/

All actions are logged to the log file (default the_story_teller.log).`

// NewRootCommand creates the root command with production dependencies.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	tellOpts := &TellOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "storyteller [number of stories (1-10)]",
		Short: "storyteller - short stories from story cubes",
		Long:  rootLong,
		Example: `  storyteller 1
  storyteller 3 --genre Krimi
  storyteller init
  storyteller list --limit 5`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitFailure, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runTell(tellOpts, args[0], cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Root, "root", "", "working directory (overrides config)")

	cmd.Flags().StringVarP(&tellOpts.Genre, "genre", "g", "", "genre of the stories (default: random per story)")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	return cmd
}

// setup resolves configuration and opens the log file.
func (o *RootOptions) setup() error {
	cfg, err := config.Load(config.Options{
		File:    o.ConfigFile,
		DotEnv:  ".env",
		Environ: o.Deps.Environ,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Root != "" {
		cfg.Root = o.Root
	}
	o.cfg = cfg

	logger, closeLog, err := newLogger(cfg.LogPath(), o.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open log", err)
	}
	o.logger = logger
	o.closeLog = closeLog
	o.logger.Info("start", zap.String("root", cfg.Root), zap.String("database", cfg.DatabasePath()))
	return nil
}

// close flushes and closes the log file.
func (o *RootOptions) close() {
	if o.logger != nil {
		_ = o.logger.Sync()
	}
	if o.closeLog != nil {
		o.closeLog()
		o.closeLog = nil
	}
}

// Main runs the CLI and returns the process exit code.
// Errors are printed to stderr; everything else goes to stdout.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer, deps Deps) int {
	opts := &RootOptions{Deps: deps}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil && opts.logger != nil {
		opts.logger.Error("failed", zap.Error(err))
	}
	opts.close()

	if err != nil {
		if opts.Format == "json" {
			out := &OutputFormatter{Format: opts.Format, Writer: stdout}
			_ = out.Error(errorCode(err), err.Error())
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// flags holds the command line for one invocation.
type flags struct {
	clean     bool
	dryRun    bool
	serve     bool
	watch     bool
	noRefresh bool
	verbose   bool
	config    string
	port      int
}

// newRootCmd builds the stitch command. Output goes to the command's
// stdout and stderr so tests can capture it.
func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "stitch",
		Short: "Assemble a static site from content fragments and shared partials",
		Long: `Stitch wraps every HTML fragment under the input directory with the
head, header and footer partials, copies all other files unchanged, and only
rewrites outputs older than their inputs.

Defaults: content/ (input), partials/ (head.html, header.html, footer.html),
public/ (output). Pages poll public/reload.txt and reload after each build
unless --no-refresh is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), f.verbose))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	cmd.Flags().BoolVar(&f.clean, "clean", false, "Delete the output directory before building")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Log what would be written without touching the filesystem")
	cmd.Flags().BoolVar(&f.serve, "serve", false, "Serve the output directory after building")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "Rebuild whenever the input or partials change (takes precedence over --serve)")
	cmd.Flags().BoolVar(&f.noRefresh, "no-refresh", false, "Do not inject the live-reload snippet or write the reload marker")
	cmd.Flags().StringVar(&f.config, "config", "", "Config file (default: stitch.yaml in this or a parent directory)")
	cmd.Flags().IntVar(&f.port, "port", 0, "Port for --serve (default 8000)")
	cmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fatal("stitch", err)
	}
}

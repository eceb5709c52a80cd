// Package cli wires the grider commands: the terminal editor, one-shot
// formula evaluation and snapshot conversion.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/hitenkalda/SpreadSheets/internal/app"
	"github.com/hitenkalda/SpreadSheets/internal/calc"
	"github.com/hitenkalda/SpreadSheets/internal/sheet"
	"github.com/hitenkalda/SpreadSheets/internal/storage"
)

type rootFlags struct {
	rows     int
	colWidth int
	format   string
	verbose  bool
	logFile  string

	logOut     io.Closer
	prevLogger *slog.Logger
}

// NewRootCommand builds the grider command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&rootFlags{})
}

func newRootCommand(flags *rootFlags) *cobra.Command {
	def := app.DefaultOptions()

	rootCmd := &cobra.Command{
		Use:   "grider [file]",
		Short: "Terminal spreadsheet with SUM/AVERAGE/MAX/MIN/COUNT formulas",
		Long: `grider edits a single 26-column sheet in the terminal.
Cells hold literals or formulas starting with "=": one aggregate call
over a range, such as =SUM(A1:B3), or an arithmetic expression.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd, flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeLogging(flags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.DefaultOptions()
			opts.Rows = flags.rows
			opts.ColumnWidth = flags.colWidth

			a := app.NewApp(opts)
			if len(args) == 1 {
				s, err := load(args[0], flags.format)
				if err != nil {
					return err
				}
				a.Load(s)
			}
			return runScreen(a)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log at debug level")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&flags.format, "format", "", "Snapshot format: json, csv, xlsx (default: from extension)")
	rootCmd.Flags().IntVar(&flags.rows, "rows", def.Rows, "Initial number of rows")
	rootCmd.Flags().IntVar(&flags.colWidth, "col-width", def.ColumnWidth, "Default column width")

	rootCmd.AddCommand(newEvalCommand(flags), newConvertCommand(flags))
	return rootCmd
}

// Execute runs the root command and reports the error on stderr.
func Execute() error {
	var flags rootFlags
	rootCmd := newRootCommand(&flags)
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails.
	closeLogging(&flags)
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "grider: %v\n", err)
		return err
	}
	return nil
}

func newEvalCommand(flags *rootFlags) *cobra.Command {
	var (
		file    string
		explain bool
	)
	cmd := &cobra.Command{
		Use:   "eval INPUT",
		Short: "Evaluate one cell input and print its display value",
		Example: `  grider eval "=1+2*3"
  grider eval --file book.json "=SUM(A1:A10)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cells calc.Lookup
			if file != "" {
				s, err := load(file, flags.format)
				if err != nil {
					return err
				}
				cells = s.Cells
			}

			res := calc.Evaluate(args[0], cells)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.String())
			if explain {
				fmt.Fprintf(out, "kind: %s\n", res.Kind)
				if res.Err != nil {
					fmt.Fprintf(out, "error: %v\n", res.Err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Snapshot providing cell values")
	cmd.Flags().BoolVar(&explain, "explain", false, "Print the result kind and error cause")
	return cmd
}

func newConvertCommand(flags *rootFlags) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert a snapshot between json, csv and xlsx",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(args[0], flags.format)
			if err != nil {
				return err
			}
			format, err := pickFormat(args[1], to)
			if err != nil {
				return err
			}
			if err := storage.Save(s, args[1], format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d cells to %s\n", len(s.Cells), args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output format (default: from extension)")
	return cmd
}

func load(filename, format string) (*sheet.Sheet, error) {
	f, err := pickFormat(filename, format)
	if err != nil {
		return nil, err
	}
	return storage.Load(filename, f)
}

func pickFormat(filename, name string) (storage.Format, error) {
	if name != "" {
		return storage.ParseFormat(name)
	}
	return storage.FormatFromPath(filename)
}

// setupLogging installs the default slog logger. The editor owns the
// terminal, so it logs nowhere unless --log-file is given.
func setupLogging(cmd *cobra.Command, flags *rootFlags) error {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = cmd.ErrOrStderr()
	switch {
	case flags.logFile != "":
		f, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
		flags.logOut = f
	case cmd == cmd.Root():
		w = io.Discard
	}
	flags.prevLogger = slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

// closeLogging restores the logger that was in place before setupLogging
// and closes the log file, if any.
func closeLogging(flags *rootFlags) error {
	if flags.prevLogger != nil {
		slog.SetDefault(flags.prevLogger)
		flags.prevLogger = nil
	}
	if flags.logOut == nil {
		return nil
	}
	err := flags.logOut.Close()
	flags.logOut = nil
	return err
}

func runScreen(a *app.App) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("cannot create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("cannot init screen: %w", err)
	}
	defer s.Fini()

	a.Run(s)
	return nil
}

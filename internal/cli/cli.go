package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vruiz/matriculas/internal/aggregate"
	"github.com/vruiz/matriculas/internal/config"
	"github.com/vruiz/matriculas/internal/decode"
	"github.com/vruiz/matriculas/internal/enrollment"
	"github.com/vruiz/matriculas/internal/logger"
	"github.com/vruiz/matriculas/internal/storage"
	"github.com/vruiz/matriculas/internal/table"
	"github.com/vruiz/matriculas/internal/upo"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagEncoding   string
	flagLayoutFile string
	flagFormat     string
	flagSort       string
	flagIndent     bool
	flagVerbose    bool
)

// settings are the resolved flag, environment and layout values of one run
type settings struct {
	encoding string
	layouts  config.Layouts
	output   OutputOptions
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matriculas",
		Short: "Extract university enrollment statistics as JSON",
		Long: `A CLI tool to extract new-enrollment statistics from the HTML tables and CSV
exports published by Spanish universities. Programs are broken down by sex, age
bracket and admission channel, and written as JSON.`,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("a report command is required")
		},
	}

	// Define flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&flagEncoding, "encoding", "", "Input encoding: latin-1, utf-8, auto or any WHATWG label (default latin-1 for HTML, utf-8 for CSV)")
	flags.StringVar(&flagLayoutFile, "layout-file", "", "YAML file overriding table layouts")
	flags.StringVar(&flagFormat, "format", "json", "Output format: json or text")
	flags.StringVar(&flagSort, "sort", "name", "Text output order: name or total")
	flags.BoolVar(&flagIndent, "indent", false, "Indent JSON output")
	flags.BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newCombinedCmd(),
		newAgesCmd(),
		newAccessCmd(),
		newUPOCmd(),
	)

	return cmd
}

func newCombinedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "combined input_edades input_acceso [output]",
		Short: "Merge the by-age and by-access-channel reports",
		Long: `Merge the by-age and by-access-channel new-enrollment reports into one JSON
document. A program listed in both reports must have the same total in each.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: runCombined,
	}
}

func newAgesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edades input [output]",
		Short: "Extract the standalone by-age report",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runAges,
	}
}

func newAccessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "acceso input [output]",
		Short: "Extract the standalone by-access-channel report",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runAccess,
	}
}

func newUPOCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upo input output_dir",
		Short: "Aggregate the per-student CSV export into one JSON file per course year",
		Args:  cobra.ExactArgs(2),
		RunE:  runUPO,
	}
}

// setup resolves configuration and installs the logger for a run.
// Flags take precedence over MATRICULAS_* environment variables.
func setup(cmd *cobra.Command, defaultEncoding string) (*settings, error) {
	// Arguments were valid; later errors are not usage errors
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	levelName := cfg.LogLevel
	if flagVerbose {
		levelName = string(logger.LevelDebug)
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
	logger.ResetMetrics()

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return nil, fmt.Errorf("invalid format: %s (must be 'json' or 'text')", flagFormat)
	}
	if !validSortOrder(flagSort) {
		return nil, fmt.Errorf("invalid sort order: %s (must be 'name' or 'total')", flagSort)
	}

	encoding := defaultEncoding
	if cfg.Encoding != "" {
		encoding = cfg.Encoding
	}
	if flagEncoding != "" {
		encoding = flagEncoding
	}

	layoutFile := cfg.LayoutFile
	if flagLayoutFile != "" {
		layoutFile = flagLayoutFile
	}
	layouts, err := config.LoadLayouts(layoutFile)
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration resolved", logger.Fields{
		"command":     cmd.Name(),
		"encoding":    encoding,
		"layout_file": layoutFile,
		"format":      string(format),
	})

	return &settings{
		encoding: encoding,
		layouts:  layouts,
		output: OutputOptions{
			Format: format,
			Indent: flagIndent,
			Sort:   SortOrder(strings.ToLower(flagSort)),
		},
	}, nil
}

// readRows loads the table rows of the HTML document at path
func readRows(path, encoding string) ([]table.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	rows, err := table.ReadRows(f, encoding)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	logger.Info("report loaded", logger.Fields{
		"file": path,
		"rows": len(rows),
	})
	return rows, nil
}

// runCombined merges the age report and then the access-channel report
func runCombined(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd, decode.Latin1)
	if err != nil {
		return err
	}

	agg := aggregate.New()

	ageRows, err := readRows(args[0], s.encoding)
	if err != nil {
		return err
	}
	if err := agg.AddAges(ageRows, s.layouts.Ages); err != nil {
		return fmt.Errorf("processing %s: %w", args[0], err)
	}

	accessRows, err := readRows(args[1], s.encoding)
	if err != nil {
		return err
	}
	if err := agg.AddAccess(accessRows, s.layouts.Access); err != nil {
		return fmt.Errorf("processing %s: %w", args[1], err)
	}

	return finish(cmd, agg.Report(), outputArg(args, 2), s.output)
}

// runAges handles the standalone by-age report
func runAges(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd, decode.Latin1)
	if err != nil {
		return err
	}

	rows, err := readRows(args[0], s.encoding)
	if err != nil {
		return err
	}

	agg := aggregate.New()
	if err := agg.AddAges(rows, s.layouts.StandaloneAges); err != nil {
		return fmt.Errorf("processing %s: %w", args[0], err)
	}

	return finish(cmd, agg.Report(), outputArg(args, 1), s.output)
}

// runAccess handles the standalone by-access-channel report
func runAccess(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd, decode.Latin1)
	if err != nil {
		return err
	}

	rows, err := readRows(args[0], s.encoding)
	if err != nil {
		return err
	}

	agg := aggregate.New()
	if err := agg.AddAccess(rows, s.layouts.Access); err != nil {
		return fmt.Errorf("processing %s: %w", args[0], err)
	}

	return finish(cmd, agg.Report(), outputArg(args, 1), s.output)
}

// runUPO aggregates the CSV export and writes one file per course year
func runUPO(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd, decode.UTF8)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	r, err := decode.NewReader(f, s.encoding)
	if err != nil {
		return err
	}

	years, err := upo.Read(r)
	if err != nil {
		return fmt.Errorf("processing %s: %w", args[0], err)
	}

	store, err := storage.New(args[1])
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	paths, err := store.SaveYears(years, s.output.Indent)
	if err != nil {
		return err
	}
	for i, course := range years.Courses() {
		logger.Info("course year written", logger.Fields{
			"course":   course,
			"file":     paths[i],
			"programs": len(years[course]),
		})
	}

	logRun()
	return nil
}

// outputArg returns the optional output path at position i
func outputArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

// finish renders the report and writes it to stdout or to path.
// Nothing is written when rendering fails.
func finish(cmd *cobra.Command, report enrollment.Report, path string, opts OutputOptions) error {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, report, opts); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if path == "" {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	} else if err := storage.WriteFile(path, buf.Bytes()); err != nil {
		return err
	}

	logRun()
	return nil
}

// logRun reports the run metrics
func logRun() {
	logger.Debug("run complete", logger.Fields{
		"metrics": logger.GetMetricsSnapshot(),
	})
	_ = logger.Sync()
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

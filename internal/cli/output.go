package cli

import (
	"fmt"
	"io"

	"github.com/vruiz/matriculas/internal/enrollment"
	"github.com/vruiz/matriculas/internal/storage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputOptions controls how a report is written
type OutputOptions struct {
	Format OutputFormat
	Indent bool
	Sort   SortOrder
}

// WriteOutput writes the report in the specified format
func WriteOutput(w io.Writer, report enrollment.Report, opts OutputOptions) error {
	switch opts.Format {
	case FormatJSON:
		return storage.Encode(w, report, opts.Indent)
	case FormatText:
		return writeText(w, report, opts.Sort)
	default:
		return fmt.Errorf("unknown format: %s", opts.Format)
	}
}

// writeText outputs a human-readable summary of the report
func writeText(w io.Writer, report enrollment.Report, sortOrder SortOrder) error {
	if len(report) == 0 {
		fmt.Fprintln(w, "No programs found.")
		return nil
	}

	students := 0
	for _, program := range sortPrograms(report, sortOrder) {
		d := report[program]
		fmt.Fprintf(w, "%s: %s (hombres %d, mujeres %d)\n", program, d.Total, d.Hombres.Total, d.Mujeres.Total)
		if d.Total.Known {
			students += d.Total.Value
		}
	}

	fmt.Fprintf(w, "\nTotal: %d students across %d programs\n", students, len(report))
	return nil
}

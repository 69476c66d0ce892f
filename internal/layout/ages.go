package layout

import (
	"fmt"

	"github.com/vruiz/matriculas/internal/enrollment"
	"github.com/vruiz/matriculas/internal/table"
)

// AgeLayout describes a by-age report table
type AgeLayout struct {
	// SkipRows is the number of header rows before the first data row
	SkipRows int
	// FirstAgeColumn holds the first of the 15 consecutive age bucket columns
	FirstAgeColumn int
	// SubtotalColumn holds the sex subtotal
	SubtotalColumn int
}

// CombinedAges is the age table of the combined new-enrollment report
var CombinedAges = AgeLayout{SkipRows: 10, FirstAgeColumn: 5, SubtotalColumn: 20}

// StandaloneAges is the age table published on its own
var StandaloneAges = AgeLayout{SkipRows: 8, FirstAgeColumn: 5, SubtotalColumn: 20}

// Validate checks that the columns fit the fixed leading block and do not overlap
func (l AgeLayout) Validate() error {
	if l.SkipRows < 0 {
		return fmt.Errorf("skip_rows must not be negative")
	}
	if l.FirstAgeColumn <= ColProgramTotal {
		return fmt.Errorf("first age column %d overlaps the leading columns", l.FirstAgeColumn)
	}
	last := l.FirstAgeColumn + len(enrollment.AgeBuckets) - 1
	if l.SubtotalColumn >= l.FirstAgeColumn && l.SubtotalColumn <= last {
		return fmt.Errorf("subtotal column %d overlaps the age columns %d-%d", l.SubtotalColumn, l.FirstAgeColumn, last)
	}
	if l.SubtotalColumn <= ColProgramTotal {
		return fmt.Errorf("subtotal column %d overlaps the leading columns", l.SubtotalColumn)
	}
	return nil
}

// minCells is the number of cells a data row must have
func (l AgeLayout) minCells() int {
	last := l.FirstAgeColumn + len(enrollment.AgeBuckets) - 1
	if l.SubtotalColumn > last {
		last = l.SubtotalColumn
	}
	return last + 1
}

// AgeRow is one extracted row of a by-age report
type AgeRow struct {
	Fields
	Ages enrollment.AgeHistogram
}

// Extract reads the fields and age histogram of row.
// It returns ErrNotDataRow for rows without a program name.
func (l AgeLayout) Extract(row table.Row) (AgeRow, error) {
	fields, err := leading(row)
	if err != nil {
		return AgeRow{}, err
	}

	if len(row.Cells) < l.minCells() {
		return AgeRow{}, &enrollment.MalformedRowError{
			Row:    row.Index,
			Reason: fmt.Sprintf("age row for %q has %d cells, expected at least %d", fields.Program, len(row.Cells), l.minCells()),
		}
	}

	if fields.SexTotal, err = count(row, l.SubtotalColumn); err != nil {
		return AgeRow{}, err
	}

	var counts [15]int
	for i := range counts {
		if counts[i], err = count(row, l.FirstAgeColumn+i); err != nil {
			return AgeRow{}, err
		}
	}

	return AgeRow{Fields: fields, Ages: enrollment.NewAgeHistogram(counts)}, nil
}

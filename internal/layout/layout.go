package layout

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vruiz/matriculas/internal/enrollment"
	"github.com/vruiz/matriculas/internal/table"
)

// Fixed leading columns shared by both report layouts
const (
	ColFaculty      = 0
	ColGrandTotal   = 1
	ColProgram      = 2
	ColProgramTotal = 3
)

// ErrNotDataRow marks a subtotal or separator row that carries no program
var ErrNotDataRow = errors.New("not a data row")

var leadingDigits = regexp.MustCompile(`^[0-9]+`)

// Fields holds the values common to every data row
type Fields struct {
	Faculty      string
	GrandTotal   enrollment.Total
	Program      string
	ProgramTotal enrollment.Total
	SexTotal     int
}

// ProgramName normalizes a program cell, collapsing the line breaks and
// indentation the report generator leaves inside long names.
func ProgramName(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ParseCount parses a locale-formatted count such as "1.234"
func ParseCount(text string) (int, error) {
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(text), ".", ""))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

// ParseTotal parses a count, yielding an unknown total when the text is not a number
func ParseTotal(text string) enrollment.Total {
	n, err := ParseCount(text)
	if err != nil {
		return enrollment.UnknownTotal()
	}
	return enrollment.KnownTotal(n)
}

// count parses a mandatory integer cell of row
func count(row table.Row, col int) (int, error) {
	text := row.Text(col)
	n, err := ParseCount(text)
	if err != nil {
		return 0, &enrollment.UnparseableNumberError{Row: row.Index, Column: col, Text: text, Err: err}
	}
	return n, nil
}

// leading reads the leading columns of row. Rows too short to carry a
// program, or whose program cell is empty, are not data rows.
func leading(row table.Row) (Fields, error) {
	program := ProgramName(row.Text(ColProgram))
	if program == "" {
		return Fields{}, ErrNotDataRow
	}

	return Fields{
		Faculty:      strings.TrimSpace(row.Text(ColFaculty)),
		GrandTotal:   ParseTotal(row.Text(ColGrandTotal)),
		Program:      program,
		ProgramTotal: ParseTotal(row.Text(ColProgramTotal)),
	}, nil
}

package enrollment

import (
	"errors"
	"fmt"
)

// MalformedRowError reports a row whose cell count or structure does not
// match the expected report layout.
type MalformedRowError struct {
	Row    int
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row %d: %s", e.Row, e.Reason)
}

// UnparseableNumberError reports a cell that must hold an integer but does not
type UnparseableNumberError struct {
	Row    int
	Column int
	Text   string
	Err    error
}

func (e *UnparseableNumberError) Error() string {
	return fmt.Sprintf("row %d column %d: cannot parse %q as a number", e.Row, e.Column, e.Text)
}

func (e *UnparseableNumberError) Unwrap() error { return e.Err }

// InconsistentTotalsError reports a program whose total differs between
// the reports it appears in.
type InconsistentTotalsError struct {
	Program string
	Have    Total
	Got     Total
}

func (e *InconsistentTotalsError) Error() string {
	return fmt.Sprintf("inconsistent totals for %q: %s already recorded, report gives %s", e.Program, e.Have, e.Got)
}

// IsInconsistentTotals reports whether err is an InconsistentTotalsError
func IsInconsistentTotals(err error) bool {
	var e *InconsistentTotalsError
	return errors.As(err, &e)
}

// IsMalformedRow reports whether err is a MalformedRowError
func IsMalformedRow(err error) bool {
	var e *MalformedRowError
	return errors.As(err, &e)
}

// IsUnparseableNumber reports whether err is an UnparseableNumberError
func IsUnparseableNumber(err error) bool {
	var e *UnparseableNumberError
	return errors.As(err, &e)
}

package layout

import (
	"fmt"
	"strings"

	"github.com/vruiz/matriculas/internal/enrollment"
	"github.com/vruiz/matriculas/internal/table"
)

// trailingColumns are the sex subtotal and an unused last column
const trailingColumns = 2

// AccessLayout describes a by-access-channel report table
type AccessLayout struct {
	// SkipRows is the number of header rows before the first data row
	SkipRows int
	// FirstChannelColumn is the physical column where the channel cells begin
	FirstChannelColumn int
}

// Access is the access-channel table of the published reports
var Access = AccessLayout{SkipRows: 11, FirstChannelColumn: 5}

// Validate checks that the channel block starts after the leading columns
func (l AccessLayout) Validate() error {
	if l.SkipRows < 0 {
		return fmt.Errorf("skip_rows must not be negative")
	}
	if l.FirstChannelColumn <= ColProgramTotal {
		return fmt.Errorf("first channel column %d overlaps the leading columns", l.FirstChannelColumn)
	}
	return nil
}

// AccessRow is one extracted row of an access-channel report
type AccessRow struct {
	Fields
	Channels enrollment.ChannelHistogram
}

// Extract reads the fields and access-channel histogram of row.
// It returns ErrNotDataRow for rows without a program name.
func (l AccessLayout) Extract(row table.Row) (AccessRow, error) {
	fields, err := leading(row)
	if err != nil {
		return AccessRow{}, err
	}

	if need := l.FirstChannelColumn + trailingColumns; len(row.Cells) < need {
		return AccessRow{}, &enrollment.MalformedRowError{
			Row:    row.Index,
			Reason: fmt.Sprintf("access row for %q has %d cells, expected at least %d", fields.Program, len(row.Cells), need),
		}
	}

	end := len(row.Cells) - trailingColumns
	slots, err := Realign(row, l.FirstChannelColumn, end, len(enrollment.Channels))
	if err != nil {
		return AccessRow{}, err
	}

	if fields.SexTotal, err = count(row, end); err != nil {
		return AccessRow{}, err
	}

	var counts [6]int
	copy(counts[:], slots)
	return AccessRow{Fields: fields, Channels: enrollment.NewChannelHistogram(counts)}, nil
}

// Realign maps the physical cells from..to (exclusive) of row onto a dense
// run of logical slots. A cell declaring a colspan of S moves the cursor S
// slots ahead and leaves them at zero. Any other cell moves it one slot,
// storing its value first when the text starts with a digit. Slots the
// cursor never stores into stay at zero.
func Realign(row table.Row, from, to, slots int) ([]int, error) {
	values := make([]int, slots)
	cursor := 0

	for col := from; col < to && col < len(row.Cells); col++ {
		cell := row.Cells[col]
		if cell.Spanned() {
			cursor += cell.Colspan
			continue
		}

		text := strings.TrimSpace(cell.Text)
		if leadingDigits.MatchString(text) {
			if cursor >= slots {
				return nil, &enrollment.MalformedRowError{
					Row:    row.Index,
					Reason: fmt.Sprintf("column %d maps past the last of %d slots", col, slots),
				}
			}
			n, err := count(row, col)
			if err != nil {
				return nil, err
			}
			values[cursor] = n
		}
		cursor++
	}

	return values, nil
}

package table

import (
	"fmt"
	"io"
)

// TruncatedTableError reports a data row left without a partner after pairing
type TruncatedTableError struct {
	Row int
}

func (e *TruncatedTableError) Error() string {
	return fmt.Sprintf("truncated table: row %d has no paired row", e.Row)
}

// Pair is one degree program's male and female rows
type Pair struct {
	Male   Row
	Female Row
}

// PairWalker yields consecutive row pairs in a single forward pass
type PairWalker struct {
	rows []Row
	pos  int
}

// NewPairWalker creates a walker over rows that discards the first skip rows.
// Skipping more rows than exist leaves nothing to walk.
func NewPairWalker(rows []Row, skip int) *PairWalker {
	if skip < 0 {
		skip = 0
	}
	if skip > len(rows) {
		skip = len(rows)
	}
	return &PairWalker{rows: rows, pos: skip}
}

// Next returns the next pair. It returns io.EOF once every row has been
// paired, and a *TruncatedTableError when a single row remains.
func (w *PairWalker) Next() (Pair, error) {
	switch remaining := len(w.rows) - w.pos; {
	case remaining <= 0:
		return Pair{}, io.EOF
	case remaining == 1:
		return Pair{}, &TruncatedTableError{Row: w.rows[w.pos].Index}
	}

	pair := Pair{Male: w.rows[w.pos], Female: w.rows[w.pos+1]}
	w.pos += 2
	return pair, nil
}

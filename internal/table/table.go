package table

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vruiz/matriculas/internal/decode"
)

// ErrNoTable is returned when a document has no <tbody> to read rows from
var ErrNoTable = errors.New("document has no table body")

// Cell is one physical <td> of a row
type Cell struct {
	Text string
	// Colspan is the declared colspan, or 0 when the cell carries no colspan attribute
	Colspan int
}

// Spanned reports whether the cell declares a colspan
func (c Cell) Spanned() bool {
	return c.Colspan > 0
}

// Width returns the number of logical columns the cell occupies
func (c Cell) Width() int {
	if c.Colspan > 0 {
		return c.Colspan
	}
	return 1
}

// Row is one <tr> of the table body
type Row struct {
	// Index is the zero-based position of the row within the table body
	Index int
	Cells []Cell
}

// Text returns the raw text of cell i, or "" when the row is shorter
func (r Row) Text(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i].Text
}

// ReadRows decodes r from the named encoding and returns the rows of the
// document's first table body.
func ReadRows(r io.Reader, encoding string) ([]Row, error) {
	body, err := decode.NewReader(r, encoding)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	return parseRows(doc)
}

// parseRows extracts rows from a parsed document
func parseRows(doc *goquery.Document) ([]Row, error) {
	tbody := doc.Find("body tbody").First()
	if tbody.Length() == 0 {
		return nil, ErrNoTable
	}

	rows := make([]Row, 0)
	tbody.Find("tr").Each(func(i int, tr *goquery.Selection) {
		row := Row{Index: i, Cells: make([]Cell, 0)}
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row.Cells = append(row.Cells, Cell{
				Text:    td.Text(),
				Colspan: colspan(td),
			})
		})
		rows = append(rows, row)
	})

	return rows, nil
}

// colspan reads the colspan attribute of a cell. Values that are not a
// positive integer count as 1, as browsers render them.
func colspan(td *goquery.Selection) int {
	value, ok := td.Attr("colspan")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Package table loads the data table of a published enrollment report and walks its rows.
//
// ReadRows decodes an HTML document and returns the rows of its first <tbody> as
// plain cells, keeping each cell's colspan so merged columns can be realigned later.
// PairWalker groups the data rows that follow the header block into (male, female)
// pairs, the way the reports list each degree program on two consecutive rows.
package table

// Package storage writes enrollment reports as JSON files.
//
// Rendered output goes to a named file with WriteFile. The CSV export produces
// one report per course year, which a Storage writes into its output directory
// as upo<year>.json with SaveYears. Directories given as ~/... are expanded to
// the user's home.
package storage

// Package cli implements the command-line interface for matriculas.
//
// The cli package provides the Cobra-based CLI with one command per report variant:
// the combined age and access-channel report, each of those reports on its own, and
// the per-student CSV export. It coordinates the table, layout, aggregate, upo and
// storage packages to read the published documents and write the JSON report.
package cli

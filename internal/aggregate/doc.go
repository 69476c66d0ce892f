// Package aggregate merges extracted report rows into a per-degree enrollment report.
//
// An Aggregator runs at most one pass per report document: the age pass fills the
// edades histogram of each sex and the access pass fills via_acceso, so running both
// over the same programs accumulates both histograms. A program seen more than once
// must always report the same total; a mismatch aborts the run.
package aggregate

package cli

import (
	"sort"
	"strings"

	"github.com/vruiz/matriculas/internal/enrollment"
)

// SortOrder represents the available sorting options for text output
type SortOrder string

const (
	SortByName  SortOrder = "name"
	SortByTotal SortOrder = "total"
)

// sortPrograms returns the program names of report in the given order
func sortPrograms(report enrollment.Report, sortOrder SortOrder) []string {
	programs := report.Programs()

	if sortOrder == SortByTotal {
		sort.SliceStable(programs, func(i, j int) bool {
			return compareByTotal(report[programs[i]], report[programs[j]])
		})
	}

	return programs
}

// compareByTotal orders larger known totals first; unknown totals go last
// Returns true if degree i should come before degree j
func compareByTotal(i, j *enrollment.Degree) bool {
	if i.Total.Known && j.Total.Known {
		return i.Total.Value > j.Total.Value
	}
	if i.Total.Known {
		return true
	}
	return false
}

// validSortOrder reports whether s names a supported sort order
func validSortOrder(s string) bool {
	switch SortOrder(strings.ToLower(s)) {
	case SortByName, SortByTotal:
		return true
	}
	return false
}

// Package upo aggregates the per-student CSV export of new enrollments into one
// enrollment report per course year.
//
// Every CSV row describes one enrolled student with eleven columns: course year,
// program, admission year, age, sex, nationality country and the family's country,
// region, province and town, plus a large-family flag. Rows are counted into the
// program total, the sex subtotal and the age histogram of their course year.
package upo

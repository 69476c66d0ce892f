// Package layout realigns the physical cells of a report row into named fields.
//
// Two report layouts are supported. The age layout is regular: every age bucket has
// its own column. The access-channel layout is not: when a whole block of channels
// has no enrollments the report merges those columns into one cell with a colspan,
// so the channel values are recovered by walking the cells with a logical cursor.
package layout

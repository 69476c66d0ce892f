// Package enrollment defines the per-degree enrollment records emitted by matriculas.
//
// A Report maps a degree program name to its Degree record. Each Degree carries the
// program total and one SexBreakdown per sex, which in turn holds the sex subtotal and
// the age and access-channel histograms extracted from the source reports. The JSON
// field names (total, hombres, mujeres, edades, via_acceso) are part of the output
// contract and follow the labels used in the published university reports.
package enrollment

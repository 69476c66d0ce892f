package aggregate

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vruiz/matriculas/internal/enrollment"
	"github.com/vruiz/matriculas/internal/layout"
	"github.com/vruiz/matriculas/internal/logger"
	"github.com/vruiz/matriculas/internal/table"
)

// Pass names used in log fields and metric keys
const (
	PassAges   = "ages"
	PassAccess = "access"
)

// Aggregator builds an enrollment report from one or more report passes
type Aggregator struct {
	report enrollment.Report
}

// New creates an Aggregator with an empty report
func New() *Aggregator {
	return &Aggregator{report: make(enrollment.Report)}
}

// Report returns the aggregated report
func (a *Aggregator) Report() enrollment.Report {
	return a.report
}

// extracted is one row's common fields plus the histogram it contributes
type extracted struct {
	fields layout.Fields
	apply  func(*enrollment.SexBreakdown)
	sum    int
}

// AddAges merges the rows of a by-age report
func (a *Aggregator) AddAges(rows []table.Row, l layout.AgeLayout) error {
	return a.run(PassAges, rows, l.SkipRows, func(row table.Row) (extracted, error) {
		r, err := l.Extract(row)
		if err != nil {
			return extracted{}, err
		}
		return extracted{
			fields: r.Fields,
			apply:  func(s *enrollment.SexBreakdown) { s.Edades = r.Ages },
			sum:    r.Ages.Sum(),
		}, nil
	})
}

// AddAccess merges the rows of an access-channel report
func (a *Aggregator) AddAccess(rows []table.Row, l layout.AccessLayout) error {
	return a.run(PassAccess, rows, l.SkipRows, func(row table.Row) (extracted, error) {
		r, err := l.Extract(row)
		if err != nil {
			return extracted{}, err
		}
		return extracted{
			fields: r.Fields,
			apply:  func(s *enrollment.SexBreakdown) { s.ViaAcceso = r.Channels },
			sum:    r.Channels.Sum(),
		}, nil
	})
}

// run walks the (male, female) row pairs after skip header rows and merges each pair
func (a *Aggregator) run(pass string, rows []table.Row, skip int, extract func(table.Row) (extracted, error)) error {
	start := time.Now()
	walker := table.NewPairWalker(rows, skip)

	for {
		pair, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s pass: %w", pass, err)
		}

		male, err := extract(pair.Male)
		if errors.Is(err, layout.ErrNotDataRow) {
			logger.Debug("skipping non-data row pair", logger.Fields{
				"pass": pass,
				"row":  pair.Male.Index,
			})
			logger.IncrCounter(pass + ".pairs_skipped")
			continue
		}
		if err != nil {
			return fmt.Errorf("%s pass: %w", pass, err)
		}

		female, err := extract(pair.Female)
		if errors.Is(err, layout.ErrNotDataRow) {
			return fmt.Errorf("%s pass: %w", pass, &enrollment.MalformedRowError{
				Row:    pair.Female.Index,
				Reason: fmt.Sprintf("expected the female row of %q", male.fields.Program),
			})
		}
		if err != nil {
			return fmt.Errorf("%s pass: %w", pass, err)
		}
		if female.fields.Program != male.fields.Program {
			return fmt.Errorf("%s pass: %w", pass, &enrollment.MalformedRowError{
				Row:    pair.Female.Index,
				Reason: fmt.Sprintf("female row names %q, expected %q", female.fields.Program, male.fields.Program),
			})
		}

		if female.fields.ProgramTotal != male.fields.ProgramTotal {
			return fmt.Errorf("%s pass: row %d: %w", pass, pair.Female.Index, &enrollment.InconsistentTotalsError{
				Program: male.fields.Program,
				Have:    male.fields.ProgramTotal,
				Got:     female.fields.ProgramTotal,
			})
		}

		degree, err := a.degree(male.fields.Program, male.fields.ProgramTotal)
		if err != nil {
			return fmt.Errorf("%s pass: %w", pass, err)
		}

		merge(pass, male.fields.Program, enrollment.Hombres, degree, male)
		merge(pass, female.fields.Program, enrollment.Mujeres, degree, female)
		logger.IncrCounter(pass + ".pairs")
	}

	logger.RecordTiming(pass+".duration", time.Since(start))
	logger.SetGauge("programs", float64(len(a.report)))
	return nil
}

// degree returns the record for program, creating it with total when new.
// An existing record must carry the same total.
func (a *Aggregator) degree(program string, total enrollment.Total) (*enrollment.Degree, error) {
	d, exists := a.report[program]
	if !exists {
		d = enrollment.NewDegree(total)
		a.report[program] = d
		return d, nil
	}

	if d.Total != total {
		return nil, &enrollment.InconsistentTotalsError{
			Program: program,
			Have:    d.Total,
			Got:     total,
		}
	}
	return d, nil
}

// merge stores one row's subtotal and histogram under the given sex
func merge(pass, program, sex string, d *enrollment.Degree, row extracted) {
	breakdown := d.Sex(sex)
	breakdown.Total = row.fields.SexTotal
	row.apply(breakdown)

	// The published reports are not always internally consistent
	if row.sum != row.fields.SexTotal {
		logger.Warn("histogram does not add up to the sex subtotal", logger.Fields{
			"pass":     pass,
			"program":  program,
			"sex":      sex,
			"subtotal": row.fields.SexTotal,
			"sum":      row.sum,
		})
		logger.IncrCounter(pass + ".subtotal_mismatches")
	}
}

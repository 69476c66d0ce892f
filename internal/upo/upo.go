package upo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vruiz/matriculas/internal/enrollment"
	"github.com/vruiz/matriculas/internal/layout"
	"github.com/vruiz/matriculas/internal/logger"
)

// Columns is the number of fields in every CSV record
const Columns = 11

// Column positions in a CSV record
const (
	ColCourse = iota
	ColProgram
	ColAdmissionYear
	ColAge
	ColSex
	ColNationality
	ColFamilyCountry
	ColFamilyRegion
	ColFamilyProvince
	ColFamilyTown
	ColLargeFamily
)

// Student is one CSV record
type Student struct {
	Course         string
	Program        string
	AdmissionYear  string
	Age            int
	Sex            string
	Nationality    string
	FamilyCountry  string
	FamilyRegion   string
	FamilyProvince string
	FamilyTown     string
	LargeFamily    string
}

// SexKey maps the sex column to the report's sex key
func SexKey(value string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "H", "HOMBRE", "V", "VARON", "VARÓN":
		return enrollment.Hombres, true
	case "M", "MUJER":
		return enrollment.Mujeres, true
	default:
		return "", false
	}
}

// Years holds one report per course year
type Years map[string]enrollment.Report

// Read aggregates every record of the CSV in r by course year.
// A first record whose age column is not a number is taken as a header.
func Read(r io.Reader) (Years, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	years := make(Years)
	for line := 0; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}

		student, err := parseRecord(line, record)
		if err != nil {
			var unparseable *enrollment.UnparseableNumberError
			if line == 0 && errors.As(err, &unparseable) && unparseable.Column == ColAge {
				logger.Debug("skipping CSV header", logger.Fields{"record": record})
				continue
			}
			return nil, err
		}

		if err := years.add(line, student); err != nil {
			return nil, err
		}
		logger.IncrCounter("upo.records")
	}

	return years, nil
}

// parseRecord validates and converts one CSV record
func parseRecord(line int, record []string) (Student, error) {
	if len(record) != Columns {
		return Student{}, &enrollment.MalformedRowError{
			Row:    line,
			Reason: fmt.Sprintf("record has %d fields, expected %d", len(record), Columns),
		}
	}

	ageText := record[ColAge]
	age, err := layout.ParseCount(ageText)
	if err != nil {
		return Student{}, &enrollment.UnparseableNumberError{Row: line, Column: ColAge, Text: ageText, Err: err}
	}

	student := Student{
		Course:         strings.TrimSpace(record[ColCourse]),
		Program:        layout.ProgramName(record[ColProgram]),
		AdmissionYear:  strings.TrimSpace(record[ColAdmissionYear]),
		Age:            age,
		Sex:            strings.TrimSpace(record[ColSex]),
		Nationality:    strings.TrimSpace(record[ColNationality]),
		FamilyCountry:  strings.TrimSpace(record[ColFamilyCountry]),
		FamilyRegion:   strings.TrimSpace(record[ColFamilyRegion]),
		FamilyProvince: strings.TrimSpace(record[ColFamilyProvince]),
		FamilyTown:     strings.TrimSpace(record[ColFamilyTown]),
		LargeFamily:    strings.TrimSpace(record[ColLargeFamily]),
	}

	if student.Course == "" || student.Program == "" {
		return Student{}, &enrollment.MalformedRowError{Row: line, Reason: "missing course year or program"}
	}
	return student, nil
}

// add counts one student into its course year report
func (y Years) add(line int, s Student) error {
	sex, ok := SexKey(s.Sex)
	if !ok {
		return &enrollment.MalformedRowError{Row: line, Reason: fmt.Sprintf("unknown sex %q", s.Sex)}
	}

	report, ok := y[s.Course]
	if !ok {
		report = make(enrollment.Report)
		y[s.Course] = report
	}

	degree, ok := report[s.Program]
	if !ok {
		degree = enrollment.NewDegree(enrollment.KnownTotal(0))
		degree.Hombres.Edades = enrollment.NewAgeHistogram([15]int{})
		degree.Mujeres.Edades = enrollment.NewAgeHistogram([15]int{})
		report[s.Program] = degree
	}

	degree.Total.Value++
	breakdown := degree.Sex(sex)
	breakdown.Total++
	breakdown.Edades[enrollment.AgeBucket(s.Age)]++
	return nil
}

// Courses returns the course years in sorted order
func (y Years) Courses() []string {
	courses := make([]string, 0, len(y))
	for course := range y {
		courses = append(courses, course)
	}
	sort.Strings(courses)
	return courses
}

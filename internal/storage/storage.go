package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vruiz/matriculas/internal/enrollment"
)

// Storage handles writing per-year reports into an output directory
type Storage struct {
	dir string
}

// New creates a new Storage instance, creating dir when it does not exist
func New(dir string) (*Storage, error) {
	dir, err := expandHome(dir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Storage{
		dir: dir,
	}, nil
}

// Dir returns the output directory
func (s *Storage) Dir() string {
	return s.dir
}

// expandHome expands a leading ~/ to the home directory
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// YearPath returns the path of the report file for a course year
func (s *Storage) YearPath(course string) string {
	return filepath.Join(s.dir, "upo"+fileSafe(course)+".json")
}

// fileSafe replaces characters that cannot appear in a file name
func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
}

// SaveYears writes one report file per course year and returns the paths in
// course order. Every report is encoded before the first file is written, and
// files already written are removed again when a later write fails.
func (s *Storage) SaveYears(years map[string]enrollment.Report, indent bool) ([]string, error) {
	courses := make([]string, 0, len(years))
	for course := range years {
		courses = append(courses, course)
	}
	sort.Strings(courses)

	rendered := make([][]byte, len(courses))
	for i, course := range courses {
		var buf bytes.Buffer
		if err := Encode(&buf, years[course], indent); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", course, err)
		}
		rendered[i] = buf.Bytes()
	}

	paths := make([]string, 0, len(courses))
	for i, course := range courses {
		path := s.YearPath(course)
		if err := os.WriteFile(path, rendered[i], 0644); err != nil {
			for _, written := range paths {
				_ = os.Remove(written)
			}
			return nil, fmt.Errorf("saving %s: %w", course, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// WriteFile writes already rendered output to path
func WriteFile(path string, data []byte) error {
	path, err := expandHome(path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Encode writes report as JSON. Map keys are sorted so the same report
// always encodes to the same bytes.
func Encode(w io.Writer, report enrollment.Report, indent bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

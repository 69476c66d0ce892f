package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vruiz/matriculas/internal/enrollment"
)

func sampleReport() enrollment.Report {
	d := enrollment.NewDegree(enrollment.KnownTotal(3))
	d.Hombres.Total = 1
	d.Hombres.Edades = enrollment.NewAgeHistogram([15]int{1})
	d.Mujeres.Total = 2
	d.Mujeres.Edades = enrollment.NewAgeHistogram([15]int{0, 2})
	return enrollment.Report{"GRADO EN DERECHO & CIENCIAS POLÍTICAS": d}
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	info, err := os.Stat(s.Dir())
	if err != nil {
		t.Fatalf("output directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("output path is not a directory")
	}
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("~/matriculas")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Dir() != filepath.Join(home, "matriculas") {
		t.Errorf("Dir() = %q, want %q", s.Dir(), filepath.Join(home, "matriculas"))
	}
}

func TestYearPath(t *testing.T) {
	s := &Storage{dir: "/data"}

	tests := []struct {
		course string
		want   string
	}{
		{"2012-13", "/data/upo2012-13.json"},
		{"2012/13", "/data/upo2012-13.json"},
		{" 2013 ", "/data/upo2013.json"},
	}

	for _, tt := range tests {
		t.Run(tt.course, func(t *testing.T) {
			if got := s.YearPath(tt.course); got != tt.want {
				t.Errorf("YearPath(%q) = %q, want %q", tt.course, got, tt.want)
			}
		})
	}
}

func TestSaveYears(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	paths, err := s.SaveYears(map[string]enrollment.Report{
		"2013-14": sampleReport(),
		"2012-13": sampleReport(),
	}, false)
	if err != nil {
		t.Fatalf("SaveYears() error = %v", err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != "upo2012-13.json" || filepath.Base(paths[1]) != "upo2013-14.json" {
		t.Fatalf("unexpected paths %v", paths)
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("reading saved report: %v", err)
	}

	var decoded map[string]map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("saved report is not JSON: %v", err)
	}
	degree, ok := decoded["GRADO EN DERECHO & CIENCIAS POLÍTICAS"]
	if !ok {
		t.Fatal("program missing from saved report")
	}
	if degree["total"] != float64(3) {
		t.Errorf("total = %v, want 3", degree["total"])
	}
}

func TestSaveYears_FailureLeavesNoFiles(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// A directory in place of the second file makes its write fail
	if err := os.Mkdir(s.YearPath("2013-14"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err = s.SaveYears(map[string]enrollment.Report{
		"2012-13": sampleReport(),
		"2013-14": sampleReport(),
	}, false)
	if err == nil {
		t.Fatal("expected an error when a year file cannot be written")
	}

	if _, statErr := os.Stat(s.YearPath("2012-13")); !os.IsNotExist(statErr) {
		t.Error("files written before the failure should be removed")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteFile(path, []byte("{}\n")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "{}\n" {
		t.Errorf("unexpected file content %q (%v)", data, err)
	}
	if err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.json"), []byte("{}")); err == nil {
		t.Error("expected an error writing into a missing directory")
	}
}

func TestEncode(t *testing.T) {
	var compact, again, pretty bytes.Buffer

	if err := Encode(&compact, sampleReport(), false); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := Encode(&again, sampleReport(), false); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := Encode(&pretty, sampleReport(), true); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if !bytes.Equal(compact.Bytes(), again.Bytes()) {
		t.Error("encoding the same report twice should give identical bytes")
	}
	if strings.Count(compact.String(), "\n") != 1 {
		t.Error("compact output should be a single line")
	}
	if !strings.Contains(pretty.String(), "\n  \"GRADO EN") {
		t.Error("indented output should indent program keys")
	}
	if !strings.Contains(compact.String(), "&") {
		t.Error("program names should not be HTML-escaped")
	}
	if !strings.Contains(compact.String(), `"edades":{"18":1,"19":0,`) {
		t.Errorf("age buckets should be encoded in key order, got %s", compact.String())
	}
}

// Package config loads matriculas settings from the environment and from an
// optional YAML layout file.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/vruiz/matriculas/internal/layout"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "MATRICULAS"

// Config holds the settings that can come from the environment
type Config struct {
	LogLevel   string `envconfig:"LOG_LEVEL" default:"warn"`
	Encoding   string `envconfig:"ENCODING"`
	LayoutFile string `envconfig:"LAYOUT_FILE"`
}

// Load loads configuration from MATRICULAS_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Layouts holds the table layouts used by each report command
type Layouts struct {
	Ages           layout.AgeLayout
	StandaloneAges layout.AgeLayout
	Access         layout.AccessLayout
}

// DefaultLayouts returns the layouts of the published reports
func DefaultLayouts() Layouts {
	return Layouts{
		Ages:           layout.CombinedAges,
		StandaloneAges: layout.StandaloneAges,
		Access:         layout.Access,
	}
}

// ageOverride and accessOverride mirror the layouts with optional fields so a
// layout file only needs to name the values it changes.
type ageOverride struct {
	SkipRows       *int `yaml:"skip_rows"`
	FirstAgeColumn *int `yaml:"first_age_column"`
	SubtotalColumn *int `yaml:"subtotal_column"`
}

type accessOverride struct {
	SkipRows           *int `yaml:"skip_rows"`
	FirstChannelColumn *int `yaml:"first_channel_column"`
}

type layoutFile struct {
	Ages           *ageOverride    `yaml:"edades"`
	StandaloneAges *ageOverride    `yaml:"edades_solo"`
	Access         *accessOverride `yaml:"acceso"`
}

func (o *ageOverride) apply(l *layout.AgeLayout) {
	if o == nil {
		return
	}
	if o.SkipRows != nil {
		l.SkipRows = *o.SkipRows
	}
	if o.FirstAgeColumn != nil {
		l.FirstAgeColumn = *o.FirstAgeColumn
	}
	if o.SubtotalColumn != nil {
		l.SubtotalColumn = *o.SubtotalColumn
	}
}

func (o *accessOverride) apply(l *layout.AccessLayout) {
	if o == nil {
		return
	}
	if o.SkipRows != nil {
		l.SkipRows = *o.SkipRows
	}
	if o.FirstChannelColumn != nil {
		l.FirstChannelColumn = *o.FirstChannelColumn
	}
}

// LoadLayouts returns the default layouts with the overrides from the YAML
// file at path applied. An empty path returns the defaults.
func LoadLayouts(path string) (Layouts, error) {
	layouts := DefaultLayouts()
	if path == "" {
		return layouts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Layouts{}, fmt.Errorf("reading layout file: %w", err)
	}

	var file layoutFile
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.Strict()); err != nil {
		return Layouts{}, fmt.Errorf("parsing layout file %s: %w", path, err)
	}

	file.Ages.apply(&layouts.Ages)
	file.StandaloneAges.apply(&layouts.StandaloneAges)
	file.Access.apply(&layouts.Access)

	if err := layouts.Validate(); err != nil {
		return Layouts{}, fmt.Errorf("invalid layout file %s: %w", path, err)
	}
	return layouts, nil
}

// Validate checks every layout
func (l Layouts) Validate() error {
	if err := l.Ages.Validate(); err != nil {
		return fmt.Errorf("edades: %w", err)
	}
	if err := l.StandaloneAges.Validate(); err != nil {
		return fmt.Errorf("edades_solo: %w", err)
	}
	if err := l.Access.Validate(); err != nil {
		return fmt.Errorf("acceso: %w", err)
	}
	return nil
}

// Package tuning loads the analytics constants table from a YAML file layered over the built-in defaults.
package tuning

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/myrjola/petrload/internal/analytics"
	"gopkg.in/yaml.v3"
)

// Load reads the tuning file at path. Keys missing from the file keep their default values, including the
// individual fields of a partially overridden muscle.
func Load(path string) (analytics.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analytics.Config{}, fmt.Errorf("read tuning file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return analytics.Config{}, fmt.Errorf("tuning file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse layers the YAML document over analytics.DefaultConfig and validates the result.
func Parse(data []byte) (analytics.Config, error) {
	cfg := analytics.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return analytics.Config{}, fmt.Errorf("parse yaml: %w", err)
	}

	// Decoding into the map replaced the overridden muscles with partially zero values. Apply them again on
	// top of the defaults.
	var doc struct {
		Muscles map[string]yaml.Node `yaml:"muscles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return analytics.Config{}, fmt.Errorf("parse muscles: %w", err)
	}
	muscles := analytics.DefaultMuscleTable()
	for name, node := range doc.Muscles {
		muscle, err := analytics.ParseMuscleGroup(name)
		if err != nil {
			return analytics.Config{}, fmt.Errorf("muscles: %w", err)
		}
		constants := muscles[muscle]
		if err = node.Decode(&constants); err != nil {
			return analytics.Config{}, fmt.Errorf("muscles.%s: %w", name, err)
		}
		muscles[muscle] = constants
	}
	cfg.Muscles = muscles

	if err := cfg.Validate(); err != nil {
		return analytics.Config{}, fmt.Errorf("validate: %w", err)
	}
	return cfg, nil
}

// Encode writes cfg as a YAML tuning file.
func Encode(w io.Writer, cfg analytics.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2) //nolint:mnd // two-space indentation
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}
	return nil
}

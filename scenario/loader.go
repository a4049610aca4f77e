// Package scenario loads scenario files and runs their steps against a Kripke
// structure: public announcements, product updates and checks.
package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrScenarioNotFound is returned when a scenario file does not exist.
	ErrScenarioNotFound = errors.New("scenario not found")
	// ErrUnsupportedFormat is returned for an unknown file extension.
	ErrUnsupportedFormat = errors.New("unsupported scenario format")
	// ErrInvalidScenario is returned when a scenario cannot be decoded or built.
	ErrInvalidScenario = errors.New("invalid scenario")
)

// File is a scenario as written on disk.
type File struct {
	Name      string       `yaml:"name" json:"name"`
	Agents    []string     `yaml:"agents,omitempty" json:"agents,omitempty"`
	Worlds    []WorldSpec  `yaml:"worlds" json:"worlds"`
	Relations RelationSpec `yaml:"relations" json:"relations"`
	Steps     []StepSpec   `yaml:"steps,omitempty" json:"steps,omitempty"`
}

// WorldSpec declares one world.
type WorldSpec struct {
	Name       string          `yaml:"name" json:"name"`
	Assignment map[string]bool `yaml:"assignment,omitempty" json:"assignment,omitempty"`
}

// RelationSpec holds either a flat relation or one relation per agent.
// Pairs are written as two-element lists: [from, to].
type RelationSpec struct {
	Flat   [][]string            `yaml:"flat,omitempty" json:"flat,omitempty"`
	Agents map[string][][]string `yaml:"agents,omitempty" json:"agents,omitempty"`
}

// StepSpec is one step; exactly one of its fields is set.
type StepSpec struct {
	Announce string      `yaml:"announce,omitempty" json:"announce,omitempty"`
	Update   *UpdateSpec `yaml:"update,omitempty" json:"update,omitempty"`
	Check    string      `yaml:"check,omitempty" json:"check,omitempty"`
}

// UpdateSpec is an action model applied by product update.
type UpdateSpec struct {
	Actions []ActionSpec          `yaml:"actions" json:"actions"`
	Equivs  map[string][][]string `yaml:"equivs,omitempty" json:"equivs,omitempty"`
	Agents  []string              `yaml:"agents,omitempty" json:"agents,omitempty"`
}

// ActionSpec is one action; an empty precondition always holds.
type ActionSpec struct {
	Name         string `yaml:"name" json:"name"`
	Precondition string `yaml:"precondition,omitempty" json:"precondition,omitempty"`
}

// Format represents a scenario file format.
type Format string

const (
	// FormatYAML is the YAML format.
	FormatYAML Format = "yaml"
	// FormatJSON is the JSON format.
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadFile loads a scenario from a file path.
func LoadFile(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, path)
		}
		return nil, fmt.Errorf("access scenario file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidScenario, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario file: %w", err)
	}
	defer f.Close()

	file, err := Load(f, format)
	if err != nil {
		return nil, err
	}
	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return file, nil
}

// Load decodes a scenario. Unknown fields are rejected.
func Load(r io.Reader, format Format) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidScenario)
	}

	file := &File{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(file); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(file); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return file, nil
}

// Marshal encodes a scenario in the given format.
func Marshal(file *File, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(file)
	case FormatJSON:
		return json.MarshalIndent(file, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

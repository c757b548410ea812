package mapping

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultMapping []byte

// Default returns the built-in mapping.
func Default() *MappingFile {
	mf, err := Parse(defaultMapping)
	if err != nil {
		panic(fmt.Sprintf("built-in mapping is invalid: %v", err))
	}

	return mf
}

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a MappingFile.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	err := yaml.Unmarshal(data, &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = "1"
	}

	defaultSheet(&mf.Source)
	defaultSheet(&mf.Target)
	defaultSheet(&mf.Departed.SheetSpec)

	for i := range mf.Fields {
		if mf.Fields[i].Transform == "" {
			mf.Fields[i].Transform = TransformPassthrough
		}
	}
}

func defaultSheet(s *SheetSpec) {
	if s.HeaderRow == 0 {
		s.HeaderRow = 1
	}

	if s.FirstRow == 0 {
		s.FirstRow = s.HeaderRow + 1
	}

	if s.Key == "" {
		s.Key = FieldEmployeeID
	}
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// WriteFile writes a MappingFile to the given path.
func WriteFile(mf *MappingFile, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}

package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/storyloom/loom/internal/relationship"
)

type schemaFile struct {
	Stats []relationship.StatDef `yaml:"stats"`
}

// LoadSchema loads the relationship stat schema from a YAML file and
// validates it.
func LoadSchema(path string) (*relationship.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stat_schema: %w", err)
	}
	var f schemaFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse stat_schema: %w", err)
	}
	schema := &relationship.Schema{Stats: f.Stats}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("stat_schema: %w", err)
	}
	return schema, nil
}

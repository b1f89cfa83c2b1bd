package relationship

import "fmt"

// StatDef declares one named stat every new relationship carries.
type StatDef struct {
	Name            string `yaml:"name"`
	Min             int    `yaml:"min"`
	Max             int    `yaml:"max"`
	ChangesWithTime bool   `yaml:"changes_with_time"`
}

// Schema is the set of stats stamped onto every relationship at creation,
// on top of the always-present Interaction stat. Held as a simulation
// resource.
type Schema struct {
	Stats []StatDef `yaml:"stats"`
}

func (s *Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.Stats))
	for _, def := range s.Stats {
		if def.Name == "" {
			return fmt.Errorf("relationship schema: stat with empty name")
		}
		if _, dup := seen[def.Name]; dup {
			return fmt.Errorf("relationship schema: duplicate stat %q", def.Name)
		}
		seen[def.Name] = struct{}{}
		if def.Min > def.Max {
			return fmt.Errorf("relationship schema: stat %q has min %d > max %d", def.Name, def.Min, def.Max)
		}
	}
	return nil
}

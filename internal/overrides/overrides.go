// Package overrides loads the per-kind title override table. Overrides
// force the requested title for a specific item code or monster type and
// are consulted during classification, before sanitization.
package overrides

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table maps stable machine identifiers to forced titles, per kind.
type Table struct {
	Items    map[string]string `yaml:"items"`
	Monsters map[string]string `yaml:"monsters"`
}

// Empty returns a table with no overrides.
func Empty() Table {
	return Table{Items: map[string]string{}, Monsters: map[string]string{}}
}

// Load reads a YAML override file. A missing file is not an error: the
// flag is optional and most runs need no overrides.
func Load(path string) (Table, error) {
	if path == "" {
		return Empty(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Empty(), nil
		}
		return Table{}, fmt.Errorf("reading overrides %s: %w", path, err)
	}
	var t Table
	if err := yaml.Unmarshal(b, &t); err != nil {
		return Table{}, fmt.Errorf("parsing overrides %s: %w", path, err)
	}
	if t.Items == nil {
		t.Items = map[string]string{}
	}
	if t.Monsters == nil {
		t.Monsters = map[string]string{}
	}
	return t, nil
}

// Item returns the forced title for an item code, if any.
func (t Table) Item(code string) (string, bool) {
	v, ok := t.Items[code]
	return v, ok
}

// Monster returns the forced title for a monster type, if any.
func (t Table) Monster(typ string) (string, bool) {
	v, ok := t.Monsters[typ]
	return v, ok
}

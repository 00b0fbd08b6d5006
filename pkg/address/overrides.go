// CLAUDE:SUMMARY YAML table overrides merged over the built-in abbreviation, direction, state and saint tables.
package address

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var tableKey = regexp.MustCompile(`^[A-Z0-9&][A-Z0-9& ]*$`)

// LoadTables reads a YAML override file and merges it over DefaultTables.
// Entries add to or replace built-in keys; saints are appended.
//
//	streets: {PKWY: PARKWAY}
//	states:  {NUNAVUT: NU}
//	saints:  [Bonaventure]
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read tables %s: %w", path, err)
	}
	var over Tables
	if err := yaml.Unmarshal(data, &over); err != nil {
		return Tables{}, fmt.Errorf("parse tables %s: %w", path, err)
	}
	t := DefaultTables()
	for _, m := range []struct {
		name string
		dst  map[string]string
		src  map[string]string
	}{
		{"streets", t.Streets, over.Streets},
		{"names", t.Names, over.Names},
		{"directions", t.Directions, over.Directions},
		{"states", t.States, over.States},
	} {
		if err := merge(m.dst, m.src); err != nil {
			return Tables{}, fmt.Errorf("tables %s: %s: %w", path, m.name, err)
		}
	}
	for _, s := range over.Saints {
		if s = strings.TrimSpace(s); s != "" {
			t.Saints = append(t.Saints, s)
		}
	}
	return t, nil
}

func merge(dst, src map[string]string) error {
	for k, v := range src {
		key := strings.ToUpper(strings.TrimSpace(k))
		if !tableKey.MatchString(key) {
			return fmt.Errorf("invalid key %q", k)
		}
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("empty value for %q", k)
		}
		dst[key] = strings.TrimSpace(v)
	}
	return nil
}

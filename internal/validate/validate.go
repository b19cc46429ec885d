// Package validate performs lightweight validation of the run's inputs
// and outputs. It aggregates every issue into a single error so operators
// see the full picture in one pass instead of fixing problems one at a
// time.
package validate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"wiki-collector/internal/overrides"
	"wiki-collector/internal/pages"
)

// Manifest checks the assembled page manifest:
//
//   - Module must be non-empty.
//   - Every page needs a non-empty title, kind and id.
//   - Titles must be globally unique. A duplicate here means the title
//     resolver violated its own invariant, so the run must not publish.
//   - Pages must be sorted by title (deterministic output contract).
func Manifest(m pages.Manifest) error {
	var errs errlist

	if strings.TrimSpace(m.Module) == "" {
		errs.add("manifest.module must be non-empty")
	}

	seen := make(map[string]int, len(m.Pages))
	prev := ""
	for i, p := range m.Pages {
		prefix := fmt.Sprintf("pages[%d] (%s)", i, p.Title)
		if p.Title == "" {
			errs.add("%s: title must be non-empty", prefix)
		}
		if p.Kind == "" {
			errs.add("%s: kind must be non-empty", prefix)
		}
		if p.ID == "" {
			errs.add("%s: id must be non-empty", prefix)
		}
		if j, dup := seen[p.Title]; dup {
			errs.add("%s: duplicate title, also held by pages[%d]", prefix, j)
		}
		seen[p.Title] = i
		if p.Title < prev {
			errs.add("%s: pages not sorted by title", prefix)
		}
		prev = p.Title
	}
	return errs.err()
}

// Overrides checks the title override table: forced titles must be
// non-empty and must not collide with each other across kinds, since two
// entities forced onto one title can never both be published.
func Overrides(t overrides.Table) error {
	var errs errlist

	byTitle := make(map[string]string) // forced title -> "kind:id" that claimed it
	check := func(kind string, m map[string]string) {
		ids := make([]string, 0, len(m))
		for id := range m {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			title := m[id]
			key := kind + ":" + id
			if strings.TrimSpace(title) == "" {
				errs.add("override %s: forced title must be non-empty", key)
				continue
			}
			if prev, dup := byTitle[title]; dup {
				errs.add("override %s: forced title %q already forced by %s", key, title, prev)
				continue
			}
			byTitle[title] = key
		}
	}
	check("item", t.Items)
	check("monster", t.Monsters)
	return errs.err()
}

// errlist aggregates issues into one error.
type errlist struct{ issues []string }

func (e *errlist) add(format string, args ...any) {
	e.issues = append(e.issues, fmt.Sprintf(format, args...))
}

func (e *errlist) err() error {
	if len(e.issues) == 0 {
		return nil
	}
	return errors.New("validation failed:\n  - " + strings.Join(e.issues, "\n  - "))
}

package registry

import (
	"strings"

	"wiki-collector/internal/entity"
	"wiki-collector/internal/wikitext"
)

// rule is one disambiguation heuristic. apply inspects the ordered pair
// (a, b) and, when it matches, renames exactly one of the two candidates
// and returns it; otherwise it returns nil. Rules are tried in table
// order, first match wins. Every rule must be idempotent: re-applying it
// to a candidate it already renamed must not match again (rename refuses
// to stack the same suffix twice).
//
// By convention a rule renames b. The single exception is the
// item-vs-monster rule, which renames a when a is a painting.
type rule struct {
	name  string
	apply func(a, b *candidate) *candidate
}

// rename appends suffix to the candidate's wanted title and returns the
// candidate, or returns nil when the title already carries the suffix.
func rename(c *candidate, suffix string) *candidate {
	if strings.HasSuffix(c.wanted, suffix) {
		return nil
	}
	c.wanted += suffix
	return c
}

// rules is the ordered disambiguation table. Each entry is intentionally
// narrow; later rules never see pairs an earlier rule resolved in the
// same pass.
var rules = []rule{
	{"decorative-of-food", func(a, b *candidate) *candidate {
		if b.isDecorative && a.isFood && !a.isDecorative {
			return rename(b, " (decorative)")
		}
		return nil
	}},
	{"outpost-decorative", func(a, b *candidate) *candidate {
		if b.isDecorative && !a.isDecorative && strings.HasSuffix(b.id, "outpost") {
			return rename(b, " (decorative)")
		}
		return nil
	}},
	{"pack-decorative", func(a, b *candidate) *candidate {
		if b.isDecorative && !a.isDecorative && packFamily(strings.ToLower(b.id)) {
			return rename(b, " (decorative)")
		}
		return nil
	}},
	{"npc-variant", func(a, b *candidate) *candidate {
		if npcAffixOf(b.id, a.id) {
			return rename(b, " (NPC)")
		}
		return nil
	}},
	{"pet-variant", func(a, b *candidate) *candidate {
		if a.kind == entity.KindMonster && b.kind == entity.KindMonster &&
			b.isPet && !a.isPet {
			return rename(b, " (pet)")
		}
		return nil
	}},
	{"critter", func(a, b *candidate) *candidate {
		if b.isCritter && !a.isCritter {
			return rename(b, " (critter)")
		}
		return nil
	}},
	{"item-vs-monster", func(a, b *candidate) *candidate {
		if a.kind != entity.KindItem || b.kind != entity.KindMonster {
			return nil
		}
		if a.isPainting {
			return rename(a, " (painting)")
		}
		return rename(b, " (monster)")
	}},
	{"biome", func(a, b *candidate) *candidate {
		if b.kind == entity.KindBiome && a.kind != entity.KindBiome {
			return rename(b, " (biome)")
		}
		return nil
	}},
	{"family-variant", func(a, b *candidate) *candidate {
		fam := familySuffix(strings.ToLower(b.id))
		if fam != "" && familySuffix(strings.ToLower(a.id)) != fam {
			return rename(b, " ("+fam+")")
		}
		return nil
	}},
	{"race-variant", func(a, b *candidate) *candidate {
		if b.race != "" && b.race != a.race {
			return rename(b, " ("+wikitext.Capitalize(b.race)+")")
		}
		return nil
	}},
	{"element-variant", func(a, b *candidate) *candidate {
		if a.kind == entity.KindMonster && b.kind == entity.KindMonster &&
			b.element != "" && b.element != a.element {
			return rename(b, " ("+wikitext.Capitalize(b.element)+")")
		}
		return nil
	}},
}

// applyRules tries the table against the ordered pair (a, b) and returns
// the renamed candidate, or nil when no rule matched.
func applyRules(a, b *candidate) *candidate {
	for _, r := range rules {
		if c := r.apply(a, b); c != nil {
			return c
		}
	}
	return nil
}

// npcAffixOf reports whether variant is the base identifier with an "npc"
// affix: a prefix, a suffix, or an infix removed cleanly.
func npcAffixOf(variant, base string) bool {
	v, b := strings.ToLower(variant), strings.ToLower(base)
	if v == b || !strings.Contains(v, "npc") {
		return false
	}
	if strings.TrimPrefix(v, "npc") == b || strings.TrimSuffix(v, "npc") == b {
		return true
	}
	return strings.Replace(v, "npc", "", 1) == b
}

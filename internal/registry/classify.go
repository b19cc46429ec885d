package registry

import (
	"fmt"
	"strings"

	"wiki-collector/internal/entity"
	"wiki-collector/internal/overrides"
	"wiki-collector/internal/wikitext"
)

// Per-kind sort key bases. Within a disputed bucket candidates are ordered
// by identifier length plus the base for their kind, so ties between kinds
// break the same way every run: items first, then monsters, then biomes,
// sapling parts and treasure pools.
const (
	sortBaseItem    = 0
	sortBaseMonster = 10_000
	sortBaseBiome   = 20_000
	sortBaseSapling = 30_000
	sortBasePool    = 40_000
)

// raceTokens are race identifiers that show up embedded in item and
// monster identifiers for race-themed variants ("humancrewjacket").
var raceTokens = []string{
	"apex", "avian", "floran", "glitch", "human", "hylotl", "novakid",
}

// familyTokens map faction/material family fragments to the suffix text
// used when a family-specific variant collides with the base entity.
var familyTokens = map[string]string{
	"skath":   "Skath",
	"peglaci": "Peglaci",
}

// packPrefixes mark decorative variants sourced from a specific shop or
// furniture pack family.
var packPrefixes = []string{"outpost", "protectorate", "festive"}

// candidate is the transient per-resolve wrapper around one entity. It
// lives in the resolve arena and is discarded when resolve returns; only
// the ownership maps survive.
type candidate struct {
	ent     entity.Entity
	kind    entity.Kind
	wanted  string // current proposed title, mutated by rules
	sortKey int
	order   int // Add() order, stable tie-break

	// derived tags, computed once at classification
	id           string
	category     string
	isFood       bool
	isDecorative bool
	isPainting   bool
	isPet        bool
	isCritter    bool
	race         string
	element      string
}

// classify builds the candidate record for one entity: requested title
// (override table first, then kind-specific field), sanitization, sort key
// and derived tags. The kind set is closed; anything else is a logic bug
// upstream and aborts the run.
func classify(e entity.Entity, ov overrides.Table, order int) candidate {
	c := candidate{
		ent:   e,
		kind:  e.EntityKind(),
		order: order,
		id:    e.Identifier(),
	}
	lower := strings.ToLower(c.id)

	switch x := e.(type) {
	case *entity.Item:
		title, ok := ov.Item(x.ID)
		if !ok {
			title = x.Name
		}
		c.wanted = wikitext.SanitizeTitle(title)
		c.sortKey = sortBaseItem + len(x.ID)
		c.category = strings.ToLower(x.Category)
		c.isFood = x.FoodValue > 0 ||
			c.category == "food" || c.category == "preparedfood" || c.category == "drink"
		c.isDecorative = c.category == "decorative"
		c.isPainting = c.category == "artwork" || strings.Contains(lower, "painting")
		c.isCritter = strings.Contains(lower, "critter")
		c.race = strings.ToLower(x.Race)
		if c.race == "" {
			c.race = raceToken(lower)
		}

	case *entity.Monster:
		title, ok := ov.Monster(x.Type)
		if !ok {
			title = x.Name
		}
		c.wanted = wikitext.SanitizeTitle(title)
		c.sortKey = sortBaseMonster + len(x.Type)
		c.isPet = strings.HasPrefix(lower, "pet") && x.Capturable
		c.isCritter = strings.Contains(lower, "critter")
		c.race = raceToken(lower)
		c.element = strings.ToLower(x.Element)

	case *entity.TreasurePool:
		c.wanted = wikitext.SanitizeTitle("TreasurePool:" + wikitext.Capitalize(x.Name))
		c.sortKey = sortBasePool + len(x.Name)

	case *entity.Biome:
		c.wanted = wikitext.SanitizeTitle(x.Name)
		c.sortKey = sortBaseBiome + len(x.ID)

	case *entity.SaplingPart:
		c.wanted = wikitext.SanitizeTitle(x.Name)
		c.sortKey = sortBaseSapling + len(x.ID)

	default:
		panic(fmt.Sprintf("registry: cannot classify entity of unknown kind %T", e))
	}
	return c
}

// raceToken returns the race fragment embedded in an identifier, if any.
func raceToken(id string) string {
	for _, tok := range raceTokens {
		if strings.Contains(id, tok) {
			return tok
		}
	}
	return ""
}

// familySuffix returns the family suffix text for an identifier, if its
// family fragment is known.
func familySuffix(id string) string {
	for tok, suffix := range familyTokens {
		if strings.Contains(id, tok) {
			return suffix
		}
	}
	return ""
}

// packFamily reports whether a decorative identifier belongs to one of the
// known shop/pack families.
func packFamily(id string) bool {
	for _, p := range packPrefixes {
		if strings.HasPrefix(id, p) {
			return true
		}
	}
	return false
}

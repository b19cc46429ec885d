package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"go.uber.org/zap"

	"wiki-collector/internal/entity"
	"wiki-collector/internal/wikitext"
)

// Load walks root and converts every recognized asset file into entities.
// Individual malformed files are logged and skipped so one broken mod file
// does not sink the whole batch; an unreadable root is a hard error.
//
// Entities come back in walk order (sorted by relative path), which keeps
// registration order stable across runs.
func Load(root string, log *zap.Logger) ([]entity.Entity, error) {
	files, err := Walk(root)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	var out []entity.Entity
	skipped := 0
	for _, f := range files {
		ents, err := loadFile(f)
		if err != nil {
			log.Warn("skipping asset",
				zap.String("path", f.RelPath),
				zap.Error(err))
			skipped++
			continue
		}
		out = append(out, ents...)
	}
	log.Info("assets loaded",
		zap.Int("files", len(files)),
		zap.Int("entities", len(out)),
		zap.Int("skipped", skipped))
	return out, nil
}

// loadFile parses one asset file, applies its sibling patch (if present)
// and builds the entities it defines.
func loadFile(f FileInfo) ([]entity.Entity, error) {
	doc, err := readDocument(f.AbsPath)
	if err != nil {
		return nil, err
	}
	switch f.Ext {
	case ".monstertype":
		m, err := buildMonster(doc, f.RelPath)
		if err != nil {
			return nil, err
		}
		return []entity.Entity{m}, nil
	case ".biome":
		b, err := buildBiome(doc, f.RelPath)
		if err != nil {
			return nil, err
		}
		return []entity.Entity{b}, nil
	case ".treasurepools":
		return buildTreasurePools(doc, f.RelPath)
	case ".modularstem", ".modularfoliage":
		s, err := buildSaplingPart(doc, f.RelPath, f.Ext == ".modularfoliage")
		if err != nil {
			return nil, err
		}
		return []entity.Entity{s}, nil
	default:
		// Remaining recognized extensions are all item-shaped.
		it, err := buildItem(doc, f.RelPath)
		if err != nil {
			return nil, err
		}
		return []entity.Entity{it}, nil
	}
}

// readDocument reads a JSONC asset file and applies <path>.patch when one
// exists next to it.
func readDocument(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = wikitext.NormalizeUTF8LF(raw)
	var doc any
	if err := json.Unmarshal(jsonc.ToJSON(raw), &doc); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	patchRaw, err := os.ReadFile(path + ".patch")
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("reading patch: %w", err)
	}
	doc, err = applyPatch(doc, patchRaw)
	if err != nil {
		return nil, fmt.Errorf("applying patch: %w", err)
	}
	return doc, nil
}

func buildItem(doc any, rel string) (*entity.Item, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("item document is not an object")
	}
	id := str(m, "itemName")
	if id == "" {
		id = str(m, "objectName")
	}
	if id == "" {
		return nil, fmt.Errorf("missing itemName/objectName")
	}
	name := str(m, "shortdescription")
	if name == "" {
		name = humanize(id)
	}
	return &entity.Item{
		ID:         id,
		Name:       name,
		Category:   str(m, "category"),
		Race:       str(m, "race"),
		FoodValue:  num(m, "foodValue"),
		Price:      int(num(m, "price")),
		SourcePath: rel,
	}, nil
}

func buildMonster(doc any, rel string) (*entity.Monster, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("monster document is not an object")
	}
	typ := str(m, "type")
	if typ == "" {
		return nil, fmt.Errorf("missing monster type")
	}
	name := str(m, "shortdescription")
	if name == "" {
		name = humanize(typ)
	}
	capturable := false
	element := ""
	if bp, ok := m["baseParameters"].(map[string]any); ok {
		if v, ok := bp["capturable"].(bool); ok {
			capturable = v
		}
		element = str(bp, "elementalType")
	}
	return &entity.Monster{
		Type:       typ,
		Name:       name,
		Capturable: capturable,
		Element:    element,
		SourcePath: rel,
	}, nil
}

func buildBiome(doc any, rel string) (*entity.Biome, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("biome document is not an object")
	}
	id := str(m, "name")
	if id == "" {
		return nil, fmt.Errorf("missing biome name")
	}
	name := str(m, "friendlyName")
	if name == "" {
		name = humanize(id)
	}
	return &entity.Biome{ID: id, Name: name, SourcePath: rel}, nil
}

// buildTreasurePools emits one entity per top-level pool key, in sorted
// key order for determinism.
func buildTreasurePools(doc any, rel string) ([]entity.Entity, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("treasure pool document is not an object")
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]entity.Entity, 0, len(keys))
	for _, k := range keys {
		out = append(out, &entity.TreasurePool{Name: k, SourcePath: rel})
	}
	return out, nil
}

func buildSaplingPart(doc any, rel string, foliage bool) (*entity.SaplingPart, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("sapling document is not an object")
	}
	id := str(m, "name")
	if id == "" {
		return nil, fmt.Errorf("missing sapling part name")
	}
	name := str(m, "shortdescription")
	if name == "" {
		name = humanize(id)
	}
	return &entity.SaplingPart{ID: id, Name: name, Foliage: foliage, SourcePath: rel}, nil
}

// str fetches a string field, returning "" for absent or non-string values.
func str(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return strings.TrimSpace(v)
}

// num fetches a numeric field; JSON numbers decode as float64.
func num(m map[string]any, key string) float64 {
	v, _ := m[key].(float64)
	return v
}

// humanize turns a machine identifier into a last-resort display name:
// "ironbar" -> "Ironbar". Proper display names come from shortdescription.
func humanize(id string) string {
	return wikitext.Capitalize(id)
}

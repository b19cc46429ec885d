// Package pages builds the flat relational output of a run: one record
// per resolved page title, a manifest, and deterministic zip bundles for
// the page set and the delta report.
package pages

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"wiki-collector/internal/entity"
	"wiki-collector/internal/meta"
	"wiki-collector/internal/registry"
	"wiki-collector/internal/snapshot"
)

// Record is one published page: the resolved title plus the stable
// identity of the entity behind it.
type Record struct {
	Title  string `json:"title"`
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Source string `json:"source"` // assets-relative path of the defining file
}

// Manifest is the top-level index of a pages bundle.
type Manifest struct {
	Module  string   `json:"module"`
	Version string   `json:"version,omitempty"`
	Author  string   `json:"author,omitempty"`
	Pages   []Record `json:"pages"` // sorted by title
}

// Build requests a title for every entity (in registration order, which
// fixes the lazy-allocation numbering) and assembles the manifest sorted
// by title. Entities that end up without a title are dropped; the
// resolver has already logged them.
func Build(res *registry.Resolver, ents []entity.Entity, info meta.Info) Manifest {
	recs := make([]Record, 0, len(ents))
	for _, e := range ents {
		title := res.TitleFor(e)
		if title == "" {
			continue
		}
		recs = append(recs, Record{
			Title:  title,
			Kind:   e.EntityKind().String(),
			ID:     e.Identifier(),
			Source: sourcePath(e),
		})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Title < recs[j].Title })
	return Manifest{
		Module:  info.Name,
		Version: info.Version,
		Author:  info.Author,
		Pages:   recs,
	}
}

// Body renders the canonical record body: indented JSON with a trailing
// newline. Snapshots store it verbatim and the delta report diffs it.
func Body(r Record) []byte {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		// Record is a plain struct of strings; this cannot fail.
		panic(err)
	}
	return append(b, '\n')
}

// IdentityHash hashes the page's stable identity (kind + machine id),
// excluding the title, so renames can be paired across runs.
func IdentityHash(r Record) string {
	sum := sha256.Sum256([]byte(r.Kind + ":" + r.ID))
	return hex.EncodeToString(sum[:])
}

// ToSnapshot converts a manifest into the snapshot persisted for the next
// run's delta computation.
func ToSnapshot(man Manifest) *snapshot.Snapshot {
	s := &snapshot.Snapshot{
		Module:        man.Module,
		Created:       time.Now().UTC().Format(time.RFC3339),
		FormatVersion: snapshot.Format,
		Pages:         make([]snapshot.SnapPage, 0, len(man.Pages)),
	}
	for _, r := range man.Pages {
		s.Pages = append(s.Pages, snapshot.SnapPage{
			Title: r.Title,
			Kind:  r.Kind,
			Hash:  IdentityHash(r),
			Body:  string(Body(r)),
		})
	}
	return s
}

func sourcePath(e entity.Entity) string {
	switch x := e.(type) {
	case *entity.Item:
		return x.SourcePath
	case *entity.Monster:
		return x.SourcePath
	case *entity.TreasurePool:
		return x.SourcePath
	case *entity.Biome:
		return x.SourcePath
	case *entity.SaplingPart:
		return x.SourcePath
	}
	return ""
}

package pages

import (
	"archive/zip"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wiki-collector/internal/diff"
	"wiki-collector/internal/entity"
	"wiki-collector/internal/meta"
	"wiki-collector/internal/overrides"
	"wiki-collector/internal/registry"
	"wiki-collector/internal/snapshot"
)

func buildTestManifest(t *testing.T) Manifest {
	t.Helper()
	res := registry.New(zap.NewNop(), overrides.Empty())
	ents := []entity.Entity{
		&entity.Item{ID: "cactusjuice", Name: "Cactus Juice", Category: "preparedFood", SourcePath: "items/cactusjuice.consumable"},
		&entity.Item{ID: "cactusjuiceobject", Name: "Cactus Juice", Category: "decorative", SourcePath: "objects/cactusjuiceobject.object"},
		&entity.Monster{Type: "poptop", Name: "Poptop", SourcePath: "monsters/poptop.monstertype"},
	}
	for _, e := range ents {
		require.NoError(t, res.Add(e))
	}
	return Build(res, ents, meta.Info{Name: "testmod", Version: "1.0"})
}

func TestBuildSortsAndResolves(t *testing.T) {
	man := buildTestManifest(t)
	require.Equal(t, "testmod", man.Module)
	require.Len(t, man.Pages, 3)

	var titles []string
	for _, p := range man.Pages {
		titles = append(titles, p.Title)
	}
	require.Equal(t, []string{"Cactus Juice", "Cactus Juice (decorative)", "Poptop"}, titles)
}

func TestIdentityHashIgnoresTitle(t *testing.T) {
	a := Record{Title: "Old", Kind: "item", ID: "x"}
	b := Record{Title: "New", Kind: "item", ID: "x"}
	require.Equal(t, IdentityHash(a), IdentityHash(b))
	require.NotEqual(t, IdentityHash(a), IdentityHash(Record{Kind: "monster", ID: "x"}))
}

func TestToSnapshotCarriesBodies(t *testing.T) {
	man := buildTestManifest(t)
	s := ToSnapshot(man)
	require.Equal(t, "testmod", s.Module)
	require.Len(t, s.Pages, 3)
	for i, p := range s.Pages {
		require.Equal(t, man.Pages[i].Title, p.Title)
		require.NotEmpty(t, p.Hash)
		require.Contains(t, p.Body, man.Pages[i].ID)
	}
}

func TestWriteBundleRoundtrip(t *testing.T) {
	man := buildTestManifest(t)
	path := filepath.Join(t.TempDir(), "pages.zip")
	require.NoError(t, WriteBundle(path, man))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	entries := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		entries[f.Name] = b
	}

	var got Manifest
	require.NoError(t, json.Unmarshal(entries["manifest.json"], &got))
	require.Equal(t, man, got)

	require.Contains(t, entries, "pages/Cactus_Juice.json")
	require.Contains(t, entries, "pages/Cactus_Juice_(decorative).json")
	require.Contains(t, entries, "pages/Poptop.json")
}

func TestWriteDeltaReportFillsDiffPaths(t *testing.T) {
	d := snapshot.Delta{
		Changed: []snapshot.ChangedPage{{
			Title:      "Poptop",
			BodyBefore: "old\n",
			BodyAfter:  "new\n",
		}},
	}
	path := filepath.Join(t.TempDir(), "delta.zip")
	require.NoError(t, WriteDeltaReport(path, d, diff.Options{}))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	require.True(t, names["delta.json"])
	require.True(t, names["diffs/Poptop.patch"])
}

func TestTitleSlug(t *testing.T) {
	require.Equal(t, "TreasurePool-Moneybag", titleSlug("TreasurePool:Moneybag"))
	require.Equal(t, "Cactus_Juice_(decorative)", titleSlug("Cactus Juice (decorative)"))
	require.Equal(t, "page", titleSlug(""))
}

func TestUniqueName(t *testing.T) {
	used := make(map[string]struct{})
	require.Equal(t, "pages/A.json", uniqueName("pages/A.json", used))
	require.Equal(t, "pages/A-1.json", uniqueName("pages/A.json", used))
	require.Equal(t, "pages/A-2.json", uniqueName("pages/A.json", used))
}

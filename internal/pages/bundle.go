package pages

// Zip writers for the pages bundle and the delta report.
//
// Layout of the pages bundle:
//
//	manifest.json
//	pages/<title-slug>.json   one record body per page
//
// Layout of the delta report:
//
//	delta.json
//	diffs/<title-slug>.patch  unified diffs for changed pages
//
// Both archives are reproducible: fixed timestamps, sorted entries and
// sanitized, de-duplicated entry names.

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wiki-collector/internal/diff"
	"wiki-collector/internal/snapshot"
)

// fixedZipTime ensures byte-for-byte reproducible archives (1980-01-01 UTC).
var fixedZipTime = time.Unix(315532800, 0).UTC()

// WriteBundle writes the pages zip: manifest plus one body per page.
func WriteBundle(zipPath string, man Manifest) error {
	zw, f, err := createZip(zipPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeJSONEntry(zw, "manifest.json", man); err != nil {
		return err
	}
	used := make(map[string]struct{})
	for _, r := range man.Pages {
		name := uniqueName("pages/"+titleSlug(r.Title)+".json", used)
		if err := writeTextEntry(zw, name, Body(r)); err != nil {
			return err
		}
	}
	return zw.Close()
}

// WriteDeltaReport writes the delta zip: the change set plus unified
// diffs of changed page bodies and introduction patches for added pages.
// DiffPath on each changed entry is filled in with the archive-internal
// patch location.
func WriteDeltaReport(zipPath string, d snapshot.Delta, opt diff.Options) error {
	zw, f, err := createZip(zipPath)
	if err != nil {
		return err
	}
	defer f.Close()

	used := make(map[string]struct{})
	type patch struct {
		name string
		body string
	}
	patches := make([]patch, 0, len(d.Changed)+len(d.Added))
	for i := range d.Changed {
		ch := &d.Changed[i]
		name := uniqueName("diffs/"+titleSlug(ch.Title)+".patch", used)
		body, oversize := diff.Unified(
			"old/"+ch.Title, "new/"+ch.Title,
			[]byte(ch.BodyBefore), []byte(ch.BodyAfter), opt)
		ch.DiffPath = name
		ch.Oversize = oversize
		patches = append(patches, patch{name: name, body: body})
	}
	for _, a := range d.Added {
		name := uniqueName("diffs/"+titleSlug(a.Title)+".patch", used)
		body, _ := diff.Added("new/"+a.Title, []byte(a.Body), opt)
		patches = append(patches, patch{name: name, body: body})
	}

	if err := writeJSONEntry(zw, "delta.json", d); err != nil {
		return err
	}
	for _, p := range patches {
		if err := writeTextEntry(zw, p.name, []byte(p.body)); err != nil {
			return err
		}
	}
	return zw.Close()
}

func createZip(path string) (*zip.Writer, *os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return zip.NewWriter(f), f, nil
}

func writeJSONEntry(zw *zip.Writer, name string, v any) error {
	w, err := createEntry(zw, name)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func writeTextEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := createEntry(zw, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func createEntry(zw *zip.Writer, name string) (io.Writer, error) {
	h := &zip.FileHeader{Name: name, Method: zip.Deflate}
	h.SetMode(0o644)
	h.Modified = fixedZipTime
	w, err := zw.CreateHeader(h)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return w, nil
}

// titleSlug converts a page title into a safe archive path segment.
// Titles are already sanitized for wiki use but may still carry
// characters that are hostile as file names.
func titleSlug(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"':
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "page"
	}
	return b.String()
}

// uniqueName appends -1, -2, ... before the extension until the name is
// unused. Distinct titles can slug to the same entry name.
func uniqueName(name string, used map[string]struct{}) string {
	if _, ok := used[name]; !ok {
		used[name] = struct{}{}
		return name
	}
	base, ext := name, ""
	if i := strings.LastIndex(name, "."); i > 0 {
		base, ext = name[:i], name[i:]
	}
	for n := 1; ; n++ {
		alt := fmt.Sprintf("%s-%d%s", base, n, ext)
		if _, ok := used[alt]; !ok {
			used[alt] = struct{}{}
			return alt
		}
	}
}

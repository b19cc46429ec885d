// Package assets walks a game assets tree, parses JSONC asset files and
// produces typed entities for the title registry. The walk is
// deterministic: results are sorted by project-relative path so repeated
// runs over the same tree register entities in the same order.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileInfo is a minimal, deterministic descriptor of a collected asset file.
type FileInfo struct {
	RelPath   string // root-relative path with forward slashes
	AbsPath   string // absolute filesystem path
	Size      int64  // size in bytes
	SHA256Hex string // lowercase hex sha256 of the file contents
	Ext       string // lowercase extension including dot (e.g. ".monstertype")
}

// assetExts is the closed set of asset extensions the loader understands.
var assetExts = map[string]struct{}{
	".item":           {},
	".object":         {},
	".consumable":     {},
	".activeitem":     {},
	".matitem":        {},
	".liqitem":        {},
	".monstertype":    {},
	".biome":          {},
	".treasurepools":  {},
	".modularstem":    {},
	".modularfoliage": {},
}

// defaultExcludes are directory/file base-name prefixes skipped during the
// walk. Asset trees ship editor droppings and VCS metadata like any other.
var defaultExcludes = map[string]struct{}{
	".git":      {},
	".svn":      {},
	".DS_Store": {},
	"_unused":   {},
}

const maxAssetFileBytes = 4_000_000 // individual asset files are small; anything bigger is not data

type walkState struct {
	root  string
	files []FileInfo
}

// Walk collects all recognized asset files under root, sorted by RelPath.
// Sibling .patch files are not returned; the loader discovers them by name.
func Walk(root string) ([]FileInfo, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	state := &walkState{root: abs}
	if err := filepath.WalkDir(abs, state.visit); err != nil {
		return nil, err
	}
	sort.Slice(state.files, func(i, j int) bool { return state.files[i].RelPath < state.files[j].RelPath })
	return state.files, nil
}

func (ws *walkState) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		return nil
	}
	rel, ok := ws.relative(path)
	if !ok {
		return nil
	}
	base := filepath.Base(rel)
	if excluded(base) {
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if d.IsDir() {
		if isSymlink(d) {
			return filepath.SkipDir
		}
		return nil
	}
	return ws.handleFile(path, rel, d)
}

func (ws *walkState) relative(path string) (string, bool) {
	rel, err := filepath.Rel(ws.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "../") || rel == ".." {
		return "", false
	}
	return rel, true
}

func (ws *walkState) handleFile(path, rel string, d fs.DirEntry) error {
	if isSymlink(d) {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := assetExts[ext]; !ok {
		return nil
	}
	info, err := d.Info()
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	if info.Size() > maxAssetFileBytes {
		return nil
	}
	sumHex, err := sha256File(path)
	if err != nil {
		return nil
	}
	ws.files = append(ws.files, FileInfo{
		RelPath:   rel,
		AbsPath:   path,
		Size:      info.Size(),
		SHA256Hex: sumHex,
		Ext:       ext,
	})
	return nil
}

func excluded(base string) bool {
	if _, bad := defaultExcludes[base]; bad {
		return true
	}
	for k := range defaultExcludes {
		if strings.HasPrefix(base, k) {
			return true
		}
	}
	return false
}

// isSymlink reports whether the DirEntry is a symlink (file or directory).
func isSymlink(d fs.DirEntry) bool {
	return d.Type()&fs.ModeSymlink != 0
}

// sha256File computes a hex-encoded sha256 for the file at path.
func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

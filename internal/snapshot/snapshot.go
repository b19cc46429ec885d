package snapshot

// On-disk layout, shared across runs:
//   - The cache root defaults to "tmp/.wcache" unless overridden.
//   - A per-assets-dir cache lives at: <baseTmp>/<pathKey>/
//   - The snapshot is stored at:      <baseTmp>/<pathKey>/index.json
//
// Writes are atomic (temp file + rename) so readers never observe a
// partially-written snapshot.

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const (
	defaultCacheRoot = "tmp/.wcache"
	indexFileName    = "index.json"
)

// Format is the current snapshot schema version. Snapshots written with a
// different version are discarded on load, degrading to a full delta.
const Format = "1"

// PathKey returns a short, stable identifier for an absolute assets path:
// the first 12 hex chars of sha256(absPath).
func PathKey(abs string) string {
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:])[:12]
}

// CacheDir resolves the cache directory for the given absolute assets
// path. An empty baseTmp falls back to the default root.
func CacheDir(baseTmp, assetsAbs string) string {
	root := baseTmp
	if root == "" {
		root = defaultCacheRoot
	}
	return filepath.Join(root, PathKey(assetsAbs))
}

// Load reads the snapshot from <dir>/index.json. A missing file returns
// (nil, nil) so callers can treat it as "no previous run" without
// branching on errors.
func Load(dir string) (*Snapshot, error) {
	b, err := os.ReadFile(filepath.Join(dir, indexFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if s.FormatVersion != Format {
		return nil, nil
	}
	return &s, nil
}

// Save writes the snapshot atomically to <dir>/index.json.
func Save(dir string, s *Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, indexFileName+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, filepath.Join(dir, indexFileName))
}

// Clear removes the per-assets-dir cache directory entirely.
func Clear(dir string) error {
	return os.RemoveAll(dir)
}

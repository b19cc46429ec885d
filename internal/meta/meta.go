// Package meta detects assets metadata: game mods ship a `_metadata` (or
// legacy `.metadata`) JSONC file at the assets root naming the mod and its
// version. Best-effort: a missing or partial file degrades to the
// directory base name.
package meta

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Info is a minimal, tool-friendly summary of the assets tree.
type Info struct {
	Name    string // friendlyName, falling back to name, then the dir base name
	Version string
	Author  string
}

type metadataFile struct {
	Name         string `json:"name"`
	FriendlyName string `json:"friendlyName"`
	Version      string `json:"version"`
	Author       string `json:"author"`
}

// Detect probes the assets root for a metadata file. First match wins:
// `_metadata`, then `.metadata`.
func Detect(root string) Info {
	absRoot, _ := filepath.Abs(root)
	inf := Info{Name: filepath.Base(absRoot)}
	for _, base := range []string{"_metadata", ".metadata"} {
		raw, err := os.ReadFile(filepath.Join(absRoot, base))
		if err != nil {
			continue
		}
		var mf metadataFile
		if err := json.Unmarshal(jsonc.ToJSON(raw), &mf); err != nil {
			continue
		}
		if mf.FriendlyName != "" {
			inf.Name = mf.FriendlyName
		} else if mf.Name != "" {
			inf.Name = mf.Name
		}
		inf.Version = mf.Version
		inf.Author = mf.Author
		return inf
	}
	return inf
}

package assets

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
)

// patchOp is one operation of the JSON Patch subset asset mods use.
// Only add, replace and remove appear in practice.
type patchOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

// applyPatch applies a JSON Patch document (JSONC tolerated) to a decoded
// asset document. The patch operates on maps and slices produced by
// encoding/json: map[string]any and []any.
func applyPatch(doc any, patch []byte) (any, error) {
	var ops []patchOp
	if err := json.Unmarshal(jsonc.ToJSON(patch), &ops); err != nil {
		return nil, fmt.Errorf("parsing patch: %w", err)
	}
	for i, op := range ops {
		var err error
		doc, err = applyOp(doc, op)
		if err != nil {
			return nil, fmt.Errorf("op %d (%s %s): %w", i, op.Op, op.Path, err)
		}
	}
	return doc, nil
}

func applyOp(doc any, op patchOp) (any, error) {
	segs, err := splitPointer(op.Path)
	if err != nil {
		return nil, err
	}
	switch op.Op {
	case "add", "replace":
		var val any
		if err := json.Unmarshal(op.Value, &val); err != nil {
			return nil, fmt.Errorf("decoding value: %w", err)
		}
		return setAt(doc, segs, val, op.Op == "add")
	case "remove":
		return removeAt(doc, segs)
	case "test":
		// Mods use "test" as a guard; a failed test skips nothing here
		// because the loader applies patches unconditionally per file.
		return doc, nil
	default:
		return nil, fmt.Errorf("unsupported op %q", op.Op)
	}
}

// splitPointer parses an RFC 6901 JSON pointer into segments.
func splitPointer(p string) ([]string, error) {
	if p == "" {
		return nil, nil
	}
	if !strings.HasPrefix(p, "/") {
		return nil, fmt.Errorf("pointer %q must start with '/'", p)
	}
	parts := strings.Split(p[1:], "/")
	for i, s := range parts {
		s = strings.ReplaceAll(s, "~1", "/")
		s = strings.ReplaceAll(s, "~0", "~")
		parts[i] = s
	}
	return parts, nil
}

func setAt(doc any, segs []string, val any, insert bool) (any, error) {
	if len(segs) == 0 {
		return val, nil
	}
	head, rest := segs[0], segs[1:]
	switch node := doc.(type) {
	case map[string]any:
		if len(rest) == 0 {
			node[head] = val
			return node, nil
		}
		child, ok := node[head]
		if !ok {
			child = map[string]any{}
		}
		out, err := setAt(child, rest, val, insert)
		if err != nil {
			return nil, err
		}
		node[head] = out
		return node, nil
	case []any:
		if head == "-" {
			if len(rest) != 0 {
				return nil, fmt.Errorf("'-' must be the final segment")
			}
			return append(node, val), nil
		}
		idx, err := strconv.Atoi(head)
		if err != nil || idx < 0 || idx > len(node) {
			return nil, fmt.Errorf("bad array index %q", head)
		}
		if len(rest) == 0 {
			if insert {
				node = append(node, nil)
				copy(node[idx+1:], node[idx:])
				node[idx] = val
				return node, nil
			}
			if idx == len(node) {
				return nil, fmt.Errorf("replace index %d out of range", idx)
			}
			node[idx] = val
			return node, nil
		}
		if idx == len(node) {
			return nil, fmt.Errorf("index %d out of range", idx)
		}
		out, err := setAt(node[idx], rest, val, insert)
		if err != nil {
			return nil, err
		}
		node[idx] = out
		return node, nil
	default:
		return nil, fmt.Errorf("cannot descend into %T", doc)
	}
}

func removeAt(doc any, segs []string) (any, error) {
	if len(segs) == 0 {
		return nil, fmt.Errorf("cannot remove document root")
	}
	head, rest := segs[0], segs[1:]
	switch node := doc.(type) {
	case map[string]any:
		if len(rest) == 0 {
			if _, ok := node[head]; !ok {
				return nil, fmt.Errorf("key %q not present", head)
			}
			delete(node, head)
			return node, nil
		}
		child, ok := node[head]
		if !ok {
			return nil, fmt.Errorf("key %q not present", head)
		}
		out, err := removeAt(child, rest)
		if err != nil {
			return nil, err
		}
		node[head] = out
		return node, nil
	case []any:
		idx, err := strconv.Atoi(head)
		if err != nil || idx < 0 || idx >= len(node) {
			return nil, fmt.Errorf("bad array index %q", head)
		}
		if len(rest) == 0 {
			return append(node[:idx], node[idx+1:]...), nil
		}
		out, err := removeAt(node[idx], rest)
		if err != nil {
			return nil, err
		}
		node[idx] = out
		return node, nil
	default:
		return nil, fmt.Errorf("cannot descend into %T", doc)
	}
}

package snapshot

import "sort"

// BuildDelta computes the page change set between two runs. Titles are the
// primary key; pages removed under one title and added under another with
// the same identity hash are reported as renames instead.
func BuildDelta(prev, curr *Snapshot) Delta {
	if d, ok := trivialDelta(prev, curr); ok {
		return d
	}

	prevMap := indexByTitle(prev.Pages)
	currMap := indexByTitle(curr.Pages)

	d := Delta{
		Removed: classifyRemoved(prevMap, currMap),
		Added:   classifyAdded(prevMap, currMap),
		Changed: classifyChanged(prevMap, currMap),
	}

	d.Renamed, d.Removed, d.Added = matchRenames(d.Removed, d.Added)
	sortDelta(&d)
	return d
}

func trivialDelta(prev, curr *Snapshot) (Delta, bool) {
	var d Delta
	switch {
	case curr == nil || len(curr.Pages) == 0:
		if prev != nil {
			d.Removed = append(d.Removed, prev.Pages...)
		}
	case prev == nil || len(prev.Pages) == 0:
		d.Added = append(d.Added, curr.Pages...)
	default:
		return Delta{}, false
	}
	sortDelta(&d)
	return d, true
}

func indexByTitle(pages []SnapPage) map[string]SnapPage {
	m := make(map[string]SnapPage, len(pages))
	for _, p := range pages {
		m[p.Title] = p
	}
	return m
}

func classifyRemoved(prev, curr map[string]SnapPage) []SnapPage {
	removed := make([]SnapPage, 0)
	for title, pp := range prev {
		if _, ok := curr[title]; !ok {
			removed = append(removed, pp)
		}
	}
	return removed
}

func classifyAdded(prev, curr map[string]SnapPage) []SnapPage {
	added := make([]SnapPage, 0)
	for title, cp := range curr {
		if _, ok := prev[title]; !ok {
			added = append(added, cp)
		}
	}
	return added
}

func classifyChanged(prev, curr map[string]SnapPage) []ChangedPage {
	changed := make([]ChangedPage, 0)
	for title, pp := range prev {
		cp, ok := curr[title]
		if !ok || pp.Body == cp.Body {
			continue
		}
		changed = append(changed, ChangedPage{
			Title:      title,
			BodyBefore: pp.Body,
			BodyAfter:  cp.Body,
		})
	}
	return changed
}

// matchRenames pairs removed and added pages with identical identity
// hashes, one-to-one. Ambiguous hashes (several removed or added pages
// sharing one) are left as plain adds/removes.
func matchRenames(removed, added []SnapPage) ([]RenamedPage, []SnapPage, []SnapPage) {
	byHash := make(map[string][]SnapPage)
	for _, p := range removed {
		byHash[p.Hash] = append(byHash[p.Hash], p)
	}
	var renamed []RenamedPage
	taken := make(map[string]bool) // removed titles consumed by a rename
	keepAdded := make([]SnapPage, 0, len(added))
	for _, p := range added {
		olds := byHash[p.Hash]
		if len(olds) == 1 && !taken[olds[0].Title] {
			renamed = append(renamed, RenamedPage{From: olds[0].Title, To: p.Title, Hash: p.Hash})
			taken[olds[0].Title] = true
			continue
		}
		keepAdded = append(keepAdded, p)
	}
	keepRemoved := make([]SnapPage, 0, len(removed))
	for _, p := range removed {
		if !taken[p.Title] {
			keepRemoved = append(keepRemoved, p)
		}
	}
	return renamed, keepRemoved, keepAdded
}

func sortDelta(d *Delta) {
	sort.Slice(d.Added, func(i, j int) bool { return d.Added[i].Title < d.Added[j].Title })
	sort.Slice(d.Removed, func(i, j int) bool { return d.Removed[i].Title < d.Removed[j].Title })
	sort.Slice(d.Renamed, func(i, j int) bool { return d.Renamed[i].From < d.Renamed[j].From })
	sort.Slice(d.Changed, func(i, j int) bool { return d.Changed[i].Title < d.Changed[j].Title })
}

package snapshot

import "testing"

func page(title, hash, body string) SnapPage {
	return SnapPage{Title: title, Kind: "item", Hash: hash, Body: body}
}

func TestBuildDeltaClassifiesChanges(t *testing.T) {
	prev := &Snapshot{Pages: []SnapPage{
		page("Keep", "h1", "same"),
		page("Change", "h2", "old body"),
		page("Gone", "h3", "x"),
		page("Old Title", "h4", "y"),
	}}
	curr := &Snapshot{Pages: []SnapPage{
		page("Keep", "h1", "same"),
		page("Change", "h2", "new body"),
		page("Fresh", "h9", "z"),
		page("New Title", "h4", "y"),
	}}

	d := BuildDelta(prev, curr)

	if len(d.Added) != 1 || d.Added[0].Title != "Fresh" {
		t.Fatalf("added = %+v", d.Added)
	}
	if len(d.Removed) != 1 || d.Removed[0].Title != "Gone" {
		t.Fatalf("removed = %+v", d.Removed)
	}
	if len(d.Renamed) != 1 || d.Renamed[0].From != "Old Title" || d.Renamed[0].To != "New Title" {
		t.Fatalf("renamed = %+v", d.Renamed)
	}
	if len(d.Changed) != 1 || d.Changed[0].Title != "Change" {
		t.Fatalf("changed = %+v", d.Changed)
	}
	if d.Changed[0].BodyBefore != "old body" || d.Changed[0].BodyAfter != "new body" {
		t.Fatalf("changed bodies not carried: %+v", d.Changed[0])
	}
}

func TestBuildDeltaAmbiguousHashIsNotARename(t *testing.T) {
	prev := &Snapshot{Pages: []SnapPage{
		page("A", "h", "1"),
		page("B", "h", "2"),
	}}
	curr := &Snapshot{Pages: []SnapPage{
		page("C", "h", "1"),
	}}
	d := BuildDelta(prev, curr)
	if len(d.Renamed) != 0 {
		t.Fatalf("ambiguous hash should not pair as rename: %+v", d.Renamed)
	}
	if len(d.Removed) != 2 || len(d.Added) != 1 {
		t.Fatalf("removed=%d added=%d", len(d.Removed), len(d.Added))
	}
}

func TestBuildDeltaTrivialCases(t *testing.T) {
	curr := &Snapshot{Pages: []SnapPage{page("Only", "h", "x")}}

	d := BuildDelta(nil, curr)
	if len(d.Added) != 1 || len(d.Removed) != 0 {
		t.Fatalf("first run should be all-added: %+v", d)
	}

	d = BuildDelta(curr, &Snapshot{})
	if len(d.Removed) != 1 || len(d.Added) != 0 {
		t.Fatalf("emptied run should be all-removed: %+v", d)
	}
}

func TestBuildDeltaDeterministicOrder(t *testing.T) {
	prev := &Snapshot{}
	curr := &Snapshot{Pages: []SnapPage{
		page("Zebra", "h1", "1"),
		page("Apple", "h2", "2"),
	}}
	d := BuildDelta(prev, curr)
	if d.Added[0].Title != "Apple" || d.Added[1].Title != "Zebra" {
		t.Fatalf("added not sorted: %+v", d.Added)
	}
}

// Package snapshot persists the set of pages emitted by a run so the next
// run can report what changed: new pages, retired pages, retitled pages
// and pages whose record body changed.
package snapshot

// SnapPage is one published page in a snapshot. Hash is a content hash of
// the page's stable identity (kind plus machine identifier), deliberately
// excluding the title so retitled pages can be paired across runs. Body is
// the canonical record body used for change detection and diffing.
type SnapPage struct {
	Title string `json:"title"`
	Kind  string `json:"kind"`
	Hash  string `json:"hash"`
	Body  string `json:"body"`
}

// Snapshot captures the emitted page set of one run. Module is the
// assets/mod name from metadata detection, Created an ISO-8601 UTC
// timestamp. FormatVersion versions the snapshot schema.
type Snapshot struct {
	Module        string     `json:"module"`
	Created       string     `json:"created"`
	FormatVersion string     `json:"formatVersion,omitempty"`
	Pages         []SnapPage `json:"pages"`
}

// RenamedPage pairs a retired title with the new title of the same entity
// (identical identity hash).
type RenamedPage struct {
	From string `json:"from"`
	To   string `json:"to"`
	Hash string `json:"hash"`
}

// ChangedPage is a page whose title survived but whose record body
// changed. DiffPath locates the unified patch inside the delta report;
// Oversize marks patches omitted due to size limits. The bodies ride
// along in memory for the report writer and are not serialized.
type ChangedPage struct {
	Title      string `json:"title"`
	DiffPath   string `json:"diff"`
	Oversize   bool   `json:"oversize,omitempty"`
	BodyBefore string `json:"-"`
	BodyAfter  string `json:"-"`
}

// Delta describes the minimal set of page changes between two snapshots.
// Renamed entries are one-to-one pairings removed from Added/Removed.
type Delta struct {
	Added   []SnapPage    `json:"added"`
	Removed []SnapPage    `json:"removed"`
	Renamed []RenamedPage `json:"renamed"`
	Changed []ChangedPage `json:"changed"`
}

// Package registry assigns every registered entity a globally-unique wiki
// page title. Collisions are disambiguated by an ordered table of
// kind-aware heuristics; whatever survives the heuristics falls back to
// deterministic numeric suffixing in request order.
//
// Lifecycle: collaborators call Add for every entity, in any order. The
// first TitleFor/AssignedTitle/ByTitle call runs the one-time resolve
// pass, after which the registry is closed and Add fails.
//
// Invariant violations (double assignment of a title, an unknown entity
// kind) are logic bugs, not data conditions: they panic and abort the run
// rather than silently renaming.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"wiki-collector/internal/entity"
	"wiki-collector/internal/overrides"
	"wiki-collector/internal/sortutil"
)

// ErrRegistryClosed is returned by Add once the resolve pass has run.
var ErrRegistryClosed = errors.New("registry: closed, titles already resolved")

// dispute is the lazy-fallback record for one still-colliding base title.
// All bucket members share the record; served counts forward requests and
// starts at 1 when the base title is unavailable to the bucket.
type dispute struct {
	base   string
	served int
}

// Resolver owns the title ownership maps for one pipeline run. Construct
// it once in the entry point and pass it to every collaborator; there is
// deliberately no package-level instance.
//
// All methods are serialized by one mutex: the lazy-allocation path makes
// TitleFor order-sensitive, so concurrent callers must not interleave.
type Resolver struct {
	mu  sync.Mutex
	log *zap.Logger
	ov  overrides.Table

	entities []entity.Entity
	seen     map[entity.Entity]struct{}
	closed   bool

	titles   map[entity.Entity]string // entity -> final title
	owners   map[string]entity.Entity // title -> entity, global uniqueness
	disputes map[entity.Entity]*dispute
}

// New constructs an empty resolver.
func New(log *zap.Logger, ov overrides.Table) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		log:      log,
		ov:       ov,
		seen:     make(map[entity.Entity]struct{}),
		titles:   make(map[entity.Entity]string),
		owners:   make(map[string]entity.Entity),
		disputes: make(map[entity.Entity]*dispute),
	}
}

// Add registers an entity for titling. Adding the same entity twice is a
// no-op. Once the resolve pass has run the set of nameable entities is
// closed and Add returns ErrRegistryClosed.
func (r *Resolver) Add(e entity.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}
	if _, dup := r.seen[e]; dup {
		return nil
	}
	r.seen[e] = struct{}{}
	r.entities = append(r.entities, e)
	return nil
}

// TitleFor returns the entity's final title, resolving all titles on
// first use. If the entity's title is still disputed after all static
// rules, the title is allocated lazily: the first requester gets the base
// title, later requesters get " (2)", " (3)", ... in request order.
// Suffixes already owned by a statically-titled entity are skipped, so
// lazy allocation never duplicates an existing title.
// Returns "" for entities that were never added or never titled.
func (r *Resolver) TitleFor(e entity.Entity) string {
	return r.titleFor(e, true)
}

// AssignedTitle is TitleFor without lazy allocation: it returns "" for
// entities whose title is still disputed.
func (r *Resolver) AssignedTitle(e entity.Entity) string {
	return r.titleFor(e, false)
}

func (r *Resolver) titleFor(e entity.Entity, allowLazy bool) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolveLocked()

	if t, ok := r.titles[e]; ok {
		return t
	}
	d, ok := r.disputes[e]
	if !ok || !allowLazy {
		return ""
	}
	d.served++
	t := d.base
	if d.served > 1 {
		for {
			t = fmt.Sprintf("%s (%d)", d.base, d.served)
			if _, taken := r.owners[t]; !taken {
				break
			}
			d.served++
		}
		r.owners[t] = e
	}
	r.titles[e] = t
	delete(r.disputes, e)
	return t
}

// ByTitle returns the entity holding exactly that title, optionally
// filtered by kind.
//
// Known asymmetry, preserved deliberately: for a lazily-disputed title the
// reverse map is seeded with the bucket's first candidate at freeze time,
// so ByTitle(base) returns that candidate even if a later TitleFor call
// hands the base title to a different bucket member.
func (r *Resolver) ByTitle(title string, kinds ...entity.Kind) (entity.Entity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolveLocked()

	e, ok := r.owners[title]
	if !ok {
		return nil, false
	}
	if len(kinds) == 0 {
		return e, true
	}
	for _, k := range kinds {
		if e.EntityKind() == k {
			return e, true
		}
	}
	return nil, false
}

// Resolve forces the resolve pass eagerly. Optional: the first title
// lookup triggers it anyway.
func (r *Resolver) Resolve() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolveLocked()
}

// resolveLocked runs the one-time resolve pass. Caller holds r.mu.
func (r *Resolver) resolveLocked() {
	if r.closed {
		return
	}
	r.closed = true

	// Classify every entity into the per-resolve arena. Candidates with
	// an empty sanitized title cannot be published at all.
	arena := make([]candidate, 0, len(r.entities))
	for i, e := range r.entities {
		c := classify(e, r.ov, i)
		if c.wanted == "" {
			r.log.Warn("entity has no usable title",
				zap.String("kind", c.kind.String()),
				zap.String("id", c.id))
			continue
		}
		arena = append(arena, c)
	}

	// Group by requested title and eagerly allocate the uncontested ones.
	buckets := groupByWanted(arena)
	eager := 0
	buckets = r.allocateUnique(buckets, &eager)

	r.log.Info("titles classified",
		zap.Int("entities", len(r.entities)),
		zap.Int("eager", eager),
		zap.Int("disputed", len(buckets)))

	// Iterative disambiguation to a fixed point: each pass sorts the
	// disputed buckets, applies the rule table pairwise, regroups and
	// re-allocates. A pass that fails to shrink the dispute set ends the
	// iteration.
	pass := 0
	for len(buckets) > 0 {
		pass++
		before := len(buckets)
		for _, b := range buckets {
			disambiguateBucket(b)
		}
		var rest []candidate
		for _, b := range buckets {
			for _, c := range b {
				rest = append(rest, *c)
			}
		}
		allocated := 0
		buckets = r.allocateUnique(groupByWanted(rest), &allocated)
		r.log.Info("disambiguation pass",
			zap.Int("pass", pass),
			zap.Int("resolved", allocated),
			zap.Int("remaining", len(buckets)))
		if len(buckets) >= before {
			break
		}
	}

	if len(buckets) > 0 {
		r.freeze(buckets)
	}
}

// allocateUnique assigns every singleton bucket whose title is still free
// and returns the remaining (disputed) buckets. count is incremented per
// allocation.
func (r *Resolver) allocateUnique(buckets [][]*candidate, count *int) [][]*candidate {
	var disputed [][]*candidate
	for _, b := range buckets {
		if len(b) == 1 {
			if _, taken := r.owners[b[0].wanted]; !taken {
				r.assign(b[0].ent, b[0].wanted)
				*count++
				continue
			}
		}
		disputed = append(disputed, b)
	}
	return disputed
}

// assign records an irrevocable entity<->title pairing. A title may never
// change hands: a second assignment is a bug in the rule table or the
// upstream data and aborts the run.
func (r *Resolver) assign(e entity.Entity, title string) {
	if cur, ok := r.owners[title]; ok && cur != e {
		panic(fmt.Sprintf("registry: title %q already owned by another entity", title))
	}
	r.owners[title] = e
	r.titles[e] = title
}

// freeze converts every remaining bucket into a lazy dispute: the bucket's
// first candidate (grouping order) becomes the reverse-lookup owner of the
// base title, forward titles stay unassigned until requested. A base title
// already owned by a statically-titled entity keeps its owner; the bucket
// still freezes, with served pre-advanced so every forward request lands
// on a suffix.
func (r *Resolver) freeze(buckets [][]*candidate) {
	names := make([]string, 0, len(buckets))
	for _, b := range buckets {
		base := b[0].wanted
		names = append(names, base)
		d := &dispute{base: base}
		if _, taken := r.owners[base]; taken {
			d.served = 1
		} else {
			r.owners[base] = b[0].ent
		}
		for _, c := range b {
			r.disputes[c.ent] = d
		}
	}
	r.log.Warn("unresolved title collisions, falling back to numeric suffixes",
		zap.Int("titles", len(names)),
		zap.Strings("disputed", sortutil.StableTitleSort(names)))
}

// groupByWanted partitions candidates into buckets keyed by their current
// wanted title, preserving arena (insertion) order within each bucket and
// first-seen order across buckets.
func groupByWanted(arena []candidate) [][]*candidate {
	idx := make(map[string]int)
	var buckets [][]*candidate
	for i := range arena {
		c := &arena[i]
		j, ok := idx[c.wanted]
		if !ok {
			j = len(buckets)
			idx[c.wanted] = j
			buckets = append(buckets, nil)
		}
		buckets[j] = append(buckets[j], c)
	}
	return buckets
}

// disambiguateBucket runs the pairwise rule scan over one disputed bucket.
// Candidates are ordered by sort key (ties by insertion order); each rule
// match renames one candidate, which is excluded from the bucket, and the
// scan restarts. The scan ends when no rule matches or a single
// undisturbed candidate remains.
func disambiguateBucket(bucket []*candidate) {
	active := make([]*candidate, len(bucket))
	copy(active, bucket)
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].sortKey != active[j].sortKey {
			return active[i].sortKey < active[j].sortKey
		}
		return active[i].order < active[j].order
	})
	for len(active) > 1 {
		renamed := scanPairs(active)
		if renamed == nil {
			return
		}
		active = exclude(active, renamed)
	}
}

// scanPairs tries the rule table on every ordered pair (a before b), in
// both directions, and returns the first candidate a rule renamed.
func scanPairs(cands []*candidate) *candidate {
	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			if c := applyRules(cands[i], cands[j]); c != nil {
				return c
			}
			if c := applyRules(cands[j], cands[i]); c != nil {
				return c
			}
		}
	}
	return nil
}

func exclude(cands []*candidate, drop *candidate) []*candidate {
	out := cands[:0]
	for _, c := range cands {
		if c != drop {
			out = append(out, c)
		}
	}
	return out
}

package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wiki-collector/internal/entity"
	"wiki-collector/internal/overrides"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	return New(zap.NewNop(), overrides.Empty())
}

func item(id, name, category string) *entity.Item {
	return &entity.Item{ID: id, Name: name, Category: category}
}

func monster(typ, name string) *entity.Monster {
	return &entity.Monster{Type: typ, Name: name}
}

func TestDecorativeVariantOfFood(t *testing.T) {
	r := newTestResolver(t)
	food := item("cactusjuice", "Cactus Juice", "preparedFood")
	deco := item("cactusjuiceobject", "Cactus Juice", "decorative")
	require.NoError(t, r.Add(deco))
	require.NoError(t, r.Add(food))

	require.Equal(t, "Cactus Juice", r.TitleFor(food))
	require.Equal(t, "Cactus Juice (decorative)", r.TitleFor(deco))
}

func TestItemKeepsTitleOverMonster(t *testing.T) {
	r := newTestResolver(t)
	it := item("poptopitem", "Poptop", "crafting")
	mo := monster("poptop", "Poptop")
	require.NoError(t, r.Add(mo))
	require.NoError(t, r.Add(it))

	require.Equal(t, "Poptop", r.TitleFor(it))
	require.Equal(t, "Poptop (monster)", r.TitleFor(mo))
}

func TestPaintingYieldsTitleToMonster(t *testing.T) {
	r := newTestResolver(t)
	it := item("poptoppainting", "Poptop", "artwork")
	mo := monster("poptop", "Poptop")
	require.NoError(t, r.Add(it))
	require.NoError(t, r.Add(mo))

	require.Equal(t, "Poptop (painting)", r.TitleFor(it))
	require.Equal(t, "Poptop", r.TitleFor(mo))
}

func TestLazyFallbackNumbersInRequestOrder(t *testing.T) {
	r := newTestResolver(t)
	a := item("ironbar", "Iron Bar", "crafting")
	b := item("copperbar", "Copper Bar", "crafting")
	dup := item("ironbar2", "Iron Bar", "crafting")
	require.NoError(t, r.Add(a))
	require.NoError(t, r.Add(b))
	require.NoError(t, r.Add(dup))

	// Request order decides the suffixing, not registration order.
	require.Equal(t, "Iron Bar", r.TitleFor(dup))
	require.Equal(t, "Iron Bar (2)", r.TitleFor(a))
	require.Equal(t, "Copper Bar", r.TitleFor(b))
}

func TestAssignedTitleSkipsLazyAllocation(t *testing.T) {
	r := newTestResolver(t)
	a := item("ironbar", "Iron Bar", "crafting")
	b := item("ironbar2", "Iron Bar", "crafting")
	require.NoError(t, r.Add(a))
	require.NoError(t, r.Add(b))

	require.Equal(t, "", r.AssignedTitle(a))
	require.Equal(t, "", r.AssignedTitle(b))
	// Lazy allocation still works afterwards.
	require.Equal(t, "Iron Bar", r.TitleFor(a))
	require.Equal(t, "Iron Bar", r.AssignedTitle(a))
}

func TestAddAfterResolveFails(t *testing.T) {
	r := newTestResolver(t)
	a := item("ironbar", "Iron Bar", "crafting")
	require.NoError(t, r.Add(a))
	_ = r.TitleFor(a)

	err := r.Add(item("copperbar", "Copper Bar", "crafting"))
	require.ErrorIs(t, err, ErrRegistryClosed)
}

func TestTitleForIsIdempotent(t *testing.T) {
	r := newTestResolver(t)
	a := item("ironbar", "Iron Bar", "crafting")
	b := item("ironbar2", "Iron Bar", "crafting")
	require.NoError(t, r.Add(a))
	require.NoError(t, r.Add(b))

	first := r.TitleFor(b)
	for i := 0; i < 3; i++ {
		require.Equal(t, first, r.TitleFor(b))
	}
}

func TestUnknownEntityReturnsEmpty(t *testing.T) {
	r := newTestResolver(t)
	require.NoError(t, r.Add(item("ironbar", "Iron Bar", "crafting")))
	require.Equal(t, "", r.TitleFor(item("ghost", "Ghost", "crafting")))
}

func TestUniquenessAcrossAllResolvedTitles(t *testing.T) {
	r := newTestResolver(t)
	var ents []entity.Entity
	for i := 0; i < 20; i++ {
		e := item(fmt.Sprintf("thing%02d", i), fmt.Sprintf("Thing %d", i%7), "crafting")
		ents = append(ents, e)
		require.NoError(t, r.Add(e))
	}
	seen := make(map[string]entity.Entity)
	for _, e := range ents {
		title := r.TitleFor(e)
		require.NotEmpty(t, title)
		prev, dup := seen[title]
		require.Falsef(t, dup, "title %q held by both %v and %v", title, prev, e)
		seen[title] = e
	}
}

func TestEagerTitlesStableUnderAddReordering(t *testing.T) {
	build := func(order []int) map[string]bool {
		r := New(zap.NewNop(), overrides.Empty())
		ents := []entity.Entity{
			item("cactusjuice", "Cactus Juice", "preparedFood"),
			item("cactusjuiceobject", "Cactus Juice", "decorative"),
			monster("poptop", "Poptop"),
			item("poptopitem", "Poptop", "crafting"),
			item("lonely", "Lonely Thing", "crafting"),
		}
		for _, i := range order {
			if err := r.Add(ents[i]); err != nil {
				panic(err)
			}
		}
		titles := make(map[string]bool)
		for _, e := range ents {
			titles[r.TitleFor(e)] = true
		}
		return titles
	}
	want := build([]int{0, 1, 2, 3, 4})
	got := build([]int{4, 2, 3, 1, 0})
	require.Equal(t, want, got)
}

func TestByTitleKindFilter(t *testing.T) {
	r := newTestResolver(t)
	it := item("poptopitem", "Poptop", "crafting")
	mo := monster("poptop", "Poptop")
	require.NoError(t, r.Add(it))
	require.NoError(t, r.Add(mo))

	e, ok := r.ByTitle("Poptop")
	require.True(t, ok)
	require.Same(t, it, e)

	e, ok = r.ByTitle("Poptop (monster)", entity.KindMonster)
	require.True(t, ok)
	require.Same(t, mo, e)

	_, ok = r.ByTitle("Poptop", entity.KindMonster)
	require.False(t, ok)

	_, ok = r.ByTitle("No Such Page")
	require.False(t, ok)
}

// Reverse lookup for a lazily-disputed title sticks with the bucket's
// first candidate even when the forward path later hands the base title
// to a different entity. Documented divergence; this test pins it down.
func TestByTitleLazyDisputeAsymmetry(t *testing.T) {
	r := newTestResolver(t)
	first := item("ironbar", "Iron Bar", "crafting")
	second := item("ironbar2", "Iron Bar", "crafting")
	require.NoError(t, r.Add(first))
	require.NoError(t, r.Add(second))

	// The later-registered entity requests first and wins the base title.
	require.Equal(t, "Iron Bar", r.TitleFor(second))

	e, ok := r.ByTitle("Iron Bar")
	require.True(t, ok)
	require.Same(t, first, e, "reverse lookup should return the bucket's first candidate")
}

func TestLazySuffixSkipsTakenTitles(t *testing.T) {
	r := newTestResolver(t)
	taken := item("ironbardisplay", "Iron Bar (2)", "crafting")
	a := item("ironbar", "Iron Bar", "crafting")
	b := item("ironbar2", "Iron Bar", "crafting")
	require.NoError(t, r.Add(taken))
	require.NoError(t, r.Add(a))
	require.NoError(t, r.Add(b))

	require.Equal(t, "Iron Bar (2)", r.TitleFor(taken))
	require.Equal(t, "Iron Bar", r.TitleFor(a))
	// " (2)" is owned by the eagerly-titled entity, so the second lazy
	// requester must move past it.
	require.Equal(t, "Iron Bar (3)", r.TitleFor(b))

	e, ok := r.ByTitle("Iron Bar (3)")
	require.True(t, ok)
	require.Same(t, b, e)
}

func TestFrozenBucketWithOwnedBaseFallsBackToSuffix(t *testing.T) {
	r := newTestResolver(t)
	it := item("poptopitem", "Poptop", "crafting")
	mo := monster("poptop", "Poptop")
	named := monster("poptopvariant", "Poptop (monster)")
	require.NoError(t, r.Add(it))
	require.NoError(t, r.Add(mo))
	require.NoError(t, r.Add(named))

	// The rename target of the item-vs-monster rule is already taken by
	// an eagerly-titled entity; the renamed monster degrades to the lazy
	// fallback instead of aborting.
	require.Equal(t, "Poptop", r.TitleFor(it))
	require.Equal(t, "Poptop (monster)", r.TitleFor(named))
	require.Equal(t, "Poptop (monster) (2)", r.TitleFor(mo))

	e, ok := r.ByTitle("Poptop (monster)")
	require.True(t, ok)
	require.Same(t, named, e)
}

func TestDuplicateAddIsNoop(t *testing.T) {
	r := newTestResolver(t)
	a := item("ironbar", "Iron Bar", "crafting")
	require.NoError(t, r.Add(a))
	require.NoError(t, r.Add(a))
	require.Equal(t, "Iron Bar", r.TitleFor(a))
	// No phantom second candidate, so no dispute and no suffix.
	_, ok := r.ByTitle("Iron Bar (2)")
	require.False(t, ok)
}

func TestTreasurePoolPrefixAndBiomeSuffix(t *testing.T) {
	r := newTestResolver(t)
	pool := &entity.TreasurePool{Name: "moneybag"}
	biome := &entity.Biome{ID: "garden", Name: "Garden"}
	it := item("gardenshield", "Garden", "crafting")
	require.NoError(t, r.Add(pool))
	require.NoError(t, r.Add(biome))
	require.NoError(t, r.Add(it))

	require.Equal(t, "TreasurePool:Moneybag", r.TitleFor(pool))
	require.Equal(t, "Garden", r.TitleFor(it))
	require.Equal(t, "Garden (biome)", r.TitleFor(biome))
}

func TestOverrideWinsOverDisplayName(t *testing.T) {
	ov := overrides.Empty()
	ov.Items["avianguardhead"] = "Avian Guard Helmet"
	r := New(zap.NewNop(), ov)
	it := item("avianguardhead", "Guard Helmet", "armor")
	require.NoError(t, r.Add(it))
	require.Equal(t, "Avian Guard Helmet", r.TitleFor(it))
}

func TestResolveIsIdempotent(t *testing.T) {
	r := newTestResolver(t)
	a := item("ironbar", "Iron Bar", "crafting")
	require.NoError(t, r.Add(a))
	r.Resolve()
	r.Resolve()
	require.Equal(t, "Iron Bar", r.TitleFor(a))
}

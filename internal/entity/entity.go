// Package entity defines the closed set of game entity kinds that can be
// published as wiki pages. Every entity is a pointer value; the registry
// keys its ownership maps on pointer identity, so entities must never be
// copied once registered.
package entity

// Kind tags an entity with its domain type. The set is closed: the
// classifier switches exhaustively over it and panics on anything else.
type Kind int

const (
	KindItem Kind = iota
	KindMonster
	KindTreasurePool
	KindBiome
	KindSaplingPart
)

// String returns the lowercase kind name used in logs and page records.
func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindMonster:
		return "monster"
	case KindTreasurePool:
		return "treasurepool"
	case KindBiome:
		return "biome"
	case KindSaplingPart:
		return "saplingpart"
	}
	return "unknown"
}

// Entity is any domain object that wants a unique published title.
type Entity interface {
	// EntityKind returns the kind tag.
	EntityKind() Kind
	// Identifier returns the stable machine identifier (item code,
	// monster type, pool name, ...). Used for override lookup, sort
	// keys and disambiguation tags; never shown to readers.
	Identifier() string
	// DisplayName returns the human-readable name from the asset file.
	DisplayName() string
}

// Item is a loaded item asset (.item, .object, .consumable, ...).
type Item struct {
	ID         string // itemName / objectName
	Name       string // shortdescription
	Category   string // e.g. "preparedFood", "decorative", "crafting"
	Race       string // owning race, if the asset declares one
	FoodValue  float64
	Price      int
	SourcePath string
}

func (i *Item) EntityKind() Kind    { return KindItem }
func (i *Item) Identifier() string  { return i.ID }
func (i *Item) DisplayName() string { return i.Name }

// Monster is a loaded monster asset (.monstertype).
type Monster struct {
	Type       string // machine type id
	Name       string // shortdescription
	Capturable bool
	Element    string // damage element from base parameters, if any
	SourcePath string
}

func (m *Monster) EntityKind() Kind    { return KindMonster }
func (m *Monster) Identifier() string  { return m.Type }
func (m *Monster) DisplayName() string { return m.Name }

// TreasurePool is one named pool from a .treasurepools file.
type TreasurePool struct {
	Name       string
	SourcePath string
}

func (t *TreasurePool) EntityKind() Kind    { return KindTreasurePool }
func (t *TreasurePool) Identifier() string  { return t.Name }
func (t *TreasurePool) DisplayName() string { return t.Name }

// Biome is a loaded biome asset (.biome).
type Biome struct {
	ID         string // machine name
	Name       string // friendlyName
	SourcePath string
}

func (b *Biome) EntityKind() Kind    { return KindBiome }
func (b *Biome) Identifier() string  { return b.ID }
func (b *Biome) DisplayName() string { return b.Name }

// SaplingPart is a modular tree stem or foliage asset.
type SaplingPart struct {
	ID         string
	Name       string
	Foliage    bool // true for foliage, false for stem
	SourcePath string
}

func (s *SaplingPart) EntityKind() Kind    { return KindSaplingPart }
func (s *SaplingPart) Identifier() string  { return s.ID }
func (s *SaplingPart) DisplayName() string { return s.Name }

package gacha

import "fmt"

// Rarity is an item tier, 1 (common) .. 6 (mythical). Higher is rarer.
type Rarity int

const (
	Common Rarity = iota + 1
	Uncommon
	Rare
	Epic
	Legendary
	Mythical
)

var rarityNames = map[Rarity]string{
	Common:    "Common",
	Uncommon:  "Uncommon",
	Rare:      "Rare",
	Epic:      "Epic",
	Legendary: "Legendary",
	Mythical:  "Mythical",
}

func (r Rarity) String() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Tier%d", int(r))
}

// Valid reports whether r is one of the six known tiers.
func (r Rarity) Valid() bool { return r >= Common && r <= Mythical }

// Item is an obtainable item identity. It has no mutable state, so pool
// entries and inventory slots share the same *Item.
type Item struct {
	name   string
	rarity Rarity
}

// NewItem creates an immutable item.
func NewItem(name string, rarity Rarity) *Item {
	return &Item{name: name, rarity: rarity}
}

func (it *Item) Name() string   { return it.name }
func (it *Item) Rarity() Rarity { return it.rarity }

func (it *Item) String() string {
	return fmt.Sprintf("%s [%d★]", it.name, int(it.rarity))
}

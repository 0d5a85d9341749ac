package gacha

import (
	"errors"
	"fmt"
	"sort"
)

// Strategy selects how a catalog turns into pool weights.
type Strategy string

const (
	// StrategyFlat registers every item with its own literal weight.
	StrategyFlat Strategy = "flat"
	// StrategyTierBudget splits a per-tier mass evenly among the tier's items.
	StrategyTierBudget Strategy = "tier_budget"
)

// ErrCatalog reports a catalog that cannot build a pool.
var ErrCatalog = errors.New("gacha: invalid catalog")

// CatalogItem is one line of a catalog definition. Weight is only read by
// StrategyFlat.
type CatalogItem struct {
	Name   string
	Rarity Rarity
	Weight float64
}

// Catalog is the read-only item table plus the data both setup strategies
// need.
type Catalog struct {
	Items    []CatalogItem
	TierMass map[Rarity]float64 // StrategyTierBudget only
}

// DefaultCatalog is the stock item table. Its tier masses equal the flat
// per-tier sums, so both strategies give the same odds.
func DefaultCatalog() Catalog {
	return Catalog{
		Items: []CatalogItem{
			{"Common Sword", Common, 60},
			{"Rusty Dagger", Common, 60},
			{"Wooden Ladle", Common, 60},
			{"Tree Branch", Common, 60},
			{"Small Rock", Common, 60},
			{"Wooden Club", Common, 60},
			{"Common Spear", Common, 60},

			{"Torch", Uncommon, 45},
			{"Kitchen Knife", Uncommon, 45},
			{"Skeleton Arm", Uncommon, 45},
			{"Reinforced Sword", Uncommon, 45},
			{"Reinforced Spear", Uncommon, 45},

			{"Rare Spear", Rare, 30},
			{"Fire Sword", Rare, 30},
			{"Ice Sword", Rare, 30},
			{"Rare Claymore", Rare, 30},

			{"Epic Staff", Epic, 9},
			{"Fire Claymore", Epic, 9},
			{"Ice Claymore", Epic, 9},

			{"Legendary Blade", Legendary, 1},
			{"Sword of Sparda", Legendary, 1},

			{"Master Sword", Mythical, 0.05},
		},
		TierMass: map[Rarity]float64{
			Common:    420,
			Uncommon:  225,
			Rare:      120,
			Epic:      27,
			Legendary: 2,
			Mythical:  0.05,
		},
	}
}

// Build fills pool from the catalog using the chosen strategy. It is a
// one-time setup step; every item ends up as one entry with positive weight.
func (c Catalog) Build(pool *WeightedPool, strategy Strategy) error {
	if len(c.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrCatalog)
	}
	for i, ci := range c.Items {
		if ci.Name == "" {
			return fmt.Errorf("%w: item %d has no name", ErrCatalog, i)
		}
		if !ci.Rarity.Valid() {
			return fmt.Errorf("%w: item %q has rarity %d", ErrCatalog, ci.Name, ci.Rarity)
		}
	}
	switch strategy {
	case StrategyFlat, "":
		return c.buildFlat(pool)
	case StrategyTierBudget:
		return c.buildTierBudget(pool)
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrCatalog, strategy)
	}
}

func (c Catalog) buildFlat(pool *WeightedPool) error {
	for _, ci := range c.Items {
		if !(ci.Weight > 0) {
			return fmt.Errorf("%w: item %q needs a positive weight", ErrCatalog, ci.Name)
		}
		if _, err := pool.AddEntry(NewItem(ci.Name, ci.Rarity), ci.Weight); err != nil {
			return err
		}
	}
	return nil
}

func (c Catalog) buildTierBudget(pool *WeightedPool) error {
	counts := make(map[Rarity]int)
	for _, ci := range c.Items {
		counts[ci.Rarity]++
	}
	tiers := make([]Rarity, 0, len(counts))
	for r := range counts {
		tiers = append(tiers, r)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })
	for _, r := range tiers {
		if !(c.TierMass[r] > 0) {
			return fmt.Errorf("%w: tier %d has items but no mass", ErrCatalog, r)
		}
	}
	// insertion order follows the item table
	for _, ci := range c.Items {
		w := c.TierMass[ci.Rarity] / float64(counts[ci.Rarity])
		if _, err := pool.AddEntry(NewItem(ci.Name, ci.Rarity), w); err != nil {
			return err
		}
	}
	return nil
}

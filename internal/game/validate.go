package game

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// economy
	if cfg.Economy.InitialCurrency != nil && *cfg.Economy.InitialCurrency < 0 {
		errs = append(errs, "economy.initial_currency must be >= 0")
	}
	if cfg.Economy.InventoryCapacity != nil && *cfg.Economy.InventoryCapacity <= 0 {
		errs = append(errs, "economy.inventory_capacity must be >= 1")
	}
	if cfg.Economy.PullCost != nil && *cfg.Economy.PullCost < 0 {
		errs = append(errs, "economy.pull_cost must be >= 0")
	}
	if cfg.Economy.TenPullCost != nil && *cfg.Economy.TenPullCost < 0 {
		errs = append(errs, "economy.ten_pull_cost must be >= 0 (0 means 10 * pull_cost)")
	}

	// pity
	switch cfg.Pity.Mode {
	case "", "one_shot", "self_reverting":
	default:
		errs = append(errs, "pity.mode must be one of: one_shot, self_reverting")
	}
	switch cfg.Pity.RevertTally {
	case "", "carry_over", "reset_on_revert":
	default:
		errs = append(errs, "pity.revert_tally must be one of: carry_over, reset_on_revert")
	}
	if cfg.Pity.Trigger != nil && *cfg.Pity.Trigger <= 0 {
		errs = append(errs, "pity.trigger must be >= 1")
	}
	if cfg.Pity.HighRarity != nil && (*cfg.Pity.HighRarity < 1 || *cfg.Pity.HighRarity > 6) {
		errs = append(errs, "pity.high_rarity must be in [1,6]")
	}
	tiers := make([]int, 0, len(cfg.Pity.Boosts))
	for tier := range cfg.Pity.Boosts {
		tiers = append(tiers, tier)
	}
	sort.Ints(tiers)
	for _, tier := range tiers {
		if tier < 1 || tier > 6 {
			errs = append(errs, fmt.Sprintf("pity.boosts[%d]: tier must be in [1,6]", tier))
		}
		if b := cfg.Pity.Boosts[tier]; !(b >= 0) {
			errs = append(errs, fmt.Sprintf("pity.boosts[%d] must be >= 0", tier))
		}
	}

	// catalog
	switch cfg.Catalog.Strategy {
	case "", "flat", "tier_budget":
	default:
		errs = append(errs, "catalog.strategy must be one of: flat, tier_budget")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

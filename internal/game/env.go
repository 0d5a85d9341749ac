package game

import (
	"fmt"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// envOverrides maps GACHA_* variables onto config. Unset variables leave
// the pointer nil so they never clobber file values.
type envOverrides struct {
	InitialCurrency   *int               `env:"GACHA_INITIAL_CURRENCY"`
	InventoryCapacity *int               `env:"GACHA_INVENTORY_CAPACITY"`
	PullCost          *int               `env:"GACHA_PULL_COST"`
	TenPullCost       *int               `env:"GACHA_TEN_PULL_COST"`
	PityMode          string             `env:"GACHA_PITY_MODE"`
	Trigger           *int               `env:"GACHA_PITY_TRIGGER"`
	HighRarity        *int               `env:"GACHA_HIGH_RARITY"`
	Boosts            map[string]float64 `env:"GACHA_PITY_BOOSTS"` // e.g. "4:50,5:20,6:10"
	RevertTally       string             `env:"GACHA_REVERT_TALLY"`
	Strategy          string             `env:"GACHA_CATALOG_STRATEGY"`
	Seed              *uint64            `env:"GACHA_SEED"`
}

// EnvConfig parses GACHA_* overrides into a RawConfig overlay.
func EnvConfig() (RawConfig, error) {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return RawConfig{}, fmt.Errorf("parse env: %w", err)
	}
	cfg := RawConfig{
		Economy: EconomyConfig{
			InitialCurrency:   o.InitialCurrency,
			InventoryCapacity: o.InventoryCapacity,
			PullCost:          o.PullCost,
			TenPullCost:       o.TenPullCost,
		},
		Pity: PityCfg{
			Mode:        o.PityMode,
			Trigger:     o.Trigger,
			HighRarity:  o.HighRarity,
			RevertTally: o.RevertTally,
		},
		Catalog: CatalogCfg{Strategy: o.Strategy},
		Seed:    o.Seed,
	}
	if len(o.Boosts) > 0 {
		cfg.Pity.Boosts = make(map[int]float64, len(o.Boosts))
		for k, v := range o.Boosts {
			tier, err := strconv.Atoi(k)
			if err != nil {
				return RawConfig{}, fmt.Errorf("parse env: GACHA_PITY_BOOSTS tier %q: %w", k, err)
			}
			cfg.Pity.Boosts[tier] = v
		}
	}
	return cfg, nil
}

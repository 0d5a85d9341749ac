// types.go
package game

// Raw config loaded from YAML. Pointer fields distinguish "unset" from zero.
type RawConfig struct {
	Version string        `yaml:"version"`
	Economy EconomyConfig `yaml:"economy"`
	Pity    PityCfg       `yaml:"pity"`
	Catalog CatalogCfg    `yaml:"catalog"`
	Seed    *uint64       `yaml:"seed,omitempty"`
	Notes   string        `yaml:"notes,omitempty"`
}

type EconomyConfig struct {
	InitialCurrency   *int `yaml:"initial_currency"`
	InventoryCapacity *int `yaml:"inventory_capacity"`
	PullCost          *int `yaml:"pull_cost"`
	TenPullCost       *int `yaml:"ten_pull_cost,omitempty"` // 0 => 10 * pull_cost
}

type PityCfg struct {
	Mode        string          `yaml:"mode"` // "one_shot" | "self_reverting"
	Trigger     *int            `yaml:"trigger"`
	HighRarity  *int            `yaml:"high_rarity"`
	Boosts      map[int]float64 `yaml:"boosts,omitempty"`       // tier -> additive weight
	RevertTally string          `yaml:"revert_tally,omitempty"` // "carry_over" | "reset_on_revert"
}

type CatalogCfg struct {
	Strategy string `yaml:"strategy"` // "flat" | "tier_budget"
}

// Settings are the normalized values a session is built from.
type Settings struct {
	InitialCurrency int
	Capacity        int
	PullCost        int
	TenPullCost     int
	PityMode        string
	Trigger         int
	HighRarity      int
	Boosts          map[int]float64
	RevertTally     string
	Strategy        string
	Seed            uint64 // 0 => entropy
	Version         string // effective config version for tracing
}

// DefaultSettings mirrors the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		InitialCurrency: 100,
		Capacity:        15,
		PullCost:        10,
		PityMode:        "self_reverting",
		Trigger:         5,
		HighRarity:      4,
		Boosts:          map[int]float64{4: 50, 5: 20, 6: 10},
		RevertTally:     "carry_over",
		Strategy:        "flat",
	}
}

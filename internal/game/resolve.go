// resolve.go
package game

import (
	"fmt"

	"github.com/xtding233/gacha-economy/internal/gacha"
	"github.com/xtding233/gacha-economy/internal/token"
)

// Resolver turns the layered config into session settings.
type Resolver interface {
	// Returns merged RawConfig and normalized Settings
	Resolve(profile string) (RawConfig, Settings, error)
}

// Resolve merges default → profile → GACHA_* env, validates, and
// normalizes onto DefaultSettings.
func (l *Loader) Resolve(profile string) (RawConfig, Settings, error) {
	fileCfg, err := l.LoadMerged(profile)
	if err != nil {
		return RawConfig{}, Settings{}, err
	}
	envCfg, err := EnvConfig()
	if err != nil {
		return RawConfig{}, Settings{}, err
	}
	merged := mergeRaw(fileCfg, envCfg)
	if err := ValidateRaw(merged); err != nil {
		return RawConfig{}, Settings{}, err
	}
	return merged, Normalize(merged), nil
}

// Normalize fills unset fields from DefaultSettings. cfg must already be valid.
func Normalize(cfg RawConfig) Settings {
	s := DefaultSettings()
	s.Version = cfg.Version
	if v := cfg.Economy.InitialCurrency; v != nil {
		s.InitialCurrency = *v
	}
	if v := cfg.Economy.InventoryCapacity; v != nil {
		s.Capacity = *v
	}
	if v := cfg.Economy.PullCost; v != nil {
		s.PullCost = *v
	}
	if v := cfg.Economy.TenPullCost; v != nil {
		s.TenPullCost = *v
	}
	if cfg.Pity.Mode != "" {
		s.PityMode = cfg.Pity.Mode
	}
	if v := cfg.Pity.Trigger; v != nil {
		s.Trigger = *v
	}
	if v := cfg.Pity.HighRarity; v != nil {
		s.HighRarity = *v
	}
	for tier, b := range cfg.Pity.Boosts {
		s.Boosts[tier] = b
	}
	if cfg.Pity.RevertTally != "" {
		s.RevertTally = cfg.Pity.RevertTally
	}
	if cfg.Catalog.Strategy != "" {
		s.Strategy = cfg.Catalog.Strategy
	}
	if cfg.Seed != nil {
		s.Seed = *cfg.Seed
	}
	return s
}

// String is a one-line summary for logs.
func (s Settings) String() string {
	return fmt.Sprintf("currency=%d capacity=%d cost=%d/%d pity=%s trigger=%d high>=%d tally=%s strategy=%s",
		s.InitialCurrency, s.Capacity, s.PullCost, s.TenPullCost, s.PityMode, s.Trigger, s.HighRarity, s.RevertTally, s.Strategy)
}

// PityConfig converts the pity settings for the engine.
func (s Settings) PityConfig() gacha.PityConfig {
	boosts := make(map[gacha.Rarity]float64, len(s.Boosts))
	for tier, b := range s.Boosts {
		boosts[gacha.Rarity(tier)] = b
	}
	return gacha.PityConfig{
		Mode:       gacha.PityMode(s.PityMode),
		Trigger:    s.Trigger,
		HighRarity: gacha.Rarity(s.HighRarity),
		Boosts:     boosts,
		Tally:      gacha.RevertTally(s.RevertTally),
	}
}

// EngineConfig builds the engine description over the stock catalog.
// A zero Seed leaves the RNG nil so the engine seeds from entropy.
func (s Settings) EngineConfig() gacha.EngineConfig {
	var rng gacha.RandomSource
	if s.Seed != 0 {
		rng = gacha.NewSeededRNG(s.Seed)
	}
	return gacha.EngineConfig{
		Catalog:  gacha.DefaultCatalog(),
		Strategy: gacha.Strategy(s.Strategy),
		Pity:     s.PityConfig(),
		RNG:      rng,
	}
}

// Price returns the pull pricing.
func (s Settings) Price() token.Token {
	t := token.Default()
	t.PerDraw = s.PullCost
	t.PerTenDraw = s.TenPullCost
	return t
}

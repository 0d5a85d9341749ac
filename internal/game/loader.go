package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths helper for default/profile files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/gacha/config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}
func (p Paths) ProfilePath(profile string) string {
	return filepath.Join(p.BaseDir, "profiles", profile+".yaml")
}

// Files lists every file that contributes to profile, default first.
func (p Paths) Files(profile string) []string {
	files := []string{p.DefaultPath()}
	if profile != "" {
		files = append(files, p.ProfilePath(profile))
	}
	return files
}

// Loader reads YAML configs and merges default → profile.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: profile name, "" for default only
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// Paths returns the loader's file layout.
func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges default → profile (profile optional).
// It returns the merged RawConfig (without env overrides or normalization).
func (l *Loader) LoadMerged(profile string) (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[profile]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	merged := defCfg
	if profile != "" {
		profCfg, err := readYAML(l.paths.ProfilePath(profile))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read profile %s: %w", profile, err)
		}
		merged = mergeRaw(defCfg, profCfg)
	}

	l.mu.Lock()
	l.cache[profile] = merged
	l.mu.Unlock()

	return merged, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw overlays b on a: every field set in b wins.
// Boost maps merge per tier.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	// top-level scalars
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.Seed != nil {
		out.Seed = b.Seed
	}

	// economy
	if b.Economy.InitialCurrency != nil {
		out.Economy.InitialCurrency = b.Economy.InitialCurrency
	}
	if b.Economy.InventoryCapacity != nil {
		out.Economy.InventoryCapacity = b.Economy.InventoryCapacity
	}
	if b.Economy.PullCost != nil {
		out.Economy.PullCost = b.Economy.PullCost
	}
	if b.Economy.TenPullCost != nil {
		out.Economy.TenPullCost = b.Economy.TenPullCost
	}

	// pity
	if b.Pity.Mode != "" {
		out.Pity.Mode = b.Pity.Mode
	}
	if b.Pity.Trigger != nil {
		out.Pity.Trigger = b.Pity.Trigger
	}
	if b.Pity.HighRarity != nil {
		out.Pity.HighRarity = b.Pity.HighRarity
	}
	if b.Pity.RevertTally != "" {
		out.Pity.RevertTally = b.Pity.RevertTally
	}
	if len(b.Pity.Boosts) > 0 {
		boosts := make(map[int]float64, len(a.Pity.Boosts)+len(b.Pity.Boosts))
		for k, v := range a.Pity.Boosts {
			boosts[k] = v
		}
		for k, v := range b.Pity.Boosts {
			boosts[k] = v
		}
		out.Pity.Boosts = boosts
	}

	// catalog
	if b.Catalog.Strategy != "" {
		out.Catalog.Strategy = b.Catalog.Strategy
	}

	return out
}

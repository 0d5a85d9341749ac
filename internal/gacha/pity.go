package gacha

import (
	"fmt"
	"sort"
)

// PityMode selects how a pity boost ends.
type PityMode string

const (
	// ModeOneShot applies the boost and leaves it in effect for the rest of
	// the session. Repeated triggers stack.
	ModeOneShot PityMode = "one_shot"
	// ModeSelfReverting removes the boost before the next draw samples, so it
	// lasts for exactly one draw.
	ModeSelfReverting PityMode = "self_reverting"
)

// RevertTally decides whether the draw taken while boosted counts toward the
// miss streak.
type RevertTally string

const (
	// TallyCarryOver counts the boosted draw like any other draw.
	TallyCarryOver RevertTally = "carry_over"
	// TallyResetOnRevert leaves the streak at zero after the boosted draw,
	// whatever it produced.
	TallyResetOnRevert RevertTally = "reset_on_revert"
)

// PityConfig holds the pity rules. Zero values are replaced by defaults in
// normalize.
type PityConfig struct {
	Mode       PityMode
	Trigger    int                // consecutive misses that arm a boost, e.g. 5
	HighRarity Rarity             // draws at or above this tier are hits, e.g. 4
	Boosts     map[Rarity]float64 // additive weight per boosted tier
	Tally      RevertTally        // ModeSelfReverting only
}

// DefaultBoosts are the per-tier additive boosts: 50/20/10 for tiers 4/5/6.
func DefaultBoosts() map[Rarity]float64 {
	return map[Rarity]float64{Epic: 50, Legendary: 20, Mythical: 10}
}

// DefaultPityConfig returns the stock rules: self-reverting, 5 misses,
// tier 4 and up counts as a hit.
func DefaultPityConfig() PityConfig {
	return PityConfig{
		Mode:       ModeSelfReverting,
		Trigger:    5,
		HighRarity: Epic,
		Boosts:     DefaultBoosts(),
		Tally:      TallyCarryOver,
	}
}

// normalize validates and fills defaults; returns error if invalid.
func (c *PityConfig) normalize() error {
	switch c.Mode {
	case "":
		c.Mode = ModeSelfReverting
	case ModeOneShot, ModeSelfReverting:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrPityConfig, c.Mode)
	}
	switch c.Tally {
	case "":
		c.Tally = TallyCarryOver
	case TallyCarryOver, TallyResetOnRevert:
	default:
		return fmt.Errorf("%w: unknown revert tally %q", ErrPityConfig, c.Tally)
	}
	if c.Trigger < 0 {
		return fmt.Errorf("%w: trigger must be >= 1", ErrPityConfig)
	}
	if c.Trigger == 0 {
		c.Trigger = 5
	}
	if c.HighRarity == 0 {
		c.HighRarity = Epic
	}
	if !c.HighRarity.Valid() {
		return fmt.Errorf("%w: high rarity %d out of range", ErrPityConfig, c.HighRarity)
	}
	if c.Boosts == nil {
		c.Boosts = DefaultBoosts()
	}
	for r, b := range c.Boosts {
		if err := validateWeight(b); err != nil {
			return fmt.Errorf("%w: boost for tier %d: %v", ErrPityConfig, r, err)
		}
	}
	return nil
}

// PityState is the observable pity bookkeeping.
type PityState struct {
	ConsecutiveMisses int
	BoostActive       bool
	BoostsApplied     int // total triggers this session
}

type appliedBoost struct {
	entry EntryID
	delta float64
}

// PityController tracks the miss streak and mutates pool weights.
// States: Normal and Boosted (Boosted only in ModeSelfReverting).
type PityController struct {
	cfg   PityConfig
	state PityState
	// exact deltas added by the last boost, replayed negated on revert
	applied []appliedBoost
}

// NewPityController validates cfg and returns a controller in the Normal
// state with no misses.
func NewPityController(cfg PityConfig) (*PityController, error) {
	if cfg.Boosts != nil {
		boosts := make(map[Rarity]float64, len(cfg.Boosts))
		for r, b := range cfg.Boosts {
			boosts[r] = b
		}
		cfg.Boosts = boosts
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &PityController{cfg: cfg}, nil
}

// Config returns a copy of the rules in effect.
func (pc *PityController) Config() PityConfig {
	c := pc.cfg
	c.Boosts = make(map[Rarity]float64, len(pc.cfg.Boosts))
	for r, b := range pc.cfg.Boosts {
		c.Boosts[r] = b
	}
	return c
}

// State returns the current bookkeeping.
func (pc *PityController) State() PityState { return pc.state }

// BeforeDraw runs before sampling. In the Boosted state it restores the
// pool to pre-boost weights and returns true.
func (pc *PityController) BeforeDraw(pool *WeightedPool) (bool, error) {
	if !pc.state.BoostActive {
		return false, nil
	}
	if err := pc.revert(pool); err != nil {
		return false, err
	}
	return true, nil
}

// AfterDraw tallies the drawn item and applies a boost when the streak
// reaches the trigger. reverted reports whether BeforeDraw just left the
// Boosted state. It returns true when a boost was applied.
func (pc *PityController) AfterDraw(pool *WeightedPool, drawn *Item, reverted bool) (bool, error) {
	if reverted && pc.cfg.Tally == TallyResetOnRevert {
		pc.state.ConsecutiveMisses = 0
		return false, nil
	}
	if drawn.Rarity() >= pc.cfg.HighRarity {
		pc.state.ConsecutiveMisses = 0
		return false, nil
	}
	pc.state.ConsecutiveMisses++
	if pc.state.ConsecutiveMisses < pc.cfg.Trigger {
		return false, nil
	}
	if err := pc.boost(pool); err != nil {
		return false, err
	}
	pc.state.ConsecutiveMisses = 0
	return true, nil
}

// boost adds the configured per-tier delta to every entry at or above the
// high-rarity threshold.
func (pc *PityController) boost(pool *WeightedPool) error {
	var applied []appliedBoost
	for _, e := range pool.Entries() {
		r := e.Item.Rarity()
		if r < pc.cfg.HighRarity {
			continue
		}
		delta := pc.cfg.Boosts[r]
		if delta == 0 {
			continue
		}
		if err := pool.AdjustWeight(e.ID, delta); err != nil {
			return err
		}
		applied = append(applied, appliedBoost{entry: e.ID, delta: delta})
	}
	pc.state.BoostsApplied++
	if pc.cfg.Mode == ModeSelfReverting {
		pc.applied = applied
		pc.state.BoostActive = true
	}
	return nil
}

// revert subtracts exactly what the last boost added.
func (pc *PityController) revert(pool *WeightedPool) error {
	if !pc.state.BoostActive {
		return ErrBoostNotActive
	}
	for i := len(pc.applied) - 1; i >= 0; i-- {
		a := pc.applied[i]
		if err := pool.AdjustWeight(a.entry, -a.delta); err != nil {
			return fmt.Errorf("revert boost: %w", err)
		}
	}
	pc.applied = nil
	pc.state.BoostActive = false
	return nil
}

// boostedTiers lists the tiers that receive a non-zero boost, ascending.
func (pc *PityController) boostedTiers() []Rarity {
	var out []Rarity
	for r, b := range pc.cfg.Boosts {
		if r >= pc.cfg.HighRarity && b > 0 {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

package gacha

import (
	"fmt"
	"sync"
)

// EngineConfig describes one draw engine.
type EngineConfig struct {
	Catalog  Catalog
	Strategy Strategy
	Pity     PityConfig
	RNG      RandomSource // nil => entropy-seeded PCG
}

// DrawResult reports one pull through the engine.
type DrawResult struct {
	Entry    EntryID
	Item     *Item
	Reverted bool     // a boost was removed before sampling
	Boosted  bool     // this draw armed a new boost
	Tiers    []Rarity // tiers boosted, when Boosted
	Pity     PityState
}

// Engine binds a WeightedPool and its PityController. One lock covers a
// whole draw so revert, sample and boost are observed as a single step.
type Engine struct {
	mu   sync.Mutex
	pool *WeightedPool
	pity *PityController
}

// NewEngine builds the pool from the catalog and validates the pity rules.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	pity, err := NewPityController(cfg.Pity)
	if err != nil {
		return nil, err
	}
	pool := NewWeightedPool(cfg.RNG)
	if err := cfg.Catalog.Build(pool, cfg.Strategy); err != nil {
		return nil, fmt.Errorf("build pool: %w", err)
	}
	return &Engine{pool: pool, pity: pity}, nil
}

// NewEngineWithPool wraps an already populated pool.
func NewEngineWithPool(pool *WeightedPool, pc PityConfig) (*Engine, error) {
	if pool == nil {
		return nil, ErrEmptyPool
	}
	pity, err := NewPityController(pc)
	if err != nil {
		return nil, err
	}
	return &Engine{pool: pool, pity: pity}, nil
}

// Draw runs one full pity cycle: revert a pending boost, sample, tally and
// maybe boost again. Any error is an invariant violation.
func (e *Engine) Draw() (DrawResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drawLocked()
}

// DrawN performs n draws under one lock. n < 1 draws nothing.
func (e *Engine) DrawN(n int) ([]DrawResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []DrawResult
	for i := 0; i < n; i++ {
		res, err := e.drawLocked()
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (e *Engine) drawLocked() (DrawResult, error) {
	reverted, err := e.pity.BeforeDraw(e.pool)
	if err != nil {
		return DrawResult{}, err
	}
	id, item, err := e.pool.Sample()
	if err != nil {
		return DrawResult{}, err
	}
	boosted, err := e.pity.AfterDraw(e.pool, item, reverted)
	if err != nil {
		return DrawResult{}, err
	}
	res := DrawResult{
		Entry:    id,
		Item:     item,
		Reverted: reverted,
		Boosted:  boosted,
		Pity:     e.pity.State(),
	}
	if boosted {
		res.Tiers = e.pity.boostedTiers()
	}
	return res, nil
}

// State returns the pity bookkeeping.
func (e *Engine) State() PityState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pity.State()
}

// PityConfig returns the rules in effect.
func (e *Engine) PityConfig() PityConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pity.Config()
}

// Entries returns a weight snapshot of the pool.
func (e *Engine) Entries() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Entries()
}

// TotalWeight returns the pool's cached total.
func (e *Engine) TotalWeight() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.TotalWeight()
}

// TierOdds returns the current draw probability per rarity tier.
func (e *Engine) TierOdds() map[Rarity]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[Rarity]float64)
	total := e.pool.TotalWeight()
	if !(total > 0) {
		return out
	}
	for _, en := range e.pool.Entries() {
		out[en.Item.Rarity()] += en.Weight / total
	}
	return out
}

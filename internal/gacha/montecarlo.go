package gacha

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// TrialGoal selects what the simulation measures per trial.
type TrialGoal string

const (
	// Draws until the first item at or above the target tier.
	GoalFirstHit TrialGoal = "first_hit"
	// Given a fixed budget N, count items at or above the target tier.
	GoalFixedBudget TrialGoal = "fixed_budget"
)

// ErrSimGoal is returned for a TrialGoal the simulator does not know.
var ErrSimGoal = errors.New("gacha: unknown simulation goal")

// defaultMaxDraws caps one GoalFirstHit trial.
const defaultMaxDraws = 100000

// SimParams describes the mechanics for one simulation run.
type SimParams struct {
	Catalog  Catalog
	Strategy Strategy
	Pity     PityConfig

	// Target tier that counts as a hit; 0 means Pity.HighRarity.
	Target Rarity
	// Seed > 0 makes the run reproducible: trial i uses Seed+i.
	Seed uint64
	// MaxDraws caps a GoalFirstHit trial; <= 0 uses defaultMaxDraws.
	MaxDraws int
}

// SimBudget controls the number of draws used in GoalFixedBudget.
type SimBudget struct {
	NumDraws int // number of draws in one trial
}

// Stats summarizes simulation results.
type Stats struct {
	Trials int
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// calcStats summarizes integer samples. Variance is the population
// variance, accumulated in one pass.
func calcStats(xs []int) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	var mean, m2 float64
	for k, v := range xs {
		x := float64(v)
		d := x - mean
		mean += d / float64(k+1)
		m2 += d * (x - mean)
	}
	variance := m2 / float64(len(xs))

	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	return Stats{
		Trials:  len(xs),
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(sorted, 0.50),
		P90:     percentile(sorted, 0.90),
		P99:     percentile(sorted, 0.99),
		Samples: xs,
	}
}

// percentile interpolates linearly between closest ranks of sorted.
func percentile(sorted []int, q float64) float64 {
	last := len(sorted) - 1
	switch {
	case last == 0 || q <= 0:
		return float64(sorted[0])
	case q >= 1:
		return float64(sorted[last])
	}
	pos := q * float64(last)
	lo := int(pos)
	if lo >= last {
		return float64(sorted[last])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}

// newTrialEngine constructs a fresh engine for trial i.
func newTrialEngine(p SimParams, i int) (*Engine, error) {
	var rng RandomSource
	if p.Seed > 0 {
		rng = NewSeededRNG(p.Seed + uint64(i))
	}
	return NewEngine(EngineConfig{
		Catalog:  p.Catalog,
		Strategy: p.Strategy,
		Pity:     p.Pity,
		RNG:      rng,
	})
}

// simulateOne returns the metric for one trial depending on the goal.
// - GoalFirstHit: number of draws until the first target-tier item
// - GoalFixedBudget: number of target-tier items within budget.NumDraws
func simulateOne(p SimParams, i int, goal TrialGoal, budget *SimBudget) (int, error) {
	eng, err := newTrialEngine(p, i)
	if err != nil {
		return 0, err
	}
	target := p.Target
	if target == 0 {
		target = eng.PityConfig().HighRarity
	}

	switch goal {
	case GoalFirstHit:
		limit := p.MaxDraws
		if limit <= 0 {
			limit = defaultMaxDraws
		}
		for draws := 1; draws <= limit; draws++ {
			res, err := eng.Draw()
			if err != nil {
				return 0, err
			}
			if res.Item.Rarity() >= target {
				return draws, nil
			}
		}
		return limit, nil

	case GoalFixedBudget:
		if budget == nil || budget.NumDraws <= 0 {
			return 0, nil
		}
		results, err := eng.DrawN(budget.NumDraws)
		if err != nil {
			return 0, err
		}
		count := 0
		for _, res := range results {
			if res.Item.Rarity() >= target {
				count++
			}
		}
		return count, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrSimGoal, goal)
}

// RunMonteCarlo repeats trials on fresh engines and returns summary stats.
func RunMonteCarlo(p SimParams, goal TrialGoal, trials int, budget *SimBudget) (Stats, error) {
	if goal != GoalFirstHit && goal != GoalFixedBudget {
		return Stats{}, fmt.Errorf("%w: %q", ErrSimGoal, goal)
	}
	if trials <= 0 {
		return Stats{}, nil
	}
	samples := make([]int, trials)
	for i := 0; i < trials; i++ {
		v, err := simulateOne(p, i, goal, budget)
		if err != nil {
			return Stats{}, err
		}
		samples[i] = v
	}
	return calcStats(samples), nil
}

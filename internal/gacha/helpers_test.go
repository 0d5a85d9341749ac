package gacha

import (
	"math"
	"testing"
)

// scriptedRNG replays fixed values, then repeats the last one.
type scriptedRNG struct {
	vals   []float64
	i      int
	before func()
}

func (s *scriptedRNG) Float64() float64 {
	if s.before != nil {
		s.before()
	}
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.i]
	if s.i < len(s.vals)-1 {
		s.i++
	}
	return v
}

func mustAdd(t *testing.T, p *WeightedPool, name string, r Rarity, w float64) EntryID {
	t.Helper()
	id, err := p.AddEntry(NewItem(name, r), w)
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return id
}

func sumWeights(p *WeightedPool) float64 {
	var s float64
	for _, e := range p.Entries() {
		s += e.Weight
	}
	return s
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func nan() float64 { return math.NaN() }
func inf() float64 { return math.Inf(1) }

package gacha

import (
	"errors"
	"testing"
)

func TestPoolSampleEmpty(t *testing.T) {
	p := NewWeightedPool(NewSeededRNG(1))
	if _, _, err := p.Sample(); !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("empty pool: want ErrEmptyPool, got %v", err)
	}
	mustAdd(t, p, "Ghost", Common, 0)
	if _, _, err := p.Sample(); !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("zero total: want ErrEmptyPool, got %v", err)
	}
	if !IsInvariantViolation(ErrEmptyPool) {
		t.Fatalf("ErrEmptyPool must classify as invariant violation")
	}
}

func TestPoolAddEntryRejectsBadWeight(t *testing.T) {
	p := NewWeightedPool(NewSeededRNG(1))
	for _, w := range []float64{-1, nan(), inf()} {
		if _, err := p.AddEntry(NewItem("x", Common), w); !errors.Is(err, ErrInvalidWeight) {
			t.Fatalf("weight %v: want ErrInvalidWeight, got %v", w, err)
		}
	}
	if _, err := p.AddEntry(nil, 1); err == nil {
		t.Fatalf("nil item must error")
	}
	if p.Len() != 0 || p.TotalWeight() != 0 {
		t.Fatalf("rejected entries must not change the pool")
	}
}

func TestPoolSampleFrequency(t *testing.T) {
	const n = 100000
	p := NewWeightedPool(NewSeededRNG(42))
	first := mustAdd(t, p, "A", Common, 60)
	mustAdd(t, p, "B", Common, 40)
	hit := 0
	for i := 0; i < n; i++ {
		id, _, err := p.Sample()
		if err != nil {
			t.Fatal(err)
		}
		if id == first {
			hit++
		}
	}
	freq := float64(hit) / float64(n)
	// should be around 0.6
	if diff := freq - 0.6; diff > 0.01 || diff < -0.01 {
		t.Fatalf("freq=%f not close to 0.6", freq)
	}
}

func TestPoolSampleBoundaries(t *testing.T) {
	rng := &scriptedRNG{}
	p := NewWeightedPool(rng)
	mustAdd(t, p, "Zero", Common, 0)
	a := mustAdd(t, p, "A", Common, 1)
	mustAdd(t, p, "Gap", Common, 0)
	b := mustAdd(t, p, "B", Rare, 1)
	mustAdd(t, p, "Tail", Common, 0)

	cases := []struct {
		r    float64
		want EntryID
	}{
		{0, a},                  // never the leading zero-weight entry
		{0.25, a},               // inside A
		{0.5, a},                // exact boundary resolves to the earlier entry
		{0.75, b},               // inside B
		{0.9999999999999999, b}, // top of the line is B, never the zero tail
		{1, b},                  // clamped below total
	}
	for _, c := range cases {
		rng.vals, rng.i = []float64{c.r}, 0
		got, _, err := p.Sample()
		if err != nil {
			t.Fatalf("r=%v: %v", c.r, err)
		}
		if got != c.want {
			t.Fatalf("r=%v: got entry %d want %d", c.r, got, c.want)
		}
	}
}

func TestPoolAdjustWeight(t *testing.T) {
	p := NewWeightedPool(NewSeededRNG(1))
	a := mustAdd(t, p, "A", Common, 10)
	mustAdd(t, p, "B", Epic, 5)

	if err := p.AdjustWeight(a, 2.5); err != nil {
		t.Fatal(err)
	}
	if w, _ := p.Weight(a); w != 12.5 {
		t.Fatalf("weight=%v want 12.5", w)
	}
	if p.TotalWeight() != 17.5 {
		t.Fatalf("total=%v want 17.5", p.TotalWeight())
	}

	err := p.AdjustWeight(a, -13)
	var adj *AdjustmentError
	if !errors.As(err, &adj) || !errors.Is(err, ErrInvalidAdjustment) {
		t.Fatalf("want AdjustmentError, got %v", err)
	}
	if adj.Entry != a || adj.Delta != -13 {
		t.Fatalf("unexpected error detail: %+v", adj)
	}
	if w, _ := p.Weight(a); w != 12.5 {
		t.Fatalf("rejected adjustment changed weight to %v", w)
	}
	if err := p.AdjustWeight(a, -12.5); err != nil {
		t.Fatalf("adjusting to exactly zero must be allowed: %v", err)
	}
	if err := p.AdjustWeight(EntryID(9), 1); !errors.Is(err, ErrUnknownEntry) {
		t.Fatalf("want ErrUnknownEntry, got %v", err)
	}
}

func TestPoolTotalMatchesSum(t *testing.T) {
	rng := NewSeededRNG(7)
	p := NewWeightedPool(NewSeededRNG(8))
	for i := 0; i < 2000; i++ {
		if p.Len() == 0 || rng.Float64() < 0.3 {
			mustAdd(t, p, "x", Rarity(1+i%6), rng.Float64()*100)
		} else {
			id := EntryID(int(rng.Float64() * float64(p.Len())))
			w, _ := p.Weight(id)
			delta := (rng.Float64()*2 - 1) * 50
			err := p.AdjustWeight(id, delta)
			if w+delta < 0 && err == nil {
				t.Fatalf("step %d: negative result accepted", i)
			}
		}
		if !approxEqual(p.TotalWeight(), sumWeights(p)) {
			t.Fatalf("step %d: total=%v sum=%v", i, p.TotalWeight(), sumWeights(p))
		}
		for _, e := range p.Entries() {
			if e.Weight < 0 {
				t.Fatalf("step %d: entry %d negative weight %v", i, e.ID, e.Weight)
			}
		}
	}
}

func TestPoolDrainedTotalIsExactlyZero(t *testing.T) {
	p := NewWeightedPool(NewSeededRNG(1))
	a := mustAdd(t, p, "A", Common, 0.1)
	b := mustAdd(t, p, "B", Rare, 0.7)
	if err := p.AdjustWeight(b, -0.7); err != nil {
		t.Fatal(err)
	}
	if err := p.AdjustWeight(a, -0.1); err != nil {
		t.Fatal(err)
	}
	if p.TotalWeight() != 0 {
		t.Fatalf("total=%v want exactly 0", p.TotalWeight())
	}
	if _, _, err := p.Sample(); !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("want ErrEmptyPool, got %v", err)
	}
}

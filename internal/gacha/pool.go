package gacha

import (
	"fmt"
	"math"
)

// EntryID is a stable handle to one pool entry. Handles are issued in
// insertion order and never reused.
type EntryID int

// Entry is a read-only snapshot of one pool entry.
type Entry struct {
	ID     EntryID
	Item   *Item
	Weight float64
}

type poolEntry struct {
	item   *Item
	weight float64
}

// WeightedPool holds the draw distribution. Entries are laid out along the
// number line [0, total) in insertion order; a draw picks the first entry
// whose running sum reaches a uniform point. A point on a boundary belongs
// to the earlier entry.
//
// WeightedPool is not safe for concurrent use. Engine guards it.
type WeightedPool struct {
	entries []poolEntry
	total   float64
	rng     RandomSource
}

// NewWeightedPool creates an empty pool that owns rng.
// If rng is nil a fresh entropy-seeded generator is used.
func NewWeightedPool(rng RandomSource) *WeightedPool {
	if rng == nil {
		rng = NewEntropyRNG()
	}
	return &WeightedPool{rng: rng}
}

// AddEntry appends item with the given weight. The same item may be added
// more than once; each call creates an independent entry. A zero weight is
// accepted but the entry is never selected.
func (p *WeightedPool) AddEntry(item *Item, weight float64) (EntryID, error) {
	if item == nil {
		return 0, fmt.Errorf("add entry: nil item")
	}
	if err := validateWeight(weight); err != nil {
		return 0, fmt.Errorf("add entry %q: %w", item.Name(), err)
	}
	p.entries = append(p.entries, poolEntry{item: item, weight: weight})
	p.total += weight
	return EntryID(len(p.entries) - 1), nil
}

// Sample draws one entry. It fails with ErrEmptyPool when there is nothing
// selectable.
func (p *WeightedPool) Sample() (EntryID, *Item, error) {
	if len(p.entries) == 0 || !(p.total > 0) {
		return 0, nil, ErrEmptyPool
	}
	r := p.rng.Float64() * p.total
	// keep r inside the half-open interval [0, total)
	if r >= p.total {
		r = math.Nextafter(p.total, 0)
	}
	if r < 0 {
		r = 0
	}

	last := -1
	var c float64
	for i, e := range p.entries {
		if e.weight <= 0 {
			continue
		}
		last = i
		c += e.weight
		if r <= c {
			return EntryID(i), e.item, nil
		}
	}
	// The running sum can land a few ulps under the cached total; the
	// remainder of the number line belongs to the last selectable entry.
	if last < 0 {
		return 0, nil, ErrEmptyPool
	}
	return EntryID(last), p.entries[last].item, nil
}

// AdjustWeight adds delta to one entry and to the total. A result below
// zero is rejected with an *AdjustmentError and nothing changes.
func (p *WeightedPool) AdjustWeight(id EntryID, delta float64) error {
	if int(id) < 0 || int(id) >= len(p.entries) {
		return fmt.Errorf("adjust entry %d: %w", id, ErrUnknownEntry)
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return &AdjustmentError{Entry: id, Weight: p.entries[id].weight, Delta: delta}
	}
	e := &p.entries[id]
	next := e.weight + delta
	if next < 0 {
		// absorb rounding left over from an exact revert
		if next > -weightEpsilon(e.weight, delta) {
			next = 0
		} else {
			return &AdjustmentError{Entry: id, Weight: e.weight, Delta: delta}
		}
	}
	p.total += next - e.weight
	e.weight = next
	if next == 0 || p.total < 0 {
		// resync so a drained pool reports exactly zero
		p.total = p.sum()
	}
	return nil
}

func (p *WeightedPool) sum() float64 {
	var s float64
	for _, e := range p.entries {
		s += e.weight
	}
	return s
}

func weightEpsilon(w, delta float64) float64 {
	return 1e-12 * math.Max(1, math.Max(math.Abs(w), math.Abs(delta)))
}

// Weight returns the current weight of one entry.
func (p *WeightedPool) Weight(id EntryID) (float64, error) {
	if int(id) < 0 || int(id) >= len(p.entries) {
		return 0, ErrUnknownEntry
	}
	return p.entries[id].weight, nil
}

// TotalWeight returns the cached sum of all entry weights.
func (p *WeightedPool) TotalWeight() float64 { return p.total }

// Len returns the number of entries.
func (p *WeightedPool) Len() int { return len(p.entries) }

// Entries returns a snapshot in insertion order.
func (p *WeightedPool) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	for i, e := range p.entries {
		out[i] = Entry{ID: EntryID(i), Item: e.item, Weight: e.weight}
	}
	return out
}

// Probability returns the current draw probability of one entry.
func (p *WeightedPool) Probability(id EntryID) float64 {
	if int(id) < 0 || int(id) >= len(p.entries) || !(p.total > 0) {
		return 0
	}
	return p.entries[id].weight / p.total
}

// Package ledger holds a player's currency balance and bounded inventory.
package ledger

import (
	"errors"

	"github.com/xtding233/gacha-economy/internal/gacha"
)

var (
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	ErrInventoryFull     = errors.New("ledger: inventory full")
	ErrInvalidSlot       = errors.New("ledger: invalid inventory slot")
	ErrInvalidAmount     = errors.New("ledger: invalid amount")
)

const (
	DefaultInitialCurrency = 100
	DefaultCapacity        = 15
)

// sellValues maps rarity tier to refund.
var sellValues = map[gacha.Rarity]int{
	gacha.Common:    5,
	gacha.Uncommon:  10,
	gacha.Rare:      20,
	gacha.Epic:      50,
	gacha.Legendary: 100,
	gacha.Mythical:  150,
}

// SellValue is the refund for one item of tier r; unknown tiers are worth 0.
func SellValue(r gacha.Rarity) int { return sellValues[r] }

// Ledger is not safe for concurrent use; session.Session serializes access.
type Ledger struct {
	currency  int
	capacity  int
	inventory []*gacha.Item
}

// New creates a ledger with the initial grant and capacity. Non-positive
// capacity falls back to DefaultCapacity; a negative grant is clamped to 0.
func New(initialCurrency, capacity int) *Ledger {
	if initialCurrency < 0 {
		initialCurrency = 0
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ledger{
		currency:  initialCurrency,
		capacity:  capacity,
		inventory: make([]*gacha.Item, 0, capacity),
	}
}

func (l *Ledger) Currency() int { return l.currency }
func (l *Ledger) Capacity() int { return l.capacity }
func (l *Ledger) Len() int      { return len(l.inventory) }
func (l *Ledger) Free() int     { return l.capacity - len(l.inventory) }
func (l *Ledger) Full() bool    { return len(l.inventory) >= l.capacity }

// CanAfford checks a prospective debit without applying it.
func (l *Ledger) CanAfford(cost int) error {
	if cost < 0 {
		return ErrInvalidAmount
	}
	if l.currency < cost {
		return ErrInsufficientFunds
	}
	return nil
}

// CanHold checks that n more items fit.
func (l *Ledger) CanHold(n int) error {
	if n < 0 {
		return ErrInvalidAmount
	}
	if n > l.capacity-len(l.inventory) {
		return ErrInventoryFull
	}
	return nil
}

// Debit removes cost from the balance.
func (l *Ledger) Debit(cost int) error {
	if err := l.CanAfford(cost); err != nil {
		return err
	}
	l.currency -= cost
	return nil
}

// Credit adds amount to the balance.
func (l *Ledger) Credit(amount int) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	l.currency += amount
	return nil
}

// Add appends an item; capacity is enforced first.
func (l *Ledger) Add(item *gacha.Item) error {
	if err := l.CanHold(1); err != nil {
		return err
	}
	l.inventory = append(l.inventory, item)
	return nil
}

// Sale reports one sold item.
type Sale struct {
	Item   *gacha.Item
	Refund int
}

// Sell removes the item at 1-based slot and credits its refund.
func (l *Ledger) Sell(slot int) (Sale, error) {
	if slot < 1 || slot > len(l.inventory) {
		return Sale{}, ErrInvalidSlot
	}
	item := l.inventory[slot-1]
	l.inventory = append(l.inventory[:slot-1], l.inventory[slot:]...)
	refund := SellValue(item.Rarity())
	l.currency += refund
	return Sale{Item: item, Refund: refund}, nil
}

// Inventory returns a snapshot in acquisition order.
func (l *Ledger) Inventory() []*gacha.Item {
	return append([]*gacha.Item(nil), l.inventory...)
}

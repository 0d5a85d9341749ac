package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/xtding233/gacha-economy/internal/gacha"
)

func TestLedgerDefaults(t *testing.T) {
	l := New(DefaultInitialCurrency, 0)
	if l.Currency() != 100 || l.Capacity() != 15 || l.Len() != 0 {
		t.Fatalf("unexpected ledger: currency=%d capacity=%d len=%d", l.Currency(), l.Capacity(), l.Len())
	}
	if New(-5, 3).Currency() != 0 {
		t.Fatalf("negative grant must clamp to zero")
	}
}

func TestLedgerDebitNeverNegative(t *testing.T) {
	l := New(15, 15)
	if err := l.Debit(10); err != nil {
		t.Fatal(err)
	}
	if err := l.Debit(10); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if l.Currency() != 5 {
		t.Fatalf("failed debit changed balance to %d", l.Currency())
	}
	if err := l.Debit(-1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	if err := l.Credit(-1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
}

func TestLedgerCapacity(t *testing.T) {
	l := New(0, 2)
	item := gacha.NewItem("Torch", gacha.Uncommon)
	for i := 0; i < 2; i++ {
		if err := l.Add(item); err != nil {
			t.Fatal(err)
		}
	}
	if !l.Full() || l.Free() != 0 {
		t.Fatalf("ledger should be full")
	}
	if err := l.Add(item); !errors.Is(err, ErrInventoryFull) {
		t.Fatalf("want ErrInventoryFull, got %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("len=%d want 2", l.Len())
	}
}

func TestLedgerSell(t *testing.T) {
	l := New(0, 15)
	rare := gacha.NewItem("Fire Sword", gacha.Rare)
	common := gacha.NewItem("Small Rock", gacha.Common)
	_ = l.Add(common)
	_ = l.Add(rare)
	_ = l.Add(common)

	for _, slot := range []int{0, 4, -1} {
		if _, err := l.Sell(slot); !errors.Is(err, ErrInvalidSlot) {
			t.Fatalf("slot %d: want ErrInvalidSlot, got %v", slot, err)
		}
	}
	if l.Len() != 3 || l.Currency() != 0 {
		t.Fatalf("invalid sell mutated ledger")
	}

	sale, err := l.Sell(2)
	if err != nil {
		t.Fatal(err)
	}
	if sale.Item != rare || sale.Refund != 20 {
		t.Fatalf("unexpected sale: %+v", sale)
	}
	if l.Currency() != 20 || l.Len() != 2 {
		t.Fatalf("currency=%d len=%d", l.Currency(), l.Len())
	}
	inv := l.Inventory()
	if inv[0] != common || inv[1] != common {
		t.Fatalf("remaining order wrong: %v", inv)
	}
}

func TestSellValues(t *testing.T) {
	want := map[gacha.Rarity]int{1: 5, 2: 10, 3: 20, 4: 50, 5: 100, 6: 150, 7: 0, 0: 0}
	for r, v := range want {
		if got := SellValue(r); got != v {
			t.Fatalf("tier %d: got %d want %d", r, got, v)
		}
	}
}

func TestLedgerCanHoldHugeCount(t *testing.T) {
	l := New(0, 15)
	_ = l.Add(gacha.NewItem("Torch", gacha.Uncommon))
	if err := l.CanHold(14); err != nil {
		t.Fatalf("14 more should fit: %v", err)
	}
	for _, n := range []int{15, math.MaxInt} {
		if err := l.CanHold(n); !errors.Is(err, ErrInventoryFull) {
			t.Fatalf("n=%d: want ErrInventoryFull, got %v", n, err)
		}
	}
}

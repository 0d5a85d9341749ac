// Package session runs one play session: a draw engine, the player's
// ledger and the pull price, kept consistent under a single lock.
package session

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/xtding233/gacha-economy/internal/gacha"
	"github.com/xtding233/gacha-economy/internal/game"
	"github.com/xtding233/gacha-economy/internal/ledger"
	"github.com/xtding233/gacha-economy/internal/token"
)

// ErrInvalidCount rejects multi-pulls of fewer than one item.
var ErrInvalidCount = errors.New("session: pull count must be >= 1")

// PullResult is what the UI needs after one pull.
type PullResult struct {
	Item             *gacha.Item
	Cost             int
	NewCurrency      int
	NewInventorySize int
	PityActivated    bool
	Pity             gacha.PityState
}

// MultiPullResult reports an n-pull.
type MultiPullResult struct {
	Items            []*gacha.Item
	Cost             int
	NewCurrency      int
	NewInventorySize int
	PityActivations  int
	Pity             gacha.PityState
}

// SellResult reports one sale.
type SellResult struct {
	ItemName     string
	Rarity       gacha.Rarity
	RefundAmount int
	NewCurrency  int
}

// InventoryEntry is one line of the inventory listing.
type InventoryEntry struct {
	Slot   int // 1-based
	Name   string
	Rarity gacha.Rarity
}

// Session is safe for concurrent use.
type Session struct {
	ID       uuid.UUID
	settings game.Settings

	mu     sync.Mutex
	engine *gacha.Engine
	ledger *ledger.Ledger
	price  token.Token
	logger *log.Logger
	broken error // first invariant violation; the session refuses pulls after it
}

// New builds a session from settings. A nil logger writes to the standard
// logger's output with a "session <id> " prefix.
func New(settings game.Settings, logger *log.Logger) (*Session, error) {
	return NewWithEngineConfig(settings, settings.EngineConfig(), logger)
}

// NewWithEngineConfig is New with an explicit engine description, e.g. a
// custom catalog or a scripted RNG in tests.
func NewWithEngineConfig(settings game.Settings, ec gacha.EngineConfig, logger *log.Logger) (*Session, error) {
	eng, err := gacha.NewEngine(ec)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	id := uuid.New()
	if logger == nil {
		logger = log.New(log.Writer(), "session "+id.String()+" ", log.Flags())
	}
	return &Session{
		ID:       id,
		settings: settings,
		engine:   eng,
		ledger:   ledger.New(settings.InitialCurrency, settings.Capacity),
		price:    settings.Price(),
		logger:   logger,
	}, nil
}

// Settings returns the settings the session was built from.
func (s *Session) Settings() game.Settings { return s.settings }

// Pull draws one item at the configured single-pull price.
func (s *Session) Pull() (PullResult, error) {
	return s.PullAt(s.price.TokensForDraws(1))
}

// PullAt draws one item for cost. Capacity and funds are checked first; a
// failed check leaves currency, inventory and pity state untouched.
func (s *Session) PullAt(cost int) (PullResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.broken != nil {
		return PullResult{}, s.broken
	}
	if err := s.ledger.CanHold(1); err != nil {
		return PullResult{}, err
	}
	if err := s.ledger.CanAfford(cost); err != nil {
		return PullResult{}, err
	}

	res, err := s.engine.Draw()
	if err != nil {
		return PullResult{}, s.fail(err)
	}
	s.note(res)
	if err := s.ledger.Debit(cost); err != nil {
		return PullResult{}, s.fail(err)
	}
	if err := s.ledger.Add(res.Item); err != nil {
		return PullResult{}, s.fail(err)
	}
	return PullResult{
		Item:             res.Item,
		Cost:             cost,
		NewCurrency:      s.ledger.Currency(),
		NewInventorySize: s.ledger.Len(),
		PityActivated:    res.Boosted,
		Pity:             res.Pity,
	}, nil
}

// PullMany draws n items at the bundle price. Either all n are drawn and
// paid for, or nothing changes.
func (s *Session) PullMany(n int) (MultiPullResult, error) {
	if n < 1 {
		return MultiPullResult{}, ErrInvalidCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.broken != nil {
		return MultiPullResult{}, s.broken
	}
	// n is bounded by capacity from here on, so pricing cannot overflow
	if err := s.ledger.CanHold(n); err != nil {
		return MultiPullResult{}, err
	}
	cost := s.price.TokensForDraws(n)
	if err := s.ledger.CanAfford(cost); err != nil {
		return MultiPullResult{}, err
	}

	results, err := s.engine.DrawN(n)
	if err != nil {
		return MultiPullResult{}, s.fail(err)
	}
	if err := s.ledger.Debit(cost); err != nil {
		return MultiPullResult{}, s.fail(err)
	}
	out := MultiPullResult{Cost: cost}
	for _, res := range results {
		s.note(res)
		if err := s.ledger.Add(res.Item); err != nil {
			return MultiPullResult{}, s.fail(err)
		}
		out.Items = append(out.Items, res.Item)
		if res.Boosted {
			out.PityActivations++
		}
		out.Pity = res.Pity
	}
	out.NewCurrency = s.ledger.Currency()
	out.NewInventorySize = s.ledger.Len()
	return out, nil
}

// Sell sells the item in 1-based slot.
func (s *Session) Sell(slot int) (SellResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, err := s.ledger.Sell(slot)
	if err != nil {
		return SellResult{}, err
	}
	s.logger.Printf("sold %s for %d", sale.Item.Name(), sale.Refund)
	return SellResult{
		ItemName:     sale.Item.Name(),
		Rarity:       sale.Item.Rarity(),
		RefundAmount: sale.Refund,
		NewCurrency:  s.ledger.Currency(),
	}, nil
}

// Inventory returns a restartable snapshot of the inventory.
func (s *Session) Inventory() []InventoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.ledger.Inventory()
	out := make([]InventoryEntry, len(items))
	for i, it := range items {
		out[i] = InventoryEntry{Slot: i + 1, Name: it.Name(), Rarity: it.Rarity()}
	}
	return out
}

// Currency returns the current balance.
func (s *Session) Currency() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Currency()
}

// Capacity returns the inventory bound.
func (s *Session) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Capacity()
}

// Price returns the pull pricing.
func (s *Session) Price() token.Token { return s.price }

// State returns the pity bookkeeping and current tier odds.
func (s *Session) State() (gacha.PityState, map[gacha.Rarity]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State(), s.engine.TierOdds()
}

// Err returns the invariant violation that stopped the session, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.broken
}

func (s *Session) note(res gacha.DrawResult) {
	if res.Reverted {
		s.logger.Printf("pity boost reverted, odds restored")
	}
	if res.Boosted {
		s.logger.Printf("pity system activated, odds increased for tiers %v", res.Tiers)
	}
}

// fail records err as fatal for the session and returns it.
func (s *Session) fail(err error) error {
	if gacha.IsInvariantViolation(err) {
		s.logger.Printf("draw engine invariant violated: %v", err)
	} else {
		s.logger.Printf("ledger out of sync after draw: %v", err)
	}
	s.broken = fmt.Errorf("session %s aborted: %w", s.ID, err)
	return s.broken
}

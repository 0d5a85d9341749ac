// Package api exposes a session over HTTP/JSON.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/xtding233/gacha-economy/internal/gacha"
	"github.com/xtding233/gacha-economy/internal/ledger"
	"github.com/xtding233/gacha-economy/internal/session"
)

type itemResp struct {
	Name   string `json:"name"`
	Rarity int    `json:"rarity"`
	Label  string `json:"label"`
}

type pullResp struct {
	Item          *itemResp `json:"item,omitempty"`
	Cost          int       `json:"cost,omitempty"`
	Currency      int       `json:"currency"`
	InventorySize int       `json:"inventory_size"`
	PityActivated bool      `json:"pity_activated,omitempty"`
	Misses        int       `json:"misses"`
	Err           string    `json:"err,omitempty"`
}

type multiResp struct {
	Items           []itemResp `json:"items"`
	Cost            int        `json:"cost,omitempty"`
	Currency        int        `json:"currency"`
	InventorySize   int        `json:"inventory_size"`
	PityActivations int        `json:"pity_activations,omitempty"`
	Misses          int        `json:"misses"`
	Err             string     `json:"err,omitempty"`
}

type sellResp struct {
	ItemName string `json:"item_name,omitempty"`
	Refund   int    `json:"refund"`
	Currency int    `json:"currency"`
	Err      string `json:"err,omitempty"`
}

type slotResp struct {
	Slot   int    `json:"slot"`
	Name   string `json:"name"`
	Rarity int    `json:"rarity"`
}

type inventoryResp struct {
	Items    []slotResp `json:"items"`
	Capacity int        `json:"capacity"`
}

type currencyResp struct {
	Currency int `json:"currency"`
}

type stateResp struct {
	SessionID     string             `json:"session_id"`
	Mode          string             `json:"mode"`
	Misses        int                `json:"misses"`
	BoostActive   bool               `json:"boost_active"`
	BoostsApplied int                `json:"boosts_applied"`
	Odds          map[string]float64 `json:"odds"`
	PullCost      int                `json:"pull_cost"`
	TenPullCost   int                `json:"ten_pull_cost"`
}

type simResp struct {
	Goal   string  `json:"goal"`
	Trials int     `json:"trials"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
	Err    string  `json:"err,omitempty"`
}

// Factory builds a fresh session, e.g. from the current config.
type Factory func() (*session.Session, error)

// Server routes HTTP requests to the current session. /reset swaps it.
type Server struct {
	factory Factory

	mu   sync.RWMutex
	sess *session.Session
}

// NewServer builds the first session with factory.
func NewServer(factory Factory) (*Server, error) {
	sess, err := factory()
	if err != nil {
		return nil, err
	}
	return &Server{factory: factory, sess: sess}, nil
}

// Session returns the live session.
func (s *Server) Session() *session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/pull", s.handlePull)
	mux.HandleFunc("/pull_many", s.handlePullMany)
	mux.HandleFunc("/sell", s.handleSell)
	mux.HandleFunc("/inventory", s.handleInventory)
	mux.HandleFunc("/currency", s.handleCurrency)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/simulate", s.handleSimulate)
	mux.HandleFunc("/reset", s.handleReset)
	return mux
}

func parseUint(r *http.Request, key string) (uint64, bool, string) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, false, ""
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return n, true, ""
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, false, ""
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return n, true, ""
}

// statusFor maps session errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, ledger.ErrInventoryFull):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidSlot),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, session.ErrInvalidCount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func toItem(it *gacha.Item) itemResp {
	return itemResp{Name: it.Name(), Rarity: int(it.Rarity()), Label: it.Rarity().String()}
}

// single pull; optional cost overrides the configured price
func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	sess := s.Session()
	cost, hasCost, msg := parseInt(r, "cost")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if !hasCost {
		cost = sess.Price().TokensForDraws(1)
	}
	res, err := sess.PullAt(cost)
	if err != nil {
		pity, _ := sess.State()
		writeJSON(w, statusFor(err), pullResp{
			Currency:      sess.Currency(),
			InventorySize: len(sess.Inventory()),
			Misses:        pity.ConsecutiveMisses,
			Err:           err.Error(),
		})
		return
	}
	item := toItem(res.Item)
	writeJSON(w, http.StatusOK, pullResp{
		Item:          &item,
		Cost:          res.Cost,
		Currency:      res.NewCurrency,
		InventorySize: res.NewInventorySize,
		PityActivated: res.PityActivated,
		Misses:        res.Pity.ConsecutiveMisses,
	})
}

// n pulls at bundle price, default 10
func (s *Server) handlePullMany(w http.ResponseWriter, r *http.Request) {
	sess := s.Session()
	n, ok, msg := parseInt(r, "n")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if !ok {
		n = 10
	}
	res, err := sess.PullMany(n)
	if err != nil {
		writeJSON(w, statusFor(err), multiResp{
			Items:         []itemResp{},
			Currency:      sess.Currency(),
			InventorySize: len(sess.Inventory()),
			Err:           err.Error(),
		})
		return
	}
	items := make([]itemResp, len(res.Items))
	for i, it := range res.Items {
		items[i] = toItem(it)
	}
	writeJSON(w, http.StatusOK, multiResp{
		Items:           items,
		Cost:            res.Cost,
		Currency:        res.NewCurrency,
		InventorySize:   res.NewInventorySize,
		PityActivations: res.PityActivations,
		Misses:          res.Pity.ConsecutiveMisses,
	})
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	sess := s.Session()
	slot, ok, msg := parseInt(r, "slot")
	if !ok {
		if msg == "" {
			msg = "missing param slot"
		}
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	res, err := sess.Sell(slot)
	if err != nil {
		writeJSON(w, statusFor(err), sellResp{Currency: sess.Currency(), Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sellResp{
		ItemName: res.ItemName,
		Refund:   res.RefundAmount,
		Currency: res.NewCurrency,
	})
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	sess := s.Session()
	inv := sess.Inventory()
	out := inventoryResp{Items: make([]slotResp, len(inv)), Capacity: sess.Capacity()}
	for i, e := range inv {
		out.Items[i] = slotResp{Slot: e.Slot, Name: e.Name, Rarity: int(e.Rarity)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCurrency(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currencyResp{Currency: s.Session().Currency()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.Session()
	pity, odds := sess.State()
	out := stateResp{
		SessionID:     sess.ID.String(),
		Mode:          sess.Settings().PityMode,
		Misses:        pity.ConsecutiveMisses,
		BoostActive:   pity.BoostActive,
		BoostsApplied: pity.BoostsApplied,
		Odds:          make(map[string]float64, len(odds)),
		PullCost:      sess.Price().TokensForDraws(1),
		TenPullCost:   sess.Price().TokensForDraws(10),
	}
	for r, p := range odds {
		out.Odds[r.String()] = p
	}
	writeJSON(w, http.StatusOK, out)
}

// Monte Carlo over fresh engines built from the live session's settings
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	settings := s.Session().Settings()
	goal := gacha.TrialGoal(r.URL.Query().Get("goal"))
	if goal == "" {
		goal = gacha.GoalFirstHit
	}
	trials, ok, msg := parseInt(r, "trials")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if !ok {
		trials = 1000
	}
	if trials <= 0 || trials > 100000 {
		http.Error(w, "trials must be in [1,100000]", http.StatusBadRequest)
		return
	}
	draws, _, msg := parseInt(r, "draws")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	target, hasTarget, msg := parseInt(r, "target")
	if msg != "" || (hasTarget && !gacha.Rarity(target).Valid()) {
		http.Error(w, "invalid target", http.StatusBadRequest)
		return
	}
	seed, _, msg := parseUint(r, "seed")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	ec := settings.EngineConfig()
	params := gacha.SimParams{
		Catalog:  ec.Catalog,
		Strategy: ec.Strategy,
		Pity:     ec.Pity,
		Target:   gacha.Rarity(target),
		Seed:     seed,
	}
	var budget *gacha.SimBudget
	if goal == gacha.GoalFixedBudget {
		if draws <= 0 {
			draws = 10
		}
		budget = &gacha.SimBudget{NumDraws: draws}
	}
	stats, err := gacha.RunMonteCarlo(params, goal, trials, budget)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, gacha.ErrSimGoal) {
			code = http.StatusBadRequest
		}
		writeJSON(w, code, simResp{Goal: string(goal), Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, simResp{
		Goal:   string(goal),
		Trials: stats.Trials,
		Mean:   stats.Mean,
		StdDev: stats.StdDev,
		P50:    stats.P50,
		P90:    stats.P90,
		P99:    stats.P99,
	})
}

// Reset replaces the live session with a fresh one from the factory.
func (s *Server) Reset() (*session.Session, error) {
	sess, err := s.factory()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.sess = sess
	s.mu.Unlock()
	log.Printf("session reset: %s", sess.ID)
	return sess, nil
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, err := s.Reset(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.handleState(w, r)
}

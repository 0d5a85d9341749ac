package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xtding233/gacha-economy/internal/game"
	"github.com/xtding233/gacha-economy/internal/session"
)

func newTestServer(t *testing.T, mutate func(*game.Settings)) (*Server, *httptest.Server) {
	t.Helper()
	settings := game.DefaultSettings()
	settings.Seed = 7
	if mutate != nil {
		mutate(&settings)
	}
	srv, err := NewServer(func() (*session.Session, error) {
		return session.New(settings, log.New(io.Discard, "", 0))
	})
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, method, url string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil && resp.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHTTPPullAndInventory(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var pr pullResp
	if code := getJSON(t, http.MethodPost, ts.URL+"/pull", &pr); code != http.StatusOK {
		t.Fatalf("pull status=%d err=%s", code, pr.Err)
	}
	if pr.Item == nil || pr.Currency != 90 || pr.InventorySize != 1 || pr.Cost != 10 {
		t.Fatalf("unexpected pull: %+v", pr)
	}

	var inv inventoryResp
	getJSON(t, http.MethodGet, ts.URL+"/inventory", &inv)
	if len(inv.Items) != 1 || inv.Items[0].Name != pr.Item.Name || inv.Capacity != 15 {
		t.Fatalf("unexpected inventory: %+v", inv)
	}

	var cur currencyResp
	getJSON(t, http.MethodGet, ts.URL+"/currency", &cur)
	if cur.Currency != 90 {
		t.Fatalf("currency=%d want 90", cur.Currency)
	}
}

func TestHTTPPullInsufficientFunds(t *testing.T) {
	_, ts := newTestServer(t, func(s *game.Settings) { s.InitialCurrency = 5 })
	var pr pullResp
	if code := getJSON(t, http.MethodPost, ts.URL+"/pull", &pr); code != http.StatusPaymentRequired {
		t.Fatalf("status=%d want 402", code)
	}
	if pr.Err == "" || pr.Currency != 5 || pr.InventorySize != 0 {
		t.Fatalf("unexpected failure body: %+v", pr)
	}
	if code := getJSON(t, http.MethodPost, ts.URL+"/pull?cost=abc", nil); code != http.StatusBadRequest {
		t.Fatalf("bad cost status=%d want 400", code)
	}
}

func TestHTTPSell(t *testing.T) {
	_, ts := newTestServer(t, nil)
	var sr sellResp
	if code := getJSON(t, http.MethodPost, ts.URL+"/sell?slot=1", &sr); code != http.StatusBadRequest {
		t.Fatalf("empty inventory sell status=%d want 400", code)
	}
	if code := getJSON(t, http.MethodPost, ts.URL+"/sell", nil); code != http.StatusBadRequest {
		t.Fatalf("missing slot status=%d want 400", code)
	}

	getJSON(t, http.MethodPost, ts.URL+"/pull", nil)
	sr = sellResp{}
	if code := getJSON(t, http.MethodPost, ts.URL+"/sell?slot=1", &sr); code != http.StatusOK {
		t.Fatalf("sell status=%d err=%s", code, sr.Err)
	}
	if sr.Refund <= 0 || sr.Currency != 90+sr.Refund {
		t.Fatalf("unexpected sale: %+v", sr)
	}
}

func TestHTTPPullManyAndFull(t *testing.T) {
	_, ts := newTestServer(t, func(s *game.Settings) {
		s.InitialCurrency = 1000
		s.TenPullCost = 80
	})
	var mr multiResp
	if code := getJSON(t, http.MethodPost, ts.URL+"/pull_many", &mr); code != http.StatusOK {
		t.Fatalf("status=%d err=%s", code, mr.Err)
	}
	if len(mr.Items) != 10 || mr.Cost != 80 || mr.Currency != 920 {
		t.Fatalf("unexpected ten-pull: %+v", mr)
	}
	mr = multiResp{}
	if code := getJSON(t, http.MethodPost, ts.URL+"/pull_many?n=6", &mr); code != http.StatusConflict {
		t.Fatalf("overflow status=%d want 409", code)
	}
	if mr.Currency != 920 || mr.InventorySize != 10 {
		t.Fatalf("failed pull mutated state: %+v", mr)
	}
	if code := getJSON(t, http.MethodPost, ts.URL+"/pull_many?n=9223372036854775807", nil); code != http.StatusConflict {
		t.Fatalf("huge n status=%d want 409", code)
	}
	if code := getJSON(t, http.MethodPost, ts.URL+"/pull_many?n=0", nil); code != http.StatusBadRequest {
		t.Fatalf("n=0 status=%d want 400", code)
	}
}

func TestHTTPStateAndReset(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	var st stateResp
	getJSON(t, http.MethodGet, ts.URL+"/state", &st)
	if st.Mode != "self_reverting" || st.PullCost != 10 || st.TenPullCost != 100 {
		t.Fatalf("unexpected state: %+v", st)
	}
	var total float64
	for _, p := range st.Odds {
		total += p
	}
	if total < 0.999999 || total > 1.000001 {
		t.Fatalf("odds sum to %v", total)
	}

	first := srv.Session().ID
	getJSON(t, http.MethodPost, ts.URL+"/pull", nil)
	if code := getJSON(t, http.MethodGet, ts.URL+"/reset", nil); code != http.StatusMethodNotAllowed {
		t.Fatalf("GET reset status=%d want 405", code)
	}
	var after stateResp
	if code := getJSON(t, http.MethodPost, ts.URL+"/reset", &after); code != http.StatusOK {
		t.Fatalf("reset status=%d", code)
	}
	if after.SessionID == first.String() || srv.Session().Currency() != 100 {
		t.Fatalf("reset did not start a fresh session")
	}
}

func TestHTTPSimulate(t *testing.T) {
	_, ts := newTestServer(t, nil)
	var sr simResp
	code := getJSON(t, http.MethodGet, ts.URL+"/simulate?goal=fixed_budget&trials=20&draws=50&seed=3", &sr)
	if code != http.StatusOK || sr.Trials != 20 || sr.Goal != "fixed_budget" {
		t.Fatalf("status=%d resp=%+v", code, sr)
	}
	if code := getJSON(t, http.MethodGet, ts.URL+"/simulate?goal=forever", nil); code != http.StatusBadRequest {
		t.Fatalf("bad goal status=%d want 400", code)
	}
	if code := getJSON(t, http.MethodGet, ts.URL+"/simulate?target=9", nil); code != http.StatusBadRequest {
		t.Fatalf("bad target status=%d want 400", code)
	}
}

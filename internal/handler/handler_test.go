package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"flipops-dashboard/internal/backend"
	"flipops-dashboard/internal/dispatch"
	"flipops-dashboard/internal/handler"
	"flipops-dashboard/internal/model"
	"flipops-dashboard/internal/querycache"
	"flipops-dashboard/internal/router"

	"github.com/google/uuid"
)

// testBackend is a stand-in for the resale API with per-path hit counting and
// a kill switch to simulate an outage.
type testBackend struct {
	srv  *httptest.Server
	hits map[string]*atomic.Int64
	down atomic.Bool
}

func newTestBackend(t *testing.T, routes map[string]http.HandlerFunc) *testBackend {
	t.Helper()
	tb := &testBackend{hits: make(map[string]*atomic.Int64)}
	for path := range routes {
		tb.hits[path] = &atomic.Int64{}
	}

	mux := http.NewServeMux()
	for path, fn := range routes {
		path, fn := path, fn
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if tb.down.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"detail": "backend down"})
				return
			}
			tb.hits[path].Add(1)
			fn(w, r)
		})
	}
	tb.srv = httptest.NewServer(mux)
	t.Cleanup(tb.srv.Close)
	return tb
}

func (tb *testBackend) count(path string) int64 {
	return tb.hits[path].Load()
}

func newDashboard(t *testing.T, tb *testBackend) http.Handler {
	t.Helper()

	store := querycache.NewStore(querycache.NewMemoryBackend(), querycache.StoreConfig{TTL: time.Minute})
	t.Cleanup(func() { store.Close() })

	client := backend.New(tb.srv.URL, 5*time.Second)
	actions := dispatch.New(store, client)

	return router.New(router.Config{
		Handler:          handler.New("test"),
		ItemHandler:      handler.NewItemHandler(store, client, actions),
		ListingHandler:   handler.NewListingHandler(store, client, actions),
		OrderHandler:     handler.NewOrderHandler(store, client, actions),
		AnalyticsHandler: handler.NewAnalyticsHandler(store, client),
		ScraperHandler:   handler.NewScraperHandler(store, client, actions),
		SchedulerHandler: handler.NewSchedulerHandler(store, client, actions),
		AdminHandler:     handler.NewAdminHandler(store, nil, "memory"),
	})
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Stale   bool            `json:"stale"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("")
	} else {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %s: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func itemListHandler(items ...model.Item) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.ItemList{
			Items: items, Total: len(items), Page: 1, PerPage: 20, Pages: 1,
		})
	}
}

func TestPendingItemsServedFromCache(t *testing.T) {
	tb := newTestBackend(t, map[string]http.HandlerFunc{
		"/api/v1/items/pending": itemListHandler(model.Item{ID: uuid.New(), Status: model.ItemPending}),
	})
	h := newDashboard(t, tb)

	code, env := doRequest(t, h, http.MethodGet, "/api/v1/items/pending", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("first read: code=%d success=%v", code, env.Success)
	}
	if env.Stale {
		t.Fatal("first read marked stale")
	}

	// Give the write-behind a moment to land the entry.
	time.Sleep(50 * time.Millisecond)

	// Second read within the TTL comes from the cache.
	code, _ = doRequest(t, h, http.MethodGet, "/api/v1/items/pending", "")
	if code != http.StatusOK {
		t.Fatalf("second read: code=%d", code)
	}
	if got := tb.count("/api/v1/items/pending"); got != 1 {
		t.Fatalf("backend hit %d times, want 1", got)
	}
}

func TestApproveInvalidatesPendingList(t *testing.T) {
	id := uuid.New()
	tb := newTestBackend(t, map[string]http.HandlerFunc{
		"/api/v1/items/pending": itemListHandler(model.Item{ID: id, Status: model.ItemPending}),
		"/api/v1/items/" + id.String() + "/approve": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(model.Item{ID: id, Status: model.ItemApproved})
		},
	})
	h := newDashboard(t, tb)

	doRequest(t, h, http.MethodGet, "/api/v1/items/pending", "")
	time.Sleep(50 * time.Millisecond)

	code, env := doRequest(t, h, http.MethodPost, "/api/v1/items/"+id.String()+"/approve", `{"listing_price": 99.5}`)
	if code != http.StatusOK {
		t.Fatalf("approve: code=%d error=%+v", code, env.Error)
	}

	// The confirmed mutation flushed the list; the next read re-fetches.
	code, env = doRequest(t, h, http.MethodGet, "/api/v1/items/pending", "")
	if code != http.StatusOK || env.Stale {
		t.Fatalf("post-approve read: code=%d stale=%v", code, env.Stale)
	}
	if got := tb.count("/api/v1/items/pending"); got != 2 {
		t.Fatalf("backend hit %d times, want 2 (one before, one after the approve)", got)
	}
}

func TestStaleFallbackDuringOutage(t *testing.T) {
	tb := newTestBackend(t, map[string]http.HandlerFunc{
		"/api/v1/items/pending": itemListHandler(model.Item{ID: uuid.New(), Status: model.ItemPending}),
	})
	h := newDashboard(t, tb)

	doRequest(t, h, http.MethodGet, "/api/v1/items/pending", "")
	time.Sleep(50 * time.Millisecond)

	// Invalidate via the admin endpoint, then take the backend down. The
	// re-fetch fails, so the view keeps the last confirmed data, marked stale.
	code, _ := doRequest(t, h, http.MethodPost, "/api/v1/admin/cache/invalidate", `{"patterns":["items:list*"]}`)
	if code != http.StatusOK {
		t.Fatalf("invalidate: code=%d", code)
	}
	tb.down.Store(true)

	code, env := doRequest(t, h, http.MethodGet, "/api/v1/items/pending", "")
	if code != http.StatusOK {
		t.Fatalf("outage read: code=%d", code)
	}
	if !env.Stale {
		t.Fatal("outage read not marked stale")
	}
	var list model.ItemList
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("stale list total = %d", list.Total)
	}
}

func TestBackendOutageWithoutCacheIs502(t *testing.T) {
	tb := newTestBackend(t, map[string]http.HandlerFunc{
		"/api/v1/analytics/dashboard": func(w http.ResponseWriter, r *http.Request) {},
	})
	tb.down.Store(true)
	h := newDashboard(t, tb)

	code, env := doRequest(t, h, http.MethodGet, "/api/v1/analytics/dashboard", "")
	if code != http.StatusBadGateway {
		t.Fatalf("code = %d, want 502", code)
	}
	if env.Error == nil || env.Error.Code != "BAD_GATEWAY" {
		t.Fatalf("error = %+v", env.Error)
	}
}

func TestInvalidItemID(t *testing.T) {
	tb := newTestBackend(t, map[string]http.HandlerFunc{})
	h := newDashboard(t, tb)

	code, env := doRequest(t, h, http.MethodGet, "/api/v1/items/not-a-uuid", "")
	if code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", code)
	}
	if env.Error == nil || env.Error.Code != "BAD_REQUEST" {
		t.Fatalf("error = %+v", env.Error)
	}
}

func TestApproveValidation(t *testing.T) {
	tb := newTestBackend(t, map[string]http.HandlerFunc{})
	h := newDashboard(t, tb)

	code, env := doRequest(t, h, http.MethodPost, "/api/v1/items/"+uuid.NewString()+"/approve", `{"listing_price": -5}`)
	if code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", code)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("error = %+v", env.Error)
	}
}

func TestMarkPurchasedRequiresPrice(t *testing.T) {
	tb := newTestBackend(t, map[string]http.HandlerFunc{})
	h := newDashboard(t, tb)

	code, env := doRequest(t, h, http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/mark-purchased", "")
	if code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", code)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("error = %+v", env.Error)
	}
}

func TestScrapeRequestValidation(t *testing.T) {
	tb := newTestBackend(t, map[string]http.HandlerFunc{})
	h := newDashboard(t, tb)

	code, env := doRequest(t, h, http.MethodPost, "/api/v1/scraper/start", `{"queries": [], "platform": "myspace"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", code)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("error = %+v", env.Error)
	}
}

func TestEmptyListIsNotAnError(t *testing.T) {
	tb := newTestBackend(t, map[string]http.HandlerFunc{
		"/api/v1/listings": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(model.ListingList{Listings: []model.Listing{}, Page: 1, PerPage: 20})
		},
	})
	h := newDashboard(t, tb)

	code, env := doRequest(t, h, http.MethodGet, "/api/v1/listings", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("code=%d success=%v", code, env.Success)
	}
	var list model.ListingList
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Total != 0 || list.Listings == nil {
		t.Fatalf("list = %+v, want an empty page", list)
	}
}

func TestAdminStats(t *testing.T) {
	tb := newTestBackend(t, map[string]http.HandlerFunc{})
	h := newDashboard(t, tb)

	code, env := doRequest(t, h, http.MethodGet, "/api/v1/admin/stats", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("code=%d success=%v", code, env.Success)
	}

	var stats map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	for _, field := range []string{"uptime_seconds", "memory", "cache", "runtime"} {
		if _, ok := stats[field]; !ok {
			t.Errorf("stats missing %q", field)
		}
	}
}

func TestStatusEndpoint(t *testing.T) {
	tb := newTestBackend(t, map[string]http.HandlerFunc{})
	h := newDashboard(t, tb)

	code, env := doRequest(t, h, http.MethodGet, "/api/status", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("code=%d success=%v", code, env.Success)
	}

	var status struct {
		Service string `json:"service"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Service != "flipops-dashboard" || status.Status != "ok" {
		t.Fatalf("status = %+v", status)
	}
}

func TestHealthEndpoints(t *testing.T) {
	tb := newTestBackend(t, map[string]http.HandlerFunc{})
	h := newDashboard(t, tb)

	for _, path := range []string{"/api/v1/health", "/api/v1/ready"} {
		code, env := doRequest(t, h, http.MethodGet, path, "")
		if code != http.StatusOK || !env.Success {
			t.Errorf("%s: code=%d success=%v", path, code, env.Success)
		}
	}
}

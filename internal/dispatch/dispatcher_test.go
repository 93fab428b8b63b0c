package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"flipops-dashboard/internal/backend"
	"flipops-dashboard/internal/model"
	"flipops-dashboard/internal/querycache"

	"github.com/google/uuid"
)

type fixture struct {
	store      *querycache.Store
	dispatcher *Dispatcher
}

func newFixture(t *testing.T, handler http.Handler) *fixture {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := querycache.NewStore(querycache.NewMemoryBackend(), querycache.StoreConfig{TTL: time.Minute})
	t.Cleanup(func() { store.Close() })

	client := backend.New(srv.URL, 5*time.Second)
	return &fixture{store: store, dispatcher: New(store, client)}
}

// seedList caches a pending-item list and waits for it to land.
func seedList(t *testing.T, store *querycache.Store, key, value string) {
	t.Helper()
	ctx := context.Background()
	_, _, err := store.Resolve(ctx, key, func(ctx context.Context) (any, error) {
		return map[string]string{"seed": value}, nil
	})
	if err != nil {
		t.Fatalf("seed %s: %v", key, err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		data, stale, _ := store.Resolve(ctx, key, func(ctx context.Context) (any, error) {
			return nil, errors.New("should be cached")
		})
		if data != nil && !stale {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("seed %s never cached", key)
}

// resolveSeed reads the key with a replacement fetcher and reports whether the
// replacement ran (meaning the cached entry was invalidated).
func resolveSeed(t *testing.T, store *querycache.Store, key string) (refetched bool) {
	t.Helper()
	var calls atomic.Int64
	_, _, err := store.Resolve(context.Background(), key, func(ctx context.Context) (any, error) {
		calls.Add(1)
		return map[string]string{"seed": "refetched"}, nil
	})
	if err != nil {
		t.Fatalf("resolve %s: %v", key, err)
	}
	return calls.Load() > 0
}

func TestDispatchInvalidatesOnSuccess(t *testing.T) {
	id := uuid.New()
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Item{ID: id, Status: model.ItemApproved})
	}))

	listKey := querycache.ListKey("items", map[string]string{"view": "pending", "page": "1"})
	statsKey := querycache.Key("analytics", "dashboard", nil)
	otherKey := querycache.ListKey("orders", map[string]string{"page": "1"})
	seedList(t, f.store, listKey, "v1")
	seedList(t, f.store, statsKey, "v1")
	seedList(t, f.store, otherKey, "v1")

	item, err := f.dispatcher.ApproveItem(context.Background(), id, model.ItemApprove{})
	if err != nil {
		t.Fatalf("ApproveItem: %v", err)
	}
	if item.Status != model.ItemApproved {
		t.Fatalf("Status = %s", item.Status)
	}

	if !resolveSeed(t, f.store, listKey) {
		t.Error("pending item list survived the approve")
	}
	if !resolveSeed(t, f.store, statsKey) {
		t.Error("dashboard stats survived the approve")
	}
	if resolveSeed(t, f.store, otherKey) {
		t.Error("order list was invalidated by an item approve")
	}
}

func TestDispatchKeepsCacheOnFailure(t *testing.T) {
	id := uuid.New()
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Item is not pending"})
	}))

	listKey := querycache.ListKey("items", map[string]string{"view": "pending", "page": "1"})
	seedList(t, f.store, listKey, "v1")

	_, err := f.dispatcher.ApproveItem(context.Background(), id, model.ItemApprove{})
	var clientErr *backend.ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("err = %T (%v), want *backend.ClientError", err, err)
	}

	if resolveSeed(t, f.store, listKey) {
		t.Error("failed approve invalidated the cache")
	}
}

func TestDispatchInFlightGuard(t *testing.T) {
	id := uuid.New()
	entered := make(chan struct{})
	var enteredOnce sync.Once
	gate := make(chan struct{})
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		enteredOnce.Do(func() { close(entered) })
		<-gate
		json.NewEncoder(w).Encode(model.Item{ID: id, Status: model.ItemApproved})
	}))

	done := make(chan error, 1)
	go func() {
		_, err := f.dispatcher.ApproveItem(context.Background(), id, model.ItemApprove{})
		done <- err
	}()

	<-entered
	_, err := f.dispatcher.ApproveItem(context.Background(), id, model.ItemApprove{})
	if !errors.Is(err, ErrInFlight) {
		t.Fatalf("duplicate submit err = %v, want ErrInFlight", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// Guard released: the same action can be submitted again.
	if _, err := f.dispatcher.ApproveItem(context.Background(), id, model.ItemApprove{}); err != nil {
		t.Fatalf("resubmit after completion: %v", err)
	}
}

func TestDispatchGuardsAreScopedToTheResource(t *testing.T) {
	entered := make(chan struct{}, 2)
	gate := make(chan struct{})
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		<-gate
		json.NewEncoder(w).Encode(model.Item{Status: model.ItemApproved})
	}))

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := f.dispatcher.ApproveItem(context.Background(), uuid.New(), model.ItemApprove{})
			done <- err
		}()
	}

	// Both approvals run concurrently because they target different items.
	<-entered
	<-entered
	close(gate)
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("approve %d: %v", i, err)
		}
	}
}

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flipops-dashboard/internal/model"

	"github.com/google/uuid"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestListItems(t *testing.T) {
	t.Run("encodes the filter", func(t *testing.T) {
		var gotPath, gotQuery string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			json.NewEncoder(w).Encode(model.ItemList{Items: []model.Item{}, Total: 0, Page: 2, PerPage: 10})
		})

		_, err := c.ListItems(context.Background(), ItemFilter{
			Status:   model.ItemPending,
			Source:   model.SourceSubito,
			MinScore: 70,
			Page:     2,
			PerPage:  10,
		})
		if err != nil {
			t.Fatalf("ListItems: %v", err)
		}
		if gotPath != "/api/v1/items" {
			t.Fatalf("path = %q", gotPath)
		}
		want := "min_score=70&page=2&per_page=10&source=subito&status=pending"
		if gotQuery != want {
			t.Fatalf("query = %q, want %q", gotQuery, want)
		}
	})

	t.Run("derives pages when omitted", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(model.ItemList{Total: 45, Page: 1, PerPage: 20})
		})

		list, err := c.ListItems(context.Background(), ItemFilter{})
		if err != nil {
			t.Fatalf("ListItems: %v", err)
		}
		if list.Pages != 3 {
			t.Fatalf("Pages = %d, want 3", list.Pages)
		}
	})
}

func TestErrorTaxonomy(t *testing.T) {
	id := uuid.New()

	t.Run("404 is a client error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Item not found"})
		})

		_, err := c.GetItem(context.Background(), id)
		var clientErr *ClientError
		if !errors.As(err, &clientErr) {
			t.Fatalf("err = %T (%v), want *ClientError", err, err)
		}
		if clientErr.StatusCode != 404 || clientErr.Detail != "Item not found" {
			t.Fatalf("clientErr = %+v", clientErr)
		}
		if !IsNotFound(err) {
			t.Fatal("IsNotFound = false")
		}
	})

	t.Run("400 keeps the backend detail", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Item is not pending"})
		})

		_, err := c.ApproveItem(context.Background(), id, model.ItemApprove{})
		var clientErr *ClientError
		if !errors.As(err, &clientErr) {
			t.Fatalf("err = %T, want *ClientError", err)
		}
		if clientErr.Detail != "Item is not pending" {
			t.Fatalf("Detail = %q", clientErr.Detail)
		}
		if IsNotFound(err) {
			t.Fatal("IsNotFound = true for a 400")
		}
	})

	t.Run("500 is a server error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal", http.StatusInternalServerError)
		})

		_, err := c.DashboardStats(context.Background())
		var serverErr *ServerError
		if !errors.As(err, &serverErr) {
			t.Fatalf("err = %T, want *ServerError", err)
		}
		if serverErr.StatusCode != 500 {
			t.Fatalf("StatusCode = %d", serverErr.StatusCode)
		}
	})

	t.Run("unreachable backend is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := New(url, time.Second)
		_, err := c.SchedulerStatus(context.Background())
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("err = %T (%v), want *NetworkError", err, err)
		}
	})
}

func TestApproveItem(t *testing.T) {
	id := uuid.New()
	price := 129.99

	var gotBody model.ItemApprove
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/api/v1/items/"+id.String()+"/approve" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(model.Item{ID: id, Status: model.ItemApproved})
	})

	item, err := c.ApproveItem(context.Background(), id, model.ItemApprove{ListingPrice: &price, Platform: "ebay"})
	if err != nil {
		t.Fatalf("ApproveItem: %v", err)
	}
	if item.Status != model.ItemApproved {
		t.Fatalf("Status = %s", item.Status)
	}
	if gotBody.ListingPrice == nil || *gotBody.ListingPrice != price {
		t.Fatalf("body listing_price = %v", gotBody.ListingPrice)
	}
	if gotBody.Platform != "ebay" {
		t.Fatalf("body platform = %q", gotBody.Platform)
	}
}

func TestRejectItem(t *testing.T) {
	id := uuid.New()

	var gotReason string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotReason = r.URL.Query().Get("reason")
		json.NewEncoder(w).Encode(model.Item{ID: id, Status: model.ItemRejected, RejectionReason: gotReason})
	})

	item, err := c.RejectItem(context.Background(), id, "fake brand")
	if err != nil {
		t.Fatalf("RejectItem: %v", err)
	}
	if gotReason != "fake brand" {
		t.Fatalf("reason query = %q", gotReason)
	}
	if item.Status != model.ItemRejected {
		t.Fatalf("Status = %s", item.Status)
	}
}

func TestMarkPurchased(t *testing.T) {
	id := uuid.New()

	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"purchase_price":    q.Get("purchase_price"),
			"purchase_shipping": q.Get("purchase_shipping"),
		}
		json.NewEncoder(w).Encode(model.Order{ID: id})
	})

	_, err := c.MarkPurchased(context.Background(), id, model.MarkPurchased{
		PurchasePrice:    80,
		PurchaseShipping: 5.5,
	})
	if err != nil {
		t.Fatalf("MarkPurchased: %v", err)
	}
	if gotQuery["purchase_price"] != "80" {
		t.Fatalf("purchase_price = %q", gotQuery["purchase_price"])
	}
	if gotQuery["purchase_shipping"] != "5.5" {
		t.Fatalf("purchase_shipping = %q", gotQuery["purchase_shipping"])
	}
}

func TestCategoryPresets(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/scheduler/categories" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]model.CategoryPreset{
			"iphone": {Name: "iPhone", Queries: []string{"iphone 13", "iphone 14"}, MinPrice: 100, MaxPrice: 600},
		})
	})

	presets, err := c.CategoryPresets(context.Background())
	if err != nil {
		t.Fatalf("CategoryPresets: %v", err)
	}
	preset, ok := presets["iphone"]
	if !ok {
		t.Fatalf("presets = %v", presets)
	}
	if preset.Name != "iPhone" || len(preset.Queries) != 2 {
		t.Fatalf("preset = %+v", preset)
	}
}

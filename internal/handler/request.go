package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"flipops-dashboard/internal/querycache"
	"flipops-dashboard/pkg/apierror"
	"flipops-dashboard/pkg/response"
	"flipops-dashboard/pkg/uid"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// pathID parses the {id} URL segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, *apierror.Error) {
	raw := chi.URLParam(r, "id")
	id, err := uid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierror.BadRequest("invalid id: must be a UUID")
	}
	return id, nil
}

// decodeJSON reads a JSON request body. An empty body decodes to the zero
// value so action endpoints can accept optional payloads.
func decodeJSON(r *http.Request, dst any) *apierror.Error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apierror.BadRequest("invalid JSON body")
	}
	return nil
}

// queryInt reads an integer query parameter, falling back on absence or junk.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// queryFloat reads a float query parameter, falling back on absence or junk.
func queryFloat(r *http.Request, name string, fallback float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return f
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// pageArgs reads pagination parameters, clamping per_page to the backend's
// accepted 1..100 window.
func pageArgs(r *http.Request) (page, perPage int) {
	page = queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage = queryInt(r, "per_page", 20)
	if perPage < 1 {
		perPage = 1
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

// keyParams flattens url.Values into the map shape cache keys are built from.
func keyParams(v url.Values) map[string]string {
	params := make(map[string]string, len(v))
	for name := range v {
		params[name] = v.Get(name)
	}
	return params
}

// serve resolves a read query through the store and writes the result. A
// failed re-fetch with stale fallback data still answers 200, marked stale,
// so the dashboard keeps rendering the last confirmed state.
func serve[T any](w http.ResponseWriter, r *http.Request, store *querycache.Store, key string, fetch func(context.Context) (*T, error)) {
	data, stale, err := querycache.Resolve(r.Context(), store, key, fetch)
	if err != nil {
		if data != nil {
			log.Printf("[Handler] %s: serving stale data, re-fetch failed: %v", key, err)
			response.Cached(w, data, true)
			return
		}
		response.Error(w, backendError(err))
		return
	}
	response.Cached(w, data, stale)
}

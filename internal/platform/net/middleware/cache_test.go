package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"launchdeck/internal/platform/cache"
	"launchdeck/internal/platform/net/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counting struct {
	calls  atomic.Int32
	status int
	delay  time.Duration
}

func (c *counting) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := c.calls.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	w.Header().Set("Content-Type", "application/json")
	status := c.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"call":` + string(rune('0'+n)) + `}`))
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	h.ServeHTTP(rr, req)
	return rr
}

func opts(ttl time.Duration) middleware.CacheOptions {
	return middleware.CacheOptions{Namespace: "launches", TTL: ttl, Coalesce: true}
}

func TestCache_HitIsVerbatimAndSkipsHandler(t *testing.T) {
	store := cache.NewMemory(0)
	next := &counting{}
	h := middleware.Cache(store, opts(20*time.Second))(next)

	first := do(h, http.MethodGet, "/v4/launches/past", "")
	second := do(h, http.MethodGet, "/v4/launches/past", "")

	assert.Equal(t, int32(1), next.calls.Load())
	assert.Equal(t, "MISS", first.Header().Get(middleware.CacheHeader))
	assert.Equal(t, "HIT", second.Header().Get(middleware.CacheHeader))
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=20", second.Header().Get("Cache-Control"))
}

func TestCache_ExpiryCausesOneFreshCall(t *testing.T) {
	store := cache.NewMemory(0)
	next := &counting{}
	h := middleware.Cache(store, opts(60*time.Millisecond))(next)

	do(h, http.MethodGet, "/v4/launches", "")
	do(h, http.MethodGet, "/v4/launches", "")
	require.Equal(t, int32(1), next.calls.Load())

	time.Sleep(90 * time.Millisecond)
	do(h, http.MethodGet, "/v4/launches", "")
	do(h, http.MethodGet, "/v4/launches", "")
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCache_ErrorsAreNotStored(t *testing.T) {
	store := cache.NewMemory(0)
	next := &counting{status: http.StatusBadRequest}
	h := middleware.Cache(store, opts(time.Minute))(next)

	a := do(h, http.MethodPost, "/v4/launches/query", `{"options":{"limit":-1}}`)
	b := do(h, http.MethodPost, "/v4/launches/query", `{"options":{"limit":-1}}`)
	assert.Equal(t, http.StatusBadRequest, a.Code)
	assert.Equal(t, "MISS", b.Header().Get(middleware.CacheHeader))
	assert.Empty(t, b.Header().Get("Cache-Control"))
	assert.Equal(t, int32(2), next.calls.Load())
	assert.Zero(t, store.Len())
}

func TestCache_BodyIsPartOfKeyAndReachesHandler(t *testing.T) {
	store := cache.NewMemory(0)
	var seen []string
	var mu sync.Mutex
	h := middleware.Cache(store, opts(time.Minute))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, 64)
		n, _ := r.Body.Read(b)
		mu.Lock()
		seen = append(seen, string(b[:n]))
		mu.Unlock()
		_, _ = w.Write(b[:n])
	}))

	do(h, http.MethodPost, "/q", `{"query":{"upcoming":true}}`)
	do(h, http.MethodPost, "/q", `{ "query": { "upcoming": true } }`)
	do(h, http.MethodPost, "/q", `{"query":{"upcoming":false}}`)
	assert.Equal(t, []string{`{"query":{"upcoming":true}}`, `{"query":{"upcoming":false}}`}, seen)
}

func TestCache_CoalescesConcurrentMisses(t *testing.T) {
	store := cache.NewMemory(0)
	next := &counting{delay: 50 * time.Millisecond}
	h := middleware.Cache(store, opts(time.Minute))(next)

	var wg sync.WaitGroup
	bodies := make([]string, 8)
	for i := range bodies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bodies[i] = do(h, http.MethodGet, "/v4/launches/upcoming", "").Body.String()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(1), next.calls.Load())
	for _, b := range bodies {
		assert.Equal(t, bodies[0], b)
	}
}

type failingStore struct{ cache.Store }

func (failingStore) Get(context.Context, string) (cache.Entry, bool, error) {
	return cache.Entry{}, false, errors.New("down")
}

func (failingStore) Put(context.Context, string, cache.Entry, time.Duration) error {
	return errors.New("down")
}

func (failingStore) DeletePrefix(context.Context, string) (int, error) { return 0, errors.New("down") }

func TestCache_BackendFailureIsBypassed(t *testing.T) {
	next := &counting{}
	h := middleware.Cache(failingStore{}, opts(time.Minute))(next)
	a := do(h, http.MethodGet, "/v4/launches", "")
	b := do(h, http.MethodGet, "/v4/launches", "")
	assert.Equal(t, http.StatusOK, a.Code)
	assert.Equal(t, http.StatusOK, b.Code)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCache_NilStoreIsPassThrough(t *testing.T) {
	next := &counting{}
	h := middleware.Cache(nil, opts(time.Minute))(next)
	rr := do(h, http.MethodGet, "/", "")
	assert.Empty(t, rr.Header().Get(middleware.CacheHeader))
	do(h, http.MethodGet, "/", "")
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestPurge_OnSuccessOnly(t *testing.T) {
	store := cache.NewMemory(0)
	ctx := context.Background()
	seed := func() {
		_ = store.Put(ctx, cache.Signature("launches", "GET", "/v4/launches", nil, nil), cache.Entry{Status: 200}, time.Minute)
		_ = store.Put(ctx, cache.Signature("rockets", "GET", "/v4/rockets", nil, nil), cache.Entry{Status: 200}, time.Minute)
	}

	seed()
	fail := middleware.Purge(store, opts(time.Minute))(&counting{status: http.StatusForbidden})
	do(fail, http.MethodDelete, "/v4/launches/x", "")
	assert.Equal(t, 2, store.Len())

	ok := middleware.Purge(store, opts(time.Minute))(&counting{status: http.StatusCreated})
	rr := do(ok, http.MethodPost, "/v4/launches", "{}")
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 1, store.Len(), "only the launches namespace is purged")
}

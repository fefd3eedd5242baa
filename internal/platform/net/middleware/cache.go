package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"launchdeck/internal/platform/cache"
	"launchdeck/internal/platform/logger"

	"golang.org/x/sync/singleflight"
)

// CacheHeader reports HIT or MISS on cached routes
const CacheHeader = "X-Cache"

// CacheOptions configures Cache and Purge
type CacheOptions struct {
	// Namespace prefixes every key so a resource can be purged as a whole
	Namespace string
	TTL       time.Duration
	// Timeout bounds each backend call; a slow backend is treated as a miss
	Timeout time.Duration
	// Coalesce runs one handler for concurrent identical misses
	Coalesce bool
	// MaxBody is the largest request body that is hashed into the key; bigger bodies bypass the cache
	MaxBody int64
}

func (o CacheOptions) withDefaults() CacheOptions {
	if o.TTL <= 0 {
		o.TTL = cache.DefaultTTL
	}
	if o.Timeout <= 0 {
		o.Timeout = 250 * time.Millisecond
	}
	if o.MaxBody <= 0 {
		o.MaxBody = 1 << 20
	}
	return o
}

type captured struct {
	status int
	header http.Header
	body   []byte
}

// Cache serves repeated identical reads from store for TTL.
// A hit is replayed verbatim without calling next; only 2xx responses are stored.
// A nil store disables caching
func Cache(store cache.Store, opt CacheOptions) func(http.Handler) http.Handler {
	opt = opt.withDefaults()
	var group singleflight.Group
	control := "public, max-age=" + strconv.Itoa(int(opt.TTL/time.Second))

	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.C(r.Context())

			body, ok := readBounded(r, opt.MaxBody)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			key := cache.Signature(opt.Namespace, r.Method, r.URL.Path, r.URL.Query(), body)

			if e, hit := lookup(r.Context(), store, key, opt.Timeout); hit {
				log.Debug().Str("key", key).Msg("cache hit")
				replay(w, http.Header{"Content-Type": {e.ContentType}}, http.Header{
					CacheHeader:     {"HIT"},
					"Cache-Control": {control},
				}, e.Status, e.Body)
				return
			}

			run := func(r *http.Request) captured {
				bw := newBufferedWriter()
				next.ServeHTTP(bw, r)
				c := captured{status: bw.code(), header: bw.header, body: bw.body.Bytes()}
				if cache.Cacheable(c.status) {
					save(r.Context(), store, key, c, opt)
				}
				return c
			}

			var res captured
			if opt.Coalesce {
				v, _, _ := group.Do(key, func() (any, error) {
					// followers share this run, so the leader's cancellation must not cut them off
					return run(r.WithContext(context.WithoutCancel(r.Context()))), nil
				})
				res = v.(captured)
			} else {
				res = run(r)
			}
			log.Debug().Str("key", key).Int("status", res.status).Msg("cache miss")

			extra := http.Header{CacheHeader: {"MISS"}}
			if cache.Cacheable(res.status) {
				extra.Set("Cache-Control", control)
			}
			replay(w, res.header, extra, res.status, res.body)
		})
	}
}

// Purge drops every cached entry in opt.Namespace after a successful write.
// The response is held until the purge finishes so a follow-up read cannot see stale data
func Purge(store cache.Store, opt CacheOptions) func(http.Handler) http.Handler {
	opt = opt.withDefaults()
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bw := newBufferedWriter()
			next.ServeHTTP(bw, r)
			if cache.Cacheable(bw.code()) {
				ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), opt.Timeout)
				n, err := store.DeletePrefix(ctx, cache.Prefix(opt.Namespace))
				cancel()
				log := logger.C(r.Context())
				if err != nil {
					log.Warn().Err(err).Str("namespace", opt.Namespace).Msg("cache purge failed")
				} else {
					log.Debug().Int("purged", n).Str("namespace", opt.Namespace).Msg("cache purged")
				}
			}
			bw.flush(w, nil)
		})
	}
}

// readBounded reads the body for hashing and restores it for the handler.
// ok is false when the body is larger than max; the handler then sees the full stream
func readBounded(r *http.Request, max int64) ([]byte, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, true
	}
	head, err := io.ReadAll(io.LimitReader(r.Body, max+1))
	if err != nil || int64(len(head)) > max {
		r.Body = readCloser{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
		return nil, false
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(head))
	return head, true
}

type readCloser struct {
	io.Reader
	io.Closer
}

func lookup(ctx context.Context, store cache.Store, key string, timeout time.Duration) (cache.Entry, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	e, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", key).Msg("cache get failed; bypassing")
		return cache.Entry{}, false
	}
	return e, ok
}

func save(ctx context.Context, store cache.Store, key string, c captured, opt CacheOptions) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opt.Timeout)
	defer cancel()
	e := cache.Entry{Status: c.status, ContentType: c.header.Get("Content-Type"), Body: c.body}
	if err := store.Put(ctx, key, e, opt.TTL); err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", key).Msg("cache put failed")
	}
}

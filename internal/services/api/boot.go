package api

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"launchdeck/internal/core/query/querysql"
	"launchdeck/internal/modkit"
	"launchdeck/internal/modkit/httpkit"
	"launchdeck/internal/modkit/repokit"
	"launchdeck/internal/modkit/swaggerkit"
	"launchdeck/internal/platform/cache"
	"launchdeck/internal/platform/config"
	"launchdeck/internal/platform/credentials"
	"launchdeck/internal/platform/logger"
	phttp "launchdeck/internal/platform/net/http"
	"launchdeck/internal/platform/net/middleware"
	"launchdeck/internal/platform/store"
	launchrepo "launchdeck/internal/services/api/launches/repo"

	"golang.org/x/sync/errgroup"
)

// OpenStore opens the configured store and applies the schema when STORE_MIGRATE is set or force is true
func OpenStore(ctx context.Context, root config.Conf, force bool) (*store.Store, store.Config, error) {
	cfg := store.ConfigFromEnv(root)
	opts := []store.Option{store.WithLogger(*logger.Named("store"))}
	if cfg.Migrate || force {
		opts = append(opts, store.WithSchema(schemaFor))
	}
	st, err := store.Open(ctx, cfg, opts...)
	if err != nil {
		return nil, cfg, err
	}
	return st, cfg, nil
}

// Migrate applies the launches schema to an open store
func Migrate(ctx context.Context, st *store.Store) error {
	ddl, err := schemaFor(st.Dialect)
	if err != nil {
		return err
	}
	return st.ApplySchema(ctx, ddl)
}

func schemaFor(driver string) (string, error) {
	d, err := querysql.ParseDialect(driver)
	if err != nil {
		return "", err
	}
	return launchrepo.DDL(d), nil
}

// OpenKeyring loads AUTH_KEYS_FILE; without one every write is rejected with 401
func OpenKeyring(root config.Conf) (*credentials.Keyring, error) {
	path := root.Prefix("AUTH_").MayString("KEYS_FILE", "")
	if path == "" {
		logger.Named("credentials").Warn().Msg("AUTH_KEYS_FILE not set; mutating routes will reject every request")
		return credentials.Static(nil), nil
	}
	return credentials.Open(path)
}

// NewDeps assembles module deps from opened dependencies
// c and auth may be nil for callers that never serve HTTP
func NewDeps(root config.Conf, st *store.Store, scfg store.Config, c cache.Store, ccfg cache.Config, auth middleware.AuthPort) modkit.Deps {
	return modkit.Deps{
		Log:          *logger.Get(),
		Cfg:          root,
		DB:           st.DB,
		Dialect:      st.Dialect,
		StoreTimeout: scfg.Timeout,
		Cache:        c,
		CacheCfg:     ccfg,
		Auth:         auth,
	}
}

// CacheConfig reads the CACHE_ keys
func CacheConfig(root config.Conf) cache.Config { return cache.ConfigFromEnv(root.Prefix("CACHE_")) }

// Serve runs the API until ctx is cancelled or SIGINT/SIGTERM arrives
func Serve(ctx context.Context, root config.Conf) error {
	log := logger.Get()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, scfg, err := OpenStore(ctx, root, false)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustPing(ctx, "store", pingStore{st})

	ccfg := CacheConfig(root)
	c, err := cache.Open(ccfg)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if c != nil {
		defer func() { _ = c.Close() }()
		if p, ok := c.(modkit.Pinger); ok {
			repokit.MustPing(ctx, "cache", p)
		}
	}

	keys, err := OpenKeyring(root)
	if err != nil {
		return fmt.Errorf("open keyring: %w", err)
	}

	apiCfg := root.Prefix("API_")
	srv := phttp.NewServer(apiCfg)
	Mount(srv.Router(), Options{
		Deps:           NewDeps(root, st, scfg, c, ccfg, keys),
		Stack:          httpkit.StackOptionsFromEnv(root),
		Docs:           swaggerkit.OptionsFromEnv(root, DocInfo()),
		EnableProfiler: apiCfg.MayBool("PPROF", false),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	if root.Prefix("AUTH_").MayBool("WATCH", true) {
		g.Go(func() error { return keys.Watch(gctx) })
	}
	log.Info().Str("addr", srv.Addr()).Str("store", st.Dialect).Str("cache", ccfg.Backend).Msg("launchdeck api starting")
	return g.Wait()
}

type pingStore struct{ st *store.Store }

func (p pingStore) Ping(ctx context.Context) error { return p.st.Guard(ctx) }

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geocoder89/bloglist/internal/auth"
	"github.com/geocoder89/bloglist/internal/cache"
	"github.com/geocoder89/bloglist/internal/config"
	"github.com/geocoder89/bloglist/internal/db"
	httpx "github.com/geocoder89/bloglist/internal/http"
	"github.com/geocoder89/bloglist/internal/observability"
	"github.com/geocoder89/bloglist/internal/repo/memory"
	"github.com/geocoder89/bloglist/internal/repo/postgres"
	"github.com/geocoder89/bloglist/internal/security"
	"github.com/geocoder89/bloglist/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// stores bundles whichever persistence backend was selected.
type stores struct {
	blogs service.BlogRepository
	users service.UserRepository
	ping  func() error
	close func()
}

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, "bloglist-api", cfg.Env, cfg.OTLPEndpoint)
		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
		defer func() {
			tctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(tctx)
		}()
	}

	var (
		prom     *observability.Prom
		gatherer prometheus.Gatherer
	)

	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prom = observability.NewProm(reg)
		gatherer = reg
	}

	st, err := openStores(ctx, cfg, prom)
	if err != nil {
		log.Error("store init failed", "err", err)
		os.Exit(1)
	}
	defer st.close()

	seedCtx, cancelSeed := config.WithTimeout(10 * time.Second)
	err = db.EnsureRootUser(seedCtx, st.users, cfg)
	cancelSeed()
	if err != nil {
		log.Error("root user seed failed", "err", err)
		os.Exit(1)
	}

	responses, closeCache := openCache(ctx, cfg, log)
	defer closeCache()

	var draining atomic.Bool

	tokens := auth.NewManager(cfg.Secret)
	hasher := security.Hasher{}

	router := httpx.NewRouter(httpx.Deps{
		Config:   cfg,
		Blogs:    service.NewBlogService(st.blogs, st.users, tokens, responses, prom),
		Users:    service.NewUserService(st.users, hasher, responses, prom),
		Login:    service.NewLoginService(st.users, hasher, tokens),
		Ping:     st.ping,
		Draining: draining.Load,
		Prom:     prom,
		Gatherer: gatherer,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "database", cfg.DBURL != "")
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")
	draining.Store(true)

	shutdownCtx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return
	}

	log.Info("shutdown complete")
}

// openStores uses postgres when a database url is configured and the
// in-memory store otherwise.
func openStores(ctx context.Context, cfg config.Config, prom *observability.Prom) (stores, error) {
	if cfg.DBURL == "" {
		mem := memory.NewStore()
		slog.Warn("DATABASE_URL not set, using in-memory store")

		return stores{
			blogs: mem.Blogs(),
			users: mem.Users(),
			ping:  mem.Ping,
			close: func() {},
		}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return stores{}, err
	}

	if err := db.Migrate(pool); err != nil {
		pool.Close()
		return stores{}, err
	}

	return stores{
		blogs: postgres.NewBlogsRepo(pool, prom),
		users: postgres.NewUsersRepo(pool, prom),
		ping: func() error {
			pctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()

			return pool.Ping(pctx)
		},
		close: pool.Close,
	}, nil
}

// openCache prefers redis when an address is configured and reachable.
func openCache(ctx context.Context, cfg config.Config, log *slog.Logger) (cache.Store, func()) {
	if cfg.RedisAddr == "" {
		return cache.New(cfg.CacheTTL), func() {}
	}

	rs := cache.NewRedis(cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rs.Ping(pctx); err != nil {
		log.Warn("redis unreachable, falling back to in-process cache", "addr", cfg.RedisAddr, "err", err)
		_ = rs.Close()
		return cache.New(cfg.CacheTTL), func() {}
	}

	return rs, func() { _ = rs.Close() }
}

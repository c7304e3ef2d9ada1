package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/MrEthical07/toxin"
	"github.com/MrEthical07/toxin/accounts"
	"github.com/MrEthical07/toxin/api"
	"github.com/MrEthical07/toxin/metrics/export/prometheus"
	"github.com/MrEthical07/toxin/session"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// App owns the stores, engine and HTTP server of one toxin-server process.
type App struct {
	cfg     Config
	logger  *logrus.Logger
	redis   redis.UniversalClient
	db      *sql.DB
	engine  *toxin.Engine
	handler http.Handler
}

// New connects the stores and builds the engine and router. A Redis that is
// unreachable at startup is logged, not fatal: requests fail with 503 until
// it comes back.
func New(ctx context.Context, cfg Config, logger *logrus.Logger) (*App, error) {
	return newApp(ctx, cfg, logger, newRedisClient(cfg.Redis))
}

func newRedisClient(cfg RedisConfig) redis.UniversalClient {
	return redis.NewUniversalClient(session.ClientOptions([]string{cfg.Addr}, cfg.Password, cfg.DB))
}

func newApp(ctx context.Context, cfg Config, logger *logrus.Logger, rdb redis.UniversalClient) (*App, error) {
	a := &App{cfg: cfg, logger: logger, redis: rdb}

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).WithField("addr", cfg.Redis.Addr).Warn("redis not reachable at startup")
	}

	store, err := a.openAccountStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	engineCfg := cfg.EngineConfig()
	for _, w := range engineCfg.Lint() {
		logger.WithField("code", w.Code).Warn(w.Message)
	}

	engine, err := toxin.New().
		WithConfig(engineCfg).
		WithRedis(rdb).
		WithAccountStore(store).
		WithAuditSink(toxin.NewLogSink(logger.WithField("component", "audit"))).
		WithLogger(logger).
		Build()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}
	a.engine = engine

	opts := api.Options{Logger: logger}
	if cfg.Metrics {
		opts.Metrics = prometheus.NewExporter(engine).Handler()
	}
	a.handler = api.NewRouter(engine, opts)

	return a, nil
}

func (a *App) openAccountStore(ctx context.Context) (toxin.AccountStore, error) {
	switch a.cfg.AccountStore {
	case StorePostgres:
		db, err := accounts.OpenPostgres(ctx, a.cfg.DatabaseDSN, accounts.DefaultPoolConfig())
		if err != nil {
			return nil, err
		}
		a.db = db
		store := accounts.NewPostgresStore(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		a.logger.Warn("using in-memory account store; accounts are lost on restart")
		return accounts.NewMemoryStore(), nil
	}
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Engine returns the engine serving requests.
func (a *App) Engine() *toxin.Engine {
	return a.engine
}

// Run serves HTTP on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.WithField("addr", ln.Addr().String()).Info("toxin listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases the engine and every store connection.
func (a *App) Close() {
	if a.engine != nil {
		a.engine.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.WithError(err).Warn("close postgres")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.WithError(err).Warn("close redis")
		}
	}
}

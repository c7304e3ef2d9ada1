//go:build integration
// +build integration

package test

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/toxin"
	"github.com/MrEthical07/toxin/accounts"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
)

// cmdCounter is a go-redis Hook that counts Redis round-trips.
type cmdCounter struct {
	commands atomic.Int64
	names    atomic.Value
}

func (h *cmdCounter) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *cmdCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.commands.Add(1)
		h.names.Store(cmd.Name())
		return next(ctx, cmd)
	}
}

func (h *cmdCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		h.commands.Add(int64(len(cmds)))
		return next(ctx, cmds)
	}
}

func (h *cmdCounter) Reset()          { h.commands.Store(0) }
func (h *cmdCounter) Commands() int64 { return h.commands.Load() }

// LastName returns the most recent command name, lowercased by go-redis.
func (h *cmdCounter) LastName() string {
	v, _ := h.names.Load().(string)
	return v
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// newEngine builds an engine with the cheapest argon2id cost over rdb and a
// fresh memory store.
func newEngine(t *testing.T, rdb redis.UniversalClient, mutate ...func(*toxin.Config)) *toxin.Engine {
	t.Helper()

	cfg := toxin.DefaultConfig()
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Session.OperationTimeout = 2 * time.Second
	for _, m := range mutate {
		m(&cfg)
	}

	logger, _ := test.NewNullLogger()
	engine, err := toxin.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithAccountStore(accounts.NewMemoryStore()).
		WithLogger(logger).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func mustCreate(t *testing.T, engine *toxin.Engine, username, password string) *toxin.Account {
	t.Helper()
	account, err := engine.CreateAccount(context.Background(), toxin.CreateAccountRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return account
}

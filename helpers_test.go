package toxin

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// mapStore is a minimal AccountStore for engine tests. failWith, when set,
// is returned by every call.
type mapStore struct {
	mu       sync.Mutex
	accounts map[string]Account
	failWith error
}

func newMapStore() *mapStore {
	return &mapStore{accounts: map[string]Account{}}
}

func (s *mapStore) setFailure(err error) {
	s.mu.Lock()
	s.failWith = err
	s.mu.Unlock()
}

func (s *mapStore) FindByUsername(_ context.Context, username string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, a := range s.accounts {
		if a.Username == username {
			a := a
			return &a, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (s *mapStore) FindByID(_ context.Context, id string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &a, nil
}

func (s *mapStore) List(context.Context) ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := make([]Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (s *mapStore) Insert(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	for _, a := range s.accounts {
		if a.Username == account.Username {
			return ErrAccountExists
		}
	}
	s.accounts[account.ID] = *account
	return nil
}

func (s *mapStore) Update(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.accounts[account.ID]; !ok {
		return ErrAccountNotFound
	}
	for id, a := range s.accounts {
		if a.Username == account.Username && id != account.ID {
			return ErrAccountExists
		}
	}
	s.accounts[account.ID] = *account
	return nil
}

func (s *mapStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.accounts[id]; !ok {
		return ErrAccountNotFound
	}
	delete(s.accounts, id)
	return nil
}

// testConfig keeps argon2id but at the minimum accepted cost.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Session.OperationTimeout = time.Second
	return cfg
}

type testEngine struct {
	*Engine
	mr    *miniredis.Miniredis
	rdb   *redis.Client
	store *mapStore
	log   *test.Hook
}

func newTestEngine(t testing.TB, cfg Config, opts ...func(*Builder)) *testEngine {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	store := newMapStore()
	b := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithAccountStore(store).
		WithLogger(logger)
	for _, opt := range opts {
		opt(b)
	}

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testEngine{Engine: engine, mr: mr, rdb: rdb, store: store, log: hook}
}

func (e *testEngine) mustCreate(t testing.TB, username, password string) *Account {
	t.Helper()
	account, err := e.CreateAccount(context.Background(), CreateAccountRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return account
}

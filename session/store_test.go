package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newSessionStoreTest(t *testing.T, opts Options) (*Store, *miniredis.Miniredis, *redis.Client, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	store := NewStore(rdb, opts)
	return store, mr, rdb, func() {
		rdb.Close()
		mr.Close()
	}
}

func testSnapshot() *Snapshot {
	return &Snapshot{ID: "1", Username: "alice", Password: "secret"}
}

// failFirst fails the first n commands it sees with a transport-style error.
type failFirst struct {
	remaining atomic.Int64
}

func (h *failFirst) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *failFirst) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if h.remaining.Add(-1) >= 0 {
			err := errors.New("connection reset by peer")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (h *failFirst) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestPutGetRoundTrip(t *testing.T) {
	store, mr, _, done := newSessionStoreTest(t, Options{})
	defer done()
	ctx := context.Background()

	if err := store.Put(ctx, "tok", testSnapshot()); err != nil {
		t.Fatalf("put: %v", err)
	}

	raw, err := mr.Get("auth:tok")
	if err != nil {
		t.Fatalf("expected key auth:tok: %v", err)
	}
	if raw != `{"id":"1","username":"alice","password":"secret"}` {
		t.Fatalf("unexpected stored value %s", raw)
	}
	if mr.TTL("auth:tok") != 0 {
		t.Fatalf("expected no expiry, got %s", mr.TTL("auth:tok"))
	}

	got, err := store.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *testSnapshot() {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}

func TestPutOverwrites(t *testing.T) {
	store, _, _, done := newSessionStoreTest(t, Options{})
	defer done()
	ctx := context.Background()

	if err := store.Put(ctx, "tok", testSnapshot()); err != nil {
		t.Fatalf("first put: %v", err)
	}
	next := &Snapshot{ID: "2", Username: "bob", Password: "pw"}
	if err := store.Put(ctx, "tok", next); err != nil {
		t.Fatalf("second put: %v", err)
	}
	got, err := store.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "2" {
		t.Fatalf("expected overwritten snapshot, got %+v", got)
	}
}

func TestPutAppliesTTL(t *testing.T) {
	store, mr, _, done := newSessionStoreTest(t, Options{Prefix: "sess", TTL: time.Minute})
	defer done()

	if err := store.Put(context.Background(), "tok", testSnapshot()); err != nil {
		t.Fatalf("put: %v", err)
	}
	if ttl := mr.TTL("sess:tok"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %s", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(context.Background(), "tok"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found after expiry, got %v", err)
	}
}

func TestPutRejectsEmptySnapshot(t *testing.T) {
	store, _, _, done := newSessionStoreTest(t, Options{})
	defer done()

	if err := store.Put(context.Background(), "tok", &Snapshot{}); !errors.Is(err, ErrSnapshotInvalid) {
		t.Fatalf("expected invalid snapshot error, got %v", err)
	}
	if err := store.Put(context.Background(), "tok", nil); !errors.Is(err, ErrSnapshotInvalid) {
		t.Fatalf("expected invalid snapshot error for nil, got %v", err)
	}
}

func TestGetMissingAndMalformedAreNotFound(t *testing.T) {
	store, mr, _, done := newSessionStoreTest(t, Options{})
	defer done()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	for _, bad := range []string{"not-json", `{"username":"x"}`, `[]`, `null`} {
		if err := mr.Set("auth:bad", bad); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := store.Get(ctx, "bad"); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("value %q: expected not found, got %v", bad, err)
		}
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store, mr, _, done := newSessionStoreTest(t, Options{})
	defer done()
	ctx := context.Background()

	if err := store.Put(ctx, "tok", testSnapshot()); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "tok"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, "tok"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if mr.Exists("auth:tok") {
		t.Fatal("expected key removed")
	}
}

func TestBackendFailureIsUnavailable(t *testing.T) {
	store, mr, _, done := newSessionStoreTest(t, Options{Retries: 1})
	defer done()
	ctx := context.Background()

	mr.SetError("LOADING dataset in memory")

	if err := store.Put(ctx, "tok", testSnapshot()); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected unavailable on put, got %v", err)
	}
	_, err := store.Get(ctx, "tok")
	if !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected unavailable on get, got %v", err)
	}
	if errors.Is(err, ErrSessionNotFound) {
		t.Fatal("backend failure must not look like a missing session")
	}
}

func TestSingleRetryRecoversTransientFailure(t *testing.T) {
	store, _, rdb, done := newSessionStoreTest(t, Options{Retries: 1})
	defer done()
	ctx := context.Background()

	if err := store.Put(ctx, "tok", testSnapshot()); err != nil {
		t.Fatalf("put: %v", err)
	}

	hook := &failFirst{}
	hook.remaining.Store(1)
	rdb.AddHook(hook)

	got, err := store.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}

func TestRetriesAreBounded(t *testing.T) {
	store, _, rdb, done := newSessionStoreTest(t, Options{Retries: 1})
	defer done()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	hook := &failFirst{}
	hook.remaining.Store(2)
	rdb.AddHook(hook)

	if _, err := store.Get(context.Background(), "tok"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected unavailable after two failures, got %v", err)
	}
	if left := hook.remaining.Load(); left != 0 {
		t.Fatalf("expected exactly two attempts, %d failures left", left)
	}
}

func TestCanceledContextDoesNotRetry(t *testing.T) {
	store, _, rdb, done := newSessionStoreTest(t, Options{Retries: 3})
	defer done()

	hook := &failFirst{}
	hook.remaining.Store(10)
	rdb.AddHook(hook)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Get(ctx, "tok"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected unavailable for canceled context, got %v", err)
	}
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every backend failure surfaced by [Store].
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrSessionNotFound is returned when a token has no usable session.
var ErrSessionNotFound = errors.New("session not found")

const (
	// DefaultPrefix is the key namespace used when Options.Prefix is empty.
	DefaultPrefix = "auth"
	// DefaultOpTimeout bounds a single Redis round-trip.
	DefaultOpTimeout = 3 * time.Second
)

// Options controls key layout, expiry and failure handling of a [Store].
type Options struct {
	// Prefix is the key namespace; keys are "<Prefix>:<token>".
	Prefix string
	// TTL is applied on Put. Zero means no expiry.
	TTL time.Duration
	// OpTimeout bounds each attempt. Zero selects DefaultOpTimeout.
	OpTimeout time.Duration
	// Retries is the number of extra attempts after a backend failure.
	Retries int
}

// Store maps opaque tokens to identity snapshots in Redis.
//
// Store is safe for concurrent use; it holds no state beyond the client.
type Store struct {
	redis     redis.UniversalClient
	prefix    string
	ttl       time.Duration
	opTimeout time.Duration
	retries   int
}

// NewStore creates a session [Store] backed by the given Redis client.
//
// The client must be built with MaxRetries -1 and ContextTimeoutEnabled set,
// as [ClientOptions] does. Otherwise go-redis retries each attempt on its own
// and ignores the per-attempt deadline.
func NewStore(client redis.UniversalClient, opts Options) *Store {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = DefaultOpTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	return &Store{
		redis:     client,
		prefix:    opts.Prefix,
		ttl:       opts.TTL,
		opTimeout: opts.OpTimeout,
		retries:   opts.Retries,
	}
}

// Key returns the Redis key holding the session for token.
func (s *Store) Key(token string) string {
	return s.prefix + ":" + token
}

// Put writes the snapshot for token, overwriting any previous value.
//
//	Performance: 1 Redis SET.
func (s *Store) Put(ctx context.Context, token string, snap *Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}

	key := s.Key(token)
	return s.do(ctx, func(ctx context.Context) error {
		return s.redis.Set(ctx, key, data, s.ttl).Err()
	})
}

// Get returns the snapshot stored for token. A missing key and a value that
// fails to decode both yield [ErrSessionNotFound].
//
//	Performance: 1 Redis GET.
func (s *Store) Get(ctx context.Context, token string) (*Snapshot, error) {
	key := s.Key(token)

	var data []byte
	err := s.do(ctx, func(ctx context.Context) error {
		var getErr error
		data, getErr = s.redis.Get(ctx, key).Bytes()
		return getErr
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return snap, nil
}

// Delete removes the session for token. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	key := s.Key(token)
	return s.do(ctx, func(ctx context.Context) error {
		return s.redis.Del(ctx, key).Err()
	})
}

// do runs op under the per-attempt timeout, retrying backend failures up to
// s.retries times. redis.Nil and caller cancellation end the loop at once.
func (s *Store) do(ctx context.Context, op func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= s.retries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
		err = op(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		if errors.Is(err, redis.Nil) {
			return redis.Nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, ctx.Err())
		}
	}
	return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
}

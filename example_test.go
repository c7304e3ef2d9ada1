package toxin_test

import (
	"context"
	"errors"

	"github.com/MrEthical07/toxin"
	"github.com/MrEthical07/toxin/accounts"
	"github.com/redis/go-redis/v9"
)

// ExampleNew builds an engine with production-style dependencies.
func ExampleNew() {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})

	engine, err := toxin.New().
		WithConfig(toxin.HardenedConfig()).
		WithRedis(rdb).
		WithAccountStore(accounts.NewMemoryStore()).
		Build()
	if err != nil {
		return
	}
	defer engine.Close()
}

// ExampleEngine_SignIn shows sign-in error handling.
func ExampleEngine_SignIn() {
	var engine *toxin.Engine
	_, err := engine.SignIn(context.Background(), "alice", "secret")
	switch {
	case errors.Is(err, toxin.ErrInvalidCredentials):
		// 400
	case errors.Is(err, toxin.ErrStoreUnavailable):
		// 503
	}
}

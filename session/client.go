package session

import "github.com/redis/go-redis/v9"

// ClientOptions returns go-redis options for a client backing a [Store].
//
// go-redis's internal retries are disabled so Options.Retries is the only
// retry budget, and context deadlines are applied to socket I/O so
// Options.OpTimeout bounds every attempt, including connection setup.
func ClientOptions(addrs []string, password string, db int) *redis.UniversalOptions {
	return &redis.UniversalOptions{
		Addrs:                 addrs,
		Password:              password,
		DB:                    db,
		MaxRetries:            -1,
		ContextTimeoutEnabled: true,
	}
}

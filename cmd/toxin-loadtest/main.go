package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/toxin"
	"github.com/MrEthical07/toxin/accounts"
	"github.com/MrEthical07/toxin/password"
	"github.com/MrEthical07/toxin/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		accountCount = flag.Int("accounts", 100, "number of accounts to seed")
		concurrency  = flag.Int("concurrency", 64, "number of concurrent workers")
		signIns      = flag.Int("sign-ins", 2000, "operations in the sign-in phase")
		resolves     = flag.Int("resolves", 200000, "operations in the resolve phase")
		redisAddr    = flag.String("redis-addr", "", "redis address; if empty, TOXIN_REDIS_ADDR env or miniredis is used")
		mode         = flag.String("password-mode", password.ModeArgon2id, "argon2id or plaintext")
	)
	flag.Parse()

	if *accountCount <= 0 || *concurrency <= 0 || *signIns <= 0 || *resolves <= 0 {
		fmt.Fprintln(os.Stderr, "accounts, concurrency, sign-ins and resolves must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("TOXIN_REDIS_ADDR")
	}
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		defer mr.Close()
		addr = mr.Addr()
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		fmt.Printf("using redis at %s\n", addr)
	}

	client := redis.NewUniversalClient(session.ClientOptions([]string{addr}, "", 0))
	defer client.Close()

	cfg := toxin.DefaultConfig()
	cfg.Password.Mode = *mode
	cfg.Metrics = toxin.MetricsConfig{Enabled: true, EnableLatencyHistograms: true}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	engine, err := toxin.New().
		WithConfig(cfg).
		WithRedis(client).
		WithAccountStore(accounts.NewMemoryStore()).
		WithLogger(logger).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	fmt.Printf("seeding %d accounts...\n", *accountCount)
	startSeed := time.Now()
	for i := 0; i < *accountCount; i++ {
		if _, err := engine.CreateAccount(ctx, toxin.CreateAccountRequest{
			Username: username(i),
			Password: secret(i),
		}); err != nil {
			fmt.Fprintf(os.Stderr, "create account: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	var (
		tokensMu sync.Mutex
		tokens   []string
	)
	signInStats := runPhase(ctx, *signIns, *concurrency, func(ctx context.Context, r *rand.Rand) error {
		i := r.Intn(*accountCount)
		token, err := engine.SignIn(ctx, username(i), secret(i))
		if err != nil {
			return err
		}
		tokensMu.Lock()
		tokens = append(tokens, token)
		tokensMu.Unlock()
		return nil
	})
	if len(tokens) == 0 {
		fmt.Fprintln(os.Stderr, "no sign-in succeeded")
		os.Exit(1)
	}

	resolveStats := runPhase(ctx, *resolves, *concurrency, func(ctx context.Context, r *rand.Rand) error {
		_, err := engine.Resolve(ctx, tokens[r.Intn(len(tokens))])
		return err
	})

	fmt.Println("---- results ----")
	printStats("sign-in", signInStats)
	printStats("resolve", resolveStats)

	snap := engine.MetricsSnapshot()
	fmt.Printf("engine: sessions_created=%d resolve_success=%d store_errors=%d\n",
		snap.Counters[toxin.MetricSessionCreated],
		snap.Counters[toxin.MetricResolveSuccess],
		snap.Counters[toxin.MetricResolveStoreError]+snap.Counters[toxin.MetricSignInStoreError],
	)
}

func username(i int) string { return fmt.Sprintf("user-%d", i) }
func secret(i int) string   { return fmt.Sprintf("secret-%d", i) }

// runPhase spreads ops calls of op over concurrency workers. Failed calls
// are counted, not fatal.
func runPhase(ctx context.Context, ops, concurrency int, op func(context.Context, *rand.Rand) error) phaseStats {
	var (
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	start := time.Now()
	for w := 0; w < concurrency; w++ {
		worker := w
		g.Go(func() error {
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				if int(atomic.AddInt64(&cursor, 1))-1 >= ops {
					return nil
				}
				t0 := time.Now()
				err := op(gctx, r)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		})
	}
	_ = g.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

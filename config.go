package toxin

import (
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/toxin/password"
	"github.com/MrEthical07/toxin/session"
)

// Config holds every engine setting. Start from [DefaultConfig] and
// override fields; [Builder.Build] validates the result.
type Config struct {
	Session  SessionConfig
	Password PasswordConfig
	Gate     GateConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the Redis session store.
type SessionConfig struct {
	// KeyPrefix namespaces session keys as "<KeyPrefix>:<token>".
	KeyPrefix string
	// TTL expires sessions after issuance. Zero keeps them until evicted.
	TTL time.Duration
	// OperationTimeout bounds each Redis attempt.
	OperationTimeout time.Duration
	// Retries is the number of extra attempts after a Redis failure.
	Retries int
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig selects how stored credentials are produced and checked.
type PasswordConfig struct {
	// Mode is password.ModeArgon2id (default) or password.ModePlaintext.
	Mode        string
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func (c PasswordConfig) argon2() password.Config {
	return password.Config{
		Memory:      c.Memory,
		Time:        c.Time,
		Parallelism: c.Parallelism,
		SaltLength:  c.SaltLength,
		KeyLength:   c.KeyLength,
	}
}

// GateConfig controls token extraction in the request gate.
type GateConfig struct {
	// AcceptBearerPrefix strips a leading "Bearer " from the header value.
	AcceptBearerPrefix bool
}

// AuditConfig controls asynchronous audit dispatch.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters and the resolve latency histogram.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	pw := password.DefaultConfig()
	return Config{
		Session: SessionConfig{
			KeyPrefix:        session.DefaultPrefix,
			TTL:              0,
			OperationTimeout: session.DefaultOpTimeout,
			Retries:          1,
		},
		Password: PasswordConfig{
			Mode:        password.ModeArgon2id,
			Memory:      pw.Memory,
			Time:        pw.Time,
			Parallelism: pw.Parallelism,
			SaltLength:  pw.SaltLength,
			KeyLength:   pw.KeyLength,
		},
		Gate: GateConfig{
			AcceptBearerPrefix: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// DefaultConfig returns the configuration used by [New].
func DefaultConfig() Config {
	return defaultConfig()
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	// Session
	if strings.TrimSpace(c.Session.KeyPrefix) == "" {
		return errors.New("Session KeyPrefix must not be empty")
	}
	if strings.Contains(c.Session.KeyPrefix, ":") {
		return errors.New("Session KeyPrefix must not contain ':'")
	}
	if c.Session.TTL < 0 {
		return errors.New("Session TTL must be >= 0")
	}
	if c.Session.OperationTimeout <= 0 {
		return errors.New("Session OperationTimeout must be > 0")
	}
	if c.Session.Retries < 0 || c.Session.Retries > 3 {
		return errors.New("Session Retries must be between 0 and 3")
	}

	// Password
	switch c.Password.Mode {
	case password.ModeArgon2id:
		if err := c.Password.argon2().Validate(); err != nil {
			return err
		}
	case password.ModePlaintext:
	default:
		return errors.New("Password Mode must be argon2id or plaintext")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}

/*
====================================
LINT
====================================
*/

// LintWarning is a valid but risky setting.
type LintWarning struct {
	Code    string
	Message string
}

// LintWarnings is the result of [Config.Lint].
type LintWarnings []LintWarning

// Codes returns the warning codes in order.
func (ws LintWarnings) Codes() []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}

// Lint reports settings that pass Validate but weaken the deployment.
func (c Config) Lint() LintWarnings {
	var ws LintWarnings
	if c.Password.Mode == password.ModePlaintext {
		ws = append(ws, LintWarning{
			Code:    "password_plaintext",
			Message: "passwords are stored and compared as submitted",
		})
	}
	if c.Session.TTL == 0 {
		ws = append(ws, LintWarning{
			Code:    "session_no_expiry",
			Message: "sessions live until evicted by Redis",
		})
	}
	if c.Session.TTL > 30*24*time.Hour {
		ws = append(ws, LintWarning{
			Code:    "session_ttl_long",
			Message: "session TTL exceeds 30 days",
		})
	}
	if c.Session.Retries == 0 {
		ws = append(ws, LintWarning{
			Code:    "session_no_retry",
			Message: "a single transient Redis error fails the request",
		})
	}
	if c.Audit.Enabled && c.Audit.DropIfFull {
		ws = append(ws, LintWarning{
			Code:    "audit_may_drop",
			Message: "audit events are dropped when the buffer is full",
		})
	}
	return ws
}

// HardenedConfig returns DefaultConfig with a one-day session TTL and
// blocking audit delivery.
func HardenedConfig() Config {
	cfg := defaultConfig()
	cfg.Session.TTL = 24 * time.Hour
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false
	return cfg
}

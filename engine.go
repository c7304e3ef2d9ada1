package toxin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/toxin/internal"
	"github.com/MrEthical07/toxin/internal/audit"
	"github.com/MrEthical07/toxin/password"
	"github.com/MrEthical07/toxin/session"
	"github.com/sirupsen/logrus"
)

// Engine signs accounts in, resolves session tokens and manages accounts.
// Build one with [New]; it is safe for concurrent use.
type Engine struct {
	config   Config
	accounts AccountStore
	sessions *session.Store
	verifier password.Verifier
	audit    *audit.Dispatcher
	metrics  *Metrics
	logger   logrus.FieldLogger
}

// Close flushes pending audit events and stops the dispatcher. Stores
// passed to the Builder stay open; their owner closes them.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns the current counters and histograms.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// AcceptsBearerPrefix reports whether the request gate strips "Bearer ".
func (e *Engine) AcceptsBearerPrefix() bool {
	return e != nil && e.config.Gate.AcceptBearerPrefix
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) observeSince(id MetricID, start time.Time) {
	if e == nil || !e.metrics.LatencyEnabled() {
		return
	}
	e.metrics.Observe(id, time.Since(start))
}

// SignIn verifies username and password and issues a session token.
//
// The username is trimmed before lookup. An unknown username and a wrong
// password both return [ErrInvalidCredentials]. Account store and session
// store failures return an error wrapping [ErrStoreUnavailable]; no token is
// returned unless its session was written.
//
//	Performance: 1 account lookup, 1 password verification, 1 Redis SET.
func (e *Engine) SignIn(ctx context.Context, username, pass string) (string, error) {
	if e == nil || e.accounts == nil || e.sessions == nil {
		return "", ErrEngineNotReady
	}
	start := time.Now()
	defer e.observeSince(MetricSignInLatency, start)

	username = strings.TrimSpace(username)

	account, err := e.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			e.rejectSignIn(ctx, "", username, "unknown_username")
			return "", ErrInvalidCredentials
		}
		err = fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		e.failSignIn(ctx, username, err)
		return "", err
	}

	ok, err := e.verifier.Verify(pass, account.Password)
	if err != nil {
		e.logger.WithField("account_id", account.ID).WithError(err).Warn("stored credential unreadable")
	}
	if err != nil || !ok {
		e.rejectSignIn(ctx, account.ID, username, "password_mismatch")
		return "", ErrInvalidCredentials
	}
	pass = ""

	token, err := internal.NewToken()
	if err != nil {
		e.failSignIn(ctx, username, err)
		return "", fmt.Errorf("issue token: %w", err)
	}

	snap := &session.Snapshot{
		ID:       account.ID,
		Username: account.Username,
		Password: account.Password,
	}
	if err := e.sessions.Put(ctx, token, snap); err != nil {
		err = fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		e.failSignIn(ctx, username, err)
		return "", err
	}

	e.metricInc(MetricSessionCreated)
	e.metricInc(MetricSignInSuccess)
	e.emitAudit(ctx, auditEventSignInSuccess, true, account.ID, account.Username, nil, nil)

	return token, nil
}

func (e *Engine) rejectSignIn(ctx context.Context, accountID, username, reason string) {
	e.metricInc(MetricSignInFailure)
	e.emitAudit(ctx, auditEventSignInFailure, false, accountID, username, ErrInvalidCredentials, func() map[string]string {
		return map[string]string{
			"reason": reason,
		}
	})
}

func (e *Engine) failSignIn(ctx context.Context, username string, err error) {
	e.metricInc(MetricSignInStoreError)
	e.emitAudit(ctx, auditEventSignInFailure, false, "", username, err, nil)
}

// Resolve returns the identity bound to token.
//
// A token that is malformed, unknown, or whose stored record cannot be
// decoded returns [ErrUnauthenticated]. A session store failure returns an
// error wrapping [ErrStoreUnavailable].
//
//	Performance: 1 Redis GET; malformed tokens are rejected without I/O.
func (e *Engine) Resolve(ctx context.Context, token string) (*Identity, error) {
	if e == nil || e.sessions == nil {
		return nil, ErrEngineNotReady
	}
	start := time.Now()
	defer e.observeSince(MetricResolveLatency, start)

	if !internal.IsToken(token) {
		e.rejectResolve(ctx, "malformed_token")
		return nil, ErrUnauthenticated
	}

	snap, err := e.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			e.rejectResolve(ctx, "session_not_found")
			return nil, ErrUnauthenticated
		}
		e.metricInc(MetricResolveStoreError)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricResolveSuccess)
	return &Identity{
		ID:       snap.ID,
		Username: snap.Username,
		Password: snap.Password,
		Token:    token,
	}, nil
}

func (e *Engine) rejectResolve(ctx context.Context, reason string) {
	e.metricInc(MetricResolveFailure)
	e.emitAudit(ctx, auditEventSessionRejected, false, "", "", ErrUnauthenticated, func() map[string]string {
		return map[string]string{
			"reason": reason,
		}
	})
}

// SignOut deletes the session stored under token. Signing out an unknown
// token succeeds.
func (e *Engine) SignOut(ctx context.Context, token string) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}
	if !internal.IsToken(token) {
		return ErrUnauthenticated
	}

	if err := e.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var accountID, username string
	if identity, ok := IdentityFromContext(ctx); ok && identity.Token == token {
		accountID, username = identity.ID, identity.Username
	}
	e.metricInc(MetricSignOut)
	e.emitAudit(ctx, auditEventSignOut, true, accountID, username, nil, nil)
	return nil
}

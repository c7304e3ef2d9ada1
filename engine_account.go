package toxin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CreateAccount validates req, stores the credential produced by the
// configured verifier and returns the new account. The username is trimmed
// and must be unique.
func (e *Engine) CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	if e == nil || e.accounts == nil {
		return nil, ErrEngineNotReady
	}

	account, err := e.newAccountRecord(uuid.NewString(), req.Username, req.Password)
	if err != nil {
		e.emitAudit(ctx, auditEventAccountCreateFailure, false, "", strings.TrimSpace(req.Username), err, nil)
		return nil, err
	}

	if err := e.accounts.Insert(ctx, account); err != nil {
		err = accountStoreError(err)
		if errors.Is(err, ErrAccountExists) {
			e.metricInc(MetricAccountDuplicate)
		}
		e.emitAudit(ctx, auditEventAccountCreateFailure, false, "", account.Username, err, nil)
		return nil, err
	}

	e.metricInc(MetricAccountCreated)
	e.emitAudit(ctx, auditEventAccountCreated, true, account.ID, account.Username, nil, nil)
	return account, nil
}

// GetAccount returns the account with id or [ErrAccountNotFound].
func (e *Engine) GetAccount(ctx context.Context, id string) (*Account, error) {
	if e == nil || e.accounts == nil {
		return nil, ErrEngineNotReady
	}
	if strings.TrimSpace(id) == "" {
		return nil, ErrAccountNotFound
	}

	account, err := e.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, accountStoreError(err)
	}
	return account, nil
}

// ListAccounts returns every stored account.
func (e *Engine) ListAccounts(ctx context.Context) ([]Account, error) {
	if e == nil || e.accounts == nil {
		return nil, ErrEngineNotReady
	}

	accounts, err := e.accounts.List(ctx)
	if err != nil {
		return nil, accountStoreError(err)
	}
	return accounts, nil
}

// UpdateAccount replaces the username and password of account id.
// Sessions issued before the update keep their original snapshot.
func (e *Engine) UpdateAccount(ctx context.Context, id string, req UpdateAccountRequest) (*Account, error) {
	if e == nil || e.accounts == nil {
		return nil, ErrEngineNotReady
	}
	if strings.TrimSpace(id) == "" {
		return nil, ErrAccountNotFound
	}

	account, err := e.newAccountRecord(id, req.Username, req.Password)
	if err != nil {
		e.emitAudit(ctx, auditEventAccountUpdateFailure, false, id, strings.TrimSpace(req.Username), err, nil)
		return nil, err
	}

	if err := e.accounts.Update(ctx, account); err != nil {
		err = accountStoreError(err)
		if errors.Is(err, ErrAccountExists) {
			e.metricInc(MetricAccountDuplicate)
		}
		e.emitAudit(ctx, auditEventAccountUpdateFailure, false, id, account.Username, err, nil)
		return nil, err
	}

	e.metricInc(MetricAccountUpdated)
	e.emitAudit(ctx, auditEventAccountUpdated, true, account.ID, account.Username, nil, nil)
	return account, nil
}

// DeleteAccount removes account id. Deleting a missing account returns
// [ErrAccountNotFound].
func (e *Engine) DeleteAccount(ctx context.Context, id string) error {
	if e == nil || e.accounts == nil {
		return ErrEngineNotReady
	}
	if strings.TrimSpace(id) == "" {
		return ErrAccountNotFound
	}

	if err := e.accounts.Delete(ctx, id); err != nil {
		err = accountStoreError(err)
		e.emitAudit(ctx, auditEventAccountDeleteFailure, false, id, "", err, nil)
		return err
	}

	e.metricInc(MetricAccountDeleted)
	e.emitAudit(ctx, auditEventAccountDeleted, true, id, "", nil, nil)
	return nil
}

func (e *Engine) newAccountRecord(id, username, pass string) (*Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || pass == "" {
		return nil, ErrAccountInvalid
	}

	stored, err := e.verifier.Hash(pass)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &Account{
		ID:       id,
		Username: username,
		Password: stored,
	}, nil
}

// accountStoreError passes contract errors through and wraps everything
// else as a backend failure.
func accountStoreError(err error) error {
	switch {
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrAccountExists):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

package toxin

import "context"

// Account is a persisted credential record. Password holds the stored
// credential value produced by the configured verifier, never the raw
// submission unless the plaintext mode is selected.
type Account struct {
	ID       string
	Username string
	Password string
}

// Identity is the account snapshot bound to a session at sign-in. It is
// not refreshed when the account changes later.
type Identity struct {
	ID       string
	Username string
	Password string
	// Token is the session token the identity was resolved from.
	Token string
}

// AccountStore persists accounts. Implementations must enforce unique
// usernames and report:
//
//   - [ErrAccountNotFound] when FindByUsername, FindByID, Update or Delete
//     match nothing;
//   - [ErrAccountExists] when Insert or Update would duplicate a username.
//
// Any other error is treated as a backend failure.
type AccountStore interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	Insert(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id string) error
}

// CreateAccountRequest carries the fields accepted by [Engine.CreateAccount].
type CreateAccountRequest struct {
	Username string
	Password string
}

// UpdateAccountRequest replaces both fields of an existing account.
type UpdateAccountRequest struct {
	Username string
	Password string
}

package password

import (
	"crypto/subtle"
	"errors"
	"fmt"
)

const (
	// ModeArgon2id selects salted argon2id hashing.
	ModeArgon2id = "argon2id"
	// ModePlaintext selects exact comparison against the stored value.
	ModePlaintext = "plaintext"
)

// ErrMalformedHash is returned when a stored credential cannot be parsed.
var ErrMalformedHash = errors.New("malformed password hash")

// Verifier turns submitted passwords into stored credentials and checks
// submissions against them.
type Verifier interface {
	Hash(password string) (string, error)
	Verify(password, stored string) (bool, error)
}

// Plaintext keeps credentials as submitted.
type Plaintext struct{}

// Hash returns password unchanged.
func (Plaintext) Hash(password string) (string, error) {
	return password, nil
}

// Verify reports whether password equals stored exactly.
func (Plaintext) Verify(password, stored string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1, nil
}

// NewVerifier returns the verifier for mode. cfg is only used by argon2id.
func NewVerifier(mode string, cfg Config) (Verifier, error) {
	switch mode {
	case "", ModeArgon2id:
		return NewArgon2(cfg)
	case ModePlaintext:
		return Plaintext{}, nil
	default:
		return nil, fmt.Errorf("unsupported password mode %q", mode)
	}
}

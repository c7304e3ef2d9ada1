package internal

import (
	"crypto/rand"
	"errors"
	"io"
)

const (
	// TokenLength is the number of characters in an issued session token.
	TokenLength = 32

	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// Largest multiple of len(tokenAlphabet) that fits in a byte; bytes at or
	// above it are rejected so every symbol is equally likely.
	tokenRejectAbove = 256 - (256 % len(tokenAlphabet))
)

var errShortRandom = errors.New("random source exhausted")

// NewToken returns a fresh opaque session token drawn from crypto/rand.
func NewToken() (string, error) {
	return newTokenFrom(rand.Reader)
}

func newTokenFrom(src io.Reader) (string, error) {
	out := make([]byte, 0, TokenLength)
	buf := make([]byte, TokenLength*2)

	for attempts := 0; len(out) < TokenLength; attempts++ {
		if attempts > 16 {
			return "", errShortRandom
		}
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= tokenRejectAbove {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == TokenLength {
				break
			}
		}
	}

	return string(out), nil
}

// IsToken reports whether s has the shape of an issued token: exactly
// TokenLength ASCII letters or digits.
func IsToken(s string) bool {
	if len(s) != TokenLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

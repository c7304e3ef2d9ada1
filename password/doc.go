// Package password implements credential hashing and verification for stored accounts.
//
// # Output format
//
// [Argon2] hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// [Plaintext] stores the submitted value unchanged and compares byte-for-byte.
// It exists only to interoperate with account data written by legacy
// deployments and must be selected explicitly.
//
// # Architecture boundaries
//
// This package owns hashing and comparison only. It enforces no password policy
// (length, composition, reuse history).
//
// # What this package must NOT do
//
//   - Store or retrieve passwords. Callers supply plaintext and receive hashes.
//   - Import any other toxin package.
//   - Log plaintext passwords or hash parameters at runtime.
package password

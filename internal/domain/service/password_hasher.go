// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	Check(password, hash string) bool
}

// TokenHasher hashes raw refresh tokens for at-rest storage. The hash is
// salted, so the same token hashes differently each time; matching a stored
// hash requires Matches, never string equality.
type TokenHasher interface {
	// Hash produces a salted, self-describing hash of the raw token.
	Hash(token string) (string, error)

	// Matches reports whether the raw token corresponds to the stored hash.
	Matches(token, hash string) bool
}

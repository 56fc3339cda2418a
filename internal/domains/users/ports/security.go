package ports

import "time"

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// Token is a signed bearer token.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies bearer tokens carrying a user id.
type TokenIssuer interface {
	Issue(userID string) (Token, error)
	// Verify returns the user id carried by a valid, unexpired token.
	Verify(token string) (string, error)
}

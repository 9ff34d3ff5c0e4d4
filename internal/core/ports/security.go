package ports

import "github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never fails loudly: a malformed hash is a mismatch.
	Verify(plaintext, hash string) bool
}

type TokenIssuer interface {
	Issue(identity domain.Identity) (string, error)
	// Verify returns the claims as issued; callers must not trust role or
	// department from here without re-reading the user.
	Verify(token string) (domain.Identity, error)
}

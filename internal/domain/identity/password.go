package identity

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/backend/internal/domain/shared"
)

// bcryptCost matches the salt rounds the storefront has always used
const bcryptCost = 10

// bcrypt ignores input beyond 72 bytes
const maxPasswordLength = 72

// Credential holds a password hash and whether it changed since load.
// Repositories write the hash column only when Changed reports true.
type Credential struct {
	hash    string
	changed bool
}

// NewCredential hashes a plaintext password
func NewCredential(password string) (Credential, error) {
	if err := validatePassword(password); err != nil {
		return Credential{}, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return Credential{}, ErrPasswordHashFailure
	}
	return Credential{hash: hash, changed: true}, nil
}

// RestoreCredential rebuilds a credential from a stored hash
func RestoreCredential(hash string) Credential {
	return Credential{hash: hash}
}

// Hash returns the stored bcrypt hash
func (c Credential) Hash() string {
	return c.hash
}

// Changed reports whether the hash was set since the credential was loaded
func (c Credential) Changed() bool {
	return c.changed
}

// Verify reports whether password matches the hash
func (c Credential) Verify(password string) bool {
	if c.hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.hash), []byte(password)) == nil
}

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) > maxPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

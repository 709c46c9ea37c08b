package auth

import (
	"crypto/subtle"

	pkgauth "github.com/bitemebuddy/admin-api/pkg/auth"
)

// AdminCredentials holds the configured back-office operator identity. The
// password is a bcrypt hash loaded from configuration; no plaintext secret
// ever lives in memory longer than the login request that carries it.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

// Verify checks a login attempt. The username comparison is constant-time
// and the bcrypt comparison runs even when the username does not match, so
// a wrong username and a wrong password are indistinguishable by timing.
func (c AdminCredentials) Verify(username, password string) bool {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passwordErr := pkgauth.ComparePassword(c.PasswordHash, password)

	return usernameMatch && passwordErr == nil
}

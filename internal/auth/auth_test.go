package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testCredentials(t *testing.T) AdminCredentials {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	return AdminCredentials{Username: "admin", PasswordHash: string(hash)}
}

func TestAdminCredentials_Verify(t *testing.T) {
	creds := testCredentials(t)

	assert.True(t, creds.Verify("admin", "s3cret-pass"))
	assert.False(t, creds.Verify("admin", "wrong"))
	assert.False(t, creds.Verify("root", "s3cret-pass"))
	assert.False(t, creds.Verify("", ""))
}

func TestSessionManager_IssueAndValidate(t *testing.T) {
	sm := NewSessionManager("test-session-secret-32-chars-long!!", time.Hour)

	token, err := sm.Issue("admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := sm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	assert.NotEmpty(t, session.TokenID)
	assert.WithinDuration(t, time.Now(), session.IssuedAt, 5*time.Second)
}

func TestSessionManager_Validate_WrongSecret(t *testing.T) {
	sm := NewSessionManager("test-session-secret-32-chars-long!!", time.Hour)
	other := NewSessionManager("a-completely-different-secret-value", time.Hour)

	token, err := sm.Issue("admin")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestSessionManager_Validate_Expired(t *testing.T) {
	sm := NewSessionManager("test-session-secret-32-chars-long!!", -time.Minute)

	token, err := sm.Issue("admin")
	require.NoError(t, err)

	_, err = sm.Validate(token)
	assert.Error(t, err)
}

func TestRequireSession(t *testing.T) {
	sm := NewSessionManager("test-session-secret-32-chars-long!!", time.Hour)

	var captured *Session
	handler := RequireSession(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no header", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/users", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, false, resp["success"])
		assert.Equal(t, "Please login to access admin panel", resp["error"])
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/users", nil)
		r.Header.Set("Authorization", "Token abc")
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/users", nil)
		r.Header.Set("Authorization", "Bearer not-a-jwt")
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token reaches handler with session", func(t *testing.T) {
		token, err := sm.Issue("admin")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/users", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured)
		assert.Equal(t, "admin", captured.Username)
	})
}

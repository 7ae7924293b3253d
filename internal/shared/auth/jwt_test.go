package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)

	token, err := mgr.Issue("user-1", "alice@example.com", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)

	_, err := mgr.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = mgr.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.Issue("user-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	mgr := NewManager("test-secret", time.Millisecond)

	token, err := mgr.Issue("user-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = mgr.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

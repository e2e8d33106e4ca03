package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("super-secret", 30*time.Minute, 720*time.Hour)
}

func TestIssueAndVerifyAccess(t *testing.T) {
	m := newTestManager()

	tok, expiresAt, err := m.IssueAccess("a@x.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := m.Verify(tok, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, TokenAccess, claims.TokenType)
}

func TestVerifyExpired(t *testing.T) {
	m := NewTokenManager("super-secret", -1*time.Second, -1*time.Second)

	tok, _, err := m.IssueAccess("a@x.com")
	require.NoError(t, err)

	_, err = m.Verify(tok, TokenAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewTokenManager("other-secret", 30*time.Minute, 720*time.Hour)

	tok, _, err := m.IssueAccess("a@x.com")
	require.NoError(t, err)

	_, err = other.Verify(tok, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongType(t *testing.T) {
	m := newTestManager()

	refresh, _, err := m.IssueRefresh("a@x.com")
	require.NoError(t, err)
	access, _, err := m.IssueAccess("a@x.com")
	require.NoError(t, err)

	_, err = m.Verify(refresh, TokenAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = m.Verify(access, TokenRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerifyMalformed(t *testing.T) {
	m := newTestManager()

	_, err := m.Verify("not.a.jwt", TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

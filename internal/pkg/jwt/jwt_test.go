//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"room-allocation-engine/internal/pkg/clock"
	"room-allocation-engine/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokens(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	svc := jwt.NewService("secret", time.Hour, clk)

	token, issued, err := svc.IssueSession("alice")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, issued.SessionID, claims.SessionID)
	assert.Equal(t, "alice", claims.Operator)
	assert.Equal(t, issued.SessionID.String(), claims.OwnerToken())

	t.Run("two sessions never share an owner token", func(t *testing.T) {
		_, other, err := svc.IssueSession("alice")
		require.NoError(t, err)
		assert.NotEqual(t, issued.OwnerToken(), other.OwnerToken())
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := jwt.NewService("other", time.Hour, clk).ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		clk.Add(2 * time.Hour)
		defer clk.Add(-2 * time.Hour)
		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("a.b.c")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}

//go:build unit

package api_test

import (
	"testing"
	"time"

	reqdto "room-allocation-engine/internal/handler/dto/request"
	"room-allocation-engine/internal/handler/middleware"
	"room-allocation-engine/internal/pkg/clock"
	"room-allocation-engine/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

// testSession is a signed wizard session for handler tests.
type testSession struct {
	tokens     *jwt.Service
	middleware *middleware.SessionMiddleware
	token      string
	owner      string
}

func newTestSession(t *testing.T) testSession {
	t.Helper()
	require.NoError(t, reqdto.RegisterValidators())

	tokens := jwt.NewService("handler-test-secret", time.Hour, clock.NewMockClock(testNow))
	token, claims, err := tokens.IssueSession("front-desk")
	require.NoError(t, err)
	return testSession{
		tokens:     tokens,
		middleware: middleware.NewSessionMiddleware(tokens),
		token:      token,
		owner:      claims.OwnerToken(),
	}
}

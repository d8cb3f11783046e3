//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"room-allocation-engine/internal/handler/api"
	resdto "room-allocation-engine/internal/handler/dto/response"
	"room-allocation-engine/internal/handler/middleware"
	"room-allocation-engine/internal/pkg/config"
	"room-allocation-engine/internal/pkg/cookie"
	"room-allocation-engine/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	session := newTestSession(t)

	cfg := config.Config{
		Session: config.SessionConfig{Secret: "handler-test-secret", Duration: time.Hour},
		Cookie:  config.CookieConfig{SameSite: "Strict"},
	}
	h := api.NewSessionHandler(session.tokens, cfg)

	router := gin.New()
	router.POST("/sessions", h.Open)
	router.DELETE("/sessions", h.Close)
	router.GET("/whoami", session.middleware.RequireSession(), func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetOwnerToken(c))
	})

	t.Run("open issues a token and a cookie", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodPost, "/sessions", map[string]any{"operator": "alice"}, "")

		var res resdto.SessionResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusCreated, &res)
		assert.Equal(t, "alice", res.Operator)
		assert.NotEmpty(t, res.SessionID)
		assert.Equal(t, "2024-03-10T10:00:00Z", res.ExpiresAt)

		c := httptest.ExtractCookie(rec, cookie.SessionCookieName)
		require.NotNil(t, c)
		assert.Equal(t, res.Token, c.Value)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

		rec = httptest.PerformRequestWithCookies(t, router, http.MethodGet, "/whoami", nil, []*http.Cookie{c}, "")
		assert.Equal(t, http.StatusOK, rec.Code, "the cookie alone authenticates the wizard")
		assert.Equal(t, res.SessionID, rec.Body.String())
	})

	t.Run("open without a body", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodPost, "/sessions", nil, "")
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("close clears the cookie", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodDelete, "/sessions", nil, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		c := httptest.ExtractCookie(rec, cookie.SessionCookieName)
		require.NotNil(t, c)
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	})
}

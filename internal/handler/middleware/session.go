package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"room-allocation-engine/internal/handler/httperr"
	"room-allocation-engine/internal/pkg/cookie"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

type SessionMiddleware struct {
	tokens *jwt.Service
}

const (
	ctxSessionKey      = "session_claims"
	SessionTokenHeader = "X-Session-Token"
)

var errSessionRequired = errs.New("session token required")

func NewSessionMiddleware(tokens *jwt.Service) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens}
}

// sessionToken looks at the cookie, then X-Session-Token, then a Bearer Authorization header.
func sessionToken(c *gin.Context) string {
	if token := cookie.GetSessionToken(c); token != "" {
		return token
	}
	if token := strings.TrimSpace(c.GetHeader(SessionTokenHeader)); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errSessionRequired, "Session token required", nil)
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("session validation failed", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired session", nil)
			return
		}

		c.Set(ctxSessionKey, claims)
		c.Next()
	}
}

// OptionalSession attaches the session when a valid token is present and never aborts.
func (m *SessionMiddleware) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := sessionToken(c); token != "" {
			if claims, err := m.tokens.ValidateToken(token); err == nil {
				c.Set(ctxSessionKey, claims)
			}
		}
		c.Next()
	}
}

func GetSession(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(ctxSessionKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

// GetOwnerToken returns the hold owner token of the current session, or "" without one.
func GetOwnerToken(c *gin.Context) string {
	if claims, ok := GetSession(c); ok {
		return claims.OwnerToken()
	}
	return ""
}

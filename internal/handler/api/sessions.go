package api

import (
	"net/http"
	"time"

	reqdto "room-allocation-engine/internal/handler/dto/request"
	resdto "room-allocation-engine/internal/handler/dto/response"
	"room-allocation-engine/internal/handler/httperr"
	"room-allocation-engine/internal/pkg/config"
	"room-allocation-engine/internal/pkg/cookie"
	"room-allocation-engine/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	tokens    *jwt.Service
	cookieCfg config.CookieConfig
	duration  time.Duration
}

func NewSessionHandler(tokens *jwt.Service, cfg config.Config) *SessionHandler {
	return &SessionHandler{
		tokens:    tokens,
		cookieCfg: cfg.Cookie,
		duration:  cfg.Session.Duration,
	}
}

// @Summary Open booking wizard session
// @Description Issue a session token. Holds placed with it belong to this session.
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body reqdto.OpenSessionRequest false "Operator name"
// @Success 201 {object} resdto.SessionResponse
// @Failure 400 {object} httperr.Response
// @Router /sessions [post]
func (h *SessionHandler) Open(c *gin.Context) {
	var req reqdto.OpenSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", reqdto.FieldErrors(err))
			return
		}
	}
	token, claims, err := h.tokens.IssueSession(req.Operator)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to open session", nil)
		return
	}
	cookie.SetSessionCookie(c, h.cookieCfg, token, h.duration)
	c.JSON(http.StatusCreated, resdto.SessionResponse{
		Token:     token,
		SessionID: claims.OwnerToken(),
		Operator:  claims.Operator,
		ExpiresAt: claims.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// @Summary Close booking wizard session
// @Description Clear the session cookie. Holds are left to expire or be released explicitly.
// @Tags sessions
// @Success 204 "No Content"
// @Router /sessions [delete]
func (h *SessionHandler) Close(c *gin.Context) {
	cookie.ClearSessionCookie(c, h.cookieCfg)
	c.Status(http.StatusNoContent)
}

package middleware

import (
	"log/slog"
	"slices"

	"room-allocation-engine/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware always lets browsers send the session header, whatever CORS_ALLOW_HEADERS says.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	headers := slices.Clone(cfg.AllowHeaders)
	if !slices.Contains(headers, SessionTokenHeader) {
		headers = append(headers, SessionTokenHeader)
	}
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     headers,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins, "allow_headers", headers)
	return cors.New(corsCfg)
}

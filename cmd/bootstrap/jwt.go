package bootstrap

import (
	"room-allocation-engine/internal/pkg/clock"
	"room-allocation-engine/internal/pkg/config"
	"room-allocation-engine/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config, clk clock.Clock) *jwt.Service {
	return jwt.NewService(cfg.Session.Secret, cfg.Session.Duration, clk)
}

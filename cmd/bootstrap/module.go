package bootstrap

import (
	"room-allocation-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	components.PersistenceModule,
	components.UseCaseModule,
	JWTModule,
	SweeperModule,
	components.HandlerModule,
)

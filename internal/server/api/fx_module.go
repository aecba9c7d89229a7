package api

import (
	"go.uber.org/fx"
)

var Module = fx.Module("api",
	fx.Provide(NewLeadHandlers),
	fx.Provide(NewDealHandlers),
	fx.Provide(NewAuthHandlers),
	fx.Provide(NewSystemHandlers),
)

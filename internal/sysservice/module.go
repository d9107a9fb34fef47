package sysservice

import "go.uber.org/fx"

var Module = fx.Options(
	fx.Provide(NewSupervisor),
	fx.Provide(NewManager),
)

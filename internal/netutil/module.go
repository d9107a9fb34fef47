package netutil

import "go.uber.org/fx"

var Module = fx.Options(
	fx.Provide(NewIPChecker),
	fx.Provide(NewResolver),
	fx.Provide(NewPortAllocator),
)

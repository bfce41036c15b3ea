package preference

import (
	"go.uber.org/fx"
)

var Module = fx.Module("preference_repository",
	fx.Provide(
		fx.Annotate(
			NewPgx,
			fx.As(new(Repository)),
		),
	),
)

package category

import (
	"go.uber.org/fx"
)

var Module = fx.Module("category_repository",
	fx.Provide(
		fx.Annotate(
			NewPgx,
			fx.As(new(Repository)),
		),
	),
)

package matching

import (
	"github.com/revlinelabs/revline/internal/matching/service"
	"go.uber.org/fx"
)

var Module = fx.Module("matching.service",
	fx.Provide(service.NewService),
)

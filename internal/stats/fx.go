package stats

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/warung/internal/stats/service"
)

// Module wires the read-side statistics.
var Module = fx.Module("stats.service",
	fx.Provide(service.New),
)

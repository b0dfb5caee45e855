package order

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/warung/internal/order/repository"
	"github.com/smallbiznis/warung/internal/order/service"
)

// Module wires order checkout and lifecycle.
var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package customer

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/warung/internal/customer/repository"
	"github.com/smallbiznis/warung/internal/customer/service"
)

// Module wires the customer ledger.
var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

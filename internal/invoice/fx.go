package invoice

import (
	"github.com/smallbiznis/billfold/internal/invoice/service"
	"github.com/smallbiznis/billfold/internal/invoice/status"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	status.Module,
	fx.Provide(service.NewService),
)

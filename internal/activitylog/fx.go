package activitylog

import (
	"github.com/smallbiznis/billfold/internal/activitylog/repository"
	"github.com/smallbiznis/billfold/internal/activitylog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("activitylog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

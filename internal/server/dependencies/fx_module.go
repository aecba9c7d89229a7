package dependencies

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/tidescale/crmhub/internal/audit"
	"github.com/tidescale/crmhub/internal/authz"
	"github.com/tidescale/crmhub/internal/log"
	"github.com/tidescale/crmhub/internal/sanitize"
	"github.com/tidescale/crmhub/internal/server/middleware"
	"github.com/tidescale/crmhub/internal/tenant"
)

var Module = fx.Module("dependencies",
	fx.Provide(log.New),
	fx.Provide(sanitize.New),
	fx.Provide(tenant.NewResolver),
	fx.Provide(authz.DefaultPermissionTable),
	fx.Provide(NewAuditSink),
	fx.Provide(middleware.NewAuthorizer),
)

// NewAuditSink assembles the audit pipeline. Events always reach the
// structured log; the redis stream sink is added when configured.
func NewAuditSink(lc fx.Lifecycle, config audit.Config) audit.Sink {
	sinks := audit.Sinks{audit.NewLogSink()}

	if config.Redis.Enabled {
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{config.Redis.Addr},
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})

		sinks = append(sinks, audit.NewRedisSink(client, config.Stream))
	}

	return sinks
}

package globals

import (
	"context"
	"database/sql"

	"bom-dashboard/internal/api"
	"bom-dashboard/internal/cache"
	"bom-dashboard/internal/components/chrono"
	"bom-dashboard/internal/components/telemetry"
	"bom-dashboard/internal/config"
)

type ctxKey struct{}

// Value is everything a subcommand needs, it is built once by the root
// command before any subcommand runs.
type Value struct {
	Config    config.Config
	Clock     chrono.API
	Telemetry telemetry.API
	Cache     *cache.Store[api.Payload]
	Client    *api.Client

	// Snapshot is nil when no snapshot database is configured or caching
	// is disabled.
	Snapshot *cache.Snapshot[api.Payload]
	DB       *sql.DB
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, ctxKey{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(ctxKey{}).(*Value)
}

package app

import (
	"github.com/ghuser/itemsapi/pkg/cache"
	"github.com/ghuser/itemsapi/pkg/database"
	"github.com/ghuser/itemsapi/pkg/events"
	"github.com/ghuser/itemsapi/pkg/logger"
)

// Application holds shared infrastructure dependencies for all services.
// Built once in main and passed to each service's Routes function.
//
// Logging: app.Logger is backed by a trace-aware handler, so use slog's context
// methods and trace_id, span_id and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "item created", "item_id", id)
//
// Redis and EventBus are optional and nil when disabled in config.
type Application struct {
	Db       *database.Database
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *cache.RedisClient
}

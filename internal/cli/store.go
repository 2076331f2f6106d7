package cli

import (
	"context"
	"fmt"

	"github.com/spiral023/eventhorizon-sub000/internal/config"
	"github.com/spiral023/eventhorizon-sub000/internal/database"
	"github.com/spiral023/eventhorizon-sub000/internal/events"
	"github.com/spiral023/eventhorizon-sub000/internal/mongostore"
)

// backend is a store serving both events and comments.
type backend interface {
	events.Store
	events.CommentStore
}

// openBackend opens the configured store. The returned close func releases
// it.
func openBackend(ctx context.Context, cfg config.Config) (backend, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		s, err := database.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return s, s.Close, nil
	case config.DriverMongo:
		s, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		return s, func() error { return s.Close(context.Background()) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/bh-assurance/agent-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "agent.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	case "file":
		path := cfg.Store.DatabaseURL
		if path == "" {
			path = "feedback/feedback.json"
		}
		return store.NewFile(path)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/meridian-tax/caseflow/internal/calc"
	"github.com/meridian-tax/caseflow/internal/lookup"
	"github.com/meridian-tax/caseflow/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "caseflow.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// openStore validates the config for the given run mode, opens the
// store, and applies migrations.
func openStore(ctx context.Context, mode string) (store.Store, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	return st, nil
}

// loadCatalog loads the classification catalog, preferring a rules file
// from config over the embedded one.
func loadCatalog() (*lookup.StaticCatalog, error) {
	if cfg.Lookup.RulesPath != "" {
		return lookup.LoadFile(cfg.Lookup.RulesPath)
	}
	return lookup.Load()
}

func statuteOptions() calc.StatuteOptions {
	return calc.StatuteOptions{Fallback: calc.FallbackMode(cfg.Calc.CSEDFallback)}
}

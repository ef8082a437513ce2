package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/meridian-tax/caseflow/internal/lookup"
	"github.com/meridian-tax/caseflow/internal/pipeline"
	"github.com/meridian-tax/caseflow/internal/store"
)

// pipelineEnv holds the store, lookup catalog, and processor shared by
// the serve, ingest, and replay commands.
type pipelineEnv struct {
	Store     store.Store
	Catalog   lookup.Catalog
	Processor *pipeline.Processor
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline validates the config for the given run mode, opens the
// store, loads the lookup catalog, and builds the processor. Callers
// should defer env.Close().
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	st, err := openStore(ctx, mode)
	if err != nil {
		return nil, err
	}

	cat, err := loadCatalog()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	zap.L().Info("lookup catalog loaded",
		zap.Int("transaction_rules", len(cat.TransactionRules())),
	)

	return &pipelineEnv{
		Store:     st,
		Catalog:   cat,
		Processor: pipeline.New(st, cat),
	}, nil
}

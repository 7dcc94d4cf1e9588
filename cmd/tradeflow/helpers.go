package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elaraway/tradeflow/internal/config"
	"github.com/elaraway/tradeflow/internal/model"
	"github.com/elaraway/tradeflow/internal/service"
	"github.com/elaraway/tradeflow/internal/storage"
)

// flowFromFlags parses the shared --flow flag.
func flowFromFlags(cmd *cobra.Command) (model.Flow, error) {
	raw, _ := cmd.Flags().GetString("flow")
	return model.ParseFlow(raw)
}

// loadConfig assembles the per-flow configuration from viper.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flow, err := flowFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	return config.Load(flow)
}

// loadConfigForFlow is loadConfig for commands without a meaningful flow
// flag of their own.
func loadConfigForFlow(flow model.Flow) (*config.Config, error) {
	return config.Load(flow)
}

// initStorage opens the record store and brings its schema current.
func initStorage(ctx context.Context, cfg *config.Config) (service.RecordStore, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

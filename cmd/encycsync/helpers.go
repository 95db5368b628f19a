package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"encyc-sync/pkg/config"
	"encyc-sync/pkg/docstore"
	"encyc-sync/pkg/logging"
	"encyc-sync/pkg/psms"
	"encyc-sync/pkg/publish"
	"encyc-sync/pkg/reports"
	"encyc-sync/pkg/wiki"
)

// app bundles everything a command needs after setup.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	store     *docstore.Store
	archive   *reports.Store // nil when no DSN configured
	publisher *publish.Publisher
}

func (a *app) close(ctx context.Context) {
	if a.archive != nil {
		_ = a.archive.Close()
	}
	if a.store != nil {
		_ = a.store.Close(ctx)
	}
	_ = a.log.Sync()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path, _ = cmd.Root().PersistentFlags().GetString("config")
	}
	return config.Load(path)
}

// setup loads the config and connects to the document store. The report
// archive is only opened when a DSN is configured.
func setup(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(&cfg.Logging)

	store, err := docstore.Connect(ctx, cfg.Docstore, logger)
	if err != nil {
		return nil, err
	}

	var archive *reports.Store
	if cfg.Reports.DSN != "" {
		archive = reports.NewStore(cfg.Reports)
		if err := archive.Connect(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("report archive: %w", err)
		}
	}

	publisher := publish.New(
		wiki.NewClient(cfg.Wiki, logger),
		psms.NewClient(cfg.PSMS, logger),
		store,
		archive,
		cfg.Publish,
		logger,
	)
	return &app{
		cfg:       cfg,
		log:       logger,
		store:     store,
		archive:   archive,
		publisher: publisher,
	}, nil
}

package main

import (
	"context"
	"fmt"

	"github.com/khoahotran/portfolio-cms/adapters/persistence"
	"github.com/khoahotran/portfolio-cms/adapters/remote"
	backupUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/backup"
	cms "github.com/khoahotran/portfolio-cms/internal/application/usecase/content"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// app is the store wiring shared by every command.
type app struct {
	store      *cms.Store
	reconciler *cms.Reconciler
	backup     *backupUC.BackupUseCase
	close      func()
}

// newApp is replaced in tests.
var newApp = buildApp

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	log := logger.NewZapLogger(cfg.App.Env)

	kv, closeKV, err := persistence.NewKeyValueStore(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("cannot open content storage: %w", err)
	}
	fetcher, err := remote.NewHTTPFetcher(cfg, log)
	if err != nil {
		closeKV()
		return nil, err
	}

	reconciler := cms.NewReconciler(kv, cms.ReconcilerConfig{
		PrimaryKey: cfg.CMS.PrimaryKey,
		BackupKey:  cfg.CMS.BackupKey,
		MaxAge:     cfg.CMS.MaxSnapshotAge,
	}, nil, log)
	store := cms.NewStore(fetcher, reconciler, log)

	return &app{
		store:      store,
		reconciler: reconciler,
		backup:     backupUC.NewBackupUseCase(store, nil, log),
		close: func() {
			store.Close()
			closeKV()
			_ = log.Sync()
		},
	}, nil
}

func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}

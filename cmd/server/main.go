package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/adapters/event"
	httpAdapter "github.com/khoahotran/portfolio-cms/adapters/http"
	"github.com/khoahotran/portfolio-cms/adapters/media_storage"
	"github.com/khoahotran/portfolio-cms/adapters/persistence"
	"github.com/khoahotran/portfolio-cms/adapters/remote"
	"github.com/khoahotran/portfolio-cms/adapters/render"
	"github.com/khoahotran/portfolio-cms/internal/application/service"
	adminUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/admin"
	backupUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/backup"
	contactUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/contact"
	cms "github.com/khoahotran/portfolio-cms/internal/application/usecase/content"
	feedUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/feed"
	searchUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/search"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
	"github.com/khoahotran/portfolio-cms/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Start Portfolio CMS Server...", zap.String("env", cfg.App.Env))

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "portfolio-cms-server")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer tp.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies
	kv, closeKV, err := persistence.NewKeyValueStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot open content storage", err, zap.String("driver", cfg.Storage.Driver))
	}
	defer closeKV()

	fetcher, err := remote.NewHTTPFetcher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init remote content fetcher", err)
	}

	shell, err := render.LoadShell(cfg.CMS.ShellPath)
	if err != nil {
		appLogger.Fatal("cannot load page shell", err)
	}
	page, err := render.NewPageRenderer(shell, appLogger)
	if err != nil {
		appLogger.Fatal("cannot parse page shell", err)
	}

	storeOpts := []cms.Option{cms.WithRenderer(page)}
	var mailer service.Mailer = event.NewLogMailer(appLogger)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		storeOpts = append(storeOpts, cms.WithPublisher(kafkaClient))
		mailer = kafkaClient
	} else {
		appLogger.Warn("Kafka brokers not configured, change events are disabled and contact messages are only logged")
	}

	var uploader service.Uploader
	if cfg.Cloudinary.CloudName != "" {
		uploader, err = media_storage.NewCloudinaryAdapter(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize uploader", err)
		}
	}

	// Content store
	reconciler := cms.NewReconciler(kv, cms.ReconcilerConfig{
		PrimaryKey: cfg.CMS.PrimaryKey,
		BackupKey:  cfg.CMS.BackupKey,
		MaxAge:     cfg.CMS.MaxSnapshotAge,
	}, nil, appLogger)
	store := cms.NewStore(fetcher, reconciler, appLogger, storeOpts...)
	store.Load(ctx)
	store.StartAutosave(ctx, cfg.CMS.AutosaveInterval)

	// Use Cases
	dashboardUseCase := adminUC.NewGetDashboardUseCase(store)
	contentEditor := adminUC.NewContentEditor(store, appLogger)
	editSession := adminUC.NewEditSession(store, appLogger)
	backupUseCase := backupUC.NewBackupUseCase(store, uploader, appLogger)
	searchUseCase := searchUC.NewSearchUseCase(store, appLogger)
	rssUseCase := feedUC.NewRSSUseCase(store, cfg.CMS.SiteURL, appLogger)
	sendMessageUseCase := contactUC.NewSendMessageUseCase(mailer, appLogger)

	// HTTP Handlers
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.Handlers{
		Content: httpAdapter.NewContentHandler(store, page, appLogger),
		Admin:   httpAdapter.NewAdminHandler(store, dashboardUseCase, contentEditor, editSession, appLogger),
		Backup:  httpAdapter.NewBackupHandler(backupUseCase, appLogger),
		Search:  httpAdapter.NewSearchHandler(searchUseCase, appLogger),
		RSS:     httpAdapter.NewRSSHandler(rssUseCase, appLogger),
		Contact: httpAdapter.NewContactHandler(sendMessageUseCase, appLogger),
	}, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Cannot run server", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	store.Shutdown(shutdownCtx)
	appLogger.Info("Server exited")
}

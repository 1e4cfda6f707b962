package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "storepos/docs"
	"storepos/internal/analytics"
	"storepos/internal/caching"
	"storepos/internal/config"
	"storepos/internal/handlers"
	"storepos/internal/jobs"
	"storepos/internal/jobs/background"
	"storepos/internal/metrics"
	"storepos/internal/middleware"
	"storepos/internal/repositories"
	"storepos/internal/services"
	"storepos/pkg/database"
	"storepos/pkg/logger"

	"github.com/go-extras/cobraflags"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

const (
	portFlag        = "port"
	databaseURLFlag = "database-url"
	logLevelFlag    = "log-level"

	shutdownTimeout = 10 * time.Second
)

var serveFlags = map[string]cobraflags.Flag{
	portFlag: &cobraflags.StringFlag{
		Name:  portFlag,
		Value: "",
		Usage: "HTTP listen port, overrides PORT",
	},
	databaseURLFlag: &cobraflags.StringFlag{
		Name:  databaseURLFlag,
		Value: "",
		Usage: "PostgreSQL connection string, overrides DATABASE_URL",
	},
	logLevelFlag: &cobraflags.StringFlag{
		Name:  logLevelFlag,
		Value: "",
		Usage: "debug, info, warn or error, overrides LOG_LEVEL",
	},
}

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), map[string]string{
				"PORT":         serveFlags[portFlag].GetString(),
				"DATABASE_URL": serveFlags[databaseURLFlag].GetString(),
				"LOG_LEVEL":    serveFlags[logLevelFlag].GetString(),
			})
		},
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func serve(ctx context.Context, overrides map[string]string) error {
	cfg, log, err := loadConfig(overrides)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if _, err := migrateUp(ctx, pool, log); err != nil {
		return err
	}

	m := metrics.New(cfg.Metrics.Prefix, prometheus.DefaultRegisterer)

	var cache caching.CacheService
	if cfg.Redis.Enabled {
		cache = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	} else {
		log.Info("redis disabled, caching off")
		cache = caching.NewNoopCacheService()
	}

	storage := openStorage(ctx, cfg.Storage, log)

	sessionSecret := cfg.Session.Secret
	if sessionSecret == "" {
		if cfg.IsProduction() {
			return errors.New("SESSION_SECRET is required in production")
		}
		sessionSecret = random.String(48)
		log.Warn("SESSION_SECRET not set, using a generated secret; sessions will not survive a restart")
	}

	tenantRepo := repositories.NewTenantRepo(pool)
	employeeRepo := repositories.NewEmployeeRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	saleRepo := repositories.NewSaleRepo(pool)
	settingsRepo := repositories.NewSettingsRepo(pool)

	tenantService := services.NewTenantService(tenantRepo, nil, m, log)
	sessionService := services.NewSessionService(tenantRepo, employeeRepo, sessionSecret, cfg.Session.TTL)
	employeeService := services.NewEmployeeService(employeeRepo, tenantRepo, m, log)
	productService := services.NewProductService(productRepo, cache, m, log)
	saleService := services.NewSaleService(saleRepo, cache, m, log)
	settingsService := services.NewSettingsService(settingsRepo, cache, log)
	exportService := services.NewExportService(productRepo, saleRepo, services.ExportStorage{
		Storage: storage,
		Bucket:  cfg.Storage.Bucket,
		URLTTL:  cfg.Storage.URLTTL,
	}, log)
	statistics := analytics.NewStatisticsService(saleRepo, settingsRepo, cache, cfg.Stats.Location, cfg.Stats.CacheTTL, log)

	scheduler, err := background.NewJobScheduler(m, log)
	if err != nil {
		return err
	}
	stockAlerts := jobs.NewStockAlertService(productRepo, m, log)
	if err := scheduler.AddJob("low-stock-scan", cfg.Jobs.LowStockScanInterval, func(ctx context.Context) error {
		_, err := stockAlerts.Scan(ctx)
		return err
	}); err != nil {
		return err
	}
	if storage != nil {
		retention := jobs.NewExportRetention(exportService, cfg.Jobs.ExportRetention, log)
		if err := scheduler.AddJob("export-retention", time.Hour, retention.Run); err != nil {
			return err
		}
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Warn("scheduler shutdown failed", zap.Error(err))
		}
	}()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.Run(ctx)

	router := &handlers.Router{
		Tenants:    handlers.NewTenantHandlers(tenantService),
		Sessions:   handlers.NewSessionHandlers(sessionService),
		Employees:  handlers.NewEmployeeHandlers(employeeService),
		Products:   handlers.NewProductHandlers(productService),
		Sales:      handlers.NewSaleHandlers(saleService, cfg.Stats.Location),
		Statistics: handlers.NewStatisticsHandlers(statistics),
		Settings:   handlers.NewSettingsHandlers(settingsService),
		Export:     handlers.NewExportHandlers(exportService),
		Health:     handlers.NewHealthHandlers(version, dependencyChecks(cfg, pool.Ping, cache, storage)...),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(logger.Middleware(log))
	e.Use(m.Middleware())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
			"X-Manager-Code", "X-Employee-ID", "X-Request-ID",
		},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	versions := middleware.NewVersionMiddleware(version, "")
	router.Register(e, middleware.NewRBACMiddleware(sessionService), middleware.NewAuditMiddleware(),
		limiter.Middleware(), versions.VersionHeader())

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStorage returns nil when exports should stay in the response only.
func openStorage(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) services.MinioService {
	if !cfg.Enabled {
		return nil
	}
	storage, err := services.NewMinioService(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.UseSSL)
	if err != nil {
		log.Warn("minio unavailable, export uploads disabled", zap.Error(err))
		return nil
	}
	if err := storage.EnsureBucketExists(ctx, cfg.Bucket); err != nil {
		log.Warn("minio bucket unavailable, export uploads disabled", zap.String("bucket", cfg.Bucket), zap.Error(err))
		return nil
	}
	return storage
}

func dependencyChecks(cfg *config.Config, ping func(context.Context) error, cache caching.CacheService, storage services.MinioService) []handlers.DependencyCheck {
	checks := []handlers.DependencyCheck{{Name: "database", Critical: true, Check: ping}}
	if cfg.Redis.Enabled {
		checks = append(checks, handlers.DependencyCheck{Name: "cache", Check: cache.Ping})
	}
	if storage != nil {
		bucket := cfg.Storage.Bucket
		checks = append(checks, handlers.DependencyCheck{Name: "storage", Check: func(ctx context.Context) error {
			ok, err := storage.BucketExists(ctx, bucket)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("bucket %s missing", bucket)
			}
			return nil
		}})
	}
	return checks
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"logstream/internal/config"
	logs_cleanup "logstream/internal/features/logs/cleanup"
	logs_querying "logstream/internal/features/logs/querying"
	logs_queue "logstream/internal/features/logs/queue"
	logs_receiving "logstream/internal/features/logs/receiving"
	logs_storage "logstream/internal/features/logs/storage"
	"logstream/internal/features/realtime"
	system_healthcheck "logstream/internal/features/system/healthcheck"
	env_utils "logstream/internal/util/env"
	"logstream/internal/util/logger"
	_ "logstream/swagger" // swagger docs

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	migrationTimeout = 30 * time.Second
	shutdownTimeout  = 10 * time.Second
)

// @title LogStream API
// @version 1.0
// @description Log ingestion with live fan-out, recent-log queries and severity breakdowns.
// @termsOfService http://swagger.io/terms/

// @host localhost:4005
// @BasePath /api/v1
// @schemes http
func main() {
	log := logger.GetLogger()
	config.StartListeningForShutdownSignal()

	runMigrations(log)

	go generateSwaggerDocs(log)

	gin.SetMode(gin.ReleaseMode)
	ginApp := gin.Default()

	// Add GZIP compression middleware
	ginApp.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/api/v1/docs"}),
	))

	enableCors(ginApp)
	setUpRoutes(ginApp)
	runBackgroundTasks(log)

	startServerWithGracefulShutdown(log, ginApp)
}

func startServerWithGracefulShutdown(log *slog.Logger, app *gin.Engine) {
	host := ""
	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		// for dev we use localhost to avoid firewall
		// requests on each run for Windows
		host = "127.0.0.1"
	}

	srv := &http.Server{
		Addr:              host + ":" + config.GetEnv().ServerPort,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server started", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen:", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown:", "error", err)
	}

	stopBackgroundTasks(ctx, log)

	log.Info("Server gracefully stopped")
}

func setUpRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	// Mount Swagger UI
	v1.GET("/docs/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	logs_receiving.GetReceivingController().RegisterRoutes(v1)
	logs_querying.GetLogQueryController().RegisterRoutes(v1)
	realtime.GetRealtimeController().RegisterRoutes(v1)
	system_healthcheck.GetHealthcheckController().RegisterRoutes(v1)
}

func runBackgroundTasks(log *slog.Logger) {
	log.Info("Preparing to run background tasks...")

	realtime.GetBroadcaster().StartWorkers()
	logs_cleanup.GetLogCleanupBackgroundService().StartWorkers()

	log.Info("Background tasks started successfully")
}

func stopBackgroundTasks(ctx context.Context, log *slog.Logger) {
	if err := logs_cleanup.GetLogCleanupBackgroundService().Stop(ctx); err != nil {
		log.Warn("Log cleanup workers did not stop in time", "error", err)
	}

	if err := realtime.GetBroadcaster().Stop(ctx); err != nil {
		log.Warn("Realtime send queue was not fully drained", "error", err)
	}

	if err := logs_queue.GetQueuePublisher().Close(); err != nil {
		log.Error("Failed to close queue publisher", "error", err)
	}
}

// runMigrations is best-effort: without a reachable database the service
// still accepts logs and serves reads from memory.
func runMigrations(log *slog.Logger) {
	repository := logs_storage.GetLogStorageRepository()
	if !repository.IsEnabled() {
		log.Warn("DATABASE_DSN is not set, persistent store disabled")
		return
	}

	log.Info("Running database migrations...")

	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()

	if err := repository.Migrate(ctx); err != nil {
		log.Error("Failed to run migrations, continuing without schema changes", "error", err)
		return
	}

	log.Info("Database migrations completed successfully")
}

// Keep in mind: docs appear after second launch, because Swagger
// is generated into Go files. So if we changed files, we generate
// new docs, but still need to restart the server to see them.
func generateSwaggerDocs(log *slog.Logger) {
	if config.GetEnv().EnvMode == env_utils.EnvModeProduction {
		return
	}

	currentDir, err := os.Getwd()
	if err != nil {
		log.Error("Failed to get current directory", "error", err)
		return
	}

	cmd := exec.Command("swag", "init", "-d", currentDir, "-g", "cmd/main.go", "-o", "swagger")

	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Warn("Failed to generate Swagger docs", "error", err, "output", string(output))
		return
	}

	log.Info("Swagger documentation generated successfully")
}

func enableCors(ginApp *gin.Engine) {
	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		// Setup CORS
		ginApp.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{
				"Origin",
				"Content-Length",
				"Content-Type",
				"Authorization",
				"Accept",
				"Accept-Language",
				"Accept-Encoding",
				"Access-Control-Request-Method",
				"Access-Control-Request-Headers",
			},
			ExposeHeaders: []string{"Retry-After"},
		}))
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/commerce-backend/config"
	"github.com/dustin/commerce-backend/internal/health"
	"github.com/dustin/commerce-backend/internal/server"
	"github.com/dustin/commerce-backend/internal/worker"
	"github.com/dustin/commerce-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	app := kingpin.New("commerce-backend", "Commerce backend host - loads the provider configuration and serves it")
	variantFlag := app.Flag("storage-variant", "File storage policy: object-store (MinIO with local fallback) or media-cdn (Cloudinary)").
		Envar("FILE_STORAGE_VARIANT").Default(string(config.VariantObjectStore)).String()

	serveCmd := app.Command("serve", "Run the HTTP host and background probes").Default()
	portFlag := serveCmd.Flag("port", "HTTP port, overrides PORT").String()

	configCmd := app.Command("config", "Print the resolved configuration with secrets redacted")
	formatFlag := configCmd.Flag("format", "Output format").Default("yaml").Enum("yaml", "json")
	checkFlag := configCmd.Flag("check", "Exit non-zero when the configuration is invalid").Bool()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	variant, err := config.ParseVariant(*variantFlag)
	if err != nil {
		app.Fatalf("%v", err)
	}

	// Load configuration once: .env overlay first, then the process environment
	cfg, err := config.Load(variant)
	if err != nil {
		app.Fatalf("failed to load configuration: %v", err)
	}

	switch command {
	case configCmd.FullCommand():
		if err := writeConfig(os.Stdout, cfg, *formatFlag); err != nil {
			app.Fatalf("%v", err)
		}
		if *checkFlag {
			if err := cfg.Validate(); err != nil {
				app.Fatalf("invalid configuration: %v", err)
			}
		}
	case serveCmd.FullCommand():
		if *portFlag != "" {
			cfg.Server.Port = *portFlag
		}
		serve(cfg)
	}
}

func serve(cfg *config.Config) {
	appLogger, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	appLogger.Info("Starting commerce backend (" + cfg.Mode + ", worker mode " + string(cfg.Project.WorkerMode.Resolve()) + ")")

	for _, w := range cfg.Warnings() {
		appLogger.Warn("Configuration: " + w)
	}
	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration: " + err.Error())
	}

	cwd, err := os.Getwd()
	if err != nil {
		appLogger.Fatal("Failed to resolve working directory: " + err.Error())
	}

	ctx := context.Background()

	registry, err := health.FromConfig(ctx, cfg, cwd, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to bind backends: " + err.Error())
	}
	defer registry.Close()

	for _, m := range cfg.Modules {
		appLogger.WithField("slot", string(m.Key)).Info("Bound provider " + m.Resolve)
	}

	interval, err := worker.ProbeInterval(&cfg.Worker)
	if err != nil {
		appLogger.Fatal("Invalid worker configuration: " + err.Error())
	}

	// Without the probe worker, detailed health requests refresh reports
	// older than one interval themselves. With it, they only step in when
	// the worker has missed a run.
	healthMaxAge := interval
	var probeWorker *worker.PeriodicWorker
	if cfg.Project.WorkerMode.RunsWorker() {
		probeWorker, err = worker.NewPeriodicWorker(&cfg.Worker, "health-probe", func(ctx context.Context) error {
			if report := registry.Refresh(ctx); !report.Healthy() {
				return fmt.Errorf("run %s: one or more backends are down", report.RunID)
			}
			return nil
		}, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize probe worker: " + err.Error())
		}
		// Start runs the first probe immediately
		if err := probeWorker.Start(); err != nil {
			appLogger.Error("Failed to start probe worker: " + err.Error())
		} else {
			healthMaxAge = 2 * interval
		}
	} else {
		registry.Refresh(ctx)
	}

	var staticDir string
	if fp, ok := cfg.FileProvider(); ok {
		if local, ok := fp.Options.(config.LocalOptions); ok {
			staticDir = local.UploadDir
			if !filepath.IsAbs(staticDir) {
				staticDir = filepath.Join(cwd, staticDir)
			}
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := server.NewRouter(server.Dependencies{
		Config:       cfg,
		Health:       registry,
		Logger:       appLogger,
		StaticDir:    staticDir,
		HealthMaxAge: healthMaxAge,
	})
	if err != nil {
		appLogger.Fatal("Failed to build router: " + err.Error())
	}

	port := cfg.Server.Port
	if port == "" {
		port = "9000"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  parseTimeout(cfg.Server.ReadTimeout, 30*time.Second),
		WriteTimeout: parseTimeout(cfg.Server.WriteTimeout, 30*time.Second),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server: " + err.Error())
		}
	}()

	appLogger.Info("Server listening on port " + port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	if probeWorker != nil {
		if err := probeWorker.Stop(); err != nil {
			appLogger.Error("Error stopping probe worker: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown: " + err.Error())
	}

	appLogger.Info("Server shutdown complete")
}

// parseTimeout falls back to def for empty or malformed durations.
func parseTimeout(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// filepath: internal/cli/server.go
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aiopro/internal/api"
	"aiopro/internal/api/handlers"
	"aiopro/internal/audit"
	"aiopro/internal/config"
	"aiopro/internal/crawler"
	"aiopro/internal/logging"
	"aiopro/internal/repository"
	"aiopro/internal/services"
	"aiopro/internal/services/auth"
)

// runServer contains the logic to start the HTTP server with graceful shutdown.
func runServer() error {
	// Handle JWT Secret
	if cfg.JWTSecret == "" {
		if cfg.JWT.Secret != "" {
			logging.Log.Info("Using JWT secret loaded from config.toml.")
			cfg.JWTSecret = cfg.JWT.Secret
		} else {
			logging.Log.Info("Generating new random JWT secret...")
			newSecret, err := auth.GenerateSecret()
			if err != nil {
				return fmt.Errorf("failed to generate JWT secret: %w", err)
			}
			cfg.JWT.Secret = newSecret
			cfg.JWTSecret = newSecret
			if err := config.SaveConfig(cfgFile, cfg); err != nil {
				logging.Log.Warnf("Failed to save new JWT secret to %s: %v", cfgFile, err)
			} else {
				logging.Log.Infof("New JWT secret saved to %s.", cfgFile)
			}
		}
	}

	if cfg.MasterAPIKey == "" {
		logging.Log.Warn("No API_KEY configured; only keys issued via /api/key will authenticate.")
	}

	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	// --- Auto-migrate on startup ---
	if err := repo.EnsureSchemaBootstrapped(); err != nil {
		logging.Log.Errorf("Failed to bootstrap database: %v", err)
		return err
	}

	if err := repo.ValidateSchema(); err != nil {
		logging.Log.Errorf("CRITICAL DATABASE ERROR: %v", err)
		return err
	}

	// Auditor Initialization
	loggerAuditor := audit.NewLoggerAuditor(cfg.Logging.AuditEnabled)

	// Service Initialization
	fetcher := crawler.NewFetcher(cfg.FetchTimeout, cfg.Crawler.UserAgent, cfg.MaxBodySizeBytes, cfg.PageCacheTTL)
	siteCrawler := crawler.NewCrawler(fetcher)

	infoService := services.NewInfoService(Version, StartTime)
	keyService := services.NewKeyService(repo, cfg, loggerAuditor)
	tokenService := auth.NewTokenService(cfg)
	crawlService := services.NewCrawlService(repo, siteCrawler, cfg, loggerAuditor)
	reportService := services.NewReportService(repo, loggerAuditor)
	retentionService := services.NewRetentionService(repo, cfg, loggerAuditor)

	authMiddleware := auth.NewMiddleware(keyService, tokenService)

	retentionService.Start()
	// No defer stop here, we stop explicitly during graceful shutdown

	h := handlers.NewHandlers(
		infoService,
		crawlService,
		reportService,
		keyService,
		retentionService,
		tokenService,
		cfg,
	)

	r := api.SetupRouter(h, authMiddleware, cfg)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	// --- Graceful Shutdown Setup ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logging.Log.Infof("Server starting on %s (crawl budget: %d pages, fetch timeout: %v)",
			serverAddr, cfg.Crawler.MaxPages, cfg.FetchTimeout)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-stop
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	retentionService.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logging.Log.Info("Server exiting")
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/docqa/internal/api"
	"github.com/liliang-cn/docqa/internal/api/page"
	"github.com/liliang-cn/docqa/internal/client"
	"github.com/liliang-cn/docqa/internal/config"
	applog "github.com/liliang-cn/docqa/internal/pkg/logger"
	"github.com/liliang-cn/docqa/internal/service"
	"github.com/liliang-cn/docqa/internal/tui"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	uiMode     = flag.String("ui", "", "Front-end to run: web or tui (overrides config)")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *uiMode != "" {
		cfg.UI.Mode = *uiMode
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid -ui flag: %v", err)
		}
	}

	// The terminal UI owns stdout, so it only logs to file
	logger, err := applog.New(cfg.Log, cfg.UI.Mode == config.ModeWeb)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	qa := client.New(cfg.API.BaseURL, cfg.API.Timeout)
	newWorkflow := func() *service.SessionWorkflow {
		return service.NewSessionWorkflow(qa, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.UI.Mode {
	case config.ModeTUI:
		logger.Info("Starting terminal UI", zap.String("api", qa.BaseURL()))
		if err := tui.Run(ctx, newWorkflow()); err != nil {
			logger.Error("Terminal UI failed", zap.Error(err))
			os.Exit(1)
		}
	default:
		runWeb(ctx, cfg, qa, newWorkflow, logger)
	}
}

func runWeb(ctx context.Context, cfg *config.Config, qa *client.Client, newWorkflow page.WorkflowFactory, logger *zap.Logger) {
	if cfg.Log.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	views := page.NewViewStore(cfg.Server.ViewTTL, newWorkflow)
	router, err := api.SetupRouter(page.NewHandler(views, logger), api.RouterConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("Failed to set up router", zap.Error(err))
	}

	// Calls to the Q&A API carry no deadline unless api.timeout is set, so
	// there is no write timeout here.
	srv := &http.Server{
		Addr:        cfg.Address(),
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	printBanner(cfg)

	// Start server in goroutine
	go func() {
		logger.Info("Starting DocQA web front-end",
			zap.String("address", cfg.Address()),
			zap.String("api", qa.BaseURL()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func printBanner(cfg *config.Config) {
	banner := `
    ____             ____  ___
   / __ \____  _____/ __ \/   |
  / / / / __ \/ ___/ / / / /| |
 / /_/ / /_/ / /__/ /_/ / ___ |
/_____/\____/\___/\___\_\/_/  |_|
`
	color.Cyan("%s", banner)
	color.New(color.FgHiBlack).Printf("  page  http://%s\n  api   %s\n\n", cfg.Address(), cfg.API.BaseURL)
}

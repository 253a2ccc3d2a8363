package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"agentforge/internal/api"
	"agentforge/internal/catalog"
	"agentforge/internal/classifier"
	"agentforge/internal/config"
	"agentforge/internal/factory"
	"agentforge/internal/monitoring"
	"agentforge/internal/providers"
	"agentforge/internal/store"
	"agentforge/internal/templates"
	"agentforge/internal/validation"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	st, err := store.Open(cfg.Database.Dialect, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer st.Close()

	cat := catalog.Default()
	cls := classifier.New(classifier.DefaultRegistry())
	pm := providers.NewManager(logger)
	metrics := monitoring.NewMetricsCollector()

	server := api.NewServer(api.Options{
		Store:      st,
		Factory:    factory.New(st, cat, pm, logger),
		Templates:  templates.NewManager(),
		Providers:  pm,
		Catalog:    cat,
		Classifier: cls,
		Semantic:   validation.NewIntelligentValidator(cls, cat, validation.NewHistory(), logger),
		Metrics:    metrics,
		Monitor:    monitoring.NewMonitor(),
		Logger:     logger,
		JWTSecret:  cfg.Auth.JWTSecret,
	})

	go startMetricsServer(cfg.Server.MetricsPort, metrics, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("API server shutdown error", zap.Error(err))
		}
	}()

	logger.Info("starting API server", zap.Int("port", cfg.Server.Port))
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("API server error", zap.Error(err))
	}
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

func startMetricsServer(port int, metrics *monitoring.MetricsCollector, logger *zap.Logger) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	logger.Info("starting metrics server", zap.Int("port", port))
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("metrics server error", zap.Error(err))
	}
}

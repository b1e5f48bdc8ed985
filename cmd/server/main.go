package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-dealer-jobwatch/internal/api"
	"go-dealer-jobwatch/internal/config"
	"go-dealer-jobwatch/internal/database"
	"go-dealer-jobwatch/internal/lifecycle"
	"go-dealer-jobwatch/internal/logger"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store lifecycle.Store = lifecycle.NewCSVStore(cfg.StatePath)
	if cfg.DatabaseURL != "" {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("❌ Failed to connect to database", zap.Error(err))
		}
		defer repo.Close()
		store = repo
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           api.NewServer(store, cfg.AgedThresholdDays, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("🌐 Server listening", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("❌ Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("⚠️ Shutdown failed", zap.Error(err))
	}
	log.Info("👋 Server stopped")
}

package main

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"capture-econ/internal/api"
	"capture-econ/internal/api/metrics"
	"capture-econ/internal/config"
	"capture-econ/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if wd, err := os.Getwd(); err == nil {
		logger.Info("starting", zap.String("working_directory", wd), zap.String("env", cfg.Env))
	}
	if info, err := os.Stat(cfg.ScenarioDir); err != nil || !info.IsDir() {
		logger.Warn("scenario directory not found; presets disabled", zap.String("dir", cfg.ScenarioDir))
	}

	cache := data.NewResultCache(cfg.ResultCacheTTL)
	defer cache.Close()

	router, err := api.NewRouter(api.Deps{
		Config:  cfg,
		Logger:  logger,
		Cache:   cache,
		Metrics: metrics.New(),
	})
	if err != nil {
		logger.Fatal("build router", zap.Error(err))
	}

	addr := ":" + cfg.Port
	logger.Info("starting API server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"capture-econ/internal/api/handlers"
	"capture-econ/internal/api/metrics"
	"capture-econ/internal/api/middleware"
	"capture-econ/internal/config"
	"capture-econ/internal/data"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the long-lived collaborators shared by every handler.
type Deps struct {
	Config  config.Server
	Logger  *zap.Logger
	Cache   *data.ResultCache
	Metrics *metrics.Metrics
}

// NewRouter wires middleware, API routes and (when present) the static SPA.
// The cache is owned by the caller, who closes it.
func NewRouter(d Deps) (*gin.Engine, error) {
	if d.Cache == nil {
		return nil, errors.New("router: result cache is required")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(d.Logger))
	router.Use(middleware.CORS(d.Config.AllowedOrigins))
	router.Use(middleware.RequestLogger(d.Logger))
	router.Use(d.Metrics.Middleware())

	simulationHandler := handlers.NewSimulationHandler(d.Logger, d.Cache, d.Metrics, d.Config.ScenarioDir)
	scenarioHandler := handlers.NewScenarioHandler(d.Logger, d.Config.ScenarioDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulationHandler.Simulate)
		api.POST("/simulate/compare", simulationHandler.Compare)
		api.POST("/sensitivity", simulationHandler.Sensitivity)
		api.GET("/simulations/:id/ledger", simulationHandler.GetLedger)
		api.GET("/simulations/:id/report", simulationHandler.GetReport)

		api.GET("/scenarios", scenarioHandler.ListScenarios)
		api.GET("/scenarios/:id", scenarioHandler.GetScenario)
		api.GET("/parameters", handlers.ListParameters)
	}

	serveStatic(router, d.Config.StaticDir, d.Logger)
	return router, nil
}

// serveStatic serves index.html for every non-API route so the SPA can route client-side.
func serveStatic(router *gin.Engine, staticDir string, logger *zap.Logger) {
	if staticDir == "" {
		router.NoRoute(middleware.NotFound)
		return
	}
	if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
		logger.Info("static directory not found, skipping static file serving", zap.String("dir", staticDir))
		router.NoRoute(middleware.NotFound)
		return
	}

	router.Static("/assets", filepath.Join(staticDir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(staticDir, "favicon.ico"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			middleware.NotFound(c)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})
	logger.Info("serving static files", zap.String("dir", staticDir))
}

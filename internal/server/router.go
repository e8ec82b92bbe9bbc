package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ebios-rm/internal/analysis"
	"ebios-rm/internal/catalog"
	"ebios-rm/internal/config"
	"ebios-rm/internal/handlers"
	"ebios-rm/internal/logger"
	"ebios-rm/internal/metrics"
	"ebios-rm/internal/middleware"
)

func NewRouter(cfg *config.Config, cat *catalog.Catalog, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(metrics.Middleware())
	r.Use(middleware.InjectScoring(analysis.Options{
		Matrix:     cfg.Matrix,
		Mitigation: cfg.Mitigation,
		Catalog:    cat,
	}))

	api := r.Group("/api")

	// АНАЛИЗЫ
	api.GET("/analyses", handlers.ListAnalyses)
	api.POST("/analyses", handlers.CreateAnalysis)
	api.POST("/analyses/import", handlers.ImportAnalysis)

	one := api.Group("/analyses/:id", middleware.LoadAnalysis())
	one.GET("", handlers.GetAnalysis)
	one.PUT("", handlers.UpdateAnalysis)
	one.DELETE("", handlers.DeleteAnalysis)

	// МАСТЕРСКИЕ: только полная замена
	for n := 1; n <= 5; n++ {
		path := "/workshops/" + strconv.Itoa(n)
		one.GET(path, handlers.GetWorkshop(n))
		one.PUT(path, handlers.ReplaceWorkshop(n))
	}

	// ОТЧЁТЫ
	one.GET("/report", handlers.GetReport)
	one.GET("/heatmap.png", handlers.RiskHeatmap)
	one.GET("/pairs.png", handlers.PairsHeatmap)
	one.GET("/export", handlers.ExportAnalysis)

	// АУДИТ
	one.GET("/history", handlers.ShowAnalysisHistory)

	// КАЛЬКУЛЯТОРЫ
	api.POST("/risk-level", handlers.CalculateRiskLevel)
	api.POST("/residual", handlers.CalculateResidual)
	api.POST("/severity", handlers.CalculateSeverity)
	api.POST("/ale", handlers.CalculateALE)
	api.POST("/roi", handlers.CalculateROI)

	// СПРАВОЧНИК
	api.GET("/catalog/sources", handlers.ListSourceCategories)
	api.GET("/catalog/measures", handlers.ListCatalogMeasures)
	api.GET("/catalog/techniques", handlers.ListTechniques)
	api.GET("/catalog/techniques/:tid", handlers.ShowTechnique)
	api.GET("/catalog/search", handlers.SearchCatalog)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}

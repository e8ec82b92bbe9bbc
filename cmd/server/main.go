package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ebios-rm/internal/catalog"
	"ebios-rm/internal/config"
	"ebios-rm/internal/database"
	"ebios-rm/internal/logger"
	"ebios-rm/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = lg.Sync() }()
	zap.ReplaceGlobals(lg)

	// справочник загружается один раз и дальше только читается
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		lg.Fatal("failed to load reference catalog", zap.String("path", cfg.CatalogPath), zap.Error(err))
	}
	lg.Info("reference catalog loaded", zap.String("version", cat.Version()))

	if err := database.Init(cfg.DBDriver, cfg.DBDSN); err != nil {
		lg.Fatal("database error", zap.Error(err))
	}

	gin.SetMode(cfg.GinMode)
	r := server.NewRouter(cfg, cat, lg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	lg.Info("starting server", zap.String("addr", addr), zap.String("matrix", cfg.Matrix.String()))
	if err := r.Run(addr); err != nil {
		lg.Fatal("server error", zap.Error(err))
	}
}

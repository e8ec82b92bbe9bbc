package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ebios-rm/internal/database"
	"ebios-rm/internal/middleware"
	"ebios-rm/internal/models"
)

// ====== АНАЛИЗЫ (метаданные мастерской 1) ======

type analysisRequest struct {
	Organization string     `json:"organization" binding:"required,min=3,max=255"`
	Scope        string     `json:"scope" binding:"max=4000"`
	Owner        string     `json:"owner" binding:"max=255"`
	Sector       string     `json:"sector" binding:"max=100"`
	StartedAt    *time.Time `json:"started_at"`
}

func (r analysisRequest) apply(a *models.Analysis) {
	a.Organization = strings.TrimSpace(r.Organization)
	a.Scope = strings.TrimSpace(r.Scope)
	a.Owner = strings.TrimSpace(r.Owner)
	a.Sector = strings.TrimSpace(r.Sector)
	if r.StartedAt != nil {
		a.StartedAt = r.StartedAt.UTC()
	}
}

func CreateAnalysis(c *gin.Context) {
	var req analysisRequest
	if !bindJSON(c, &req) {
		return
	}

	var a models.Analysis
	req.apply(&a)
	if err := database.DB.Create(&a).Error; err != nil {
		respondError(c, err)
		return
	}

	database.CreateAuditLog(a.ID, "analysis", "create", fmt.Sprintf("organization=%s", a.Organization))
	c.JSON(http.StatusCreated, a)
}

func ListAnalyses(c *gin.Context) {
	list, err := database.ListAnalyses(database.DB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": list})
}

func GetAnalysis(c *gin.Context) {
	a := middleware.CurrentAnalysis(c)
	rec, err := database.LoadRecords(database.DB, a.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": a, "workshops": rec})
}

// UpdateAnalysis заменяет метаданные целиком. Исключение: дата начала
// исследования, если started_at не передан, остаётся прежней (при создании
// она выставляется автоматически и не сбрасывается).
func UpdateAnalysis(c *gin.Context) {
	a := middleware.CurrentAnalysis(c)

	var req analysisRequest
	if !bindJSON(c, &req) {
		return
	}
	a.Scope, a.Owner, a.Sector = "", "", ""
	req.apply(&a)

	if err := database.DB.Save(&a).Error; err != nil {
		respondError(c, err)
		return
	}

	database.CreateAuditLog(a.ID, "analysis", "update", fmt.Sprintf("organization=%s", a.Organization))
	c.JSON(http.StatusOK, a)
}

func DeleteAnalysis(c *gin.Context) {
	a := middleware.CurrentAnalysis(c)
	if err := database.DeleteAnalysis(database.DB, a.ID); err != nil {
		respondError(c, err)
		return
	}

	// журнал удаляется вместе с анализом, поэтому только в лог
	zap.L().Info("analysis deleted", zap.String("analysis", a.PublicID), zap.String("organization", a.Organization))
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ebios-rm/internal/database"
	"ebios-rm/internal/middleware"
)

func ShowAnalysisHistory(c *gin.Context) {
	a := middleware.CurrentAnalysis(c)
	logs, err := database.AuditHistory(database.DB, a.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": a.PublicID, "history": logs})
}

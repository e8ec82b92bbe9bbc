package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ebios-rm/internal/database"
	"ebios-rm/internal/models"
)

const currentAnalysisKey = "CurrentAnalysis"

// LoadAnalysis находит анализ по :id (uuid) и кладёт его в контекст.
func LoadAnalysis() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := uuid.Parse(id); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "analysis id must be a uuid"})
			return
		}

		a, err := database.FindAnalysis(database.DB, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "analysis not found"})
			return
		}
		if err != nil {
			zap.L().Error("failed to load analysis", zap.String("analysis", id), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal"})
			return
		}

		c.Set(currentAnalysisKey, a)
		c.Next()
	}
}

// CurrentAnalysis достаёт анализ, загруженный LoadAnalysis.
func CurrentAnalysis(c *gin.Context) models.Analysis {
	a, _ := c.MustGet(currentAnalysisKey).(models.Analysis)
	return a
}

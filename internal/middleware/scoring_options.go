package middleware

import (
	"github.com/gin-gonic/gin"

	"ebios-rm/internal/analysis"
)

const scoringOptionsKey = "ScoringOptions"

// InjectScoring делает политику оценки и справочник доступными обработчикам.
func InjectScoring(opts analysis.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(scoringOptionsKey, opts)
		c.Next()
	}
}

func ScoringOptions(c *gin.Context) analysis.Options {
	opts, _ := c.MustGet(scoringOptionsKey).(analysis.Options)
	return opts
}

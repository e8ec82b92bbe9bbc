package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ebios-rm/internal/analysis"
	"ebios-rm/internal/database"
	"ebios-rm/internal/heatmap"
	"ebios-rm/internal/metrics"
	"ebios-rm/internal/middleware"
	"ebios-rm/internal/models"
)

// evaluate загружает записи текущего анализа и считает отчёт.
func evaluate(c *gin.Context) (models.Analysis, analysis.Records, *analysis.Report, bool) {
	a := middleware.CurrentAnalysis(c)
	rec, err := database.LoadRecords(database.DB, a.ID)
	if err != nil {
		respondError(c, err)
		return a, rec, nil, false
	}

	report, err := analysis.Evaluate(rec, middleware.ScoringOptions(c))
	scenarios := len(rec.W3.Scenarios) + len(rec.W4.Scenarios)
	metrics.RecordEvaluation(err, scenarios)
	if err != nil {
		respondError(c, err)
		return a, rec, nil, false
	}
	return a, rec, report, true
}

func GetReport(c *gin.Context) {
	a, _, report, ok := evaluate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analysis": a,
		"matrix":   middleware.ScoringOptions(c).Matrix.Rows(),
		"report":   report,
	})
}

// RiskHeatmap: ?view=operational для операционных сценариев.
func RiskHeatmap(c *gin.Context) {
	a, _, report, ok := evaluate(c)
	if !ok {
		return
	}

	grid, title := report.StrategicGrid, "Scénarios stratégiques"
	switch c.DefaultQuery("view", "strategic") {
	case "strategic":
	case "operational":
		grid, title = report.OperationalGrid, "Scénarios opérationnels"
	default:
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: "view must be strategic or operational"})
		return
	}

	img, err := heatmap.Render(grid, title+" - "+a.Organization)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

func PairsHeatmap(c *gin.Context) {
	a, _, report, ok := evaluate(c)
	if !ok {
		return
	}
	img, err := heatmap.RenderPairs(report.Pairs, "Couples SR/OV - "+a.Organization)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

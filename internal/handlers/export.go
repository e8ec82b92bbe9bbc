package handlers

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ebios-rm/internal/analysis"
	"ebios-rm/internal/database"
	"ebios-rm/internal/metrics"
	"ebios-rm/internal/middleware"
)

// maxDocumentSize ограничивает тело импорта.
const maxDocumentSize = 8 << 20

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func exportFilename(org string, at time.Time) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(org, "_"), "_")
	if name == "" {
		name = "analysis"
	}
	return fmt.Sprintf("ebios_%s_%s.json", name, at.Format("20060102"))
}

func ExportAnalysis(c *gin.Context) {
	a, rec, _, ok := evaluate(c)
	if !ok {
		return
	}

	now := time.Now()
	doc, err := analysis.Export(a, rec, middleware.ScoringOptions(c), now)
	if err != nil {
		respondError(c, err)
		return
	}

	database.CreateAuditLog(a.ID, "analysis", "export", doc.Format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(a.Organization, now)))
	c.JSON(http.StatusOK, doc)
}

// ImportAnalysis создаёт новый анализ из экспортированного документа.
// Документ принимается, только если пересчёт даёт те же оценки.
func ImportAnalysis(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxDocumentSize))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	doc, err := analysis.Import(body, middleware.ScoringOptions(c))
	if err != nil {
		metrics.RecordEvaluation(err, 0)
		respondError(c, err)
		return
	}
	metrics.RecordEvaluation(nil, len(doc.Workshops.W3.Scenarios)+len(doc.Workshops.W4.Scenarios))

	a := doc.Analysis.Analysis()
	if strings.TrimSpace(a.Organization) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid_request", Fields: map[string]string{"Organization": "required"}})
		return
	}
	if err := database.CreateWithRecords(database.DB, &a, doc.Workshops); err != nil {
		respondError(c, err)
		return
	}

	database.CreateAuditLog(a.ID, "analysis", "import", fmt.Sprintf("format=%s exported_at=%s", doc.Format, doc.ExportedAt.Format(time.RFC3339)))
	c.JSON(http.StatusCreated, gin.H{"analysis": a, "report": doc.Derived})
}

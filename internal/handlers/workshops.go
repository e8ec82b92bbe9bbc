package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ebios-rm/internal/analysis"
	"ebios-rm/internal/database"
	"ebios-rm/internal/middleware"
)

// ====== МАСТЕРСКИЕ 1-5 ======

// workshopOf возвращает указатель на записи мастерской n внутри rec.
func workshopOf(rec *analysis.Records, n int) any {
	switch n {
	case 1:
		return &rec.W1
	case 2:
		return &rec.W2
	case 3:
		return &rec.W3
	case 4:
		return &rec.W4
	case 5:
		return &rec.W5
	}
	panic(fmt.Sprintf("unknown workshop %d", n))
}

func GetWorkshop(n int) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := middleware.CurrentAnalysis(c)
		rec, err := database.LoadRecords(database.DB, a.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, workshopOf(&rec, n))
	}
}

// setWorkshop переносит мастерскую n из src в dst.
func setWorkshop(dst *analysis.Records, src analysis.Records, n int) {
	switch n {
	case 1:
		dst.W1 = src.W1
	case 2:
		dst.W2 = src.W2
	case 3:
		dst.W3 = src.W3
	case 4:
		dst.W4 = src.W4
	case 5:
		dst.W5 = src.W5
	}
}

// ReplaceWorkshop заменяет все записи мастерской n. Ссылки проверяются по
// всему анализу (новая мастерская вместе с остальными сохранёнными) внутри
// той же транзакции, что и запись.
func ReplaceWorkshop(n int) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := middleware.CurrentAnalysis(c)
		opts := middleware.ScoringOptions(c)

		// полностью заменяем, без слияния со старыми записями
		var incoming analysis.Records
		if !bindJSON(c, workshopOf(&incoming, n)) {
			return
		}
		if n == 5 {
			now := time.Now().UTC().Truncate(time.Second)
			for i := range incoming.W5.Acceptances {
				if incoming.W5.Acceptances[i].AcceptedAt.IsZero() {
					incoming.W5.Acceptances[i].AcceptedAt = now
				}
			}
		}

		rec, err := database.UpdateWorkshop(database.DB, a.ID, n, func(rec *analysis.Records) error {
			setWorkshop(rec, incoming, n)
			return analysis.Validate(*rec, opts.Catalog)
		})
		if err != nil {
			respondError(c, err)
			return
		}

		database.CreateAuditLog(a.ID, fmt.Sprintf("workshop%d", n), "replace", workshopSummary(rec, n))
		c.JSON(http.StatusOK, workshopOf(&rec, n))
	}
}

func workshopSummary(rec analysis.Records, n int) string {
	switch n {
	case 1:
		return fmt.Sprintf("missions=%d values=%d assets=%d events=%d baseline=%d",
			len(rec.W1.Missions), len(rec.W1.BusinessValues), len(rec.W1.Assets), len(rec.W1.Events), len(rec.W1.Baseline))
	case 2:
		return fmt.Sprintf("sources=%d objectives=%d pairs=%d", len(rec.W2.Sources), len(rec.W2.Objectives), len(rec.W2.Pairs))
	case 3:
		return fmt.Sprintf("stakeholders=%d scenarios=%d", len(rec.W3.Stakeholders), len(rec.W3.Scenarios))
	case 4:
		return fmt.Sprintf("scenarios=%d existing_measures=%d", len(rec.W4.Scenarios), len(rec.W4.Existing))
	default:
		return fmt.Sprintf("measures=%d acceptances=%d", len(rec.W5.Measures), len(rec.W5.Acceptances))
	}
}

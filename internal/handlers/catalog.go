package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ebios-rm/internal/middleware"
)

// ====== СПРАВОЧНИК (только чтение) ======

func ListSourceCategories(c *gin.Context) {
	cat := middleware.ScoringOptions(c).Catalog
	c.JSON(http.StatusOK, gin.H{"version": cat.Version(), "categories": cat.Categories()})
}

// ListCatalogMeasures: фильтры ?domain= и ?type=.
func ListCatalogMeasures(c *gin.Context) {
	cat := middleware.ScoringOptions(c).Catalog
	c.JSON(http.StatusOK, gin.H{
		"version":  cat.Version(),
		"measures": cat.Measures(c.Query("domain"), c.Query("type")),
	})
}

// ListTechniques: фильтр ?tactic=.
func ListTechniques(c *gin.Context) {
	cat := middleware.ScoringOptions(c).Catalog
	c.JSON(http.StatusOK, gin.H{"version": cat.Version(), "techniques": cat.Techniques(c.Query("tactic"))})
}

func ShowTechnique(c *gin.Context) {
	cat := middleware.ScoringOptions(c).Catalog
	t, ok := cat.Technique(c.Param("tid"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "not_found", Message: "unknown technique"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"technique": t, "recommended_measures": cat.RecommendedMeasures(t.ID)})
}

func SearchCatalog(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: "q is required"})
		return
	}
	cats, measures, techniques := middleware.ScoringOptions(c).Catalog.Search(q)
	c.JSON(http.StatusOK, gin.H{"categories": cats, "measures": measures, "techniques": techniques})
}

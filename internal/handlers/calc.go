package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ebios-rm/internal/middleware"
	"ebios-rm/internal/scoring"
)

// ====== КАЛЬКУЛЯТОРЫ (без сохранения) ======

type riskLevelRequest struct {
	Gravity    scoring.Scale `json:"gravity" binding:"required"`
	Likelihood scoring.Scale `json:"likelihood" binding:"required"`
}

func CalculateRiskLevel(c *gin.Context) {
	var req riskLevelRequest
	if !bindJSON(c, &req) {
		return
	}
	level, err := scoring.RiskLevelOf(req.Gravity, req.Likelihood, middleware.ScoringOptions(c).Matrix)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"level": level, "label": level.Label()})
}

type residualRequest struct {
	Level    string `json:"level" binding:"required"`
	Strategy string `json:"strategy" binding:"required"`
	// эффективность меры 0..1, необязательно
	Efficacy *float64 `json:"efficacy"`
}

func CalculateResidual(c *gin.Context) {
	var req residualRequest
	if !bindJSON(c, &req) {
		return
	}
	level, err := scoring.ParseRiskLevel(req.Level)
	if err != nil {
		respondError(c, err)
		return
	}
	strategy, err := scoring.ParseStrategy(req.Strategy)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := scoring.ResidualRisk(level, strategy, middleware.ScoringOptions(c).Mitigation)
	if err != nil {
		respondError(c, err)
		return
	}
	out := gin.H{
		"original":    level,
		"strategy":    strategy,
		"residual":    res.Level,
		"label":       res.Level.Label(),
		"transferred": res.Transferred,
	}
	if req.Efficacy != nil {
		byEfficacy, err := scoring.ResidualFromEfficacy(level, *req.Efficacy)
		if err != nil {
			respondError(c, err)
			return
		}
		out["efficacy_residual"] = byEfficacy
	}
	c.JSON(http.StatusOK, out)
}

func CalculateSeverity(c *gin.Context) {
	var req scoring.DICT
	if !bindJSON(c, &req) {
		return
	}
	g, err := scoring.Severity(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gravity": g})
}

type aleRequest struct {
	SLE float64 `json:"sle" binding:"gte=0"`
	ARO float64 `json:"aro" binding:"gte=0"`
}

func CalculateALE(c *gin.Context) {
	var req aleRequest
	if !bindJSON(c, &req) {
		return
	}
	ale, err := scoring.AnnualLossExpectancy(req.SLE, req.ARO)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ale)
}

type roiRequest struct {
	Cost         float64 `json:"cost" binding:"gte=0"`
	AvoidedLevel string  `json:"avoided_level" binding:"required"`
	IncidentCost float64 `json:"incident_cost" binding:"gte=0"`
}

func CalculateROI(c *gin.Context) {
	var req roiRequest
	if !bindJSON(c, &req) {
		return
	}
	level, err := scoring.ParseRiskLevel(req.AvoidedLevel)
	if err != nil {
		respondError(c, err)
		return
	}
	roi, err := scoring.ROI(req.Cost, level, req.IncidentCost)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roi)
}

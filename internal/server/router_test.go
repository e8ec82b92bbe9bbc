package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ebios-rm/internal/analysis"
	"ebios-rm/internal/catalog"
	"ebios-rm/internal/config"
	"ebios-rm/internal/database"
	"ebios-rm/internal/models"
	"ebios-rm/internal/scoring"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	cat, err := catalog.Default()
	require.NoError(t, err)
	cfg := &config.Config{Matrix: scoring.DefaultMatrix, Mitigation: scoring.DefaultMitigation}
	return NewRouter(cfg, cat, zap.NewNop())
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case []byte:
		buf.Write(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createAnalysis(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/analyses", gin.H{"organization": "CHU Exemple", "scope": "SIH", "sector": "santé"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, _ := decode(t, w)["id"].(string)
	require.Len(t, id, 36)
	return id
}

var workshops = []any{
	analysis.Workshop1{
		BusinessValues: []models.BusinessValue{
			{Code: "VM1", Name: "Dossier patient", Availability: 3, Integrity: 4, Confidentiality: 4, Traceability: 3},
		},
		Assets: []models.SupportingAsset{{Code: "BS1", Name: "SIH", BusinessValues: []string{"VM1"}}},
		Events: []models.RedoutedEvent{
			{Code: "ER1", Name: "Fuite de dossiers", BusinessValue: "VM1", Assets: []string{"BS1"},
				Availability: 1, Integrity: 2, Confidentiality: 4, Traceability: 2},
		},
	},
	analysis.Workshop2{
		Sources: []models.RiskSource{
			{Code: "SR1", Name: "Cybercriminels", Category: "organized_crime", Resources: 3, Determination: 4, Skills: 3},
		},
		Objectives: []models.TargetedObjective{{Code: "OV1", Name: "Rançonnage", Impact: 4}},
		Pairs:      []models.SourceObjectivePair{{SourceCode: "SR1", ObjectiveCode: "OV1"}},
	},
	analysis.Workshop3{
		Stakeholders: []models.Stakeholder{{Code: "PP1", Name: "Infogérant", Dependency: 4, Penetration: 4, Maturity: 2, Trust: 2}},
		Scenarios: []models.StrategicScenario{
			{Code: "SS1", Name: "Rançongiciel via l'infogérant", SourceCode: "SR1", ObjectiveCode: "OV1",
				Events: []string{"ER1"}, Stakeholders: []string{"PP1"}, Gravity: 4, Likelihood: 3},
		},
	},
	analysis.Workshop4{
		Scenarios: []models.OperationalScenario{
			{Code: "SO1", Name: "Hameçonnage puis chiffrement", StrategicCode: "SS1", Steps: []models.AttackStep{
				{Action: "Hameçonnage", Technique: "T1566", Difficulty: 1, Detectability: 2},
				{Action: "Chiffrement", Technique: "T1486", Difficulty: 2, Detectability: 3},
			}},
		},
	},
	analysis.Workshop5{
		Measures: []models.TreatmentMeasure{
			{Code: "M1", Name: "Sauvegardes hors ligne", Strategy: scoring.StrategyReduce, Cost: 20000, DelayDays: 60,
				Scenarios: []string{"SO1"}, CatalogRef: "A.8.13"},
		},
	},
}

func fillWorkshops(t *testing.T, r *gin.Engine, id string) {
	t.Helper()
	for i, payload := range workshops {
		w := do(t, r, http.MethodPut, "/api/analyses/"+id+"/workshops/"+string(rune('1'+i)), payload)
		require.Equal(t, http.StatusOK, w.Code, "workshop %d: %s", i+1, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)
	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestAnalysisLifecycle(t *testing.T) {
	r := setupRouter(t)
	id := createAnalysis(t, r)
	fillWorkshops(t, r, id)

	w := do(t, r, http.MethodGet, "/api/analyses/"+id+"/workshops/4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var w4 analysis.Workshop4
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &w4))
	require.Len(t, w4.Scenarios, 1)
	assert.Len(t, w4.Scenarios[0].Steps, 2)

	w = do(t, r, http.MethodGet, "/api/analyses/"+id+"/report", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got struct {
		Matrix [][]int         `json:"matrix"`
		Report analysis.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, scoring.DefaultMatrix.Rows(), got.Matrix)
	assert.Equal(t, scoring.LevelCritical, got.Report.Strategic[0].Level)
	assert.Equal(t, scoring.LevelCritical, got.Report.Operational[0].Level)
	require.Len(t, got.Report.Plan, 1)
	assert.Equal(t, scoring.LevelHigh, got.Report.Plan[0].Residual)

	w = do(t, r, http.MethodGet, "/api/analyses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["analyses"], 1)

	w = do(t, r, http.MethodPut, "/api/analyses/"+id, gin.H{"organization": "CHU Exemple Nord"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CHU Exemple Nord", decode(t, w)["organization"])
	assert.Equal(t, "", decode(t, w)["scope"])

	w = do(t, r, http.MethodGet, "/api/analyses/"+id+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	// создание, 5 мастерских, обновление
	assert.Len(t, decode(t, w)["history"], 7)

	w = do(t, r, http.MethodDelete, "/api/analyses/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodGet, "/api/analyses/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAnalysisStartedAt(t *testing.T) {
	r := setupRouter(t)
	w := do(t, r, http.MethodPost, "/api/analyses", gin.H{"organization": "CHU Exemple", "started_at": "2024-01-08T00:00:00Z"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["id"].(string)

	w = do(t, r, http.MethodPut, "/api/analyses/"+id, gin.H{"organization": "CHU Exemple Nord"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	kept, err := time.Parse(time.RFC3339, decode(t, w)["started_at"].(string))
	require.NoError(t, err)
	assert.True(t, kept.Equal(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)), kept)

	w = do(t, r, http.MethodPut, "/api/analyses/"+id, gin.H{"organization": "CHU Exemple Nord", "started_at": "2024-06-03T00:00:00Z"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	moved, err := time.Parse(time.RFC3339, decode(t, w)["started_at"].(string))
	require.NoError(t, err)
	assert.True(t, moved.Equal(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)), moved)
}

func TestRiskAcceptanceEndpoint(t *testing.T) {
	r := setupRouter(t)
	id := createAnalysis(t, r)
	fillWorkshops(t, r, id)

	w5 := analysis.Workshop5{
		Acceptances: []models.RiskAcceptance{
			{Scenario: "SO1", Acceptor: "Directeur général", Justification: "Migration du SIH prévue en 2025"},
		},
	}
	w := do(t, r, http.MethodPut, "/api/analyses/"+id+"/workshops/5", w5)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/analyses/"+id+"/report", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got struct {
		Report analysis.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Report.Acceptances, 1)
	acc := got.Report.Acceptances[0]
	assert.False(t, acc.AcceptedAt.IsZero())
	assert.Equal(t, scoring.LevelCritical, acc.Residual)
	assert.True(t, acc.AcceptedAt.AddDate(0, 0, 90).Equal(acc.ReviewDue))
	require.Len(t, got.Report.Residuals, 1)
	assert.True(t, got.Report.Residuals[0].Accepted)

	// принятие детализированного стратегического сценария отклоняется
	w5.Acceptances[0].Scenario = "SS1"
	w = do(t, r, http.MethodPut, "/api/analyses/"+id+"/workshops/5", w5)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "invalid_input", decode(t, w)["error"])
}

func TestHeatmaps(t *testing.T) {
	r := setupRouter(t)
	id := createAnalysis(t, r)

	// пар ещё нет
	w := do(t, r, http.MethodGet, "/api/analyses/"+id+"/pairs.png", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	fillWorkshops(t, r, id)
	for _, path := range []string{"/heatmap.png", "/heatmap.png?view=operational", "/pairs.png"} {
		w := do(t, r, http.MethodGet, "/api/analyses/"+id+path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")), path)
	}

	w = do(t, r, http.MethodGet, "/api/analyses/"+id+"/heatmap.png?view=3d", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportImportRoundTrip(t *testing.T) {
	r := setupRouter(t)
	id := createAnalysis(t, r)
	fillWorkshops(t, r, id)

	w := do(t, r, http.MethodGet, "/api/analyses/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ebios_CHU_Exemple_")
	exported := w.Body.Bytes()

	w = do(t, r, http.MethodPost, "/api/analyses/import", exported)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	imported := decode(t, w)["analysis"].(map[string]any)
	newID := imported["id"].(string)
	assert.NotEqual(t, id, newID)
	assert.Equal(t, "CHU Exemple", imported["organization"])

	before := do(t, r, http.MethodGet, "/api/analyses/"+id+"/report", nil)
	after := do(t, r, http.MethodGet, "/api/analyses/"+newID+"/report", nil)
	require.Equal(t, http.StatusOK, after.Code)
	assert.JSONEq(t, mustField(t, before, "report"), mustField(t, after, "report"))
}

func TestImportRejectsTamperedDocument(t *testing.T) {
	r := setupRouter(t)
	id := createAnalysis(t, r)
	fillWorkshops(t, r, id)

	w := do(t, r, http.MethodGet, "/api/analyses/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var doc analysis.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	doc.Derived.Plan[0].Residual = scoring.LevelLow

	w = do(t, r, http.MethodPost, "/api/analyses/import", doc)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "derived_mismatch", decode(t, w)["error"])

	w = do(t, r, http.MethodPost, "/api/analyses/import", []byte(`{"format":"other"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func mustField(t *testing.T, w *httptest.ResponseRecorder, key string) string {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return string(out[key])
}

func TestWorkshopIntegrity(t *testing.T) {
	r := setupRouter(t)
	id := createAnalysis(t, r)
	base := "/api/analyses/" + id + "/workshops/"

	// стратегические сценарии раньше своих источников
	w := do(t, r, http.MethodPut, base+"3", workshops[2])
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "dangling_reference", decode(t, w)["error"])

	fillWorkshops(t, r, id)

	// нельзя удалить источники, на которые ссылается мастерская 3
	w = do(t, r, http.MethodPut, base+"2", analysis.Workshop2{})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodGet, base+"2", nil)
	var w2 analysis.Workshop2
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &w2))
	assert.Len(t, w2.Sources, 1)

	bad := analysis.Workshop1{Missions: []models.Mission{{Code: "M1", Name: "Soins", Criticality: 5}}}
	w = do(t, r, http.MethodPut, base+"1", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_input", decode(t, w)["error"])

	w = do(t, r, http.MethodPut, base+"5", []byte(`{"measures": "nope"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalysisIDAndBody(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodGet, "/api/analyses/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/analyses/6f1c2a64-7a4c-4a7e-9f55-0b6d3c1e2f90/report", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/api/analyses", gin.H{"organization": "ab"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["fields"].(map[string]any)
	assert.Equal(t, "min", fields["Organization"])
}

func TestCalculators(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/api/risk-level", gin.H{"gravity": 4, "likelihood": 3})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "critical", body["level"])
	assert.Equal(t, "Critique", body["label"])

	w = do(t, r, http.MethodPost, "/api/risk-level", gin.H{"gravity": 5, "likelihood": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_input", decode(t, w)["error"])

	w = do(t, r, http.MethodPost, "/api/risk-level", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w)["error"])

	cases := []struct {
		level, strategy, want string
		transferred           bool
	}{
		{"high", "reduce", "medium", false},
		{"low", "reduce", "low", false},
		{"critical", "avoid", "low", false},
		{"Modéré", "transfert", "high", true},
		{"2", "accept", "medium", false},
	}
	for _, tc := range cases {
		w := do(t, r, http.MethodPost, "/api/residual", gin.H{"level": tc.level, "strategy": tc.strategy})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode(t, w)
		assert.Equal(t, tc.want, body["residual"], "%s/%s", tc.level, tc.strategy)
		assert.Equal(t, tc.transferred, body["transferred"])
	}

	w = do(t, r, http.MethodPost, "/api/residual", gin.H{"level": "critical", "strategy": "reduce", "efficacy": 0.5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "medium", decode(t, w)["efficacy_residual"])
	w = do(t, r, http.MethodPost, "/api/residual", gin.H{"level": "critical", "strategy": "reduce", "efficacy": 1.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/residual", gin.H{"level": "high", "strategy": "ignore"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/severity", gin.H{"d": 2, "i": 3, "c": 1, "t": 4})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 4, decode(t, w)["gravity"])

	w = do(t, r, http.MethodPost, "/api/ale", gin.H{"sle": 50000, "aro": 0.5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 25000, decode(t, w)["ale"])

	w = do(t, r, http.MethodPost, "/api/roi", gin.H{"cost": 10000, "avoided_level": "critical", "incident_cost": 50000})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 400, decode(t, w)["roi_pct"])
}

func TestCatalogEndpoints(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodGet, "/api/catalog/sources", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["categories"], 9)

	w = do(t, r, http.MethodGet, "/api/catalog/techniques?tactic=impact", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["techniques"], 3)

	w = do(t, r, http.MethodGet, "/api/catalog/measures?type=detective", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["measures"])

	w = do(t, r, http.MethodGet, "/api/catalog/techniques/t1566", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"A.6.3", "A.8.7"}, decode(t, w)["recommended_measures"])

	w = do(t, r, http.MethodGet, "/api/catalog/techniques/T0000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/catalog/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodGet, "/api/catalog/search?q=phishing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["techniques"], 1)
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupRouter(t)
	id := createAnalysis(t, r)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/analyses/"+id+"/report", nil).Code)

	w := do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `ebios_scoring_evaluations_total{outcome="ok"}`)
	assert.Contains(t, w.Body.String(), `route="/api/analyses/:id/report"`)
}

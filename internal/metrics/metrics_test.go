package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebios-rm/internal/scoring"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "invalid_input", Outcome(scoring.InvalidInput("gravity", "out of range")))
	assert.Equal(t, "dangling_reference", Outcome(fmt.Errorf("load: %w", scoring.DanglingReference("SS1", "event", "ER9"))))
	assert.Equal(t, "error", Outcome(errors.New("db down")))
}

func TestRecordEvaluation(t *testing.T) {
	before := testutil.ToFloat64(evaluations.WithLabelValues("dangling_reference"))
	RecordEvaluation(scoring.DanglingReference("M1", "scenario", "SO9"), 0)
	assert.Equal(t, before+1, testutil.ToFloat64(evaluations.WithLabelValues("dangling_reference")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, 1, testutil.CollectAndCount(requestDuration, "ebios_http_request_duration_seconds"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `ebios_http_request_duration_seconds_count{method="GET",route="/api/ping",status="200"} 1`)
}

// Package metrics - метрики Prometheus для расчётов и HTTP.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ebios-rm/internal/scoring"
)

var (
	// число расчётов анализа
	// Labels: outcome (ok, invalid_input, dangling_reference, error)
	evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ebios",
		Subsystem: "scoring",
		Name:      "evaluations_total",
		Help:      "Analysis evaluations by outcome",
	}, []string{"outcome"})

	// размер рассчитанных анализов
	scenariosScored = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ebios",
		Subsystem: "scoring",
		Name:      "scenarios",
		Help:      "Number of scenarios in an evaluated analysis",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})

	// задержка API
	// Labels: method, route, status
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ebios",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Outcome - значение метки outcome для ошибки расчёта.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, scoring.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, scoring.ErrDanglingReference):
		return "dangling_reference"
	default:
		return "error"
	}
}

// RecordEvaluation учитывает расчёт. При ошибке scenarios не записывается.
func RecordEvaluation(err error, scenarios int) {
	evaluations.WithLabelValues(Outcome(err)).Inc()
	if err == nil {
		scenariosScored.Observe(float64(scenarios))
	}
}

func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

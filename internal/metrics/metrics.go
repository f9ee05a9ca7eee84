// Package metrics expone contadores Prometheus del replay: ticks procesados,
// decisiones por estado, congelaciones y distribución del edge.
package metrics

import (
	"math"
	"sync"

	"github.com/alejandrodnm/totalsbot/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	TicksProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "totalsbot",
			Subsystem: "pipeline",
			Name:      "ticks_total",
			Help:      "Ticks evaluated by game",
		},
		[]string{"game_id"},
	)

	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "totalsbot",
			Subsystem: "trigger",
			Name:      "decisions_total",
			Help:      "Decisions by status and side",
		},
		[]string{"status", "side"},
	)

	Freezes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "totalsbot",
			Subsystem: "sanity",
			Name:      "freezes_total",
			Help:      "Ticks that started or extended a freeze",
		},
		[]string{"game_id"},
	)

	SanityIssues = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "totalsbot",
			Subsystem: "sanity",
			Name:      "issues_total",
			Help:      "Sanity errors and warnings",
		},
		[]string{"severity"},
	)

	EdgeZ = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "totalsbot",
			Subsystem: "model",
			Name:      "edge_z_abs",
			Help:      "Absolute edge z-score per tick",
			Buckets:   []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2, 2.5, 3, 4},
		},
	)
)

// Register registra los collectors en el registry por defecto. Idempotente.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(TicksProcessed, Decisions, Freezes, SanityIssues, EdgeZ)
	})
}

// Observe registra el resultado de un paso del pipeline.
func Observe(res pipeline.StepResult) {
	gameID := res.Input.GameID

	TicksProcessed.WithLabelValues(gameID).Inc()
	Decisions.WithLabelValues(res.Decision.Status.String(), res.Decision.Side.String()).Inc()

	if res.Froze {
		Freezes.WithLabelValues(gameID).Inc()
	}
	if n := len(res.Sanity.Errors); n > 0 {
		SanityIssues.WithLabelValues("error").Add(float64(n))
	}
	if n := len(res.Sanity.Warnings); n > 0 {
		SanityIssues.WithLabelValues("warning").Add(float64(n))
	}

	EdgeZ.Observe(math.Abs(res.Snapshot.EdgeZ))
}

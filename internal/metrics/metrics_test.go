package metrics_test

import (
	"testing"
	"time"

	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/alejandrodnm/totalsbot/internal/metrics"
	"github.com/alejandrodnm/totalsbot/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	metrics.Register()
	metrics.Register() // segunda llamada no debe entrar en pánico

	res := pipeline.StepResult{
		Input: domain.ControlTableInput{GameID: "metrics-g1", Timestamp: time.Now()},
		Sanity: domain.SanityResult{
			ShouldFreeze: true,
			Errors:       []string{"a", "b"},
			Warnings:     []string{"c"},
		},
		Snapshot: domain.ControlTableOutput{EdgeZ: -1.7},
		Decision: domain.DecisionOutput{Side: domain.SidePass, Status: domain.StatusFrozen},
		Froze:    true,
	}

	errorsBefore := testutil.ToFloat64(metrics.SanityIssues.WithLabelValues("error"))
	frozenBefore := testutil.ToFloat64(metrics.Decisions.WithLabelValues("FROZEN", "PASS"))

	metrics.Observe(res)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TicksProcessed.WithLabelValues("metrics-g1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Freezes.WithLabelValues("metrics-g1")))
	assert.Equal(t, errorsBefore+2, testutil.ToFloat64(metrics.SanityIssues.WithLabelValues("error")))
	assert.Equal(t, frozenBefore+1, testutil.ToFloat64(metrics.Decisions.WithLabelValues("FROZEN", "PASS")))
}

func TestObserve_FreezeCountedOnlyWhenItAdvances(t *testing.T) {
	metrics.Register()

	cfg := domain.DefaultModelConfig()
	g := pipeline.NewGame(cfg, "metrics-g2")
	t0 := time.Date(2025, 3, 14, 1, 30, 0, 0, time.UTC)
	in := domain.ControlTableInput{
		GameID:       "metrics-g2",
		Timestamp:    t0,
		CloseTotal:   224.5,
		LiveTotal:    221.5,
		ElapsedMin:   24,
		RemainingMin: 24,
		PacePre48:    99,
		Home:         domain.TeamTick{Score: 60},
		Away:         domain.TeamTick{Score: 60},
	}
	metrics.Observe(g.Step(in))

	// Dos bajadas de marcador seguidas con el mismo timestamp: la segunda no
	// mueve la expiración del freeze.
	drop := in
	drop.Home.Score = 50
	res := g.Step(drop)
	assert.True(t, res.Froze)
	metrics.Observe(res)

	again := drop
	again.Home.Score = 40
	res = g.Step(again)
	assert.True(t, res.Sanity.ShouldFreeze)
	assert.False(t, res.Froze)
	metrics.Observe(res)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Freezes.WithLabelValues("metrics-g2")))
}

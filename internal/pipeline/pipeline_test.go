package pipeline_test

import (
	"testing"
	"time"

	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/alejandrodnm/totalsbot/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 1, 30, 0, 0, time.UTC)

// tick construye un tick coherente a los dt segundos de t0. liveTotal 150
// deja el mercado muy por debajo del modelo: edge OVER claro.
func tick(dt int, elapsed float64, liveTotal float64) domain.ControlTableInput {
	return domain.ControlTableInput{
		GameID:       "g1",
		Timestamp:    t0.Add(time.Duration(dt) * time.Second),
		CloseTotal:   224.5,
		LiveTotal:    liveTotal,
		ElapsedMin:   elapsed,
		RemainingMin: 48 - elapsed,
		PacePre48:    99,
		Home: domain.TeamTick{
			Team:     "BOS",
			Score:    58,
			Box:      domain.TeamBoxLine{FGA: 45, FGM: 21, ThreePA: 18, ThreePM: 7, FTA: 12, FTM: 9, TOV: 6, ORB: 5},
			Shooting: domain.ShootingExpectation{ThreePct: 0.36, TwoPct: 0.53},
		},
		Away: domain.TeamTick{
			Team:     "NYK",
			Score:    56,
			Box:      domain.TeamBoxLine{FGA: 44, FGM: 20, ThreePA: 15, ThreePM: 5, FTA: 14, FTM: 11, TOV: 7, ORB: 6},
			Shooting: domain.ShootingExpectation{ThreePct: 0.35, TwoPct: 0.52},
		},
	}
}

func TestGame_ConfirmsThenFires(t *testing.T) {
	g := pipeline.NewGame(domain.DefaultModelConfig(), "g1")

	r1 := g.Step(tick(0, 24, 150))
	assert.Equal(t, domain.StatusAwaitingConfirmation, r1.Decision.Status)
	assert.True(t, r1.Sanity.Valid)
	assert.Empty(t, r1.Problems)

	r2 := g.Step(tick(10, 24.2, 150))
	require.True(t, r2.Decision.Fired)
	assert.Equal(t, domain.SideOver, r2.Decision.Side)
	assert.Equal(t, g.State(), r2.State)
	assert.True(t, g.State().HasFired())
}

func TestGame_ScoreDecreaseFreezesUntilExpiry(t *testing.T) {
	g := pipeline.NewGame(domain.DefaultModelConfig(), "g1")
	g.Step(tick(0, 24, 150))

	bad := tick(10, 24.2, 150)
	bad.Home.Score = 50
	r := g.Step(bad)
	assert.Equal(t, domain.StatusFrozen, r.Decision.Status)
	assert.False(t, r.Decision.Fired)
	assert.Equal(t, t0.Add(70*time.Second), g.FrozenUntil())
	require.NotEmpty(t, r.Decision.Notes)
	cause := r.Decision.Notes[0]

	// Ticks limpios dentro de la ventana siguen congelados y no tocan el estado.
	before := g.State()
	corrected := tick(40, 24.6, 150)
	corrected.Home.Score = 50
	corrected.Home.Box.FTM = 1
	r = g.Step(corrected)
	assert.Equal(t, domain.StatusFrozen, r.Decision.Status)
	assert.Equal(t, before, g.State())
	assert.Empty(t, r.Sanity.Errors)
	assert.Equal(t, []string{cause, "frozen until 2025-03-14T01:31:10Z"}, r.Decision.Notes)

	// Pasada la ventana se vuelve a evaluar.
	after := tick(80, 25, 150)
	after.Home.Score = 50
	after.Home.Box.FTM = 1
	r = g.Step(after)
	assert.NotEqual(t, domain.StatusFrozen, r.Decision.Status)
}

func TestGame_InvalidInputIsFailClosed(t *testing.T) {
	g := pipeline.NewGame(domain.DefaultModelConfig(), "g1")

	in := tick(0, 24, 150)
	in.CloseTotal = 0
	r := g.Step(in)

	assert.Equal(t, domain.StatusInvalidInput, r.Decision.Status)
	assert.NotEmpty(t, r.Problems)
	assert.Equal(t, r.Problems, r.Decision.Notes)
	// El snapshot se calcula igualmente para poder reproducirlo
	assert.Equal(t, "g1", r.Snapshot.GameID)
	assert.Equal(t, domain.NewTriggerState("g1"), g.State())
}

func TestGame_InsufficientData(t *testing.T) {
	g := pipeline.NewGame(domain.DefaultModelConfig(), "g1")

	in := tick(0, 2, 150)
	in.Home.Score, in.Away.Score = 4, 2
	in.Home.Box = domain.TeamBoxLine{FGA: 4, FGM: 2, TOV: 1}
	in.Away.Box = domain.TeamBoxLine{FGA: 5, FGM: 1}
	r := g.Step(in)

	assert.Equal(t, domain.StatusInsufficientData, r.Decision.Status)
	assert.Equal(t, 0, g.State().OverStreak)
}

func TestGame_ResumeKeepsCooldown(t *testing.T) {
	state := domain.TriggerState{
		GameID:           "g1",
		OverStreak:       2,
		LastDecisionTs:   t0.Add(-time.Minute),
		LastDecisionSide: domain.SideUnder,
	}
	g := pipeline.ResumeGame(domain.DefaultModelConfig(), domain.GameCheckpoint{State: state}, nil)

	r := g.Step(tick(0, 24, 150))
	// Racha OVER 3 pero cooldown vigente de un UNDER: no hay override posible.
	assert.Equal(t, domain.StatusCooldown, r.Decision.Status)
}

func TestGame_ResumeKeepsFreezeAndReference(t *testing.T) {
	cfg := domain.DefaultModelConfig()
	g := pipeline.NewGame(cfg, "g1")
	g.Step(tick(0, 24, 150))
	bad := tick(10, 24.2, 150)
	bad.Home.Score = 50
	g.Step(bad)

	cp := g.Checkpoint()
	require.Equal(t, t0.Add(70*time.Second), cp.FrozenUntil)

	// Tras el reinicio el freeze sigue vigente.
	resumed := pipeline.ResumeGame(cfg, cp, &bad)
	corrected := tick(40, 24.6, 150)
	corrected.Home.Score = 50
	corrected.Home.Box.FTM = 1
	r := resumed.Step(corrected)
	assert.Equal(t, domain.StatusFrozen, r.Decision.Status)
	assert.Equal(t, []string{"frozen until 2025-03-14T01:31:10Z"}, r.Decision.Notes)

	// Y el último tick procesado sigue siendo la referencia de monotonía.
	fresh := pipeline.ResumeGame(cfg, domain.GameCheckpoint{State: domain.NewTriggerState("g1")}, &corrected)
	back := tick(200, 24, 150)
	r = fresh.Step(back)
	assert.True(t, r.Sanity.ShouldFreeze)
	assert.Equal(t, domain.StatusFrozen, r.Decision.Status)
}

func TestGame_Deterministic(t *testing.T) {
	ticks := []domain.ControlTableInput{
		tick(0, 24, 150), tick(10, 24.2, 150), tick(20, 24.4, 230), tick(30, 24.6, 150),
	}

	run := func() []pipeline.StepResult {
		g := pipeline.NewGame(domain.DefaultModelConfig(), "g1")
		var out []pipeline.StepResult
		for _, in := range ticks {
			out = append(out, g.Step(in))
		}
		return out
	}

	assert.Equal(t, run(), run())
}

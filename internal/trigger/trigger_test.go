package trigger_test

import (
	"testing"
	"time"

	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/alejandrodnm/totalsbot/internal/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 1, 30, 0, 0, time.UTC)

func cfg() domain.TriggerConfig { return domain.DefaultModelConfig().Trigger }

func snap(elapsed, z float64) domain.ControlTableOutput {
	return domain.ControlTableOutput{
		GameID:     "g1",
		ElapsedMin: elapsed,
		PacePre48:  99,
		EdgeZ:      z,
		FairValue:  220 + 10*z,
		LiveTotal:  220,
		Possession: domain.PossessionBundle{PaceBlend48: 99},
	}
}

// step aplica un tick a los dt segundos de t0.
func step(state domain.TriggerState, z float64, dt int) (domain.DecisionOutput, domain.TriggerState) {
	return trigger.Evaluate(cfg(), snap(30, z), state, t0.Add(time.Duration(dt)*time.Second))
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, 2.0, trigger.Threshold(cfg(), 5))
	assert.Equal(t, 1.5, trigger.Threshold(cfg(), 12))
	assert.Equal(t, 1.5, trigger.Threshold(cfg(), 40))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, domain.SideOver, trigger.Classify(1.5, 1.5))
	assert.Equal(t, domain.SideUnder, trigger.Classify(-1.7, 1.5))
	assert.Equal(t, domain.SidePass, trigger.Classify(1.49, 1.5))
}

func TestUpdateStreaks(t *testing.T) {
	s := domain.NewTriggerState("g1")
	s = trigger.UpdateStreaks(s, domain.SideOver)
	s = trigger.UpdateStreaks(s, domain.SideOver)
	assert.Equal(t, 2, s.OverStreak)

	s = trigger.UpdateStreaks(s, domain.SideUnder)
	assert.Equal(t, 0, s.OverStreak)
	assert.Equal(t, 1, s.UnderStreak)

	s = trigger.UpdateStreaks(s, domain.SidePass)
	assert.Equal(t, 0, s.UnderStreak)
}

func TestEvaluate_SingleTickNeverFires(t *testing.T) {
	dec, st := step(domain.NewTriggerState("g1"), 3.0, 0)
	assert.False(t, dec.Fired)
	assert.Equal(t, domain.StatusAwaitingConfirmation, dec.Status)
	assert.Equal(t, domain.SideOver, dec.Side)
	assert.Equal(t, 1, st.OverStreak)
	assert.False(t, st.HasFired())
}

func TestEvaluate_SecondConsecutiveTickFires(t *testing.T) {
	st := domain.NewTriggerState("g1")
	_, st = step(st, 1.8, 0)
	dec, st := step(st, 1.8, 10)

	require.True(t, dec.Fired)
	assert.Equal(t, domain.StatusFired, dec.Status)
	assert.Equal(t, domain.SideOver, dec.Side)
	assert.Equal(t, 1.5, dec.Threshold)
	assert.Equal(t, t0.Add(10*time.Second), st.LastDecisionTs)
	assert.Equal(t, domain.SideOver, st.LastDecisionSide)
	assert.Contains(t, dec.Reasons, domain.ReasonEdgeModerate)
}

func TestEvaluate_PassBreaksConfirmation(t *testing.T) {
	st := domain.NewTriggerState("g1")
	_, st = step(st, 1.8, 0)
	dec, st := step(st, 0.2, 10)
	assert.Equal(t, domain.StatusNoEdge, dec.Status)

	dec, _ = step(st, 1.8, 20)
	assert.Equal(t, domain.StatusAwaitingConfirmation, dec.Status)
}

func TestEvaluate_EarlyGameNeedsBiggerEdge(t *testing.T) {
	st := domain.NewTriggerState("g1")
	for i := 0; i < 3; i++ {
		var dec domain.DecisionOutput
		dec, st = trigger.Evaluate(cfg(), snap(6, 1.8), st, t0.Add(time.Duration(i)*10*time.Second))
		assert.Equal(t, domain.StatusNoEdge, dec.Status)
	}
}

func TestEvaluate_CooldownAndOverride(t *testing.T) {
	st := domain.NewTriggerState("g1")
	_, st = step(st, 1.8, 0)
	dec, st := step(st, 1.8, 10)
	require.True(t, dec.Fired)

	// Mismo lado, dentro del cooldown, edge sin crecer lo suficiente
	dec, st = step(st, 1.9, 20)
	assert.False(t, dec.Fired)
	assert.Equal(t, domain.StatusCooldown, dec.Status)
	assert.Equal(t, t0.Add(10*time.Second), st.LastDecisionTs)

	// Edge ≥ umbral + overrideDelta: rompe el cooldown
	dec, st = step(st, 2.0, 30)
	require.True(t, dec.Fired)
	assert.Contains(t, dec.Reasons, domain.ReasonCooldownOverride)
	assert.Equal(t, t0.Add(30*time.Second), st.LastDecisionTs)

	// Pasado el cooldown vuelve a disparar sin override
	dec, _ = step(st, 1.6, 30+181)
	require.True(t, dec.Fired)
	assert.NotContains(t, dec.Reasons, domain.ReasonCooldownOverride)
}

func TestEvaluate_OppositeSideInCooldownWaits(t *testing.T) {
	st := domain.NewTriggerState("g1")
	_, st = step(st, 1.8, 0)
	_, st = step(st, 1.8, 10)

	_, st = step(st, -3.0, 20)
	dec, st := step(st, -3.0, 30)
	assert.False(t, dec.Fired)
	assert.Equal(t, domain.StatusCooldown, dec.Status)
	assert.Equal(t, domain.SideUnder, dec.Side)
	assert.Equal(t, domain.SideOver, st.LastDecisionSide)
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	st := domain.NewTriggerState("g1")
	before := st
	_, _ = step(st, 2.5, 0)
	assert.Equal(t, before, st)
}

func TestSuppress(t *testing.T) {
	out := snap(30, 2.5)
	out.Timestamp = t0
	dec := trigger.Suppress(out, domain.StatusFrozen, []string{"total score decreased"})

	assert.Equal(t, domain.SidePass, dec.Side)
	assert.Equal(t, domain.StatusFrozen, dec.Status)
	assert.False(t, dec.Fired)
	assert.Equal(t, 2.5, dec.EdgeZ)
	assert.Equal(t, t0, dec.Timestamp)
	assert.Equal(t, []string{"total score decreased"}, dec.Notes)
}

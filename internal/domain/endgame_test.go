package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func foulEvFor(diff int, remMin float64) float64 {
	cfg := DefaultModelConfig().Endgame
	p := FoulProbability(diff, remMin, 1, false)
	return FoulEv(p, ExpectedFoulPoints(diff, remMin), cfg.FoulEvMin, cfg.FoulEvMax)
}

func TestFoulEv_BlowoutIsZero(t *testing.T) {
	assert.Equal(t, 0.0, foulEvFor(20, 1))
	assert.Equal(t, 0.0, foulEvFor(20, 0.2))
}

func TestFoulEv_ZeroBeforeWindow(t *testing.T) {
	assert.Equal(t, 0.0, foulEvFor(4, 5))
}

func TestFoulEv_NonDecreasingAsClockRunsOut(t *testing.T) {
	for _, diff := range []int{1, 3, 5, 8} {
		prev := foulEvFor(diff, 2)
		for rem := 1.9; rem >= 1; rem -= 0.1 {
			cur := foulEvFor(diff, rem)
			assert.GreaterOrEqual(t, cur, prev, "diff=%d rem=%.1f", diff, rem)
			prev = cur
		}
	}
}

func TestFoulProbability(t *testing.T) {
	// Diferencia 5 a 2': base 30%, +5% por tiempos muertos.
	assert.InDelta(t, 0.35, FoulProbability(5, 2, 1, false), 1e-12)
	// Diferencia 2 a 0': 90% + 5% + 5% + 5%, acotado a 95%.
	assert.InDelta(t, 0.95, FoulProbability(2, 0, 2, true), 1e-12)
	// Rama moderada solo en el último minuto.
	assert.Equal(t, 0.0, FoulProbability(12, 1.5, 0, false))
	assert.InDelta(t, 0.20, FoulProbability(12, 0.5, 0, false), 1e-12)
	// Empate: nadie hace faltas.
	assert.Equal(t, 0.0, FoulProbability(0, 1, 2, true))
}

func TestExpectedFoulPoints(t *testing.T) {
	assert.Equal(t, 1.0, ExpectedFoulPoints(4, 3))
	assert.InDelta(t, 4, ExpectedFoulPoints(4, 2), 1e-12)
	assert.InDelta(t, 10, ExpectedFoulPoints(4, 0), 1e-12)
	assert.InDelta(t, 5, ExpectedFoulPoints(12, 1), 1e-12)
	assert.Equal(t, 1.0, ExpectedFoulPoints(20, 1))
}

func TestOtEv(t *testing.T) {
	cfg := DefaultModelConfig().Endgame
	ev := func(diff int, rem float64) float64 {
		return OtEv(OtProbability(diff, rem), cfg.ExpectedOtPoints, cfg.OtEvMin, cfg.OtEvMax)
	}

	assert.Equal(t, 0.0, ev(15, 1))
	assert.Equal(t, 0.0, ev(15, 0.3))
	assert.Greater(t, ev(0, 0.5), 0.0)
	// 40% · 22 = 8.8 → acotado a 6
	assert.Equal(t, 6.0, ev(0, 0.5))
	assert.Equal(t, 0.0, ev(0, 10))
}

func TestOtProbability_Tiers(t *testing.T) {
	assert.Equal(t, 0.40, OtProbability(0, 0.5))
	assert.Equal(t, 0.30, OtProbability(0, 1))
	assert.Equal(t, 0.18, OtProbability(0, 2))
	assert.Equal(t, 0.08, OtProbability(0, 5))
	assert.Equal(t, 0.18, OtProbability(-2, 0.5))
	assert.Equal(t, 0.14, OtProbability(1, 2.5))
	assert.Equal(t, 0.05, OtProbability(5, 0.5))
	assert.Equal(t, 0.05, OtProbability(3, 1))
	assert.Equal(t, 0.05, OtProbability(5, 4))
	assert.Equal(t, 0.0, OtProbability(7, 0.5))
}

func TestResolveSituation(t *testing.T) {
	defs := SituationDefaults{DefaultTimeouts: 1, DefaultInBonus: false}

	tie := ResolveSituation(defs, ControlTableInput{
		Home: TeamTick{Score: 90, Timeouts: IntPtr(3)},
		Away: TeamTick{Score: 90},
	})
	assert.Equal(t, Situation{}, tie)

	defaulted := ResolveSituation(defs, ControlTableInput{
		Home: TeamTick{Score: 95},
		Away: TeamTick{Score: 90},
	})
	assert.Equal(t, Situation{ScoreDiff: 5, TrailingTimeouts: 1}, defaulted)

	explicit := ResolveSituation(defs, ControlTableInput{
		Home: TeamTick{Score: 88, Timeouts: IntPtr(0)},
		Away: TeamTick{Score: 95, InBonus: BoolPtr(true)},
	})
	assert.Equal(t, Situation{ScoreDiff: 7, TrailingTimeouts: 0, LeadingInBonus: true}, explicit)
}

func TestComputeEndgame_ModelFairAddsEv(t *testing.T) {
	cfg := DefaultModelConfig().Endgame
	sit := Situation{ScoreDiff: 2, TrailingTimeouts: 1}

	eg := ComputeEndgame(cfg, sit, 0.5, 200)
	assert.Greater(t, eg.FoulEv, 0.0)
	assert.Greater(t, eg.OtEv, 0.0)
	assert.InDelta(t, 200+eg.FoulEv+eg.OtEv, eg.ModelFair, 1e-12)
}

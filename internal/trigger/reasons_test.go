package trigger_test

import (
	"testing"

	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/alejandrodnm/totalsbot/internal/trigger"
	"github.com/stretchr/testify/assert"
)

func TestReasonCodes_Strength(t *testing.T) {
	assert.Equal(t, []domain.ReasonCode{domain.ReasonEdgeStrong},
		trigger.ReasonCodes(cfg(), snap(30, 2.6), 1.5))
	assert.Equal(t, []domain.ReasonCode{domain.ReasonEdgeModerate},
		trigger.ReasonCodes(cfg(), snap(30, -1.6), 1.5))
}

func TestReasonCodes_Factors(t *testing.T) {
	out := snap(8, 2.6)
	out.Luck.GameLuckGap = -4
	out.Possession.PaceBlend48 = 104
	out.Endgame.FoulEv = 1
	out.Endgame.OtEv = 0.6
	out.Lineup.GameAdjPpp = -0.03
	out.Volatility.HighVariance = true

	got := trigger.ReasonCodes(cfg(), out, 2.0)
	assert.Equal(t, []domain.ReasonCode{
		domain.ReasonEdgeModerate,
		domain.ReasonLuckHot,
		domain.ReasonPaceFast,
		domain.ReasonFoulRisk,
		domain.ReasonOvertimeRisk,
		domain.ReasonLineupWeak,
		domain.ReasonHighVariance,
		domain.ReasonEarlyGame,
	}, got)
}

func TestReasonCodes_ColdSlowStrongLineup(t *testing.T) {
	out := snap(30, 1.6)
	out.Luck.GameLuckGap = 5
	out.Possession.PaceBlend48 = 94
	out.Lineup.GameAdjPpp = 0.05

	got := trigger.ReasonCodes(cfg(), out, 1.5)
	assert.Contains(t, got, domain.ReasonLuckCold)
	assert.Contains(t, got, domain.ReasonPaceSlow)
	assert.Contains(t, got, domain.ReasonLineupStrong)
	assert.NotContains(t, got, domain.ReasonEarlyGame)
}

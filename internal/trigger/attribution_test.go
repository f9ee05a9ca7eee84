package trigger_test

import (
	"testing"

	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/alejandrodnm/totalsbot/internal/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attributionSnap() domain.ControlTableOutput {
	return domain.ControlTableOutput{
		RemainingMin: 24,
		PacePre48:    100,
		Possession: domain.PossessionBundle{
			RemainingPoss: 50,
			BlendWeight:   0.5,
		},
		Efficiency: domain.EfficiencyBundle{ProjPpp: 2.2},
	}
}

func TestAttribute_ImpactsInOrder(t *testing.T) {
	out := attributionSnap()
	out.Luck.LuckPerPoss = 0.1 // 50 · 0.5 · 0.1 = 2.5
	out.Lineup.GameAdjPpp = 0.02
	out.Endgame.FoulEv = 0.4
	out.Endgame.OtEv = 0.3

	a := trigger.Attribute(cfg(), out)
	require.Len(t, a.Impacts, 5)

	drivers := make([]domain.Driver, len(a.Impacts))
	for i, imp := range a.Impacts {
		drivers[i] = imp.Driver
	}
	assert.Equal(t, []domain.Driver{
		domain.DriverLuck, domain.DriverLineup, domain.DriverFoul, domain.DriverOvertime, domain.DriverPace,
	}, drivers)

	assert.InDelta(t, 2.5, a.Impacts[0].Points, 1e-9)
	assert.InDelta(t, 1.0, a.Impacts[1].Points, 1e-9)
	assert.InDelta(t, 0, a.Impacts[4].Points, 1e-9) // ritmo igual al prior
	assert.Equal(t, domain.DriverLuck, a.TopDriver)
	assert.InDelta(t, 2.5, a.TopPoints, 1e-9)
}

func TestAttribute_NegativeLargestWins(t *testing.T) {
	out := attributionSnap()
	out.Luck.LuckPerPoss = 0.04       // +1
	out.Possession.RemainingPoss = 47 // ritmo: (47 − 50) · 2.2 = −6.6

	a := trigger.Attribute(cfg(), out)
	assert.Equal(t, domain.DriverPace, a.TopDriver)
	assert.InDelta(t, -6.6, a.TopPoints, 1e-9)
}

func TestAttribute_BelowMaterialityIsNone(t *testing.T) {
	out := attributionSnap()
	out.Endgame.FoulEv = 0.3

	a := trigger.Attribute(cfg(), out)
	assert.Equal(t, domain.DriverNone, a.TopDriver)
	assert.Equal(t, 0.0, a.TopPoints)
}

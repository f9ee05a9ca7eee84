package trigger

import (
	"math"

	"github.com/alejandrodnm/totalsbot/internal/domain"
)

// Attribute ordena las contribuciones en puntos de suerte, quinteto, faltas,
// prórroga y ritmo, y devuelve la mayor en valor absoluto. Si ninguna llega a
// MaterialityFloor, el driver es DriverNone.
//
//	suerte   = remPoss · w · Σ luck_t / poss_t
//	quinteto = remPoss · lineupAdjPpp
//	faltas   = foulEv
//	prórroga = otEv
//	ritmo    = (remPoss − remMin/48 · pacePre48) · projPpp
func Attribute(cfg domain.TriggerConfig, out domain.ControlTableOutput) domain.Attribution {
	remPoss := out.Possession.RemainingPoss
	priorRemPoss := domain.RemainingPossessions(out.RemainingMin, out.PacePre48)

	impacts := []domain.Impact{
		{Driver: domain.DriverLuck, Points: remPoss * out.Possession.BlendWeight * out.Luck.LuckPerPoss},
		{Driver: domain.DriverLineup, Points: remPoss * out.Lineup.GameAdjPpp},
		{Driver: domain.DriverFoul, Points: out.Endgame.FoulEv},
		{Driver: domain.DriverOvertime, Points: out.Endgame.OtEv},
		{Driver: domain.DriverPace, Points: (remPoss - priorRemPoss) * out.Efficiency.ProjPpp},
	}

	a := domain.Attribution{Impacts: impacts, TopDriver: domain.DriverNone}
	best := 0.0
	for _, imp := range impacts {
		if abs := math.Abs(imp.Points); abs > best {
			best = abs
			a.TopDriver = imp.Driver
			a.TopPoints = imp.Points
		}
	}
	if best < cfg.MaterialityFloor {
		a.TopDriver = domain.DriverNone
		a.TopPoints = 0
	}
	return a
}

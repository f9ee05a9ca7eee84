// Package controltable compone los estimadores del dominio, en orden estricto
// de dependencias, en un snapshot inmutable por tick.
//
//	blowout → posesiones → suerte/eficiencia → quinteto → final de partido → volatilidad
//
// No hace I/O ni guarda estado: el mismo input produce siempre el mismo output.
package controltable

import (
	"github.com/alejandrodnm/totalsbot/internal/domain"
)

// Compute calcula la tabla de control completa de un tick.
func Compute(cfg domain.ModelConfig, in domain.ControlTableInput) domain.ControlTableOutput {
	blowout := domain.ComputeBlowout(cfg.Blowout, in)

	poss := domain.ComputePossessions(in, blowout.PaceMult)

	luck := domain.ComputeLuck(in, poss)
	eff := domain.ComputeEfficiency(cfg.Efficiency, in, poss, luck, blowout.PppMult)

	lineup := domain.ComputeLineup(in, poss.RemainingPoss, eff.ProjPpp)

	sit := domain.ResolveSituation(cfg.Situation, in)
	endgame := domain.ComputeEndgame(cfg.Endgame, sit, in.RemainingMin, lineup.RawProjection)

	vol := domain.ComputeVolatility(cfg.Volatility, poss.ThreePARate, poss.RemainingPoss, endgame.ModelFair, in.LiveTotal)

	return domain.ControlTableOutput{
		GameID:       in.GameID,
		Timestamp:    in.Timestamp,
		ElapsedMin:   in.ElapsedMin,
		RemainingMin: in.RemainingMin,
		PacePre48:    in.PacePre48,
		CurrentScore: float64(in.TotalScore()),
		LiveTotal:    in.LiveTotal,
		Blowout:      blowout,
		Possession:   poss,
		Luck:         luck,
		Efficiency:   eff,
		Lineup:       lineup,
		Endgame:      endgame,
		Volatility:   vol,
		FairValue:    endgame.ModelFair,
		EdgeZ:        vol.EdgeZ,
	}
}

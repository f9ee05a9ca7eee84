package trigger

import (
	"math"

	"github.com/alejandrodnm/totalsbot/internal/domain"
)

// ReasonCodes etiqueta una decisión disparada con los factores que la explican.
func ReasonCodes(cfg domain.TriggerConfig, out domain.ControlTableOutput, threshold float64) []domain.ReasonCode {
	var reasons []domain.ReasonCode

	if math.Abs(out.EdgeZ) >= threshold+cfg.StrongEdgeDelta {
		reasons = append(reasons, domain.ReasonEdgeStrong)
	} else {
		reasons = append(reasons, domain.ReasonEdgeModerate)
	}

	switch luck := out.Luck.GameLuckGap; {
	case luck >= cfg.LuckReasonPoints:
		reasons = append(reasons, domain.ReasonLuckCold)
	case luck <= -cfg.LuckReasonPoints:
		reasons = append(reasons, domain.ReasonLuckHot)
	}

	switch dev := out.Possession.PaceBlend48 - out.PacePre48; {
	case dev >= cfg.PaceReasonDelta:
		reasons = append(reasons, domain.ReasonPaceFast)
	case dev <= -cfg.PaceReasonDelta:
		reasons = append(reasons, domain.ReasonPaceSlow)
	}

	if out.Endgame.FoulEv >= cfg.FoulReasonEv {
		reasons = append(reasons, domain.ReasonFoulRisk)
	}
	if out.Endgame.OtEv >= cfg.OtReasonEv {
		reasons = append(reasons, domain.ReasonOvertimeRisk)
	}

	switch adj := out.Lineup.GameAdjPpp; {
	case adj >= cfg.LineupReasonPpp:
		reasons = append(reasons, domain.ReasonLineupStrong)
	case adj <= -cfg.LineupReasonPpp:
		reasons = append(reasons, domain.ReasonLineupWeak)
	}

	if out.Volatility.HighVariance {
		reasons = append(reasons, domain.ReasonHighVariance)
	}
	if IsEarlyGame(cfg, out.ElapsedMin) {
		reasons = append(reasons, domain.ReasonEarlyGame)
	}
	return reasons
}

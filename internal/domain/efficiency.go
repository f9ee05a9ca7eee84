package domain

// LuckAggregation define cómo se combinan los luck gaps de ambos equipos.
type LuckAggregation int

const (
	LuckSum LuckAggregation = iota // total del partido = suma de ambos equipos
	LuckMean
)

// GameLuckAggregation es la política calibrada: el luck gap alimenta un
// total de partido, así que se suman ambos equipos.
const GameLuckAggregation = LuckSum

// TeamLuckGap mide la varianza de tiro de un equipo en puntos:
//
//	luck = 3·(exp3PM − 3PM) + 2·(exp2PM − 2PM)
//	exp3PM = 3PA · exp3p%, exp2PM = (FGA − 3PA) · exp2p%
//
// Positivo = tiró más frío de lo esperado (se espera reversión al alza).
// Negativo = tiró más caliente (reversión a la baja).
func TeamLuckGap(box TeamBoxLine, exp3pPct, exp2pPct float64) float64 {
	exp3PM := float64(box.ThreePA) * exp3pPct
	exp2PM := float64(box.TwoPA()) * exp2pPct
	return 3*(exp3PM-float64(box.ThreePM)) + 2*(exp2PM-float64(box.TwoPM()))
}

// AggregateLuck combina los luck gaps por equipo según la política dada.
func AggregateLuck(agg LuckAggregation, home, away float64) float64 {
	if agg == LuckMean {
		return Avg(home, away)
	}
	return home + away
}

// GameLuckGap combina ambos equipos con la política calibrada.
func GameLuckGap(home, away float64) float64 {
	return AggregateLuck(GameLuckAggregation, home, away)
}

// AnchorPpp es el ritmo de anotación implícito en la línea pregame:
// puntos del partido por posesión de equipo.
func AnchorPpp(closeTotal, pacePre48 float64) float64 {
	return SafeDiv(closeTotal, pacePre48, 0)
}

// TeamStructPpp es el PPP de un equipo con tiro esperado en lugar del real:
// (score + luckGap) / poss, acotado a [lo, hi]. Sin posesiones devuelve fallback.
func TeamStructPpp(score int, luckGap, poss, fallback, lo, hi float64) float64 {
	if poss <= 0 {
		return fallback
	}
	return Clamp((float64(score)+luckGap)/poss, lo, hi)
}

// ProjPpp mezcla eficiencia del modelo y del mercado con el mismo peso que
// el ritmo: anclado al mercado al inicio, guiado por el modelo al final.
func ProjPpp(structPpp, anchorPpp, w float64) float64 {
	return structPpp*w + anchorPpp*(1-w)
}

// LuckBundle resume la varianza de tiro del partido.
type LuckBundle struct {
	HomeLuckGap float64 `json:"home_luck_gap"`
	AwayLuckGap float64 `json:"away_luck_gap"`
	GameLuckGap float64 `json:"game_luck_gap"`
	LuckPerPoss float64 `json:"luck_per_poss"` // Σ luck_t / poss_t
}

// EfficiencyBundle es la etapa de eficiencia estructural y proyectada.
type EfficiencyBundle struct {
	AnchorPpp     float64 `json:"anchor_ppp"`
	HomeStructPpp float64 `json:"home_struct_ppp"`
	AwayStructPpp float64 `json:"away_struct_ppp"`
	StructPpp     float64 `json:"struct_ppp"`
	ProjPpp       float64 `json:"proj_ppp"`
}

// ComputeLuck calcula los luck gaps de un tick.
func ComputeLuck(in ControlTableInput, poss PossessionBundle) LuckBundle {
	home := TeamLuckGap(in.Home.Box, in.Home.Shooting.ThreePct, in.Home.Shooting.TwoPct)
	away := TeamLuckGap(in.Away.Box, in.Away.Shooting.ThreePct, in.Away.Shooting.TwoPct)
	return LuckBundle{
		HomeLuckGap: home,
		AwayLuckGap: away,
		GameLuckGap: GameLuckGap(home, away),
		LuckPerPoss: SafeDiv(home, poss.HomePoss, 0) + SafeDiv(away, poss.AwayPoss, 0),
	}
}

// ComputeEfficiency calcula la etapa de eficiencia. Necesita el peso de
// mezcla de la etapa de posesiones; pppMult escala el PPP proyectado.
func ComputeEfficiency(cfg EfficiencyConfig, in ControlTableInput, poss PossessionBundle, luck LuckBundle, pppMult float64) EfficiencyBundle {
	anchor := AnchorPpp(in.CloseTotal, in.PacePre48)
	fallback := anchor / 2

	home := TeamStructPpp(in.Home.Score, luck.HomeLuckGap, poss.HomePoss, fallback, cfg.StructTeamPppMin, cfg.StructTeamPppMax)
	away := TeamStructPpp(in.Away.Score, luck.AwayLuckGap, poss.AwayPoss, fallback, cfg.StructTeamPppMin, cfg.StructTeamPppMax)
	structPpp := home + away

	return EfficiencyBundle{
		AnchorPpp:     anchor,
		HomeStructPpp: home,
		AwayStructPpp: away,
		StructPpp:     structPpp,
		ProjPpp:       ProjPpp(structPpp, anchor, poss.BlendWeight) * pppMult,
	}
}

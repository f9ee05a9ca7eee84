package domain

// TeamLineupAdjPpp convierte el diferencial de EPM (por 100 posesiones) del
// quinteto en pista frente a la media del equipo en puntos por posesión.
func TeamLineupAdjPpp(sumCurrentEpm, avgTeamEpm float64) float64 {
	return (sumCurrentEpm - avgTeamEpm) / 100
}

// GameLineupAdjPpp es la media de los ajustes de ambos equipos.
func GameLineupAdjPpp(home, away float64) float64 {
	return Avg(home, away)
}

// RawProjection proyecta el total final antes de los add-ons de final de partido:
//
//	raw = score + remPoss · (projPpp + lineupAdjPpp)
func RawProjection(currentScore, remPoss, projPpp, lineupAdjPpp float64) float64 {
	return currentScore + remPoss*(projPpp+lineupAdjPpp)
}

// LineupBundle es la etapa de ajuste por quinteto.
type LineupBundle struct {
	HomeAdjPpp    float64 `json:"home_adj_ppp"`
	AwayAdjPpp    float64 `json:"away_adj_ppp"`
	GameAdjPpp    float64 `json:"game_adj_ppp"`
	RawProjection float64 `json:"raw_projection"`
}

// ComputeLineup necesita las posesiones restantes y el PPP proyectado.
func ComputeLineup(in ControlTableInput, remPoss, projPpp float64) LineupBundle {
	home := TeamLineupAdjPpp(in.Home.Lineup.SumCurrentEpm, in.Home.Lineup.AvgTeamEpm)
	away := TeamLineupAdjPpp(in.Away.Lineup.SumCurrentEpm, in.Away.Lineup.AvgTeamEpm)
	game := GameLineupAdjPpp(home, away)
	score := float64(in.TotalScore())
	return LineupBundle{
		HomeAdjPpp:    home,
		AwayAdjPpp:    away,
		GameAdjPpp:    game,
		RawProjection: Finite(RawProjection(score, remPoss, projPpp, game), score),
	}
}

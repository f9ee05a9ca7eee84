package domain

import "math"

// MinutesPerGame es la duración reglamentaria usada para normalizar el ritmo.
const MinutesPerGame = 48.0

// ftaPossessionFactor es la fracción de tiros libres que termina una posesión.
const ftaPossessionFactor = 0.44

// TeamPossessions estima las posesiones de un equipo:
//
//	poss = FGA + TOV + 0.44·FTA − ORB
//
// Nunca devuelve un valor negativo.
func TeamPossessions(box TeamBoxLine) float64 {
	p := float64(box.FGA) + float64(box.TOV) + ftaPossessionFactor*float64(box.FTA) - float64(box.ORB)
	return math.Max(0, p)
}

// LivePace48 normaliza las posesiones observadas a 48 minutos.
// Devuelve 0 en el salto inicial (elapsedMin ≤ 0).
func LivePace48(possLive, elapsedMin float64) float64 {
	if elapsedMin <= 0 {
		return 0
	}
	return SafeDiv(possLive, elapsedMin, 0) * MinutesPerGame
}

// BlendWeight es la fracción de partido jugada, acotada a [0, 1]. Se usa como
// peso live/prior tanto para el ritmo como para la eficiencia.
func BlendWeight(elapsedMin float64) float64 {
	return Clamp(elapsedMin/MinutesPerGame, 0, 1)
}

// PaceBlend48 mezcla el ritmo live con el prior pregame: live·w + prior·(1−w).
func PaceBlend48(livePace48, pacePre48, w float64) float64 {
	return livePace48*w + pacePre48*(1-w)
}

// RemainingPossessions proyecta las posesiones por equipo que quedan:
//
//	remPoss = (remMin / 48) · paceBlend48
//
// La normalización /48 va primero: remMin·pace sin normalizar da miles de
// posesiones en lugar de decenas.
func RemainingPossessions(remMin, paceBlend48 float64) float64 {
	if remMin <= 0 {
		return 0
	}
	return (remMin / MinutesPerGame) * paceBlend48
}

// ThreePointAttemptRateGame es 3PA combinado / FGA combinado; 0 sin intentos.
func ThreePointAttemptRateGame(home, away TeamBoxLine) float64 {
	fga := float64(home.FGA + away.FGA)
	if fga <= 0 {
		return 0
	}
	return float64(home.ThreePA+away.ThreePA) / fga
}

// PossessionBundle es la primera etapa de la tabla de control.
type PossessionBundle struct {
	HomePoss      float64 `json:"home_poss"`
	AwayPoss      float64 `json:"away_poss"`
	PossLive      float64 `json:"poss_live"` // media de ambos equipos
	LivePace48    float64 `json:"live_pace48"`
	BlendWeight   float64 `json:"blend_weight"`
	PaceBlend48   float64 `json:"pace_blend48"`
	RemainingPoss float64 `json:"remaining_poss"`
	ThreePARate   float64 `json:"three_pa_rate"`
}

// ComputePossessions construye la etapa de posesiones y ritmo a partir de un
// tick. paceMult escala las posesiones restantes (1 = sin ajuste).
func ComputePossessions(in ControlTableInput, paceMult float64) PossessionBundle {
	home := TeamPossessions(in.Home.Box)
	away := TeamPossessions(in.Away.Box)
	possLive := Avg(home, away)
	live := LivePace48(possLive, in.ElapsedMin)
	w := BlendWeight(in.ElapsedMin)
	blend := PaceBlend48(live, in.PacePre48, w)

	return PossessionBundle{
		HomePoss:      home,
		AwayPoss:      away,
		PossLive:      possLive,
		LivePace48:    live,
		BlendWeight:   w,
		PaceBlend48:   blend,
		RemainingPoss: Finite(RemainingPossessions(in.RemainingMin, blend)*paceMult, 0),
		ThreePARate:   ThreePointAttemptRateGame(in.Home.Box, in.Away.Box),
	}
}

package domain

// Ventanas del modelo de faltas intencionadas.
const (
	foulCloseWindowMin    = 2.0 // partido ajustado: últimos 2 minutos
	foulModerateWindowMin = 1.0 // desventaja moderada: último minuto
	foulCloseMaxDiff      = 8
	foulModerateMaxDiff   = 15
	foulTightDiff         = 3
	foulBump              = 0.05
	foulProbCap           = 0.95
	foulBaselinePoints    = 1.0
)

// Techos del modelo de prórroga.
const (
	otMaxDiff   = 6
	otWindowMin = 6.0
)

// FoulProbability estima la probabilidad de que el equipo que pierde entre en
// faltas intencionadas.
//
//   - más de 2' por jugar: 0
//   - diferencia 1–8 y ≤ 2': sube de 30% a 90% según se agota el reloj,
//     +5% si al que pierde le quedan tiempos muertos, +5% si el que gana
//     está en bonus, +5% con diferencia ≤ 3
//   - diferencia 9–15 en el último minuto: rama baja de 10% a 30%
//
// Resultado acotado a [0, 0.95].
func FoulProbability(scoreDiff int, remMin float64, trailingTimeouts int, leadingInBonus bool) float64 {
	d := absInt(scoreDiff)
	if remMin > foulCloseWindowMin {
		return 0
	}
	rem := max(0, remMin)

	var p float64
	switch {
	case d >= 1 && d <= foulCloseMaxDiff:
		p = 0.30 + 0.60*(foulCloseWindowMin-rem)/foulCloseWindowMin
		if trailingTimeouts > 0 {
			p += foulBump
		}
		if leadingInBonus {
			p += foulBump
		}
		if d <= foulTightDiff {
			p += foulBump
		}
	case d > foulCloseMaxDiff && d <= foulModerateMaxDiff && rem <= foulModerateWindowMin:
		p = 0.10 + 0.20*(foulModerateWindowMin-rem)/foulModerateWindowMin
	}
	return Clamp(p, 0, foulProbCap)
}

// ExpectedFoulPoints son los puntos extra esperados si hay faltas:
// 4–10 en partidos ajustados, 2–8 en partidos abiertos pero vivos, 1 en otro caso.
func ExpectedFoulPoints(scoreDiff int, remMin float64) float64 {
	d := absInt(scoreDiff)
	if remMin > foulCloseWindowMin {
		return foulBaselinePoints
	}
	late := (foulCloseWindowMin - max(0, remMin)) / foulCloseWindowMin
	switch {
	case d <= foulCloseMaxDiff:
		return 4 + 6*late
	case d <= foulModerateMaxDiff:
		return 2 + 6*late
	default:
		return foulBaselinePoints
	}
}

// FoulEv = clamp(prob · puntos, min, max).
func FoulEv(prob, expectedPoints, lo, hi float64) float64 {
	return Clamp(prob*expectedPoints, lo, hi)
}

// OtProbability estima la probabilidad de prórroga. Es 0 por encima de 6
// puntos de diferencia o con más de 6' por jugar; el máximo (40%) es un
// empate con ≤ 30 segundos.
func OtProbability(scoreDiff int, remMin float64) float64 {
	d := absInt(scoreDiff)
	if d > otMaxDiff || remMin > otWindowMin {
		return 0
	}
	rem := max(0, remMin)

	switch {
	case d == 0:
		switch {
		case rem <= 0.5:
			return 0.40
		case rem <= 1:
			return 0.30
		case rem <= 3:
			return 0.18
		default:
			return 0.08
		}
	case d <= 2:
		switch {
		case rem <= 1:
			return 0.18
		case rem <= 3:
			return 0.14
		default:
			return 0.08
		}
	default:
		return 0.05
	}
}

// OtEv = clamp(prob · puntosOT, min, max).
func OtEv(prob, expectedOtPoints, lo, hi float64) float64 {
	return Clamp(prob*expectedOtPoints, lo, hi)
}

// EndgameBundle es la etapa de valor esperado de final de partido.
type EndgameBundle struct {
	Situation          Situation `json:"situation"`
	FoulProb           float64   `json:"foul_prob"`
	ExpectedFoulPoints float64   `json:"expected_foul_points"`
	FoulEv             float64   `json:"foul_ev"`
	OtProb             float64   `json:"ot_prob"`
	OtEv               float64   `json:"ot_ev"`
	ModelFair          float64   `json:"model_fair"`
}

// ComputeEndgame necesita la proyección bruta de la etapa de quinteto.
func ComputeEndgame(cfg EndgameConfig, sit Situation, remMin, rawProjection float64) EndgameBundle {
	foulProb := FoulProbability(sit.ScoreDiff, remMin, sit.TrailingTimeouts, sit.LeadingInBonus)
	foulPts := ExpectedFoulPoints(sit.ScoreDiff, remMin)
	foulEv := FoulEv(foulProb, foulPts, cfg.FoulEvMin, cfg.FoulEvMax)

	otProb := OtProbability(sit.ScoreDiff, remMin)
	otEv := OtEv(otProb, cfg.ExpectedOtPoints, cfg.OtEvMin, cfg.OtEvMax)

	return EndgameBundle{
		Situation:          sit,
		FoulProb:           foulProb,
		ExpectedFoulPoints: foulPts,
		FoulEv:             foulEv,
		OtProb:             otProb,
		OtEv:               otEv,
		ModelFair:          Finite(rawProjection+foulEv+otEv, rawProjection),
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

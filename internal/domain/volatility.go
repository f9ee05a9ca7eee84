package domain

import "math"

// HighVariance indica un partido cargado de triples.
func HighVariance(cfg VolatilityConfig, threePARate float64) bool {
	return threePARate > cfg.ThreePARateThreshold
}

// BaseStd es la desviación típica de partida; se multiplica cuando el
// partido supera el umbral de tasa de triples.
func BaseStd(cfg VolatilityConfig, threePARate float64) float64 {
	if HighVariance(cfg, threePARate) {
		return cfg.BaseStd * cfg.HighThreeMultiplier
	}
	return cfg.BaseStd
}

// TimeScalar = clamp(sqrt(max(1, remPoss) / 100), min, max). Decrece de forma
// monótona según se agotan las posesiones.
func TimeScalar(remPoss, lo, hi float64) float64 {
	return Clamp(math.Sqrt(math.Max(1, remPoss)/100), lo, hi)
}

// VolStd = clamp(baseStd · timeScalar, min, max).
func VolStd(baseStd, timeScalar, lo, hi float64) float64 {
	return Clamp(baseStd*timeScalar, lo, hi)
}

// EdgeZ es la desviación estandarizada entre modelo y mercado.
// Positivo = modelo por encima (sesgo OVER). 0 si volStd ≤ 0.
func EdgeZ(modelFair, liveMarketTotal, volStd float64) float64 {
	if volStd <= 0 {
		return 0
	}
	return Finite((modelFair-liveMarketTotal)/volStd, 0)
}

// VolatilityBundle es la última etapa de la tabla de control.
type VolatilityBundle struct {
	HighVariance bool    `json:"high_variance"`
	BaseStd      float64 `json:"base_std"`
	TimeScalar   float64 `json:"time_scalar"`
	VolStd       float64 `json:"vol_std"`
	EdgeZ        float64 `json:"edge_z"`
}

// ComputeVolatility necesita el fair value y las posesiones restantes.
func ComputeVolatility(cfg VolatilityConfig, threePARate, remPoss, modelFair, liveTotal float64) VolatilityBundle {
	base := BaseStd(cfg, threePARate)
	ts := TimeScalar(remPoss, cfg.TimeScalarMin, cfg.TimeScalarMax)
	std := VolStd(base, ts, cfg.VolStdMin, cfg.VolStdMax)
	return VolatilityBundle{
		HighVariance: HighVariance(cfg, threePARate),
		BaseStd:      base,
		TimeScalar:   ts,
		VolStd:       std,
		EdgeZ:        EdgeZ(modelFair, liveTotal, std),
	}
}

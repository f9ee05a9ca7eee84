package domain

import "time"

// TeamBoxLine son los contadores acumulados de un equipo en el partido.
// Invariantes: makes ≤ attempts, 3PA ≤ FGA, todo ≥ 0.
type TeamBoxLine struct {
	FGA     int `json:"fga"`
	FGM     int `json:"fgm"`
	ThreePA int `json:"three_pa"`
	ThreePM int `json:"three_pm"`
	FTA     int `json:"fta"`
	FTM     int `json:"ftm"`
	TOV     int `json:"tov"`
	ORB     int `json:"orb"`
}

// TwoPA devuelve los intentos de dos puntos (FGA - 3PA).
func (b TeamBoxLine) TwoPA() int { return b.FGA - b.ThreePA }

// TwoPM devuelve los aciertos de dos puntos (FGM - 3PM).
func (b TeamBoxLine) TwoPM() int { return b.FGM - b.ThreePM }

// Points reconstruye los puntos desde el box: 3·3PM + 2·2PM + FTM.
func (b TeamBoxLine) Points() int {
	return 3*b.ThreePM + 2*b.TwoPM() + b.FTM
}

// ShootingExpectation son los porcentajes esperados (ya regresados y
// acotados por el proveedor) de un equipo.
type ShootingExpectation struct {
	ThreePct float64 `json:"three_pct"`
	TwoPct   float64 `json:"two_pct"`
}

// LineupQuality agrega el EPM (por 100 posesiones) del quinteto en pista
// frente a la media de la plantilla.
type LineupQuality struct {
	SumCurrentEpm float64 `json:"sum_current_epm"`
	AvgTeamEpm    float64 `json:"avg_team_epm"`
}

// TeamTick es el estado de un equipo dentro de un tick.
type TeamTick struct {
	Team     string              `json:"team"`
	Score    int                 `json:"score"`
	Box      TeamBoxLine         `json:"box"`
	Shooting ShootingExpectation `json:"shooting"`
	Lineup   LineupQuality       `json:"lineup"`

	// Contexto situacional opcional; nil = desconocido.
	Timeouts *int  `json:"timeouts,omitempty"`
	InBonus  *bool `json:"in_bonus,omitempty"`
}

// ControlTableInput es un tick: una foto con timestamp del estado real del partido.
type ControlTableInput struct {
	GameID       string    `json:"game_id"`
	Timestamp    time.Time `json:"ts"`
	CloseTotal   float64   `json:"close_total"` // ancla pregame del mercado
	LiveTotal    float64   `json:"live_total"`  // línea live actual
	ElapsedMin   float64   `json:"elapsed_min"`
	RemainingMin float64   `json:"remaining_min"`
	PacePre48    float64   `json:"pace_pre48"` // prior de ritmo pregame (posesiones por equipo / 48')

	Home TeamTick `json:"home"`
	Away TeamTick `json:"away"`

	// Priors de paliza opcionales por equipo (ver BlowoutPriors).
	Blowout *BlowoutMatchup `json:"blowout,omitempty"`
}

// TotalScore devuelve la suma de ambos marcadores.
func (in ControlTableInput) TotalScore() int {
	return in.Home.Score + in.Away.Score
}

// ScoreDiff devuelve la diferencia absoluta en el marcador.
func (in ControlTableInput) ScoreDiff() int {
	d := in.Home.Score - in.Away.Score
	if d < 0 {
		return -d
	}
	return d
}

// IntPtr y BoolPtr simplifican construir contexto situacional en fixtures.
func IntPtr(v int) *int { return &v }

func BoolPtr(v bool) *bool { return &v }

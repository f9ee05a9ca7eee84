package domain

import "time"

// TriggerState es el único estado mutable y persistente: uno por partido.
// Se reemplaza (no se muta) en cada actualización.
type TriggerState struct {
	GameID           string    `json:"game_id"`
	OverStreak       int       `json:"over_streak"`
	UnderStreak      int       `json:"under_streak"`
	LastDecisionTs   time.Time `json:"last_decision_ts"`
	LastDecisionSide Side      `json:"last_decision_side"`
}

// NewTriggerState crea el estado inicial de un partido.
func NewTriggerState(gameID string) TriggerState {
	return TriggerState{GameID: gameID}
}

// HasFired indica si el partido ya disparó alguna decisión.
func (s TriggerState) HasFired() bool {
	return !s.LastDecisionTs.IsZero() && s.LastDecisionSide != SidePass
}

// GameCheckpoint es lo que se persiste de un partido para continuarlo tras
// un reinicio: el estado del trigger y la expiración del freeze vigente.
type GameCheckpoint struct {
	State       TriggerState `json:"state"`
	FrozenUntil time.Time    `json:"frozen_until"`
}

// DecisionOutput es el resultado de evaluar un tick.
type DecisionOutput struct {
	GameID      string         `json:"game_id"`
	Timestamp   time.Time      `json:"ts"`
	Side        Side           `json:"side"`
	Status      DecisionStatus `json:"status"`
	Fired       bool           `json:"fired"`
	EdgeZ       float64        `json:"edge_z"`
	Threshold   float64        `json:"threshold"`
	FairValue   float64        `json:"fair_value"`
	MarketTotal float64        `json:"market_total"`
	Reasons     []ReasonCode   `json:"reasons,omitempty"`
	Notes       []string       `json:"notes,omitempty"` // problemas de validación/sanity cuando aplica
}

// Impact es la contribución en puntos de un componente del modelo.
type Impact struct {
	Driver Driver  `json:"driver"`
	Points float64 `json:"points"`
}

// Attribution explica qué componente mueve más el fair value.
type Attribution struct {
	Impacts   []Impact `json:"impacts"`
	TopDriver Driver   `json:"top_driver"`
	TopPoints float64  `json:"top_points"`
}

// SanityResult es el veredicto del guard para un tick.
type SanityResult struct {
	Valid        bool      `json:"valid"`
	ShouldFreeze bool      `json:"should_freeze"`
	FreezeUntil  time.Time `json:"freeze_until"`
	Errors       []string  `json:"errors,omitempty"`
	Warnings     []string  `json:"warnings,omitempty"`
}

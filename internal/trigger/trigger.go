// Package trigger decide, tick a tick, si un snapshot merece disparar una
// señal. El estado por partido (domain.TriggerState) entra y sale por valor:
// Evaluate nunca lo muta y el llamador guarda el nuevo.
//
// Transiciones por tick:
//  1. umbral: más alto durante los primeros minutos
//  2. clasificación: OVER / UNDER / PASS según Edge Z
//  3. confirmación: la racha del mismo lado crece, la contraria se pone a 0;
//     PASS pone ambas a 0
//  4. gate de confirmación: hacen falta ConfirmationTicks seguidos
//  5. gate de cooldown: salvo que el edge crezca más allá de
//     umbral + OverrideDelta en el mismo lado de la última decisión
//  6. disparo: reason codes y actualización de la última decisión
package trigger

import (
	"math"
	"time"

	"github.com/alejandrodnm/totalsbot/internal/domain"
)

// Threshold devuelve el |Edge Z| mínimo según el momento del partido.
func Threshold(cfg domain.TriggerConfig, elapsedMin float64) float64 {
	if IsEarlyGame(cfg, elapsedMin) {
		return cfg.EarlyEdgeZThreshold
	}
	return cfg.EdgeZThreshold
}

// IsEarlyGame indica si estamos dentro de la ventana inicial ruidosa.
func IsEarlyGame(cfg domain.TriggerConfig, elapsedMin float64) bool {
	return elapsedMin < cfg.EarlyGameMinutes
}

// Classify convierte Edge Z en una señal bruta.
func Classify(edgeZ, threshold float64) domain.Side {
	switch {
	case edgeZ >= threshold:
		return domain.SideOver
	case edgeZ <= -threshold:
		return domain.SideUnder
	default:
		return domain.SidePass
	}
}

// UpdateStreaks devuelve un estado nuevo con las rachas actualizadas.
func UpdateStreaks(state domain.TriggerState, raw domain.Side) domain.TriggerState {
	next := state
	switch raw {
	case domain.SideOver:
		next.OverStreak++
		next.UnderStreak = 0
	case domain.SideUnder:
		next.UnderStreak++
		next.OverStreak = 0
	default:
		next.OverStreak = 0
		next.UnderStreak = 0
	}
	return next
}

// Evaluate aplica una transición completa de la máquina de estados. now es el
// instante del tick; el cooldown se compara contra él, nunca contra el reloj.
func Evaluate(
	cfg domain.TriggerConfig,
	out domain.ControlTableOutput,
	state domain.TriggerState,
	now time.Time,
) (domain.DecisionOutput, domain.TriggerState) {
	threshold := Threshold(cfg, out.ElapsedMin)
	raw := Classify(out.EdgeZ, threshold)
	next := UpdateStreaks(state, raw)

	dec := domain.DecisionOutput{
		GameID:      out.GameID,
		Timestamp:   now,
		Side:        raw,
		EdgeZ:       out.EdgeZ,
		Threshold:   threshold,
		FairValue:   out.FairValue,
		MarketTotal: out.LiveTotal,
	}

	if raw == domain.SidePass {
		dec.Status = domain.StatusNoEdge
		return dec, next
	}

	streak := next.OverStreak
	if raw == domain.SideUnder {
		streak = next.UnderStreak
	}
	if streak < cfg.ConfirmationTicks {
		dec.Status = domain.StatusAwaitingConfirmation
		return dec, next
	}

	override := false
	if inCooldown(cfg, state, now) {
		override = raw == state.LastDecisionSide && math.Abs(out.EdgeZ) >= threshold+cfg.OverrideDelta
		if !override {
			dec.Status = domain.StatusCooldown
			return dec, next
		}
	}

	dec.Status = domain.StatusFired
	dec.Fired = true
	dec.Reasons = ReasonCodes(cfg, out, threshold)
	if override {
		dec.Reasons = append(dec.Reasons, domain.ReasonCooldownOverride)
	}

	next.LastDecisionTs = now
	next.LastDecisionSide = raw
	return dec, next
}

// Suppress construye una decisión PASS que no toca el estado, para ticks
// congelados, sin datos suficientes o inválidos.
func Suppress(out domain.ControlTableOutput, status domain.DecisionStatus, notes []string) domain.DecisionOutput {
	return domain.DecisionOutput{
		GameID:      out.GameID,
		Timestamp:   out.Timestamp,
		Side:        domain.SidePass,
		Status:      status,
		EdgeZ:       out.EdgeZ,
		FairValue:   out.FairValue,
		MarketTotal: out.LiveTotal,
		Notes:       notes,
	}
}

func inCooldown(cfg domain.TriggerConfig, state domain.TriggerState, now time.Time) bool {
	if !state.HasFired() {
		return false
	}
	return now.Sub(state.LastDecisionTs) < cfg.Cooldown()
}

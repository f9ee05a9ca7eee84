// Package pipeline encadena guard, tabla de control y trigger para un partido.
// Un Game no es seguro para uso concurrente: los ticks de un mismo partido se
// aplican en orden y desde un solo goroutine. Partidos distintos no comparten
// nada.
package pipeline

import (
	"fmt"
	"slices"
	"time"

	"github.com/alejandrodnm/totalsbot/internal/controltable"
	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/alejandrodnm/totalsbot/internal/sanity"
	"github.com/alejandrodnm/totalsbot/internal/trigger"
)

// StepResult es todo lo que produce un tick.
type StepResult struct {
	Input       domain.ControlTableInput
	Sanity      domain.SanityResult
	Problems    []string // Validate: problemas del tick aislado
	Snapshot    domain.ControlTableOutput
	Decision    domain.DecisionOutput
	Attribution domain.Attribution
	State       domain.TriggerState
	FrozenUntil time.Time
	Froze       bool // el tick abrió o extendió el freeze
}

// Game es el estado de un partido entre ticks.
type Game struct {
	cfg         domain.ModelConfig
	prev        *domain.ControlTableInput
	state       domain.TriggerState
	frozenUntil time.Time
	freezeNotes []string // errores del tick que abrió o extendió el freeze
}

// NewGame crea el stepper de un partido que empieza.
func NewGame(cfg domain.ModelConfig, gameID string) *Game {
	return &Game{cfg: cfg, state: domain.NewTriggerState(gameID)}
}

// ResumeGame continúa un partido desde un checkpoint persistido. last es el
// último tick procesado antes del reinicio (nil si no hubo ninguno) y vuelve
// a ser la referencia de los checks de monotonía.
func ResumeGame(cfg domain.ModelConfig, cp domain.GameCheckpoint, last *domain.ControlTableInput) *Game {
	g := &Game{cfg: cfg, state: cp.State, frozenUntil: cp.FrozenUntil}
	if last != nil {
		prev := *last
		g.prev = &prev
	}
	return g
}

// Checkpoint devuelve lo que hay que persistir para continuar el partido.
func (g *Game) Checkpoint() domain.GameCheckpoint {
	return domain.GameCheckpoint{State: g.state, FrozenUntil: g.frozenUntil}
}

// State devuelve el TriggerState actual.
func (g *Game) State() domain.TriggerState { return g.state }

// FrozenUntil devuelve la expiración del freeze vigente (zero si no hay).
func (g *Game) FrozenUntil() time.Time { return g.frozenUntil }

// Step procesa un tick. El instante de referencia es el timestamp del tick,
// de modo que reproducir los mismos ticks da exactamente las mismas decisiones.
func (g *Game) Step(in domain.ControlTableInput) StepResult {
	now := in.Timestamp

	check := sanity.Check(g.cfg.Sanity, in, g.prev, now)
	froze := check.ShouldFreeze && check.FreezeUntil.After(g.frozenUntil)
	if froze {
		g.frozenUntil = check.FreezeUntil
		g.freezeNotes = slices.Clone(check.Errors)
	}

	out := controltable.Compute(g.cfg, in)
	problems := controltable.Validate(in)

	var dec domain.DecisionOutput
	switch {
	case now.Before(g.frozenUntil):
		dec = trigger.Suppress(out, domain.StatusFrozen, g.frozenNotes(check))
	case len(problems) > 0:
		dec = trigger.Suppress(out, domain.StatusInvalidInput, problems)
	case !sanity.HasMinimumPossessions(g.cfg.Sanity, in):
		dec = trigger.Suppress(out, domain.StatusInsufficientData, nil)
	default:
		dec, g.state = trigger.Evaluate(g.cfg.Trigger, out, g.state, now)
	}

	// El tick actual pasa a ser la referencia aunque tenga errores: una
	// corrección de estadísticas es la nueva verdad para los siguientes.
	prev := in
	g.prev = &prev

	return StepResult{
		Input:       in,
		Sanity:      check,
		Problems:    problems,
		Snapshot:    out,
		Decision:    dec,
		Attribution: trigger.Attribute(g.cfg.Trigger, out),
		State:       g.state,
		FrozenUntil: g.frozenUntil,
		Froze:       froze,
	}
}

// frozenNotes explica una decisión congelada: los errores del propio tick o,
// si está limpio, los del tick que abrió el freeze.
func (g *Game) frozenNotes(check domain.SanityResult) []string {
	notes := check.Errors
	if len(notes) == 0 {
		notes = g.freezeNotes
	}
	notes = slices.Clone(notes)
	return append(notes, fmt.Sprintf("frozen until %s", g.frozenUntil.UTC().Format(time.RFC3339)))
}

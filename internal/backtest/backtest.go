// Package backtest reproduce los ticks históricos de un partido y compara
// cada snapshot recalculado con el guardado. Es el oráculo de regresión del
// core: cualquier refactor debe reproducir los mismos valores (con tolerancia).
package backtest

import (
	"math"
	"sort"
	"time"

	"github.com/alejandrodnm/totalsbot/internal/controltable"
	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/alejandrodnm/totalsbot/internal/pipeline"
)

// Tolerance es la diferencia máxima admitida por campo frente al snapshot guardado.
const Tolerance = 0.01

// Mismatch es un campo que no se reprodujo.
type Mismatch struct {
	TickIndex int
	Timestamp time.Time
	Field     string
	Expected  float64
	Actual    float64
	Delta     float64
}

// TimelineEntry es una línea de la línea temporal del replay.
type TimelineEntry struct {
	Timestamp  time.Time
	ElapsedMin float64
	Score      float64
	LiveTotal  float64
	FairValue  float64
	EdgeZ      float64
	Side       domain.Side
	Status     domain.DecisionStatus
	Fired      bool
	TopDriver  domain.Driver
}

// Report es el resultado de un backtest.
type Report struct {
	GameID        string
	Ticks         int
	Compared      int // ticks con snapshot guardado
	Deterministic bool
	Mismatches    []Mismatch
	Snapshots     []domain.ControlTableOutput
	Decisions     []domain.DecisionOutput
	Timeline      []TimelineEntry
	Fired         int
	Frozen        int
	FinalState    domain.TriggerState
}

// Run reproduce ticks (se ordenan por timestamp) a través del pipeline
// completo. Si stored tiene snapshots, cada tick se compara con el guardado
// del mismo timestamp; si no, se recalcula dos veces y se exige igualdad exacta.
func Run(cfg domain.ModelConfig, ticks []domain.ControlTableInput, stored []domain.ControlTableOutput) Report {
	sorted := SortTicks(ticks)

	var gameID string
	if len(sorted) > 0 {
		gameID = sorted[0].GameID
	}

	byTs := make(map[int64]domain.ControlTableOutput, len(stored))
	for _, s := range stored {
		byTs[s.Timestamp.UnixNano()] = s
	}

	game := pipeline.NewGame(cfg, gameID)
	report := Report{GameID: gameID, Ticks: len(sorted)}

	for i, tick := range sorted {
		res := game.Step(tick)

		if expected, ok := byTs[tick.Timestamp.UnixNano()]; ok {
			report.Compared++
			report.Mismatches = append(report.Mismatches, Diff(i, expected, res.Snapshot, Tolerance)...)
		} else if len(stored) == 0 {
			again := controltable.Compute(cfg, tick)
			report.Mismatches = append(report.Mismatches, Diff(i, again, res.Snapshot, 0)...)
		}

		report.Snapshots = append(report.Snapshots, res.Snapshot)
		report.Decisions = append(report.Decisions, res.Decision)
		report.Timeline = append(report.Timeline, TimelineEntry{
			Timestamp:  tick.Timestamp,
			ElapsedMin: tick.ElapsedMin,
			Score:      res.Snapshot.CurrentScore,
			LiveTotal:  res.Snapshot.LiveTotal,
			FairValue:  res.Snapshot.FairValue,
			EdgeZ:      res.Snapshot.EdgeZ,
			Side:       res.Decision.Side,
			Status:     res.Decision.Status,
			Fired:      res.Decision.Fired,
			TopDriver:  res.Attribution.TopDriver,
		})
		if res.Decision.Fired {
			report.Fired++
		}
		if res.Decision.Status == domain.StatusFrozen {
			report.Frozen++
		}
	}

	report.FinalState = game.State()
	report.Deterministic = len(report.Mismatches) == 0
	return report
}

// SortTicks devuelve una copia ordenada cronológicamente. El orden entre
// ticks con el mismo timestamp se conserva.
func SortTicks(ticks []domain.ControlTableInput) []domain.ControlTableInput {
	sorted := make([]domain.ControlTableInput, len(ticks))
	copy(sorted, ticks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// Diff compara dos snapshots campo a campo. Con tol = 0 exige igualdad exacta.
func Diff(tickIndex int, expected, actual domain.ControlTableOutput, tol float64) []Mismatch {
	exp := expected.Fields()
	act := actual.Fields()

	var out []Mismatch
	for i := range exp {
		e, a := exp[i].Value, act[i].Value
		if sameValue(e, a, tol) {
			continue
		}
		out = append(out, Mismatch{
			TickIndex: tickIndex,
			Timestamp: actual.Timestamp,
			Field:     exp[i].Name,
			Expected:  e,
			Actual:    a,
			Delta:     a - e,
		})
	}
	return out
}

func sameValue(e, a, tol float64) bool {
	if math.IsNaN(e) || math.IsNaN(a) {
		return math.IsNaN(e) && math.IsNaN(a)
	}
	if tol == 0 {
		return e == a
	}
	return math.Abs(a-e) <= tol
}

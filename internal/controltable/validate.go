package controltable

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/totalsbot/internal/domain"
)

// maxGameMinutes acota los minutos jugados: reglamento más seis prórrogas.
const maxGameMinutes = domain.MinutesPerGame + 6*5

// Validate devuelve una lista de problemas legibles del tick. No bloquea el
// cálculo: Compute siempre produce un snapshot para poder reproducirlo. Es la
// capa de decisión la que se niega a actuar sobre un tick con problemas.
func Validate(in domain.ControlTableInput) []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if in.GameID == "" {
		add("game_id is empty")
	}
	if in.Timestamp.IsZero() {
		add("timestamp is zero")
	}
	if !positive(in.CloseTotal) {
		add("close_total must be positive, got %v", in.CloseTotal)
	}
	if !positive(in.LiveTotal) {
		add("live_total must be positive, got %v", in.LiveTotal)
	}
	if !positive(in.PacePre48) {
		add("pace_pre48 must be positive, got %v", in.PacePre48)
	}
	if in.ElapsedMin < 0 || in.ElapsedMin > maxGameMinutes || !finite(in.ElapsedMin) {
		add("elapsed_min must be in [0, %v], got %v", maxGameMinutes, in.ElapsedMin)
	}
	if in.RemainingMin < 0 || in.RemainingMin > domain.MinutesPerGame || !finite(in.RemainingMin) {
		add("remaining_min must be in [0, %v], got %v", domain.MinutesPerGame, in.RemainingMin)
	}

	for _, team := range []struct {
		side string
		t    domain.TeamTick
	}{{"home", in.Home}, {"away", in.Away}} {
		if team.t.Score < 0 {
			add("%s score is negative: %d", team.side, team.t.Score)
		}
		for _, p := range BoxProblems(team.t.Box) {
			add("%s box: %s", team.side, p)
		}
		if !pct(team.t.Shooting.ThreePct) || !pct(team.t.Shooting.TwoPct) {
			add("%s expected shooting out of [0,1]: 3p=%v 2p=%v",
				team.side, team.t.Shooting.ThreePct, team.t.Shooting.TwoPct)
		}
	}
	return problems
}

// BoxProblems comprueba las invariantes de un box line: todo ≥ 0,
// makes ≤ attempts y 3PA ≤ FGA.
func BoxProblems(b domain.TeamBoxLine) []string {
	var problems []string
	counts := []struct {
		name string
		v    int
	}{
		{"fga", b.FGA}, {"fgm", b.FGM}, {"three_pa", b.ThreePA}, {"three_pm", b.ThreePM},
		{"fta", b.FTA}, {"ftm", b.FTM}, {"tov", b.TOV}, {"orb", b.ORB},
	}
	for _, c := range counts {
		if c.v < 0 {
			problems = append(problems, fmt.Sprintf("%s is negative (%d)", c.name, c.v))
		}
	}
	if b.FGM > b.FGA {
		problems = append(problems, fmt.Sprintf("fgm %d > fga %d", b.FGM, b.FGA))
	}
	if b.ThreePM > b.ThreePA {
		problems = append(problems, fmt.Sprintf("three_pm %d > three_pa %d", b.ThreePM, b.ThreePA))
	}
	if b.FTM > b.FTA {
		problems = append(problems, fmt.Sprintf("ftm %d > fta %d", b.FTM, b.FTA))
	}
	if b.ThreePA > b.FGA {
		problems = append(problems, fmt.Sprintf("three_pa %d > fga %d", b.ThreePA, b.FGA))
	}
	if b.ThreePM > b.FGM {
		problems = append(problems, fmt.Sprintf("three_pm %d > fgm %d", b.ThreePM, b.FGM))
	}
	return problems
}

func positive(v float64) bool { return v > 0 && finite(v) }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func pct(v float64) bool { return v >= 0 && v <= 1 }

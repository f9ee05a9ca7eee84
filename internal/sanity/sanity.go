// Package sanity valida cada tick por sí solo y frente al tick anterior, y
// decide cuándo congelar las decisiones. Los errores congelan; los warnings
// solo informan.
package sanity

import (
	"fmt"
	"time"

	"github.com/alejandrodnm/totalsbot/internal/controltable"
	"github.com/alejandrodnm/totalsbot/internal/domain"
)

// Check evalúa curr (y prev si no es nil). now es el instante de referencia
// para calcular la expiración del freeze; nunca se lee el reloj aquí.
func Check(cfg domain.SanityConfig, curr domain.ControlTableInput, prev *domain.ControlTableInput, now time.Time) domain.SanityResult {
	var r domain.SanityResult

	r.Errors = append(r.Errors, plausibility(cfg, curr)...)
	r.Warnings = append(r.Warnings, ScoreBoxWarnings(cfg, curr)...)

	if prev != nil {
		errs, warns := monotonicity(cfg, curr, *prev)
		r.Errors = append(r.Errors, errs...)
		r.Warnings = append(r.Warnings, warns...)
	}

	r.Valid = len(r.Errors) == 0
	if !r.Valid {
		r.ShouldFreeze = true
		r.FreezeUntil = now.Add(cfg.FreezeDuration())
	}
	return r
}

// plausibility comprueba invariantes del box y cotas superiores generosas.
func plausibility(cfg domain.SanityConfig, in domain.ControlTableInput) []string {
	var errs []string
	teams := []struct {
		side string
		t    domain.TeamTick
	}{{"home", in.Home}, {"away", in.Away}}

	for _, team := range teams {
		for _, p := range controltable.BoxProblems(team.t.Box) {
			errs = append(errs, fmt.Sprintf("%s box: %s", team.side, p))
		}
		b := team.t.Box
		if b.FGA > cfg.MaxFGA {
			errs = append(errs, fmt.Sprintf("%s fga %d above bound %d", team.side, b.FGA, cfg.MaxFGA))
		}
		if b.FTA > cfg.MaxFTA {
			errs = append(errs, fmt.Sprintf("%s fta %d above bound %d", team.side, b.FTA, cfg.MaxFTA))
		}
		if b.TOV > cfg.MaxTOV {
			errs = append(errs, fmt.Sprintf("%s tov %d above bound %d", team.side, b.TOV, cfg.MaxTOV))
		}
		if b.ORB > cfg.MaxORB {
			errs = append(errs, fmt.Sprintf("%s orb %d above bound %d", team.side, b.ORB, cfg.MaxORB))
		}
		if team.t.Score < 0 || team.t.Score > cfg.MaxScore {
			errs = append(errs, fmt.Sprintf("%s score %d outside [0, %d]", team.side, team.t.Score, cfg.MaxScore))
		}
	}
	if in.ElapsedMin < 0 {
		errs = append(errs, fmt.Sprintf("elapsed_min negative (%v)", in.ElapsedMin))
	}
	if in.RemainingMin < 0 {
		errs = append(errs, fmt.Sprintf("remaining_min negative (%v)", in.RemainingMin))
	}
	return errs
}

// monotonicity compara dos ticks consecutivos del mismo partido.
func monotonicity(cfg domain.SanityConfig, curr, prev domain.ControlTableInput) (errs, warns []string) {
	currTotal, prevTotal := curr.TotalScore(), prev.TotalScore()
	if currTotal < prevTotal {
		errs = append(errs, fmt.Sprintf("total score decreased %d -> %d", prevTotal, currTotal))
	}
	if curr.ElapsedMin < prev.ElapsedMin {
		errs = append(errs, fmt.Sprintf("elapsed time decreased %.2f -> %.2f", prev.ElapsedMin, curr.ElapsedMin))
	}

	jump := currTotal - prevTotal
	advance := curr.ElapsedMin - prev.ElapsedMin
	if jump > cfg.MaxScoreJump && advance < cfg.ScoreJumpMinElapsed {
		errs = append(errs, fmt.Sprintf("score jumped %d points with %.2f min elapsed (likely stat correction)", jump, advance))
	}

	currPoss := domain.TeamPossessions(curr.Home.Box) + domain.TeamPossessions(curr.Away.Box)
	prevPoss := domain.TeamPossessions(prev.Home.Box) + domain.TeamPossessions(prev.Away.Box)
	if drop := prevPoss - currPoss; drop > 0 {
		if drop > cfg.PossessionTolerance {
			errs = append(errs, fmt.Sprintf("possessions decreased %.2f -> %.2f", prevPoss, currPoss))
		} else {
			warns = append(warns, fmt.Sprintf("possessions regressed %.2f -> %.2f (rounding)", prevPoss, currPoss))
		}
	}
	return errs, warns
}

// ScoreBoxWarnings cruza el marcador reportado con el reconstruido del box
// (3·3PM + 2·2PM + FTM). Las diferencias por encima de la tolerancia son
// warnings: and-ones, goaltending y correcciones tardías las explican.
func ScoreBoxWarnings(cfg domain.SanityConfig, in domain.ControlTableInput) []string {
	var warns []string
	for _, team := range []struct {
		side string
		t    domain.TeamTick
	}{{"home", in.Home}, {"away", in.Away}} {
		boxPts := team.t.Box.Points()
		diff := team.t.Score - boxPts
		if diff < 0 {
			diff = -diff
		}
		if diff > cfg.ScoreBoxTolerance {
			warns = append(warns, fmt.Sprintf("%s score %d differs from box points %d", team.side, team.t.Score, boxPts))
		}
	}
	return warns
}

// HasMinimumPossessions indica si hay suficientes datos live para confiar en
// el modelo: posesiones medias por equipo ≥ MinPossessions.
func HasMinimumPossessions(cfg domain.SanityConfig, in domain.ControlTableInput) bool {
	poss := domain.Avg(domain.TeamPossessions(in.Home.Box), domain.TeamPossessions(in.Away.Box))
	return poss >= cfg.MinPossessions
}

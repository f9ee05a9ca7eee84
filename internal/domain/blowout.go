package domain

import (
	"encoding/json"
	"fmt"
	"os"
)

// BlowoutDelta es el multiplicador de ritmo y eficiencia de un equipo en
// estado de paliza, relativo a su baseline en partidos ajustados.
type BlowoutDelta struct {
	PaceDelta float64 `json:"paceDelta"`
	PppDelta  float64 `json:"pppDelta"`
	NPoss     int     `json:"nPoss"`
}

// TeamBlowoutPrior son los priors de un equipo cuando va ganando o perdiendo
// de paliza. Cualquiera de los dos puede faltar.
type TeamBlowoutPrior struct {
	Team     string        `json:"team"`
	Leading  *BlowoutDelta `json:"leading,omitempty"`
	Trailing *BlowoutDelta `json:"trailing,omitempty"`
}

// BlowoutMatchup son los priors de los dos equipos de un partido.
type BlowoutMatchup struct {
	Home TeamBlowoutPrior `json:"home"`
	Away TeamBlowoutPrior `json:"away"`
}

// BlowoutPriors es el fichero de priors por temporada generado offline.
type BlowoutPriors struct {
	League string             `json:"league"`
	Season string             `json:"season"`
	Priors []TeamBlowoutPrior `json:"priors"`
}

// LoadBlowoutPriors lee un fichero de priors en formato JSON.
func LoadBlowoutPriors(path string) (*BlowoutPriors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("domain.LoadBlowoutPriors: read %q: %w", path, err)
	}
	var p BlowoutPriors
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("domain.LoadBlowoutPriors: parse %q: %w", path, err)
	}
	return &p, nil
}

// Matchup devuelve los priors de ambos equipos, o nil si falta alguno.
func (p *BlowoutPriors) Matchup(home, away string) *BlowoutMatchup {
	if p == nil {
		return nil
	}
	var m BlowoutMatchup
	var foundHome, foundAway bool
	for _, tp := range p.Priors {
		switch tp.Team {
		case home:
			m.Home, foundHome = tp, true
		case away:
			m.Away, foundAway = tp, true
		}
	}
	if !foundHome || !foundAway {
		return nil
	}
	return &m
}

// BlowoutBundle indica si los priors de paliza están activos y con qué peso.
// Con Active=false ambos multiplicadores valen exactamente 1.
type BlowoutBundle struct {
	Active   bool    `json:"active"`
	PaceMult float64 `json:"pace_mult"`
	PppMult  float64 `json:"ppp_mult"`
}

// ComputeBlowout activa los priors si la configuración lo permite, hay
// priors para el partido, se ha jugado lo suficiente y la diferencia supera
// el umbral. Los multiplicadores son la media del que gana (leading) y el
// que pierde (trailing).
func ComputeBlowout(cfg BlowoutConfig, in ControlTableInput) BlowoutBundle {
	inactive := BlowoutBundle{PaceMult: 1, PppMult: 1}
	if !cfg.Enabled || in.Blowout == nil {
		return inactive
	}
	if in.ElapsedMin < cfg.MinElapsedMin || in.ScoreDiff() < cfg.MarginThreshold {
		return inactive
	}

	leader, trailer := in.Blowout.Home, in.Blowout.Away
	if in.Away.Score > in.Home.Score {
		leader, trailer = in.Blowout.Away, in.Blowout.Home
	}

	lead := deltaOrNeutral(leader.Leading)
	trail := deltaOrNeutral(trailer.Trailing)
	return BlowoutBundle{
		Active:   true,
		PaceMult: Avg(lead.PaceDelta, trail.PaceDelta),
		PppMult:  Avg(lead.PppDelta, trail.PppDelta),
	}
}

func deltaOrNeutral(d *BlowoutDelta) BlowoutDelta {
	out := BlowoutDelta{PaceDelta: 1, PppDelta: 1}
	if d == nil {
		return out
	}
	if d.PaceDelta > 0 {
		out.PaceDelta = d.PaceDelta
	}
	if d.PppDelta > 0 {
		out.PppDelta = d.PppDelta
	}
	return out
}

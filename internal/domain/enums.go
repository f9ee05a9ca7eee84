package domain

import "fmt"

// Side es la dirección de una señal sobre el total del partido.
type Side int

const (
	SidePass  Side = iota // sin señal
	SideOver              // modelo por encima del mercado
	SideUnder             // modelo por debajo del mercado
)

func (s Side) String() string {
	switch s {
	case SideOver:
		return "OVER"
	case SideUnder:
		return "UNDER"
	default:
		return "PASS"
	}
}

// ParseSide es la inversa de String. Devuelve error para valores desconocidos.
func ParseSide(v string) (Side, error) {
	switch v {
	case "PASS", "":
		return SidePass, nil
	case "OVER":
		return SideOver, nil
	case "UNDER":
		return SideUnder, nil
	}
	return SidePass, fmt.Errorf("domain.ParseSide: unknown side %q", v)
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// DecisionStatus describe por qué una decisión terminó como terminó.
type DecisionStatus int

const (
	StatusNoEdge DecisionStatus = iota
	StatusAwaitingConfirmation
	StatusCooldown
	StatusFired
	StatusFrozen
	StatusInsufficientData
	StatusInvalidInput
)

var decisionStatusNames = [...]string{
	StatusNoEdge:               "NO_EDGE",
	StatusAwaitingConfirmation: "AWAITING_CONFIRMATION",
	StatusCooldown:             "COOLDOWN",
	StatusFired:                "FIRED",
	StatusFrozen:               "FROZEN",
	StatusInsufficientData:     "INSUFFICIENT_DATA",
	StatusInvalidInput:         "INVALID_INPUT",
}

func (s DecisionStatus) String() string {
	if int(s) < 0 || int(s) >= len(decisionStatusNames) {
		return fmt.Sprintf("DecisionStatus(%d)", int(s))
	}
	return decisionStatusNames[s]
}

// ParseDecisionStatus es la inversa de String.
func ParseDecisionStatus(v string) (DecisionStatus, error) {
	for i, name := range decisionStatusNames {
		if name == v {
			return DecisionStatus(i), nil
		}
	}
	return StatusNoEdge, fmt.Errorf("domain.ParseDecisionStatus: unknown status %q", v)
}

func (s DecisionStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *DecisionStatus) UnmarshalText(b []byte) error {
	v, err := ParseDecisionStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ReasonCode es una etiqueta legible que explica una decisión disparada.
type ReasonCode int

const (
	ReasonEdgeStrong ReasonCode = iota
	ReasonEdgeModerate
	ReasonLuckCold // tiro frío: se espera reversión al alza
	ReasonLuckHot  // tiro caliente: se espera reversión a la baja
	ReasonPaceFast
	ReasonPaceSlow
	ReasonFoulRisk
	ReasonOvertimeRisk
	ReasonLineupStrong
	ReasonLineupWeak
	ReasonHighVariance
	ReasonEarlyGame
	ReasonCooldownOverride
)

var reasonCodeNames = [...]string{
	ReasonEdgeStrong:       "EDGE_STRONG",
	ReasonEdgeModerate:     "EDGE_MODERATE",
	ReasonLuckCold:         "LUCK_COLD_REVERSION",
	ReasonLuckHot:          "LUCK_HOT_REVERSION",
	ReasonPaceFast:         "PACE_FAST",
	ReasonPaceSlow:         "PACE_SLOW",
	ReasonFoulRisk:         "FOUL_RISK",
	ReasonOvertimeRisk:     "OT_RISK",
	ReasonLineupStrong:     "LINEUP_STRONG",
	ReasonLineupWeak:       "LINEUP_WEAK",
	ReasonHighVariance:     "HIGH_VARIANCE_GAME",
	ReasonEarlyGame:        "EARLY_GAME",
	ReasonCooldownOverride: "COOLDOWN_OVERRIDE",
}

func (r ReasonCode) String() string {
	if int(r) < 0 || int(r) >= len(reasonCodeNames) {
		return fmt.Sprintf("ReasonCode(%d)", int(r))
	}
	return reasonCodeNames[r]
}

// ParseReasonCode es la inversa de String.
func ParseReasonCode(v string) (ReasonCode, error) {
	for i, name := range reasonCodeNames {
		if name == v {
			return ReasonCode(i), nil
		}
	}
	return 0, fmt.Errorf("domain.ParseReasonCode: unknown reason %q", v)
}

func (r ReasonCode) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *ReasonCode) UnmarshalText(b []byte) error {
	v, err := ParseReasonCode(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Driver identifica el componente con mayor impacto en puntos sobre el fair value.
type Driver int

const (
	DriverNone Driver = iota // ningún componente supera el umbral de materialidad
	DriverLuck
	DriverLineup
	DriverFoul
	DriverOvertime
	DriverPace
)

var driverNames = [...]string{
	DriverNone:     "NONE",
	DriverLuck:     "LUCK",
	DriverLineup:   "LINEUP",
	DriverFoul:     "FOUL_EV",
	DriverOvertime: "OT_EV",
	DriverPace:     "PACE",
}

func (d Driver) String() string {
	if int(d) < 0 || int(d) >= len(driverNames) {
		return fmt.Sprintf("Driver(%d)", int(d))
	}
	return driverNames[d]
}

func (d Driver) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Driver) UnmarshalText(b []byte) error {
	for i, name := range driverNames {
		if name == string(b) {
			*d = Driver(i)
			return nil
		}
	}
	return fmt.Errorf("domain.Driver: unknown driver %q", string(b))
}

package domain

// Situation es el contexto situacional ya resuelto: sin campos opcionales.
// Se resuelve una sola vez en la frontera del pipeline.
type Situation struct {
	ScoreDiff        int  `json:"score_diff"` // |home − away|
	TrailingTimeouts int  `json:"trailing_timeouts"`
	LeadingInBonus   bool `json:"leading_in_bonus"`
}

// ResolveSituation aplica la política de valores por defecto a los campos
// opcionales del tick. Con empate no hay equipo por detrás ni por delante.
func ResolveSituation(defs SituationDefaults, in ControlTableInput) Situation {
	s := Situation{ScoreDiff: in.ScoreDiff()}
	if in.Home.Score == in.Away.Score {
		return s
	}

	leading, trailing := in.Home, in.Away
	if in.Away.Score > in.Home.Score {
		leading, trailing = in.Away, in.Home
	}

	s.TrailingTimeouts = defs.DefaultTimeouts
	if trailing.Timeouts != nil {
		s.TrailingTimeouts = max(0, *trailing.Timeouts)
	}
	s.LeadingInBonus = defs.DefaultInBonus
	if leading.InBonus != nil {
		s.LeadingInBonus = *leading.InBonus
	}
	return s
}

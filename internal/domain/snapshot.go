package domain

import "time"

// ControlTableOutput es la foto determinista producida por un tick. Es un dato
// derivado puro: no se muta tras crearse y se recalcula entero en cada tick.
type ControlTableOutput struct {
	GameID       string    `json:"game_id"`
	Timestamp    time.Time `json:"ts"`
	ElapsedMin   float64   `json:"elapsed_min"`
	RemainingMin float64   `json:"remaining_min"`
	PacePre48    float64   `json:"pace_pre48"`
	CurrentScore float64   `json:"current_score"`
	LiveTotal    float64   `json:"live_total"`

	Blowout    BlowoutBundle    `json:"blowout"`
	Possession PossessionBundle `json:"possession"`
	Luck       LuckBundle       `json:"luck"`
	Efficiency EfficiencyBundle `json:"efficiency"`
	Lineup     LineupBundle     `json:"lineup"`
	Endgame    EndgameBundle    `json:"endgame"`
	Volatility VolatilityBundle `json:"volatility"`

	FairValue float64 `json:"fair_value"`
	EdgeZ     float64 `json:"edge_z"`
}

// Field es un valor numérico con nombre estable, usado para comparar
// snapshots campo a campo.
type Field struct {
	Name  string
	Value float64
}

// Fields aplana todos los valores numéricos del snapshot en un orden fijo.
func (o ControlTableOutput) Fields() []Field {
	return []Field{
		{"elapsed_min", o.ElapsedMin},
		{"remaining_min", o.RemainingMin},
		{"pace_pre48", o.PacePre48},
		{"current_score", o.CurrentScore},
		{"live_total", o.LiveTotal},
		{"blowout.pace_mult", o.Blowout.PaceMult},
		{"blowout.ppp_mult", o.Blowout.PppMult},
		{"possession.home_poss", o.Possession.HomePoss},
		{"possession.away_poss", o.Possession.AwayPoss},
		{"possession.poss_live", o.Possession.PossLive},
		{"possession.live_pace48", o.Possession.LivePace48},
		{"possession.blend_weight", o.Possession.BlendWeight},
		{"possession.pace_blend48", o.Possession.PaceBlend48},
		{"possession.remaining_poss", o.Possession.RemainingPoss},
		{"possession.three_pa_rate", o.Possession.ThreePARate},
		{"luck.home_luck_gap", o.Luck.HomeLuckGap},
		{"luck.away_luck_gap", o.Luck.AwayLuckGap},
		{"luck.game_luck_gap", o.Luck.GameLuckGap},
		{"luck.luck_per_poss", o.Luck.LuckPerPoss},
		{"efficiency.anchor_ppp", o.Efficiency.AnchorPpp},
		{"efficiency.home_struct_ppp", o.Efficiency.HomeStructPpp},
		{"efficiency.away_struct_ppp", o.Efficiency.AwayStructPpp},
		{"efficiency.struct_ppp", o.Efficiency.StructPpp},
		{"efficiency.proj_ppp", o.Efficiency.ProjPpp},
		{"lineup.home_adj_ppp", o.Lineup.HomeAdjPpp},
		{"lineup.away_adj_ppp", o.Lineup.AwayAdjPpp},
		{"lineup.game_adj_ppp", o.Lineup.GameAdjPpp},
		{"lineup.raw_projection", o.Lineup.RawProjection},
		{"endgame.foul_prob", o.Endgame.FoulProb},
		{"endgame.expected_foul_points", o.Endgame.ExpectedFoulPoints},
		{"endgame.foul_ev", o.Endgame.FoulEv},
		{"endgame.ot_prob", o.Endgame.OtProb},
		{"endgame.ot_ev", o.Endgame.OtEv},
		{"endgame.model_fair", o.Endgame.ModelFair},
		{"volatility.base_std", o.Volatility.BaseStd},
		{"volatility.time_scalar", o.Volatility.TimeScalar},
		{"volatility.vol_std", o.Volatility.VolStd},
		{"fair_value", o.FairValue},
		{"edge_z", o.EdgeZ},
	}
}

// BlendWeight es un atajo de diagnóstico.
func (o ControlTableOutput) BlendWeight() float64 { return o.Possession.BlendWeight }

// ThreePARate es un atajo de diagnóstico.
func (o ControlTableOutput) ThreePARate() float64 { return o.Possession.ThreePARate }

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// ModelConfig es el perfil de calibración completo del motor. Es un valor
// inmutable que se pasa explícitamente a cada llamada del core; dos perfiles
// distintos pueden correr en paralelo sin compartir estado.
//
// Los campos a cero se rellenan con las etiquetas `default` (creasty/defaults)
// y el resultado se comprueba con las etiquetas `validate`.
type ModelConfig struct {
	Efficiency EfficiencyConfig  `yaml:"efficiency"`
	Endgame    EndgameConfig     `yaml:"endgame"`
	Volatility VolatilityConfig  `yaml:"volatility"`
	Trigger    TriggerConfig     `yaml:"trigger"`
	Sanity     SanityConfig      `yaml:"sanity"`
	Situation  SituationDefaults `yaml:"situation"`
	Blowout    BlowoutConfig     `yaml:"blowout"`
}

// EfficiencyConfig acota el PPP estructural por equipo.
type EfficiencyConfig struct {
	StructTeamPppMin float64 `yaml:"struct_team_ppp_min" default:"0.7" validate:"gt=0"`
	StructTeamPppMax float64 `yaml:"struct_team_ppp_max" default:"1.6" validate:"gtfield=StructTeamPppMin"`
}

// EndgameConfig controla los add-ons de faltas y prórroga.
type EndgameConfig struct {
	FoulEvMin        float64 `yaml:"foul_ev_min" validate:"gte=0"`
	FoulEvMax        float64 `yaml:"foul_ev_max" default:"8" validate:"gtefield=FoulEvMin"`
	OtEvMin          float64 `yaml:"ot_ev_min" validate:"gte=0"`
	OtEvMax          float64 `yaml:"ot_ev_max" default:"6" validate:"gtefield=OtEvMin"`
	ExpectedOtPoints float64 `yaml:"expected_ot_points" default:"22" validate:"gt=0"`
}

// VolatilityConfig define la desviación típica del total restante.
type VolatilityConfig struct {
	BaseStd              float64 `yaml:"base_std" default:"13" validate:"gt=0"`
	ThreePARateThreshold float64 `yaml:"three_pa_rate_threshold" default:"0.42" validate:"gt=0,lte=1"`
	HighThreeMultiplier  float64 `yaml:"high_three_multiplier" default:"1.1" validate:"gte=1"`
	TimeScalarMin        float64 `yaml:"time_scalar_min" default:"0.15" validate:"gt=0"`
	TimeScalarMax        float64 `yaml:"time_scalar_max" default:"1.2" validate:"gtefield=TimeScalarMin"`
	VolStdMin            float64 `yaml:"vol_std_min" default:"2" validate:"gt=0"`
	VolStdMax            float64 `yaml:"vol_std_max" default:"20" validate:"gtefield=VolStdMin"`
}

// TriggerConfig controla umbrales, confirmación y cooldown de las señales,
// además de los umbrales de los reason codes y la atribución.
type TriggerConfig struct {
	EdgeZThreshold      float64 `yaml:"edge_z_threshold" default:"1.5" validate:"gt=0"`
	EarlyEdgeZThreshold float64 `yaml:"early_edge_z_threshold" default:"2" validate:"gtefield=EdgeZThreshold"`
	EarlyGameMinutes    float64 `yaml:"early_game_minutes" default:"12" validate:"gte=0"`
	ConfirmationTicks   int     `yaml:"confirmation_ticks" default:"2" validate:"gte=1"`
	CooldownSeconds     int     `yaml:"cooldown_seconds" default:"180" validate:"gte=0"`
	OverrideDelta       float64 `yaml:"override_delta" default:"0.5" validate:"gt=0"`
	StrongEdgeDelta     float64 `yaml:"strong_edge_delta" default:"1" validate:"gt=0"`

	LuckReasonPoints float64 `yaml:"luck_reason_points" default:"3" validate:"gt=0"`
	PaceReasonDelta  float64 `yaml:"pace_reason_delta" default:"3" validate:"gt=0"`
	FoulReasonEv     float64 `yaml:"foul_reason_ev" default:"0.5" validate:"gt=0"`
	OtReasonEv       float64 `yaml:"ot_reason_ev" default:"0.5" validate:"gt=0"`
	LineupReasonPpp  float64 `yaml:"lineup_reason_ppp" default:"0.02" validate:"gt=0"`
	MaterialityFloor float64 `yaml:"materiality_floor" default:"0.5" validate:"gte=0"`
}

// Cooldown devuelve el cooldown como time.Duration.
func (c TriggerConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// SanityConfig controla el guard de plausibilidad y monotonía.
type SanityConfig struct {
	FreezeSeconds       int     `yaml:"freeze_seconds" default:"60" validate:"gt=0"`
	MaxScoreJump        int     `yaml:"max_score_jump" default:"8" validate:"gt=0"`
	ScoreJumpMinElapsed float64 `yaml:"score_jump_min_elapsed" default:"0.05" validate:"gte=0"` // minutos
	PossessionTolerance float64 `yaml:"possession_tolerance" default:"2" validate:"gte=0"`
	ScoreBoxTolerance   int     `yaml:"score_box_tolerance" default:"3" validate:"gte=0"`
	MinPossessions      float64 `yaml:"min_possessions" default:"10" validate:"gte=0"`

	MaxFGA   int `yaml:"max_fga" default:"150" validate:"gt=0"`
	MaxFTA   int `yaml:"max_fta" default:"100" validate:"gt=0"`
	MaxTOV   int `yaml:"max_tov" default:"50" validate:"gt=0"`
	MaxORB   int `yaml:"max_orb" default:"50" validate:"gt=0"`
	MaxScore int `yaml:"max_score" default:"250" validate:"gt=0"`
}

// FreezeDuration devuelve la ventana de congelación como time.Duration.
func (c SanityConfig) FreezeDuration() time.Duration {
	return time.Duration(c.FreezeSeconds) * time.Second
}

// SituationDefaults es la política de resolución del contexto situacional
// cuando el proveedor no lo informa.
type SituationDefaults struct {
	DefaultTimeouts int  `yaml:"default_timeouts" default:"1" validate:"gte=0"`
	DefaultInBonus  bool `yaml:"default_in_bonus"`
}

// BlowoutConfig activa los priors de paliza en el último cuarto.
type BlowoutConfig struct {
	Enabled         bool    `yaml:"enabled"`
	MarginThreshold int     `yaml:"margin_threshold" default:"15" validate:"gt=0"`
	MinElapsedMin   float64 `yaml:"min_elapsed_min" default:"36" validate:"gte=0"`
}

var validate = validator.New()

// DefaultModelConfig devuelve la calibración por defecto.
func DefaultModelConfig() ModelConfig {
	var c ModelConfig
	if err := c.ApplyDefaults(); err != nil {
		panic(err) // las etiquetas son estáticas
	}
	return c
}

// ApplyDefaults rellena los campos a cero con sus valores por defecto.
func (c *ModelConfig) ApplyDefaults() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("domain.ModelConfig: apply defaults: %w", err)
	}
	return nil
}

// Validate comprueba rangos y el orden min ≤ max de todos los límites.
func (c ModelConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("domain.ModelConfig: validate: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (%s)", fe.Namespace(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("domain.ModelConfig: invalid config: %s", strings.Join(msgs, "; "))
}

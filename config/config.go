package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del bot.
type Config struct {
	Model   domain.ModelConfig `yaml:"model"`
	Runner  RunnerConfig       `yaml:"runner"`
	Storage StorageConfig      `yaml:"storage"`
	Log     LogConfig          `yaml:"log"`
}

// RunnerConfig controla el replay de partidos.
type RunnerConfig struct {
	RatePerSec        float64 `yaml:"rate_per_sec"`        // ticks/s por partido en -replay; 0 = sin límite
	Concurrency       int     `yaml:"concurrency"`         // partidos en paralelo
	BlowoutPriorsPath string  `yaml:"blowout_priors_path"` // JSON de priors de paliza; vacío = sin priors
	MetricsAddr       string  `yaml:"metrics_addr"`        // ej. ":9090"; vacío = sin /metrics
	TimelineEvery     int     `yaml:"timeline_every"`      // muestreo de la línea temporal del backtest
	TableOutput       bool    `yaml:"table_output"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
// Un path vacío arranca con todo por defecto.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Model.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.Model.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return &cfg, nil
}

// TickInterval devuelve la pausa entre ticks de un partido en modo replay.
func (c *Config) TickInterval() time.Duration {
	if c.Runner.RatePerSec <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.Runner.RatePerSec)
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TOTALSBOT_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("TOTALSBOT_METRICS_ADDR"); v != "" {
		cfg.Runner.MetricsAddr = v
	}
	if v := os.Getenv("TOTALSBOT_BLOWOUT_PRIORS"); v != "" {
		cfg.Runner.BlowoutPriorsPath = v
		cfg.Model.Blowout.Enabled = true
	}
	if v := os.Getenv("TOTALSBOT_RATE"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Runner.RatePerSec = r
		}
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Runner.Concurrency <= 0 {
		cfg.Runner.Concurrency = 4
	}
	if cfg.Runner.TimelineEvery <= 0 {
		cfg.Runner.TimelineEvery = 10
	}
	if cfg.Runner.RatePerSec < 0 {
		cfg.Runner.RatePerSec = 0
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "totalsbot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

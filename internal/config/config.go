package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/meridian-tax/caseflow/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Calc       CalcConfig       `yaml:"calc" mapstructure:"calc"`
	Lookup     LookupConfig     `yaml:"lookup" mapstructure:"lookup"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
}

// StoreConfig configures the database backend. For the sqlite driver
// DatabaseURL is the database file path and defaults to caseflow.db.
type StoreConfig struct {
	Driver      string           `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string           `yaml:"database_url" mapstructure:"database_url"`
	Pool        store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port                int      `yaml:"port" mapstructure:"port"`
	RateLimitRPS        float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst      int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	AllowedOrigins      []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	ShutdownTimeoutSecs int      `yaml:"shutdown_timeout_secs" mapstructure:"shutdown_timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// CalcConfig tunes derived calculations. CSEDFallback selects the base
// date for a tax year with no return-filed transaction: current_date
// keeps the legacy estimate anchored at evaluation time, skip suppresses
// the estimate for that year.
type CalcConfig struct {
	CSEDFallback string `yaml:"csed_fallback" mapstructure:"csed_fallback"`
}

// LookupConfig points at an optional rules file that overrides the
// embedded classification catalog.
type LookupConfig struct {
	RulesPath string `yaml:"rules_path" mapstructure:"rules_path"`
}

// MonitoringConfig configures the background alert checker. A breach
// that persists across checks re-alerts once per cooldown window rather
// than once per check interval.
type MonitoringConfig struct {
	Enabled              bool    `yaml:"enabled" mapstructure:"enabled"`
	CheckIntervalSecs    int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	FailureRateThreshold float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold"`
	BacklogThreshold     int     `yaml:"backlog_threshold" mapstructure:"backlog_threshold"`
	AlertCooldownSecs    int     `yaml:"alert_cooldown_secs" mapstructure:"alert_cooldown_secs"`
	WebhookURL           string  `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CASEFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.pool.max_conns", 10)
	v.SetDefault("store.pool.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 20)
	v.SetDefault("server.rate_limit_burst", 40)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout_secs", 10)
	v.SetDefault("calc.csed_fallback", "current_date")
	v.SetDefault("monitoring.enabled", true)
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.failure_rate_threshold", 0.25)
	v.SetDefault("monitoring.backlog_threshold", 500)
	v.SetDefault("monitoring.alert_cooldown_secs", 1800)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for the given run mode. Modes map
// onto command groups: "serve" for the HTTP server, "pipeline" for the
// commands that open the store (ingest, replay, status, summary,
// export), "migrate" for schema migration.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	case "sqlite":
		// DatabaseURL optional; a default path is applied at open.
	default:
		problems = append(problems, "store.driver must be postgres or sqlite")
	}

	switch c.Calc.CSEDFallback {
	case "current_date", "skip":
	default:
		problems = append(problems, "calc.csed_fallback must be current_date or skip")
	}

	switch mode {
	case "pipeline", "migrate":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimitRPS < 0 {
			problems = append(problems, "server.rate_limit_rps must be >= 0")
		}
		if c.Server.RateLimitBurst < 0 {
			problems = append(problems, "server.rate_limit_burst must be >= 0")
		}
		if c.Monitoring.FailureRateThreshold < 0 || c.Monitoring.FailureRateThreshold > 1 {
			problems = append(problems, "monitoring.failure_rate_threshold must be between 0 and 1")
		}
	default:
		problems = append(problems, "unknown mode: "+mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

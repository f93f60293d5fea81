// Package config loads the loan-cli configuration from config.yaml and
// LOAN_* environment variables, and owns the default input values the
// commands pre-populate. The engine never reads this package; commands
// resolve a full input record first and hand it over.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/debtlab/loan-cli/internal/engine"
)

// Config holds the full application configuration.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults" mapstructure:"defaults"`
	Sweep    SweepConfig    `yaml:"sweep" mapstructure:"sweep"`
	Presets  PresetsConfig  `yaml:"presets" mapstructure:"presets"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DefaultsConfig pre-populates every engine input. Values mirror the
// classroom defaults of the original decision lab.
type DefaultsConfig struct {
	Principal             float64 `yaml:"principal" mapstructure:"principal"`
	AnnualRatePercent     float64 `yaml:"annual_rate_percent" mapstructure:"annual_rate_percent"`
	TenureYears           int     `yaml:"tenure_years" mapstructure:"tenure_years"`
	MonthlySalary         float64 `yaml:"monthly_salary" mapstructure:"monthly_salary"`
	PrepayAfterYears      int     `yaml:"prepay_after_years" mapstructure:"prepay_after_years"`
	PrepayAmount          float64 `yaml:"prepay_amount" mapstructure:"prepay_amount"`
	ExtraMonthlyPayment   float64 `yaml:"extra_monthly_payment" mapstructure:"extra_monthly_payment"`
	ExpectedReturnPercent float64 `yaml:"expected_return_percent" mapstructure:"expected_return_percent"`
	MonthlyRent           float64 `yaml:"monthly_rent" mapstructure:"monthly_rent"`
	DiscountRatePercent   float64 `yaml:"discount_rate_percent" mapstructure:"discount_rate_percent"`
	PriceGrowthPercent    float64 `yaml:"price_growth_percent" mapstructure:"price_growth_percent"`
	ShockReturnPercent    float64 `yaml:"shock_return_percent" mapstructure:"shock_return_percent"`
}

// SweepConfig configures the sensitivity sweep axes.
type SweepConfig struct {
	RateStart       float64 `yaml:"rate_start" mapstructure:"rate_start"`
	RateStop        float64 `yaml:"rate_stop" mapstructure:"rate_stop"`
	RateSteps       int     `yaml:"rate_steps" mapstructure:"rate_steps"`
	GridRateStart   float64 `yaml:"grid_rate_start" mapstructure:"grid_rate_start"`
	GridRateStop    float64 `yaml:"grid_rate_stop" mapstructure:"grid_rate_stop"`
	GridRateSteps   int     `yaml:"grid_rate_steps" mapstructure:"grid_rate_steps"`
	GridGrowthStart float64 `yaml:"grid_growth_start" mapstructure:"grid_growth_start"`
	GridGrowthStop  float64 `yaml:"grid_growth_stop" mapstructure:"grid_growth_stop"`
	GridGrowthSteps int     `yaml:"grid_growth_steps" mapstructure:"grid_growth_steps"`
}

// PresetsConfig points at an optional preset scenario file.
type PresetsConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// StoreConfig configures the run-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the serve mode.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RatePerSecond  float64  `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LOAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("defaults.principal", 500000)
	v.SetDefault("defaults.annual_rate_percent", 10.0)
	v.SetDefault("defaults.tenure_years", 5)
	v.SetDefault("defaults.monthly_salary", 80000)
	v.SetDefault("defaults.prepay_after_years", 2)
	v.SetDefault("defaults.prepay_amount", 50000)
	v.SetDefault("defaults.extra_monthly_payment", 5000)
	v.SetDefault("defaults.expected_return_percent", 12.0)
	v.SetDefault("defaults.monthly_rent", 8000)
	v.SetDefault("defaults.discount_rate_percent", 8.0)
	v.SetDefault("defaults.price_growth_percent", 3.0)
	v.SetDefault("defaults.shock_return_percent", 5.0)

	v.SetDefault("sweep.rate_start", 2.0)
	v.SetDefault("sweep.rate_stop", 15.0)
	v.SetDefault("sweep.rate_steps", 25)
	v.SetDefault("sweep.grid_rate_start", 5.0)
	v.SetDefault("sweep.grid_rate_stop", 15.0)
	v.SetDefault("sweep.grid_rate_steps", 12)
	v.SetDefault("sweep.grid_growth_start", 0.0)
	v.SetDefault("sweep.grid_growth_stop", 10.0)
	v.SetDefault("sweep.grid_growth_steps", 12)

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "loan.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 5.0)
	v.SetDefault("server.rate_burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks settings a command is about to rely on.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return eris.Errorf("config: unsupported store driver %q", c.Store.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server port %d", c.Server.Port)
	}
	return nil
}

// Inputs assembles the default engine input record.
func (c *Config) Inputs() engine.Inputs {
	d := c.Defaults
	return engine.Inputs{
		Principal:             d.Principal,
		AnnualRatePercent:     d.AnnualRatePercent,
		TenureYears:           d.TenureYears,
		MonthlySalary:         d.MonthlySalary,
		PrepayAfterYears:      d.PrepayAfterYears,
		PrepayAmount:          d.PrepayAmount,
		ExtraMonthlyPayment:   d.ExtraMonthlyPayment,
		ExpectedReturnPercent: d.ExpectedReturnPercent,
		MonthlyRent:           d.MonthlyRent,
		DiscountRatePercent:   d.DiscountRatePercent,
		PriceGrowthPercent:    d.PriceGrowthPercent,
	}
}

// Options assembles the engine sweep options.
func (c *Config) Options() engine.Options {
	s := c.Sweep
	return engine.Options{
		RateSweep:   engine.SweepSpec{Start: s.RateStart, Stop: s.RateStop, Steps: s.RateSteps},
		GridRates:   engine.SweepSpec{Start: s.GridRateStart, Stop: s.GridRateStop, Steps: s.GridRateSteps},
		GridGrowths: engine.SweepSpec{Start: s.GridGrowthStart, Stop: s.GridGrowthStop, Steps: s.GridGrowthSteps},
		IncludeGrid: true,
	}
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

// Package config loads settings from defaults, an optional config file, a
// .env file and RFILES_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kk-code-lab/rfiles/internal/upload"
	"github.com/spf13/viper"
)

const envPrefix = "RFILES"

type Config struct {
	View    ViewConfig    `mapstructure:"view"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Demo    DemoConfig    `mapstructure:"demo"`
}

type ViewConfig struct {
	Mode          string `mapstructure:"mode" validate:"oneof=list grid tree"`
	GridCellWidth int    `mapstructure:"grid_cell_width" validate:"gte=8,lte=80"`
}

type UploadConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"gte=10ms"`
	MinStep      int           `mapstructure:"min_step" validate:"gte=1,lte=100"`
	MaxStep      int           `mapstructure:"max_step" validate:"gtefield=MinStep,lte=100"`
	GracePeriod  time.Duration `mapstructure:"grace_period" validate:"gte=0"`
	Owner        string        `mapstructure:"owner" validate:"required"`
	Seed         uint64        `mapstructure:"seed"`
}

// PipelineConfig converts the settings for upload.New.
func (u UploadConfig) PipelineConfig() upload.Config {
	return upload.Config{
		MinStep:     u.MinStep,
		MaxStep:     u.MaxStep,
		GracePeriod: u.GracePeriod,
		Seed:        u.Seed,
	}
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Output string `mapstructure:"output"` // file path, "stderr" or "stdout"
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the endpoint
}

type DemoConfig struct {
	Seed bool `mapstructure:"seed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("view.mode", "list")
	v.SetDefault("view.grid_cell_width", 22)

	v.SetDefault("upload.tick_interval", 250*time.Millisecond)
	v.SetDefault("upload.min_step", 1)
	v.SetDefault("upload.max_step", 15)
	v.SetDefault("upload.grace_period", 3*time.Second)
	v.SetDefault("upload.owner", "admin")
	v.SetDefault("upload.seed", uint64(0))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "")

	v.SetDefault("metrics.addr", "")
	v.SetDefault("demo.seed", true)
}

// Options controls where Load looks.
type Options struct {
	File    string // explicit config file; must exist when set
	DotEnv  string // .env path; a missing file is ignored
	Environ bool   // read RFILES_* variables
}

// DefaultOptions reads ./.env and the environment.
func DefaultOptions() Options {
	return Options{DotEnv: ".env", Environ: true}
}

// Load builds and validates a Config.
func Load(opts Options) (Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)

	if opts.DotEnv != "" {
		if err := godotenv.Load(opts.DotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", opts.DotEnv, err)
		}
	}
	if opts.Environ {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", opts.File, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.View.Mode = strings.ToLower(cfg.View.Mode)
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

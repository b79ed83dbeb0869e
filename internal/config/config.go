package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Display DisplayConfig `mapstructure:"display"`
	Assets  AssetsConfig  `mapstructure:"assets"`
	CPU     CPUConfig     `mapstructure:"cpu"`
	Game    GameConfig    `mapstructure:"game"`
	Log     LogConfig     `mapstructure:"log"`
	History HistoryConfig `mapstructure:"history"`
}

type DisplayConfig struct {
	SquareSize int    `mapstructure:"square_size" validate:"min=16,max=256"`
	TPS        int    `mapstructure:"tps" validate:"min=1,max=240"`
	Title      string `mapstructure:"title" validate:"required"`
}

type AssetsConfig struct {
	Dir string `mapstructure:"dir"`
}

type CPUConfig struct {
	ThinkBudget time.Duration `mapstructure:"think_budget" validate:"min=0"`
}

// GameConfig preselects a game. An empty Mode means the menu is shown.
type GameConfig struct {
	Mode   string `mapstructure:"mode" validate:"omitempty,oneof=pvp cpu"`
	Rating int    `mapstructure:"rating" validate:"min=50,max=2500"`
	Seed   int64  `mapstructure:"seed"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Pretty bool   `mapstructure:"pretty"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// ErrInvalid wraps validation failures of a loaded Config.
var ErrInvalid = errors.New("invalid configuration")

var defaults = map[string]any{
	"display.square_size": 60,
	"display.tps":         60,
	"display.title":       "Chess Game",
	"assets.dir":          "assets/pieces",
	"cpu.think_budget":    3 * time.Second,
	"game.mode":           "",
	"game.rating":         1200,
	"game.seed":           int64(0),
	"log.level":           "info",
	"log.pretty":          true,
	"history.enabled":     false,
	"history.path":        "history.db",
}

// RegisterFlags adds the command-line overrides shared by every binary.
// Flag names are the config keys with dots replaced by dashes.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a config file (default: presenter.yaml in . or ./config)")
	fs.Int("display-square-size", 60, "pixel size of one board cell")
	fs.String("game-mode", "", "skip the menu: pvp or cpu")
	fs.Int("game-rating", 1200, "difficulty rating recorded with the game (50-2500)")
	fs.Int64("game-seed", 0, "engine seed, 0 for time-based")
	fs.Duration("cpu-think-budget", 3*time.Second, "how long the automated side waits before moving")
	fs.String("log-level", "info", "trace, debug, info, warn, error or disabled")
	fs.Bool("log-pretty", true, "human-readable console logs")
	fs.Bool("history-enabled", false, "record games to the sqlite history store")
	fs.String("history-path", "history.db", "sqlite history database path")
}

// Load reads defaults, then presenter.yaml, then PRESENTER_* environment
// variables, then any flags in fs that were set explicitly. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix("PRESENTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" {
				return
			}
			key := strings.Replace(f.Name, "-", ".", 1)
			key = strings.ReplaceAll(key, "-", "_")
			// Only changed flags override; unset flags must not mask the file or env.
			if f.Changed {
				_ = v.BindPFlag(key, f)
			}
		})
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("presenter")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

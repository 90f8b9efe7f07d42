package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jask/svmxplorer/internal/explorer"
)

// Config holds application configuration.
type Config struct {
	Grid GridConfig
	Data DataConfig
	Log  LogConfig
	UI   UIConfig
}

// GridConfig bounds the square the decision surface is evaluated over.
type GridConfig struct {
	Min  float64
	Max  float64
	Step float64
}

// DataConfig holds the points each class starts from. Seeds are what Clear
// resets to; initial points populate the first session.
type DataConfig struct {
	SeedA    []float64   `mapstructure:"seed_a"`
	SeedB    []float64   `mapstructure:"seed_b"`
	InitialA [][]float64 `mapstructure:"initial_a"`
	InitialB [][]float64 `mapstructure:"initial_b"`
}

// LogConfig holds the rotating log file settings. An empty path disables
// logging.
type LogConfig struct {
	Path       string
	Level      string
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Alpha     float64
	ColorLow  string `mapstructure:"color_low"`
	ColorHigh string `mapstructure:"color_high"`
}

// Load reads configuration from file and env. Env var overrides use prefix SVMXPLORER_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("grid.min", 0.0)
	v.SetDefault("grid.max", 10.0)
	v.SetDefault("grid.step", 0.02)
	v.SetDefault("data.seed_a", []float64{3, 3})
	v.SetDefault("data.seed_b", []float64{8, 8})
	v.SetDefault("data.initial_a", [][]float64{{2, 5}, {3, 4}, {4, 2}, {5, 1}})
	v.SetDefault("data.initial_b", [][]float64{{6, 10}, {7, 5}, {8, 6}, {9, 8}})
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "svmxplorer", "svmxplorer.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 5)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("ui.alpha", 0.3)
	v.SetDefault("ui.color_low", "#3b4cc0")
	v.SetDefault("ui.color_high", "#b40426")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SVMXPLORER_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "svmxplorer"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SVMXPLORER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path must exist; the default location is optional.
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks that the grid and datasets can seed an explorer session.
func (c Config) Validate() error {
	grid := c.Grid.Explorer()
	if err := grid.Validate(); err != nil {
		return err
	}
	if _, err := c.Data.Datasets(); err != nil {
		return err
	}
	for key, xy := range map[string][]float64{"data.seed_a": c.Data.SeedA, "data.seed_b": c.Data.SeedB} {
		if p := (explorer.Point{X: xy[0], Y: xy[1]}); !grid.Contains(p) {
			return fmt.Errorf("%s: %v outside the grid", key, p)
		}
	}
	for key, xys := range map[string][][]float64{"data.initial_a": c.Data.InitialA, "data.initial_b": c.Data.InitialB} {
		for i, xy := range xys {
			if p := (explorer.Point{X: xy[0], Y: xy[1]}); !grid.Contains(p) {
				return fmt.Errorf("%s[%d]: %v outside the grid", key, i, p)
			}
		}
	}
	if !(c.UI.Alpha > 0 && c.UI.Alpha <= 1) {
		return fmt.Errorf("ui.alpha %v outside (0, 1]", c.UI.Alpha)
	}
	return nil
}

// Explorer converts the grid settings.
func (g GridConfig) Explorer() explorer.Grid {
	return explorer.Grid{Min: g.Min, Max: g.Max, Step: g.Step}
}

// Datasets builds the starting datasets from the configured points.
func (d DataConfig) Datasets() (*explorer.Datasets, error) {
	seedA, err := point("data.seed_a", d.SeedA)
	if err != nil {
		return nil, err
	}
	seedB, err := point("data.seed_b", d.SeedB)
	if err != nil {
		return nil, err
	}
	initialA, err := points("data.initial_a", d.InitialA)
	if err != nil {
		return nil, err
	}
	initialB, err := points("data.initial_b", d.InitialB)
	if err != nil {
		return nil, err
	}
	return explorer.NewDatasets(seedA, seedB, initialA, initialB)
}

func point(key string, xy []float64) (explorer.Point, error) {
	if len(xy) != 2 {
		return explorer.Point{}, fmt.Errorf("%s: want [x, y], got %v", key, xy)
	}
	return explorer.Point{X: xy[0], Y: xy[1]}, nil
}

func points(key string, xys [][]float64) ([]explorer.Point, error) {
	out := make([]explorer.Point, 0, len(xys))
	for i, xy := range xys {
		p, err := point(fmt.Sprintf("%s[%d]", key, i), xy)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

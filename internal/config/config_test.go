package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/svmxplorer/internal/explorer"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SVMXPLORER_CONFIG", "")
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, explorer.Grid{Min: 0, Max: 10, Step: 0.02}, c.Grid.Explorer())
	require.Equal(t, "info", c.Log.Level)
	require.Equal(t, 0.3, c.UI.Alpha)
	require.Equal(t, "#3b4cc0", c.UI.ColorLow)

	d, err := c.Data.Datasets()
	require.NoError(t, err)
	require.Equal(t, []explorer.Point{{X: 2, Y: 5}, {X: 3, Y: 4}, {X: 4, Y: 2}, {X: 5, Y: 1}}, d.Points(explorer.ClassA))
	require.Equal(t, []explorer.Point{{X: 6, Y: 10}, {X: 7, Y: 5}, {X: 8, Y: 6}, {X: 9, Y: 8}}, d.Points(explorer.ClassB))
	d.Reset()
	require.Equal(t, []explorer.Point{{X: 3, Y: 3}}, d.Points(explorer.ClassA))
	require.Equal(t, []explorer.Point{{X: 8, Y: 8}}, d.Points(explorer.ClassB))
}

func TestLoadFileAndEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[grid]
step = 0.25

[data]
seed_a = [1, 1]
initial_a = []

[ui]
color_high = "#ff0000"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("SVMXPLORER_CONFIG", path)
	t.Setenv("SVMXPLORER_LOG_LEVEL", "debug")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, 0.25, c.Grid.Step)
	require.Equal(t, 10.0, c.Grid.Max)
	require.Equal(t, "#ff0000", c.UI.ColorHigh)
	require.Equal(t, "debug", c.Log.Level)

	d, err := c.Data.Datasets()
	require.NoError(t, err)
	require.Equal(t, []explorer.Point{{X: 1, Y: 1}}, d.Points(explorer.ClassA))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	t.Setenv("SVMXPLORER_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	good := Config{
		Grid: GridConfig{Min: 0, Max: 10, Step: 0.5},
		Data: DataConfig{SeedA: []float64{1, 1}, SeedB: []float64{2, 2}},
		UI:   UIConfig{Alpha: 0.3},
	}
	require.NoError(t, good.Validate())

	tests := map[string]func(*Config){
		"empty grid":     func(c *Config) { c.Grid.Max = 0 },
		"short seed":     func(c *Config) { c.Data.SeedA = []float64{1} },
		"bad initial":    func(c *Config) { c.Data.InitialB = [][]float64{{1, 2, 3}} },
		"seed off grid":  func(c *Config) { c.Data.SeedB = []float64{20, 2} },
		"point off grid": func(c *Config) { c.Data.InitialA = [][]float64{{-1, 5}} },
		"alpha too big":  func(c *Config) { c.UI.Alpha = 2 },
		"alpha zero":     func(c *Config) { c.UI.Alpha = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := good
			mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}

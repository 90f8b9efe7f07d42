package main

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/svmxplorer/internal/config"
	"github.com/jask/svmxplorer/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer closeLog()

	keys := NewKeyRegistry()
	if path, err := keybindingsPath(); err != nil {
		logger.Warn("keybindings path", zap.Error(err))
	} else if err := loadKeybindings(path, keys); err != nil {
		log.Fatalf("keybindings: %v", err)
	}

	palette, err := newSurfacePalette(cfg.UI.ColorLow, cfg.UI.ColorHigh, cfg.UI.Alpha)
	if err != nil {
		log.Fatalf("ui colors: %v", err)
	}
	datasets, err := cfg.Data.Datasets()
	if err != nil {
		log.Fatalf("datasets: %v", err)
	}

	m, err := newModel(appOptions{
		Grid:     cfg.Grid.Explorer(),
		Datasets: datasets,
		Palette:  palette,
		Keys:     keys,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	logger.Info("starting", zap.Float64("grid_step", cfg.Grid.Step), zap.Int("grid_size", cfg.Grid.Explorer().Size()))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", zap.Error(err))
		closeLog()
		log.Fatalf("error: %v", err)
	}
	logger.Info("exiting")
}

package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jask/svmxplorer/internal/explorer"
)

const appName = "svmxplorer"

type focusArea int

const (
	focusPlot focusArea = iota
	focusControls
)

type model struct {
	ctrl     *explorer.Controller
	canvas   *plotCanvas
	keys     *KeyRegistry
	commands *CommandRegistry
	log      *zap.Logger

	focus   focusArea
	control control
	cursor  explorer.Point

	width  int
	height int

	status    string
	statusErr bool // true if status is an error (render in Red)

	showHelp    bool
	commandOpen bool
	command     textinput.Model
}

type appOptions struct {
	Grid          explorer.Grid
	Datasets      *explorer.Datasets
	Palette       surfacePalette
	Keys          *KeyRegistry
	Logger        *zap.Logger
	NewClassifier explorer.ClassifierFactory
}

// newModel wires a controller to a plot canvas and draws the first surface.
// A failed first fit is reported in the status bar rather than returned.
func newModel(opts appOptions) (model, error) {
	if opts.Keys == nil {
		opts.Keys = NewKeyRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	canvas := newPlotCanvas(opts.Palette)
	ctrl, err := explorer.NewController(explorer.Options{
		Grid:          opts.Grid,
		Datasets:      opts.Datasets,
		Canvas:        canvas,
		NewClassifier: opts.NewClassifier,
		Logger:        opts.Logger,
	})
	if err != nil {
		return model{}, fmt.Errorf("controller: %w", err)
	}
	m := model{
		ctrl:     ctrl,
		canvas:   canvas,
		keys:     opts.Keys,
		commands: NewCommandRegistry(),
		log:      opts.Logger,
		cursor:   explorer.Point{X: (opts.Grid.Min + opts.Grid.Max) / 2, Y: (opts.Grid.Min + opts.Grid.Max) / 2},
		command:  newCommandInput(),
	}
	if err := ctrl.Refresh(); err != nil {
		m.setError(err)
	} else {
		m.setStatus("Ready. Click or press a/b to add points, tab for controls, ? for help.")
	}
	return m, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) View() string {
	params := m.ctrl.Hyperparameters()
	header := renderHeader(appName, m.focus, params.String(), m.width)

	statusLine := m.renderStatus(m.status, m.statusErr)
	if m.commandOpen {
		statusLine = m.renderStatus(m.command.View(), false)
	}
	footer := m.renderFooter(m.footerBindings())

	v := m.plotView()
	plotStyle := plotBoxStyle
	controlsStyle := controlsBoxStyle
	if m.focus == focusPlot {
		plotStyle = plotBoxFocusStyle
	} else {
		controlsStyle = controlsBoxFocusStyle
	}
	plot := plotStyle.Render(m.canvas.render(v, m.cursor, m.focus == focusPlot && !m.commandOpen))
	controls := controlsStyle.Width(controlsOuterWidth - 2).Render(m.renderControls())
	body := header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, plot, " ", controls)

	view := m.placeWithFooter(body, statusLine, footer)
	if m.showHelp {
		return m.composeHelp(view)
	}
	return view
}

func (m model) plotView() plotView {
	return newPlotView(m.ctrl.Grid(), m.width, m.height)
}

func (m model) scope() string {
	switch {
	case m.commandOpen:
		return scopeCommand
	case m.showHelp:
		return scopeHelp
	case m.focus == focusControls:
		return scopeControls
	}
	return scopePlot
}

func (m model) footerBindings() []key.Binding {
	scope := m.scope()
	out := m.keys.HelpBindings(scope)
	if scope == scopePlot || scope == scopeControls {
		out = append(out, m.keys.HelpBindings(scopeGlobal)...)
	}
	return out
}

func (m *model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *model) setError(err error) {
	m.log.Warn("ui error", zap.Error(err))
	m.status = err.Error()
	m.statusErr = true
}

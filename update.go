package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/svmxplorer/internal/explorer"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.commandOpen {
		return m.updateCommand(msg)
	}
	keyName := msg.String()
	if m.showHelp {
		if b := m.keys.LookupLocal(keyName, scopeHelp); b != nil && b.Action == actionClose {
			m.showHelp = false
		}
		return m, nil
	}

	b := m.keys.Lookup(keyName, m.scope())
	if b == nil {
		return m, nil
	}
	switch b.Action {
	case actionQuit:
		return m, tea.Quit
	case actionFocus:
		if m.focus == focusPlot {
			m.focus = focusControls
		} else {
			m.focus = focusPlot
		}
		return m, nil
	case actionHelp:
		m.showHelp = true
		return m, nil
	case actionCommandMode:
		m.openCommand()
		return m, nil
	case actionClear:
		return m.handle(explorer.ClearPressed{})
	case actionMove:
		dx, dy := moveDelta(keyName)
		m.cursor = m.plotView().move(m.cursor, dx, dy)
		return m, nil
	case actionPlaceA:
		return m.handle(explorer.PointPlaced{Class: explorer.ClassA, X: m.cursor.X, Y: m.cursor.Y})
	case actionPlaceB:
		return m.handle(explorer.PointPlaced{Class: explorer.ClassB, X: m.cursor.X, Y: m.cursor.Y})
	case actionNavigate:
		_, dy := moveDelta(keyName)
		m.control = (m.control + control(dy) + controlCount) % controlCount
		return m, nil
	case actionAdjust:
		dx, _ := moveDelta(keyName)
		if ev, ok := stepControl(m.control, dx, m.ctrl.Hyperparameters(), m.ctrl.Stats()); ok {
			return m.handle(ev)
		}
		return m, nil
	case actionActivate:
		if ev, ok := activateControl(m.control, m.ctrl.Hyperparameters(), m.ctrl.Stats()); ok {
			return m.handle(ev)
		}
		return m, nil
	}
	return m, nil
}

// moveDelta maps a direction key to a cell offset. Up is towards row 0.
func moveDelta(keyName string) (int, int) {
	switch normalizeKeyName(keyName) {
	case "h", "left":
		return -1, 0
	case "l", "right":
		return 1, 0
	case "k", "up":
		return 0, -1
	case "j", "down":
		return 0, 1
	}
	return 0, 0
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || tea.MouseEvent(msg).IsWheel() || m.commandOpen || m.showHelp {
		return m, nil
	}
	v := m.plotView()
	cx, cy := msg.X-plotOriginX, msg.Y-plotOriginY
	if !v.inside(cx, cy) {
		return m, nil
	}
	p := v.cellCenter(cx, cy)
	class := explorer.ClassB
	if msg.Button == tea.MouseButtonLeft {
		class = explorer.ClassA
	}
	m.focus = focusPlot
	m.cursor = p
	return m.handle(explorer.PointPlaced{Class: class, X: p.X, Y: p.Y})
}

// dispatch passes ev to the controller, which refreshes synchronously.
func (m model) dispatch(ev explorer.Event) (model, tea.Cmd, error) {
	if err := m.ctrl.Handle(ev); err != nil {
		return m, nil, err
	}
	m.setStatus(describeEvent(ev))
	return m, nil, nil
}

func (m model) handle(ev explorer.Event) (tea.Model, tea.Cmd) {
	next, cmd, err := m.dispatch(ev)
	if err != nil {
		next.setError(err)
	}
	return next, cmd
}

func describeEvent(ev explorer.Event) string {
	switch ev := ev.(type) {
	case explorer.PointPlaced:
		return fmt.Sprintf("Added %s point at (%.2f, %.2f)", ev.Class, ev.X, ev.Y)
	case explorer.ClearPressed:
		return "Cleared points and hyperparameters"
	case explorer.KernelSelected:
		return fmt.Sprintf("Kernel: %s", ev.Kernel)
	case explorer.GammaModeSelected:
		return fmt.Sprintf("Gamma: %s", ev.Mode)
	case explorer.ParamChanged:
		return fmt.Sprintf("%s = %g", ev.Param, ev.Value)
	}
	return ""
}

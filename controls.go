package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/svmxplorer/internal/explorer"
	"github.com/jask/svmxplorer/internal/svm"
)

const (
	controlsWidth      = 34
	controlsOuterWidth = controlsWidth + 4
	sliderWidth        = 14
)

type control int

const (
	controlKernel control = iota
	controlC
	controlCoef0
	controlDegree
	controlGammaMode
	controlGamma
	controlClear
	controlCount
)

var (
	controlLabelStyle  = lipgloss.NewStyle().Foreground(colorSubtext0)
	controlValueStyle  = lipgloss.NewStyle().Foreground(colorPeach)
	controlActiveStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	sliderFillStyle    = lipgloss.NewStyle().Foreground(colorMauve)
	sliderTrackStyle   = lipgloss.NewStyle().Foreground(colorSurface2)
	buttonStyle        = lipgloss.NewStyle().
				Foreground(colorText).
				Background(colorSurface1).
				Padding(0, 1)
	buttonActiveStyle = buttonStyle.Foreground(colorCrust).Background(colorAccent)
	infoLabelStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)
)

func (c control) param() (explorer.Param, bool) {
	switch c {
	case controlC:
		return explorer.ParamC, true
	case controlCoef0:
		return explorer.ParamCoef0, true
	case controlDegree:
		return explorer.ParamDegree, true
	case controlGamma:
		return explorer.ParamGamma, true
	}
	return 0, false
}

// paramValue is the slider position of p for the current parameters.
func paramValue(p explorer.Param, params svm.Params, stats explorer.FitStats) float64 {
	switch p {
	case explorer.ParamC:
		return params.C
	case explorer.ParamCoef0:
		return params.Coef0
	case explorer.ParamDegree:
		return float64(params.Degree)
	case explorer.ParamGamma:
		if params.Gamma.Value > 0 {
			return params.Gamma.Value
		}
		// Before any explicit gamma, start from the resolved one.
		return explorer.DomainOf(p).Clamp(stats.Gamma)
	}
	return 0
}

// stepControl returns the event for moving control c by dir steps.
func stepControl(c control, dir int, params svm.Params, stats explorer.FitStats) (explorer.Event, bool) {
	if p, ok := c.param(); ok {
		current := paramValue(p, params, stats)
		next := explorer.DomainOf(p).StepBy(current, dir)
		if next == current && (c != controlGamma || params.Gamma.Mode == svm.GammaValue) {
			return nil, false
		}
		return explorer.ParamChanged{Param: p, Value: next}, true
	}
	switch c {
	case controlKernel:
		return explorer.KernelSelected{Kernel: cycle(svm.Kernels, params.Kernel, dir)}, true
	case controlGammaMode:
		if params.Gamma.Mode == svm.GammaValue {
			// The radio has nothing selected; stepping picks an end.
			if dir < 0 {
				return explorer.GammaModeSelected{Mode: svm.GammaModes[len(svm.GammaModes)-1]}, true
			}
			return explorer.GammaModeSelected{Mode: svm.GammaModes[0]}, true
		}
		return explorer.GammaModeSelected{Mode: cycle(svm.GammaModes, params.Gamma.Mode, dir)}, true
	}
	return nil, false
}

// activateControl returns the event for pressing enter on control c.
func activateControl(c control, params svm.Params, stats explorer.FitStats) (explorer.Event, bool) {
	switch c {
	case controlClear:
		return explorer.ClearPressed{}, true
	case controlKernel, controlGammaMode:
		return stepControl(c, 1, params, stats)
	}
	return nil, false
}

func cycle[T comparable](items []T, current T, dir int) T {
	idx := 0
	for i, it := range items {
		if it == current {
			idx = i
			break
		}
	}
	n := len(items)
	return items[((idx+dir)%n+n)%n]
}

func (m model) renderControls() string {
	params := m.ctrl.Hyperparameters()
	stats := m.ctrl.Stats()
	focused := m.focus == focusControls

	var lines []string
	row := func(c control, label, value string) {
		prefix := "  "
		labelStyle := controlLabelStyle
		if focused && m.control == c {
			prefix = cursorStyle.Render("> ")
			labelStyle = controlActiveStyle
		}
		lines = append(lines, prefix+labelStyle.Render(fmt.Sprintf("%-7s", label))+" "+value)
	}

	row(controlKernel, "Kernel", renderRadio(svm.Kernels, params.Kernel, true))
	for _, c := range []control{controlC, controlCoef0, controlDegree} {
		p, _ := c.param()
		row(c, p.String(), renderSlider(p, paramValue(p, params, stats)))
	}
	explicit := params.Gamma.Mode == svm.GammaValue
	row(controlGammaMode, "Gamma", renderRadio(svm.GammaModes, params.Gamma.Mode, !explicit))
	row(controlGamma, "", renderSlider(explorer.ParamGamma, paramValue(explorer.ParamGamma, params, stats)))

	button := buttonStyle
	if focused && m.control == controlClear {
		button = buttonActiveStyle
	}
	row(controlClear, "", button.Render("Clear"))

	lines = append(lines, "", m.renderInfo(params, stats))
	return strings.Join(lines, "\n")
}

func renderRadio[T comparable](items []T, selected T, active bool) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		mark := "○"
		style := controlLabelStyle
		if active && it == selected {
			mark = "●"
			style = controlValueStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s %v", mark, it)))
	}
	return strings.Join(parts, " ")
}

func renderSlider(p explorer.Param, value float64) string {
	d := explorer.DomainOf(p)
	filled := int(d.Fraction(value)*float64(sliderWidth) + 0.5)
	bar := sliderFillStyle.Render(strings.Repeat("━", filled)) +
		sliderTrackStyle.Render(strings.Repeat("─", sliderWidth-filled))
	return bar + " " + controlValueStyle.Render(fmt.Sprintf("%g", value))
}

func (m model) renderInfo(params svm.Params, stats explorer.FitStats) string {
	label := func(s string) string { return infoLabelStyle.Render(fmt.Sprintf("  %-10s", s)) }
	a := len(m.ctrl.Points(explorer.ClassA))
	b := len(m.ctrl.Points(explorer.ClassB))

	lines := []string{
		label("points") + lipgloss.NewStyle().Foreground(colorClassA).Render(fmt.Sprintf("%s %d", classGlyph(explorer.ClassA), a)) +
			"  " + lipgloss.NewStyle().Foreground(colorClassB).Render(fmt.Sprintf("%s %d", classGlyph(explorer.ClassB), b)),
		label("kernel") + truncate(params.String(), controlsWidth-12),
	}
	if m.ctrl.Surface() == nil {
		lines = append(lines, label("fit")+statusErrorStyle.Render("no surface"))
		return strings.Join(lines, "\n")
	}
	lines = append(lines,
		label("support") + fmt.Sprintf("%d vectors", stats.SupportVectors),
		label("gamma") + fmt.Sprintf("%.4g", stats.Gamma),
		label("fit") + stats.Duration.Round(time.Microsecond).String(),
	)
	return strings.Join(lines, "\n")
}

package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Styles, Catppuccin Mocha themed
// ---------------------------------------------------------------------------

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	// Header bar (spans full width)
	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Background(colorMantle).
			Bold(true)

	headerInfoStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Background(colorMantle)

	// Footer bar
	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	// Status bar (above footer)
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	statusErrorStyle = lipgloss.NewStyle().Foreground(colorError)

	controlsBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorSurface1).
				Padding(0, 1)

	controlsBoxFocusStyle = controlsBoxStyle.BorderForeground(colorFocus)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

var focusNames = []string{"Plot", "Controls"}

// ---------------------------------------------------------------------------
// Chrome rendering
// ---------------------------------------------------------------------------

func renderHeader(appName string, focus focusArea, summary string, width int) string {
	name := headerAppStyle.Render(appName)

	var tabs []string
	for i, tab := range focusNames {
		if focusArea(i) == focus {
			tabs = append(tabs, activeTabStyle.Render(tab))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tab))
		}
	}
	tabBar := tabSepStyle.Render(" ") + strings.Join(tabs, tabSepStyle.Render("│"))
	content := name + tabSepStyle.Render("  ") + tabBar + tabSepStyle.Render("  ") + headerInfoStyle.Render(summary)

	if width <= 0 {
		return headerBarStyle.Render(content)
	}
	return headerBarStyle.Width(width).Render(truncate(content, width-4))
}

func (m model) renderFooter(bindings []key.Binding) string {
	// Every character carries the footer background.
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)

	if m.width == 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(m.width).Render(content)
}

func (m model) renderStatus(text string, isErr bool) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	if isErr {
		flat = statusErrorStyle.Background(colorSurface0).Render(flat)
	}
	if m.width == 0 {
		return statusBarStyle.Render(flat)
	}
	return statusBarStyle.Width(m.width).Render(truncate(flat, m.width-4))
}

func (m model) placeWithFooter(body, statusLine, footer string) string {
	if m.height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := max(1, m.height-2)
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(m.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	// Full-width lines keep stale cells from the previous frame from showing.
	lines := splitLines(main)
	for i, line := range lines {
		lines[i] = padRight(line, m.width)
	}
	return strings.Join(lines, "\n") + "\n" + statusLine + "\n" + footer
}

// ---------------------------------------------------------------------------
// Help overlay
// ---------------------------------------------------------------------------

func (m model) composeHelp(base string) string {
	help := modalStyle.Render(m.helpView())
	if m.height == 0 || m.width == 0 {
		return base + "\n\n" + help
	}
	return overlayCentered(base, help, m.width, m.height-2)
}

func (m model) helpView() string {
	lines := []string{titleStyle.Render("Keys")}
	for _, scope := range scopeOrder {
		bindings := m.keys.HelpBindings(scope)
		if len(bindings) == 0 {
			continue
		}
		lines = append(lines, "", helpDescStyle.Bold(true).Render(scope))
		for _, b := range bindings {
			h := b.Help()
			lines = append(lines, "  "+helpKeyStyle.Render(padRight(strings.Join(b.Keys(), " "), 28))+" "+helpDescStyle.Render(h.Desc))
		}
	}
	lines = append(lines, "", helpDescStyle.Render("mouse: left click adds A, other buttons add B"))
	return strings.Join(lines, "\n")
}

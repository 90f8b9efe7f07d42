package main

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/svmxplorer/internal/explorer"
)

const (
	axisLabelWidth = 6
	plotMinRows    = 5
	plotDefaultRow = 20
	// Terminal cells are about twice as tall as they are wide, so the plot
	// uses two columns per row to stay square.
	plotCellAspect = 2

	// Screen position of plot cell (0, 0): header line, then the box border
	// and padding, then the y-axis labels.
	plotOriginX = 1 + 1 + axisLabelWidth
	plotOriginY = 1 + 1
)

var (
	plotBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	plotBoxFocusStyle = plotBoxStyle.BorderForeground(colorFocus)

	axisStyle = lipgloss.NewStyle().Foreground(colorOverlay1)
)

// plotCanvas is the terminal rendition of the explorer canvas. The controller
// hands it markers and surfaces; View paints them.
type plotCanvas struct {
	markers  [2][]explorer.Point
	surface  *explorer.Surface
	palette  surfacePalette
	draws    int
	removals int
}

func newPlotCanvas(p surfacePalette) *plotCanvas {
	return &plotCanvas{palette: p}
}

func (c *plotCanvas) SetMarkers(class explorer.Class, points []explorer.Point) {
	if class != explorer.ClassA && class != explorer.ClassB {
		return
	}
	c.markers[class] = slices.Clone(points)
}

func (c *plotCanvas) ClearMarkers() {
	c.markers = [2][]explorer.Point{}
}

func (c *plotCanvas) RemoveSurface() {
	c.surface = nil
	c.removals++
}

func (c *plotCanvas) DrawSurface(s *explorer.Surface) {
	c.surface = s
	c.draws++
}

// plotView maps terminal cells onto the grid square. Row 0 is the top.
type plotView struct {
	grid explorer.Grid
	cols int
	rows int
}

func newPlotView(g explorer.Grid, width, height int) plotView {
	rows := plotDefaultRow
	if width > 0 && height > 0 {
		colsAvail := width - controlsOuterWidth - 1 - 4 - axisLabelWidth
		rowsAvail := height - 6
		rows = max(plotMinRows, min(rowsAvail, colsAvail/plotCellAspect))
	}
	return plotView{grid: g, cols: rows * plotCellAspect, rows: rows}
}

func (v plotView) span() float64 { return v.grid.Max - v.grid.Min }

// cellCenter is the data coordinate at the center of cell (cx, cy).
func (v plotView) cellCenter(cx, cy int) explorer.Point {
	return explorer.Point{
		X: v.grid.Min + (float64(cx)+0.5)*v.span()/float64(v.cols),
		Y: v.grid.Max - (float64(cy)+0.5)*v.span()/float64(v.rows),
	}
}

// cellOf returns the cell containing p, clamped to the plot.
func (v plotView) cellOf(p explorer.Point) (int, int) {
	cx := int(math.Floor((p.X - v.grid.Min) / v.span() * float64(v.cols)))
	cy := int(math.Floor((v.grid.Max - p.Y) / v.span() * float64(v.rows)))
	return max(0, min(v.cols-1, cx)), max(0, min(v.rows-1, cy))
}

// inside reports whether cell (cx, cy) lies on the plot.
func (v plotView) inside(cx, cy int) bool {
	return cx >= 0 && cx < v.cols && cy >= 0 && cy < v.rows
}

// move shifts p by (dx, dy) cells, landing on a cell center.
func (v plotView) move(p explorer.Point, dx, dy int) explorer.Point {
	cx, cy := v.cellOf(p)
	cx = max(0, min(v.cols-1, cx+dx))
	cy = max(0, min(v.rows-1, cy+dy))
	return v.cellCenter(cx, cy)
}

type cellStyle struct {
	bg, fg lipgloss.Color
}

// render paints the surface, markers and, when crosshair is set, the cursor.
func (c *plotCanvas) render(v plotView, cursor explorer.Point, crosshair bool) string {
	type mark struct {
		glyph string
		color lipgloss.Color
	}
	marks := make(map[[2]int]mark)
	for _, class := range explorer.Classes {
		for _, p := range c.markers[class] {
			if !v.grid.Contains(p) {
				continue
			}
			cx, cy := v.cellOf(p)
			marks[[2]int{cx, cy}] = mark{glyph: classGlyph(class), color: classColor(class)}
		}
	}
	curX, curY := v.cellOf(cursor)

	lines := make([]string, 0, v.rows+1)
	for cy := 0; cy < v.rows; cy++ {
		var line strings.Builder
		line.WriteString(axisStyle.Render(c.yLabel(v, cy)))

		var run strings.Builder
		var runStyle cellStyle
		flush := func() {
			if run.Len() == 0 {
				return
			}
			line.WriteString(lipgloss.NewStyle().Background(runStyle.bg).Foreground(runStyle.fg).Render(run.String()))
			run.Reset()
		}
		for cx := 0; cx < v.cols; cx++ {
			style := cellStyle{bg: colorBase, fg: colorText}
			if c.surface != nil {
				p := v.cellCenter(cx, cy)
				style.bg = c.palette.color(c.surface.At(p.X, p.Y))
			}
			glyph := " "
			if m, ok := marks[[2]int{cx, cy}]; ok {
				glyph, style.fg = m.glyph, m.color
			}
			if crosshair && cx == curX && cy == curY {
				style.fg = colorCrosshair
				if glyph == " " {
					glyph = "+"
				}
			}
			if style != runStyle {
				flush()
				runStyle = style
			}
			run.WriteString(glyph)
		}
		flush()
		lines = append(lines, line.String())
	}
	lines = append(lines, axisStyle.Render(c.xAxis(v)))
	return strings.Join(lines, "\n")
}

func (c *plotCanvas) yLabel(v plotView, cy int) string {
	var value float64
	switch cy {
	case 0:
		value = v.grid.Max
	case v.rows / 2:
		value = (v.grid.Min + v.grid.Max) / 2
	case v.rows - 1:
		value = v.grid.Min
	default:
		return strings.Repeat(" ", axisLabelWidth)
	}
	return fmt.Sprintf("%*s ", axisLabelWidth-1, axisNumber(value))
}

func (c *plotCanvas) xAxis(v plotView) string {
	row := []rune(strings.Repeat(" ", v.cols))
	put := func(at int, s string) {
		at = max(0, min(v.cols-len(s), at))
		copy(row[at:], []rune(s))
	}
	mid := axisNumber((v.grid.Min + v.grid.Max) / 2)
	put(0, axisNumber(v.grid.Min))
	put(v.cols/2-len(mid)/2, mid)
	put(v.cols, axisNumber(v.grid.Max))
	return strings.Repeat(" ", axisLabelWidth) + string(row)
}

func axisNumber(v float64) string {
	return fmt.Sprintf("%g", math.Round(v*100)/100)
}

package explorer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Grid is the square [Min, Max)² sampled every Step along both axes.
type Grid struct {
	Min, Max, Step float64
}

// Validate rejects empty or non-finite grids.
func (g Grid) Validate() error {
	for _, v := range []float64{g.Min, g.Max, g.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("grid: non-finite bound %v", v)
		}
	}
	if g.Max <= g.Min {
		return fmt.Errorf("grid: max %v must exceed min %v", g.Max, g.Min)
	}
	if g.Step <= 0 {
		return fmt.Errorf("grid: step %v must be positive", g.Step)
	}
	return nil
}

// Size is the number of nodes per axis, matching arange(Min, Max, Step).
func (g Grid) Size() int {
	if g.Step <= 0 || g.Max <= g.Min {
		return 0
	}
	return int(math.Ceil((g.Max-g.Min)/g.Step - 1e-9))
}

// Coord is the coordinate of node i along either axis.
func (g Grid) Coord(i int) float64 {
	return g.Min + float64(i)*g.Step
}

// Index returns the node nearest to v along one axis, clamped to the grid.
func (g Grid) Index(v float64) int {
	n := g.Size()
	if n == 0 {
		return 0
	}
	i := int(math.Round((v - g.Min) / g.Step))
	return max(0, min(n-1, i))
}

// Contains reports whether p lies within the plotted square.
func (g Grid) Contains(p Point) bool {
	return p.X >= g.Min && p.X <= g.Max && p.Y >= g.Min && p.Y <= g.Max
}

// Nodes returns every node as a row (x, y), rows ordered with x varying
// fastest.
func (g Grid) Nodes() *mat.Dense {
	n := g.Size()
	x := mat.NewDense(n*n, 2, nil)
	for iy := 0; iy < n; iy++ {
		y := g.Coord(iy)
		for ix := 0; ix < n; ix++ {
			row := iy*n + ix
			x.Set(row, 0, g.Coord(ix))
			x.Set(row, 1, y)
		}
	}
	return x
}

// Surface is the predicted label field over a Grid from one fit.
type Surface struct {
	Grid Grid
	// Generation increases with every successful refresh.
	Generation uint64
	labels     []int
}

// NewSurface wraps labels laid out as Grid.Nodes.
func NewSurface(g Grid, generation uint64, labels []int) (*Surface, error) {
	n := g.Size()
	if len(labels) != n*n {
		return nil, fmt.Errorf("surface: %d labels for a %dx%d grid", len(labels), n, n)
	}
	return &Surface{Grid: g, Generation: generation, labels: labels}, nil
}

// Label returns the label at node (ix, iy).
func (s *Surface) Label(ix, iy int) int {
	n := s.Grid.Size()
	return s.labels[iy*n+ix]
}

// At returns the label of the node nearest to (x, y).
func (s *Surface) At(x, y float64) int {
	return s.Label(s.Grid.Index(x), s.Grid.Index(y))
}

// Labels returns a copy of the label field.
func (s *Surface) Labels() []int {
	out := make([]int, len(s.labels))
	copy(out, s.labels)
	return out
}

// Count returns how many nodes carry label.
func (s *Surface) Count(label int) int {
	var n int
	for _, l := range s.labels {
		if l == label {
			n++
		}
	}
	return n
}

// Package explorer owns the state of an SVM exploration session: the two
// labeled point sets, the classifier hyperparameters and the decision surface
// computed from them.
package explorer

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Class is one of the two point classes. A is labeled 0, B is labeled 1.
type Class int

const (
	ClassA Class = iota
	ClassB
)

// Classes lists both classes in label order.
var Classes = []Class{ClassA, ClassB}

func (c Class) String() string {
	switch c {
	case ClassA:
		return "A"
	case ClassB:
		return "B"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Label is the training label of the class.
func (c Class) Label() int { return int(c) }

// ParseClass accepts "a"/"b" in either case and the labels "0"/"1".
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "0":
		return ClassA, nil
	case "b", "1":
		return ClassB, nil
	}
	return 0, fmt.Errorf("unknown class %q", s)
}

// ErrNonFinite rejects NaN and infinite coordinates.
var ErrNonFinite = errors.New("coordinates must be finite")

// Point is a position on the plane.
type Point struct {
	X, Y float64
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Datasets holds the per-class points in insertion order. Neither class is
// ever empty once constructed with NewDatasets.
type Datasets struct {
	points [2][]Point
	seeds  [2]Point
}

// NewDatasets starts each class from initial, falling back to the class seed
// when a class has no initial points.
func NewDatasets(seedA, seedB Point, initialA, initialB []Point) (*Datasets, error) {
	d := &Datasets{seeds: [2]Point{seedA, seedB}}
	for _, c := range Classes {
		if !d.seeds[c].finite() {
			return nil, fmt.Errorf("seed %s: %w", c, ErrNonFinite)
		}
	}
	for c, initial := range [2][]Point{initialA, initialB} {
		for _, p := range initial {
			if !p.finite() {
				return nil, fmt.Errorf("initial %s point %v: %w", Class(c), p, ErrNonFinite)
			}
		}
		if len(initial) == 0 {
			initial = []Point{d.seeds[c]}
		}
		d.points[c] = slices.Clone(initial)
	}
	return d, nil
}

// Add appends p to class c.
func (d *Datasets) Add(c Class, p Point) error {
	if c != ClassA && c != ClassB {
		return fmt.Errorf("unknown class %d", int(c))
	}
	if !p.finite() {
		return ErrNonFinite
	}
	d.points[c] = append(d.points[c], p)
	return nil
}

// Reset leaves exactly the seed point in each class.
func (d *Datasets) Reset() {
	for _, c := range Classes {
		d.points[c] = []Point{d.seeds[c]}
	}
}

// Points returns a copy of the points of class c.
func (d *Datasets) Points(c Class) []Point {
	if c != ClassA && c != ClassB {
		return nil
	}
	return slices.Clone(d.points[c])
}

// Len returns the number of points in class c.
func (d *Datasets) Len(c Class) int {
	if c != ClassA && c != ClassB {
		return 0
	}
	return len(d.points[c])
}

// TrainingSet returns the class-A points followed by the class-B points and
// the matching 0/1 labels.
func (d *Datasets) TrainingSet() (*mat.Dense, []int) {
	n := len(d.points[ClassA]) + len(d.points[ClassB])
	x := mat.NewDense(n, 2, nil)
	y := make([]int, 0, n)
	row := 0
	for _, c := range Classes {
		for _, p := range d.points[c] {
			x.Set(row, 0, p.X)
			x.Set(row, 1, p.Y)
			y = append(y, c.Label())
			row++
		}
	}
	return x, y
}

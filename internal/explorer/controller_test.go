package explorer

import (
	"errors"
	"math"
	"slices"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/jask/svmxplorer/internal/svm"
)

var testGrid = Grid{Min: 0, Max: 10, Step: 0.25}

type recordingCanvas struct {
	calls   []string
	markers [2][]Point
	surface *Surface
}

func (r *recordingCanvas) SetMarkers(c Class, pts []Point) {
	r.calls = append(r.calls, "markers:"+c.String())
	r.markers[c] = pts
}

func (r *recordingCanvas) ClearMarkers() {
	r.calls = append(r.calls, "clear")
	r.markers = [2][]Point{}
}

func (r *recordingCanvas) RemoveSurface() {
	r.calls = append(r.calls, "remove")
	r.surface = nil
}

func (r *recordingCanvas) DrawSurface(s *Surface) {
	r.calls = append(r.calls, "draw")
	r.surface = s
}

func demoDatasets(t *testing.T) *Datasets {
	t.Helper()
	d, err := NewDatasets(Point{3, 3}, Point{8, 8},
		[]Point{{2, 5}, {3, 4}, {4, 2}, {5, 1}},
		[]Point{{6, 10}, {7, 5}, {8, 6}, {9, 8}},
	)
	if err != nil {
		t.Fatalf("NewDatasets: %v", err)
	}
	return d
}

func newTestController(t *testing.T) (*Controller, *recordingCanvas) {
	t.Helper()
	canvas := &recordingCanvas{}
	c, err := NewController(Options{Grid: testGrid, Datasets: demoDatasets(t), Canvas: canvas})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c, canvas
}

func TestTrainingSetOrder(t *testing.T) {
	c, _ := newTestController(t)
	adds := []struct {
		class Class
		p     Point
	}{
		{ClassB, Point{1, 1}},
		{ClassA, Point{0, 0}},
		{ClassB, Point{2, 2}},
		{ClassA, Point{4, 4}},
	}
	for _, a := range adds {
		if err := c.AddPoint(a.class, a.p.X, a.p.Y); err != nil {
			t.Fatalf("AddPoint(%v, %v): %v", a.class, a.p, err)
		}
	}

	x, y := c.TrainingSet()
	wantA := c.Points(ClassA)
	wantB := c.Points(ClassB)
	wantRows := append(slices.Clone(wantA), wantB...)
	rows, _ := x.Dims()
	if rows != len(wantRows) {
		t.Fatalf("rows = %d, want %d", rows, len(wantRows))
	}
	for i, p := range wantRows {
		if x.At(i, 0) != p.X || x.At(i, 1) != p.Y {
			t.Fatalf("row %d = (%v, %v), want %v", i, x.At(i, 0), x.At(i, 1), p)
		}
	}
	var wantY []int
	for range wantA {
		wantY = append(wantY, 0)
	}
	for range wantB {
		wantY = append(wantY, 1)
	}
	if !slices.Equal(y, wantY) {
		t.Fatalf("labels = %v, want %v", y, wantY)
	}
	if got := c.Points(ClassA); got[len(got)-2] != (Point{0, 0}) || got[len(got)-1] != (Point{4, 4}) {
		t.Fatalf("class A insertion order lost: %v", got)
	}
}

func TestAddPointGrowsOnlyItsClass(t *testing.T) {
	c, _ := newTestController(t)
	beforeA, beforeB := len(c.Points(ClassA)), len(c.Points(ClassB))
	if err := c.AddPoint(ClassA, 0, 0); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	if got := len(c.Points(ClassA)); got != beforeA+1 {
		t.Fatalf("class A len = %d, want %d", got, beforeA+1)
	}
	if got := len(c.Points(ClassB)); got != beforeB {
		t.Fatalf("class B len = %d, want %d", got, beforeB)
	}
}

func TestAddPointRejectsNonFinite(t *testing.T) {
	c, _ := newTestController(t)
	err := c.AddPoint(ClassA, math.NaN(), 1)
	if !errors.Is(err, ErrNonFinite) {
		t.Fatalf("err = %v, want ErrNonFinite", err)
	}
	if got := len(c.Points(ClassA)); got != 4 {
		t.Fatalf("class A len = %d, want 4", got)
	}
}

func TestClearResetsState(t *testing.T) {
	c, canvas := newTestController(t)
	mustHandle(t, c, KernelSelected{Kernel: svm.KernelRBF})
	mustHandle(t, c, ParamChanged{Param: ParamC, Value: 4.2})
	mustHandle(t, c, ParamChanged{Param: ParamDegree, Value: 7})
	mustHandle(t, c, ParamChanged{Param: ParamCoef0, Value: 12})
	mustHandle(t, c, ParamChanged{Param: ParamGamma, Value: 2})
	mustHandle(t, c, PointPlaced{Class: ClassB, X: 1, Y: 9})

	canvas.calls = nil
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := c.Points(ClassA); !slices.Equal(got, []Point{{3, 3}}) {
		t.Fatalf("class A = %v, want seed", got)
	}
	if got := c.Points(ClassB); !slices.Equal(got, []Point{{8, 8}}) {
		t.Fatalf("class B = %v, want seed", got)
	}
	p := c.Hyperparameters()
	if p.Kernel != svm.KernelLinear || p.C != 1 || p.Gamma.Mode != svm.GammaScale || p.Degree != 3 || p.Coef0 != 0 {
		t.Fatalf("params after clear = %+v", p)
	}
	if len(canvas.calls) == 0 || canvas.calls[0] != "clear" {
		t.Fatalf("canvas calls = %v, want markers cleared first", canvas.calls)
	}
	if c.Surface() == nil {
		t.Fatal("clear should refresh the surface")
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	c, _ := newTestController(t)
	mustHandle(t, c, KernelSelected{Kernel: svm.KernelRBF})
	first := c.Surface().Labels()
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second := c.Surface().Labels(); !slices.Equal(first, second) {
		t.Fatal("refresh with unchanged state changed the label field")
	}
}

func TestRefreshReplacesSurface(t *testing.T) {
	c, canvas := newTestController(t)
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	want := []string{"markers:A", "markers:B", "draw"}
	if !slices.Equal(canvas.calls, want) {
		t.Fatalf("first refresh calls = %v, want %v", canvas.calls, want)
	}
	gen := c.Surface().Generation

	canvas.calls = nil
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	want = []string{"markers:A", "markers:B", "remove", "draw"}
	if !slices.Equal(canvas.calls, want) {
		t.Fatalf("second refresh calls = %v, want %v", canvas.calls, want)
	}
	if c.Surface().Generation != gen+1 {
		t.Fatalf("generation = %d, want %d", c.Surface().Generation, gen+1)
	}
	if canvas.surface != c.Surface() {
		t.Fatal("canvas should hold the controller's current surface")
	}
}

func TestLinearScenario(t *testing.T) {
	c, _ := newTestController(t)
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	s := c.Surface()
	if got := s.At(2, 5); got != 0 {
		t.Fatalf("label at (2,5) = %d, want 0", got)
	}
	if got := s.At(9, 8); got != 1 {
		t.Fatalf("label at (9,8) = %d, want 1", got)
	}
	if s.Count(0) == 0 || s.Count(1) == 0 {
		t.Fatal("surface should contain both regions")
	}
	if c.SupportVectors() == 0 || c.Stats().Samples != 8 {
		t.Fatalf("stats = %+v", c.Stats())
	}
}

func TestPolyDegreeOneMatchesLinearField(t *testing.T) {
	c, _ := newTestController(t)
	// With gamma=1 the poly kernel (x·z + 0)^1 equals the linear kernel. Any
	// other gamma scales the kernel, which acts like a different C.
	mustHandle(t, c, ParamChanged{Param: ParamGamma, Value: 1})
	linear := c.Surface().Labels()

	mustHandle(t, c, ParamChanged{Param: ParamDegree, Value: 1})
	mustHandle(t, c, ParamChanged{Param: ParamCoef0, Value: 0})
	mustHandle(t, c, KernelSelected{Kernel: svm.KernelPoly})
	if !slices.Equal(linear, c.Surface().Labels()) {
		t.Fatal("poly degree 1 field differs from linear")
	}
}

func TestSetHyperparameterDomain(t *testing.T) {
	tests := []struct {
		name  string
		param Param
		value float64
		ok    bool
	}{
		{"C in range", ParamC, 2.5, true},
		{"C too small", ParamC, 0.05, false},
		{"C too large", ParamC, 10.5, false},
		{"coef0 max", ParamCoef0, 100, true},
		{"coef0 negative", ParamCoef0, -1, false},
		{"degree fraction", ParamDegree, 2.5, false},
		{"degree zero", ParamDegree, 0, true},
		{"degree too large", ParamDegree, 13, false},
		{"gamma min", ParamGamma, 0.1, true},
		{"gamma nan", ParamGamma, math.NaN(), false},
		{"unknown", Param(42), 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t)
			before := c.Hyperparameters()
			err := c.SetHyperparameter(tt.param, tt.value)
			if tt.ok {
				if err != nil {
					t.Fatalf("SetHyperparameter: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.param != Param(42) && !errors.Is(err, ErrOutOfDomain) {
				t.Fatalf("err = %v, want ErrOutOfDomain", err)
			}
			if c.Hyperparameters() != before {
				t.Fatal("rejected value must not change parameters")
			}
		})
	}
}

func TestGammaModeKeepsExplicitValue(t *testing.T) {
	c, _ := newTestController(t)
	mustHandle(t, c, ParamChanged{Param: ParamGamma, Value: 3})
	if g := c.Hyperparameters().Gamma; g.Mode != svm.GammaValue || g.Value != 3 {
		t.Fatalf("gamma = %+v", g)
	}
	mustHandle(t, c, GammaModeSelected{Mode: svm.GammaAuto})
	if g := c.Hyperparameters().Gamma; g.Mode != svm.GammaAuto || g.Value != 3 {
		t.Fatalf("gamma = %+v", g)
	}
	if err := c.SetGammaMode(svm.GammaValue); err == nil {
		t.Fatal("SetGammaMode(value) should be rejected")
	}
}

type failingClassifier struct{ err error }

func (f failingClassifier) Fit(*mat.Dense, []int) error       { return f.err }
func (f failingClassifier) Predict(*mat.Dense) ([]int, error) { return nil, f.err }

func TestFitFailurePropagates(t *testing.T) {
	boom := errors.New("boom")
	canvas := &recordingCanvas{}
	fail := false
	c, err := NewController(Options{
		Grid:     testGrid,
		Datasets: demoDatasets(t),
		Canvas:   canvas,
		NewClassifier: func(p svm.Params) (Classifier, error) {
			if fail {
				return failingClassifier{err: boom}, nil
			}
			return NewSVM(p)
		},
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	fail = true
	err = c.AddPoint(ClassA, 1, 1)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if c.Surface() != nil || canvas.surface != nil {
		t.Fatal("failed refresh should release the stale surface")
	}
	if got := len(c.Points(ClassA)); got != 5 {
		t.Fatalf("point should still be stored, class A len = %d", got)
	}
}

func TestHandleUnknownEvent(t *testing.T) {
	c, _ := newTestController(t)
	if err := c.Handle(nil); err != nil {
		t.Fatalf("Handle(nil) = %v", err)
	}
}

func mustHandle(t *testing.T, c *Controller, ev Event) {
	t.Helper()
	if err := c.Handle(ev); err != nil {
		t.Fatalf("Handle(%#v): %v", ev, err)
	}
}

package explorer

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/jask/svmxplorer/internal/svm"
)

// Classifier is the learning backend: a fresh instance is fitted on every
// refresh and then asked for the label of every grid node.
type Classifier interface {
	Fit(x *mat.Dense, y []int) error
	Predict(x *mat.Dense) ([]int, error)
}

// ClassifierFactory builds an unfitted Classifier for the given parameters.
type ClassifierFactory func(svm.Params) (Classifier, error)

// NewSVM is the default factory.
func NewSVM(p svm.Params) (Classifier, error) {
	c, err := svm.New(p)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Canvas draws what the controller computes. Markers are replaced per class;
// the surface is removed before a new one is drawn.
type Canvas interface {
	SetMarkers(c Class, points []Point)
	ClearMarkers()
	RemoveSurface()
	DrawSurface(s *Surface)
}

// FitStats describes the last successful refresh.
type FitStats struct {
	Samples        int
	SupportVectors int
	Gamma          float64
	Duration       time.Duration
}

// Options configures a Controller. Grid and Datasets are required.
type Options struct {
	Grid          Grid
	Datasets      *Datasets
	Canvas        Canvas
	NewClassifier ClassifierFactory
	Logger        *zap.Logger
	Now           func() time.Time
}

// Controller owns the datasets, hyperparameters and current surface. It is
// not safe for concurrent use; all calls come from the UI event loop.
type Controller struct {
	grid          Grid
	nodes         *mat.Dense
	data          *Datasets
	params        svm.Params
	canvas        Canvas
	newClassifier ClassifierFactory
	log           *zap.Logger
	now           func() time.Time

	surface    *Surface
	generation uint64
	stats      FitStats
}

// NewController validates opts. It does not refresh; call Refresh once the
// canvas is ready.
func NewController(opts Options) (*Controller, error) {
	if err := opts.Grid.Validate(); err != nil {
		return nil, err
	}
	if opts.Datasets == nil {
		return nil, fmt.Errorf("controller: datasets are required")
	}
	c := &Controller{
		grid:          opts.Grid,
		nodes:         opts.Grid.Nodes(),
		data:          opts.Datasets,
		params:        svm.DefaultParams(),
		canvas:        opts.Canvas,
		newClassifier: opts.NewClassifier,
		log:           opts.Logger,
		now:           opts.Now,
	}
	if c.canvas == nil {
		c.canvas = nopCanvas{}
	}
	if c.newClassifier == nil {
		c.newClassifier = NewSVM
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Handle dispatches an input event to the matching operation.
func (c *Controller) Handle(ev Event) error {
	switch ev := ev.(type) {
	case PointPlaced:
		return c.AddPoint(ev.Class, ev.X, ev.Y)
	case ClearPressed:
		return c.Clear()
	case KernelSelected:
		return c.SetKernel(ev.Kernel)
	case GammaModeSelected:
		return c.SetGammaMode(ev.Mode)
	case ParamChanged:
		return c.SetHyperparameter(ev.Param, ev.Value)
	case nil:
		return nil
	}
	return fmt.Errorf("unhandled event %T", ev)
}

// AddPoint appends (x, y) to class and refreshes.
func (c *Controller) AddPoint(class Class, x, y float64) error {
	if err := c.data.Add(class, Point{X: x, Y: y}); err != nil {
		return fmt.Errorf("add point: %w", err)
	}
	c.log.Debug("point added", zap.Stringer("class", class), zap.Float64("x", x), zap.Float64("y", y))
	return c.Refresh()
}

// Clear resets both classes to their seed point and the hyperparameters to
// their defaults, then refreshes.
func (c *Controller) Clear() error {
	c.data.Reset()
	c.params = svm.DefaultParams()
	c.canvas.ClearMarkers()
	c.log.Info("cleared")
	return c.Refresh()
}

// SetHyperparameter sets a numeric hyperparameter. Setting gamma switches it
// to an explicit value.
func (c *Controller) SetHyperparameter(p Param, v float64) error {
	d := DomainOf(p)
	if d == (Domain{}) {
		return fmt.Errorf("unknown hyperparameter %d", int(p))
	}
	if !d.Contains(v) {
		return fmt.Errorf("%s=%v outside [%g, %g]: %w", p, v, d.Min, d.Max, ErrOutOfDomain)
	}
	switch p {
	case ParamC:
		c.params.C = v
	case ParamCoef0:
		c.params.Coef0 = v
	case ParamDegree:
		if v != math.Trunc(v) {
			return fmt.Errorf("degree=%v is not an integer: %w", v, ErrOutOfDomain)
		}
		c.params.Degree = int(v)
	case ParamGamma:
		c.params.Gamma = svm.GammaOf(v)
	}
	return c.Refresh()
}

// SetKernel switches the kernel and refreshes.
func (c *Controller) SetKernel(k svm.Kernel) error {
	switch k {
	case svm.KernelLinear, svm.KernelPoly, svm.KernelRBF:
	default:
		return fmt.Errorf("unknown kernel %d", int(k))
	}
	c.params.Kernel = k
	return c.Refresh()
}

// SetGammaMode switches gamma to scale or auto, keeping the last explicit
// value for the slider.
func (c *Controller) SetGammaMode(m svm.GammaMode) error {
	if m != svm.GammaScale && m != svm.GammaAuto {
		return fmt.Errorf("gamma mode must be scale or auto, got %s", m)
	}
	c.params.Gamma = svm.Gamma{Mode: m, Value: c.params.Gamma.Value}
	return c.Refresh()
}

// Refresh redraws the markers, fits a new classifier on the current points
// and replaces the decision surface. Unchanged state yields the same surface.
func (c *Controller) Refresh() error {
	start := c.now()
	for _, class := range Classes {
		c.canvas.SetMarkers(class, c.data.Points(class))
	}

	x, y := c.data.TrainingSet()
	clf, err := c.newClassifier(c.params)
	if err != nil {
		return c.fail("build classifier", err)
	}
	if err := clf.Fit(x, y); err != nil {
		return c.fail("fit", err)
	}
	labels, err := clf.Predict(c.nodes)
	if err != nil {
		return c.fail("predict", err)
	}
	surface, err := NewSurface(c.grid, c.generation+1, labels)
	if err != nil {
		return c.fail("surface", err)
	}

	c.releaseSurface()
	c.generation = surface.Generation
	c.surface = surface
	c.canvas.DrawSurface(surface)

	c.stats = FitStats{Samples: len(y), Duration: c.now().Sub(start)}
	if sv, ok := clf.(interface{ SupportVectors() int }); ok {
		c.stats.SupportVectors = sv.SupportVectors()
	}
	if g, ok := clf.(interface{ Gamma() float64 }); ok {
		c.stats.Gamma = g.Gamma()
	}
	c.log.Debug("refreshed",
		zap.Uint64("generation", c.generation),
		zap.Stringer("params", c.params),
		zap.Int("class_a", c.data.Len(ClassA)),
		zap.Int("class_b", c.data.Len(ClassB)),
		zap.Int("support_vectors", c.stats.SupportVectors),
		zap.Duration("took", c.stats.Duration),
	)
	return nil
}

func (c *Controller) releaseSurface() {
	if c.surface == nil {
		return
	}
	c.canvas.RemoveSurface()
	c.surface = nil
}

func (c *Controller) fail(stage string, err error) error {
	c.releaseSurface()
	c.stats = FitStats{}
	c.log.Error("refresh failed", zap.String("stage", stage), zap.Stringer("params", c.params), zap.Error(err))
	return fmt.Errorf("refresh: %s: %w", stage, err)
}

// Hyperparameters returns the current classifier parameters.
func (c *Controller) Hyperparameters() svm.Params { return c.params }

// Points returns a copy of the points of class.
func (c *Controller) Points(class Class) []Point { return c.data.Points(class) }

// TrainingSet returns the matrix and labels the next fit will use.
func (c *Controller) TrainingSet() (*mat.Dense, []int) { return c.data.TrainingSet() }

// Surface returns the current decision surface, nil before the first
// successful refresh or after a failed one.
func (c *Controller) Surface() *Surface { return c.surface }

// Stats describes the last successful refresh.
func (c *Controller) Stats() FitStats { return c.stats }

// SupportVectors is the support vector count of the last successful fit.
func (c *Controller) SupportVectors() int { return c.stats.SupportVectors }

// Grid returns the evaluation grid.
func (c *Controller) Grid() Grid { return c.grid }

type nopCanvas struct{}

func (nopCanvas) SetMarkers(Class, []Point) {}
func (nopCanvas) ClearMarkers()             {}
func (nopCanvas) RemoveSurface()            {}
func (nopCanvas) DrawSurface(*Surface)      {}

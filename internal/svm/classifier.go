package svm

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotFitted   = errors.New("svm: classifier is not fitted")
	ErrSingleClass = errors.New("svm: training data must contain both classes")
	ErrEmpty       = errors.New("svm: empty training set")
)

// Classifier is a two-class C-SVC over labels {0, 1}. A Classifier is fitted
// once; construct a new one to train on different data or parameters.
type Classifier struct {
	params    Params
	kernel    kernelFunc
	gamma     float64
	nFeatures int

	sv   *mat.Dense // support vectors, one per row
	coef []float64  // alpha_i * y_i for each support vector
	rho  float64

	fitted bool
}

// New validates p and returns an unfitted classifier.
func New(p Params) (*Classifier, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("svm: %w", err)
	}
	return &Classifier{params: p}, nil
}

// Params returns the parameters the classifier was built with.
func (c *Classifier) Params() Params { return c.params }

// Gamma returns the resolved kernel coefficient of the last fit.
func (c *Classifier) Gamma() float64 { return c.gamma }

// SupportVectors returns the number of support vectors of the last fit.
func (c *Classifier) SupportVectors() int {
	if !c.fitted {
		return 0
	}
	return len(c.coef)
}

// Fit trains on the rows of x with labels y (0 or 1).
func (c *Classifier) Fit(x *mat.Dense, y []int) error {
	if x == nil || x.IsEmpty() {
		return ErrEmpty
	}
	n, nf := x.Dims()
	if n != len(y) {
		return fmt.Errorf("svm: %d samples but %d labels", n, len(y))
	}
	if err := checkFinite(x); err != nil {
		return err
	}
	ys := make([]float64, n)
	var pos, neg int
	for i, label := range y {
		switch label {
		case 0:
			ys[i] = -1
			neg++
		case 1:
			ys[i] = 1
			pos++
		default:
			return fmt.Errorf("svm: label %d at row %d, want 0 or 1", label, i)
		}
	}
	if pos == 0 || neg == 0 {
		return ErrSingleClass
	}

	gamma := resolveGamma(c.params.Gamma, x)
	k := c.params.kernel(gamma)
	s := newSMO(gramMatrix(x, ys, k), ys, c.params.C)
	alpha, rho, err := s.solve(maxIterations(n))
	if err != nil {
		return fmt.Errorf("svm: %w", err)
	}

	var idx []int
	for i, a := range alpha {
		if a > 0 {
			idx = append(idx, i)
		}
	}
	sv := mat.NewDense(max(len(idx), 1), nf, nil)
	coef := make([]float64, len(idx))
	for r, i := range idx {
		sv.SetRow(r, x.RawRowView(i))
		coef[r] = alpha[i] * ys[i]
	}

	c.gamma = gamma
	c.kernel = k
	c.nFeatures = nf
	c.sv = sv
	c.coef = coef
	c.rho = rho
	c.fitted = true
	return nil
}

// Decision returns the signed distance-like decision value for each row of x.
// Positive values mean label 1.
func (c *Classifier) Decision(x *mat.Dense) ([]float64, error) {
	if !c.fitted {
		return nil, ErrNotFitted
	}
	if x == nil || x.IsEmpty() {
		return nil, nil
	}
	n, nf := x.Dims()
	if nf != c.nFeatures {
		return nil, fmt.Errorf("svm: got %d features, fitted with %d", nf, c.nFeatures)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		var sum float64
		for r, coef := range c.coef {
			sum += coef * c.kernel(c.sv.RawRowView(r), row)
		}
		out[i] = sum - c.rho
	}
	return out, nil
}

// Predict returns the label (0 or 1) of each row of x.
func (c *Classifier) Predict(x *mat.Dense) ([]int, error) {
	dec, err := c.Decision(x)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(dec))
	for i, d := range dec {
		if d > 0 {
			labels[i] = 1
		}
	}
	return labels, nil
}

func checkFinite(x mat.Matrix) error {
	rows, cols := x.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := x.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("svm: non-finite value %v at (%d, %d)", v, i, j)
			}
		}
	}
	return nil
}

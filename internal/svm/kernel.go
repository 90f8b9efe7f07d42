package svm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

type kernelFunc func(a, b []float64) float64

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// kernel returns the kernel function for p with gamma already resolved.
func (p Params) kernel(gamma float64) kernelFunc {
	switch p.Kernel {
	case KernelPoly:
		degree := float64(p.Degree)
		coef0 := p.Coef0
		return func(a, b []float64) float64 {
			return math.Pow(gamma*dot(a, b)+coef0, degree)
		}
	case KernelRBF:
		return func(a, b []float64) float64 {
			return math.Exp(-gamma * sqDist(a, b))
		}
	default:
		return dot
	}
}

// resolveGamma turns a Gamma into a number for the training matrix x, using
// the same rules as scikit-learn: scale is 1/(n_features*Var(X)) over all
// entries of X, auto is 1/n_features.
func resolveGamma(g Gamma, x mat.Matrix) float64 {
	rows, cols := x.Dims()
	switch g.Mode {
	case GammaValue:
		return g.Value
	case GammaAuto:
		return 1 / float64(cols)
	}
	n := float64(rows * cols)
	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sum += x.At(i, j)
		}
	}
	mean := sum / n
	var ss float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d := x.At(i, j) - mean
			ss += d * d
		}
	}
	variance := ss / n
	if variance == 0 {
		return 1
	}
	return 1 / (float64(cols) * variance)
}

// gramMatrix builds Q[i][j] = y_i * y_j * K(x_i, x_j).
func gramMatrix(x *mat.Dense, y []float64, k kernelFunc) *mat.SymDense {
	n, _ := x.Dims()
	q := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		xi := x.RawRowView(i)
		for j := i; j < n; j++ {
			q.SetSym(i, j, y[i]*y[j]*k(xi, x.RawRowView(j)))
		}
	}
	return q
}

package svm

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	solverEps = 1e-3
	solverTau = 1e-12
)

// errNoConvergence is returned when the iteration budget runs out before the
// KKT gap falls below solverEps.
var errNoConvergence = errors.New("solver did not converge")

// smo solves the C-SVC dual
//
//	min 0.5 a'Qa - e'a  s.t. y'a = 0, 0 <= a_i <= C
//
// with sequential minimal optimization and second-order working set
// selection. It returns the multipliers and rho, the negated bias.
type smo struct {
	q     *mat.SymDense
	y     []float64
	c     float64
	alpha []float64
	grad  []float64
	diag  []float64
}

func newSMO(q *mat.SymDense, y []float64, c float64) *smo {
	n := len(y)
	s := &smo{
		q:     q,
		y:     y,
		c:     c,
		alpha: make([]float64, n),
		grad:  make([]float64, n),
		diag:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		s.grad[i] = -1
		s.diag[i] = q.At(i, i)
	}
	return s
}

func (s *smo) atUpper(i int) bool { return s.alpha[i] >= s.c }
func (s *smo) atLower(i int) bool { return s.alpha[i] <= 0 }

// selectWorkingSet returns (i, j) or ok=false once the optimality gap is
// below solverEps.
func (s *smo) selectWorkingSet() (int, int, bool) {
	gmax := math.Inf(-1)
	gmax2 := math.Inf(-1)
	i := -1
	for t := range s.y {
		if s.y[t] > 0 {
			if !s.atUpper(t) && -s.grad[t] >= gmax {
				gmax = -s.grad[t]
				i = t
			}
		} else if !s.atLower(t) && s.grad[t] >= gmax {
			gmax = s.grad[t]
			i = t
		}
	}
	if i < 0 {
		return 0, 0, false
	}

	j := -1
	objMin := math.Inf(1)
	for t := range s.y {
		qit := s.q.At(i, t)
		if s.y[t] > 0 {
			if s.atLower(t) {
				continue
			}
			diff := gmax + s.grad[t]
			if s.grad[t] >= gmax2 {
				gmax2 = s.grad[t]
			}
			if diff > 0 {
				quad := s.diag[i] + s.diag[t] - 2*s.y[i]*qit
				if quad <= 0 {
					quad = solverTau
				}
				if obj := -(diff * diff) / quad; obj <= objMin {
					j = t
					objMin = obj
				}
			}
		} else {
			if s.atUpper(t) {
				continue
			}
			diff := gmax - s.grad[t]
			if -s.grad[t] >= gmax2 {
				gmax2 = -s.grad[t]
			}
			if diff > 0 {
				quad := s.diag[i] + s.diag[t] + 2*s.y[i]*qit
				if quad <= 0 {
					quad = solverTau
				}
				if obj := -(diff * diff) / quad; obj <= objMin {
					j = t
					objMin = obj
				}
			}
		}
	}
	if gmax+gmax2 < solverEps || j < 0 {
		return 0, 0, false
	}
	return i, j, true
}

func (s *smo) update(i, j int) {
	c := s.c
	qij := s.q.At(i, j)
	oldI, oldJ := s.alpha[i], s.alpha[j]

	if s.y[i] != s.y[j] {
		quad := s.diag[i] + s.diag[j] + 2*qij
		if quad <= 0 {
			quad = solverTau
		}
		delta := (-s.grad[i] - s.grad[j]) / quad
		diff := s.alpha[i] - s.alpha[j]
		s.alpha[i] += delta
		s.alpha[j] += delta
		if diff > 0 {
			if s.alpha[j] < 0 {
				s.alpha[j] = 0
				s.alpha[i] = diff
			}
		} else if s.alpha[i] < 0 {
			s.alpha[i] = 0
			s.alpha[j] = -diff
		}
		if diff > 0 {
			if s.alpha[i] > c {
				s.alpha[i] = c
				s.alpha[j] = c - diff
			}
		} else if s.alpha[j] > c {
			s.alpha[j] = c
			s.alpha[i] = c + diff
		}
	} else {
		quad := s.diag[i] + s.diag[j] - 2*qij
		if quad <= 0 {
			quad = solverTau
		}
		delta := (s.grad[i] - s.grad[j]) / quad
		sum := s.alpha[i] + s.alpha[j]
		s.alpha[i] -= delta
		s.alpha[j] += delta
		if sum > c {
			if s.alpha[i] > c {
				s.alpha[i] = c
				s.alpha[j] = sum - c
			}
		} else if s.alpha[j] < 0 {
			s.alpha[j] = 0
			s.alpha[i] = sum
		}
		if sum > c {
			if s.alpha[j] > c {
				s.alpha[j] = c
				s.alpha[i] = sum - c
			}
		} else if s.alpha[i] < 0 {
			s.alpha[i] = 0
			s.alpha[j] = sum
		}
	}

	dI := s.alpha[i] - oldI
	dJ := s.alpha[j] - oldJ
	for t := range s.grad {
		s.grad[t] += s.q.At(i, t)*dI + s.q.At(j, t)*dJ
	}
}

func (s *smo) rho() float64 {
	ub := math.Inf(1)
	lb := math.Inf(-1)
	var free int
	var sumFree float64
	for i := range s.y {
		yg := s.y[i] * s.grad[i]
		switch {
		case s.atUpper(i):
			if s.y[i] < 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		case s.atLower(i):
			if s.y[i] > 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		default:
			free++
			sumFree += yg
		}
	}
	if free > 0 {
		return sumFree / float64(free)
	}
	return (ub + lb) / 2
}

// solve runs SMO until convergence or maxIter updates.
func (s *smo) solve(maxIter int) ([]float64, float64, error) {
	for iter := 0; iter < maxIter; iter++ {
		i, j, ok := s.selectWorkingSet()
		if !ok {
			return s.alpha, s.rho(), nil
		}
		s.update(i, j)
	}
	return nil, 0, errNoConvergence
}

func maxIterations(n int) int {
	if n > math.MaxInt32/100 {
		return math.MaxInt32
	}
	return max(10_000_000, 100*n)
}

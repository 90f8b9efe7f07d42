// Package svm implements a two-class kernel support vector classifier (C-SVC)
// with the usual libsvm parameterization: kernel, C, degree, gamma and coef0.
package svm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kernel selects the similarity function used by the classifier.
type Kernel int

const (
	KernelLinear Kernel = iota
	KernelPoly
	KernelRBF
)

// Kernels lists every kernel in display order.
var Kernels = []Kernel{KernelLinear, KernelPoly, KernelRBF}

func (k Kernel) String() string {
	switch k {
	case KernelLinear:
		return "linear"
	case KernelPoly:
		return "poly"
	case KernelRBF:
		return "rbf"
	default:
		return fmt.Sprintf("kernel(%d)", int(k))
	}
}

// ParseKernel accepts the short names used by the controls plus a few long
// spellings ("polynomial", "radial").
func ParseKernel(s string) (Kernel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return KernelLinear, nil
	case "poly", "polynomial":
		return KernelPoly, nil
	case "rbf", "radial", "radial-basis", "gaussian":
		return KernelRBF, nil
	}
	return 0, fmt.Errorf("unknown kernel %q", s)
}

// GammaMode says how the kernel coefficient is derived.
type GammaMode int

const (
	// GammaScale uses 1 / (n_features * Var(X)).
	GammaScale GammaMode = iota
	// GammaAuto uses 1 / n_features.
	GammaAuto
	// GammaValue uses the explicit Gamma.Value.
	GammaValue
)

// GammaModes lists the named modes offered by the controls.
var GammaModes = []GammaMode{GammaScale, GammaAuto}

func (g GammaMode) String() string {
	switch g {
	case GammaScale:
		return "scale"
	case GammaAuto:
		return "auto"
	case GammaValue:
		return "value"
	default:
		return fmt.Sprintf("gamma(%d)", int(g))
	}
}

// ParseGammaMode parses one of the named modes. Explicit values go through
// ParseGamma.
func ParseGammaMode(s string) (GammaMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scale":
		return GammaScale, nil
	case "auto":
		return GammaAuto, nil
	}
	return 0, fmt.Errorf("unknown gamma mode %q", s)
}

// Gamma is either a named mode or an explicit positive value.
type Gamma struct {
	Mode  GammaMode
	Value float64
}

// GammaOf returns an explicit gamma.
func GammaOf(v float64) Gamma {
	return Gamma{Mode: GammaValue, Value: v}
}

func (g Gamma) String() string {
	if g.Mode == GammaValue {
		return strconv.FormatFloat(g.Value, 'g', 4, 64)
	}
	return g.Mode.String()
}

// ParseGamma accepts "scale", "auto" or a positive number.
func ParseGamma(s string) (Gamma, error) {
	if mode, err := ParseGammaMode(s); err == nil {
		return Gamma{Mode: mode}, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Gamma{}, fmt.Errorf("gamma %q: want scale, auto or a number", s)
	}
	g := GammaOf(v)
	if err := g.validate(); err != nil {
		return Gamma{}, err
	}
	return g, nil
}

func (g Gamma) validate() error {
	switch g.Mode {
	case GammaScale, GammaAuto:
		return nil
	case GammaValue:
		if math.IsNaN(g.Value) || math.IsInf(g.Value, 0) || g.Value <= 0 {
			return fmt.Errorf("gamma must be a positive number, got %v", g.Value)
		}
		return nil
	}
	return fmt.Errorf("unknown gamma mode %d", int(g.Mode))
}

// Params is the classifier configuration.
type Params struct {
	Kernel Kernel
	C      float64
	Degree int
	Gamma  Gamma
	Coef0  float64
}

// DefaultParams mirrors the scikit-learn SVC defaults, with a linear kernel.
func DefaultParams() Params {
	return Params{
		Kernel: KernelLinear,
		C:      1,
		Degree: 3,
		Gamma:  Gamma{Mode: GammaScale},
		Coef0:  0,
	}
}

// Validate reports the first invalid field.
func (p Params) Validate() error {
	switch p.Kernel {
	case KernelLinear, KernelPoly, KernelRBF:
	default:
		return fmt.Errorf("unknown kernel %d", int(p.Kernel))
	}
	if math.IsNaN(p.C) || math.IsInf(p.C, 0) || p.C <= 0 {
		return fmt.Errorf("C must be a positive number, got %v", p.C)
	}
	if p.Degree < 0 {
		return fmt.Errorf("degree must be non-negative, got %d", p.Degree)
	}
	if math.IsNaN(p.Coef0) || math.IsInf(p.Coef0, 0) {
		return fmt.Errorf("coef0 must be finite, got %v", p.Coef0)
	}
	return p.Gamma.validate()
}

func (p Params) String() string {
	switch p.Kernel {
	case KernelLinear:
		return fmt.Sprintf("linear C=%g", p.C)
	case KernelPoly:
		return fmt.Sprintf("poly C=%g degree=%d gamma=%s coef0=%g", p.C, p.Degree, p.Gamma, p.Coef0)
	default:
		return fmt.Sprintf("%s C=%g gamma=%s", p.Kernel, p.C, p.Gamma)
	}
}

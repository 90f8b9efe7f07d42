package explorer

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Param names a numeric hyperparameter that has a slider.
type Param int

const (
	ParamC Param = iota
	ParamCoef0
	ParamDegree
	ParamGamma
)

// Params lists the sliders in panel order.
var Params = []Param{ParamC, ParamCoef0, ParamDegree, ParamGamma}

func (p Param) String() string {
	switch p {
	case ParamC:
		return "C"
	case ParamCoef0:
		return "coef0"
	case ParamDegree:
		return "degree"
	case ParamGamma:
		return "gamma"
	default:
		return fmt.Sprintf("param(%d)", int(p))
	}
}

// ParseParam is case-insensitive.
func ParseParam(s string) (Param, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c":
		return ParamC, nil
	case "coef0":
		return ParamCoef0, nil
	case "degree":
		return ParamDegree, nil
	case "gamma":
		return ParamGamma, nil
	}
	return 0, fmt.Errorf("unknown hyperparameter %q", s)
}

// ErrOutOfDomain is returned for values outside a parameter's domain.
var ErrOutOfDomain = errors.New("value out of domain")

// Domain is the closed range and step a control accepts.
type Domain struct {
	Min, Max, Step float64
}

// DomainOf returns the declared domain of p.
func DomainOf(p Param) Domain {
	switch p {
	case ParamC:
		return Domain{Min: 0.1, Max: 10, Step: 0.1}
	case ParamCoef0:
		return Domain{Min: 0, Max: 100, Step: 1}
	case ParamDegree:
		return Domain{Min: 0, Max: 12, Step: 1}
	case ParamGamma:
		return Domain{Min: 0.1, Max: 10, Step: 0.1}
	}
	return Domain{}
}

// Contains reports whether v lies in [Min, Max].
func (d Domain) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= d.Min && v <= d.Max
}

// Clamp limits v to [Min, Max] and snaps it to the nearest step from Min.
func (d Domain) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return d.Min
	}
	v = math.Max(d.Min, math.Min(d.Max, v))
	if d.Step <= 0 {
		return v
	}
	steps := math.Round((v - d.Min) / d.Step)
	// Trim float noise from fractional steps.
	snapped := math.Round((d.Min+steps*d.Step)*1e10) / 1e10
	return math.Min(d.Max, snapped)
}

// StepBy moves v by n steps and clamps the result.
func (d Domain) StepBy(v float64, n int) float64 {
	return d.Clamp(v + float64(n)*d.Step)
}

// Fraction is the position of v within the domain in [0, 1].
func (d Domain) Fraction(v float64) float64 {
	if d.Max <= d.Min {
		return 0
	}
	f := (v - d.Min) / (d.Max - d.Min)
	return math.Max(0, math.Min(1, f))
}

package svm

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func clusters() (*mat.Dense, []int) {
	x := mat.NewDense(8, 2, []float64{
		2, 5, 3, 4, 4, 2, 5, 1,
		6, 10, 7, 5, 8, 6, 9, 8,
	})
	return x, []int{0, 0, 0, 0, 1, 1, 1, 1}
}

func fit(t *testing.T, p Params, x *mat.Dense, y []int) *Classifier {
	t.Helper()
	c, err := New(p)
	require.NoError(t, err)
	require.NoError(t, c.Fit(x, y))
	return c
}

func meshPoints(min, max, step float64) *mat.Dense {
	n := int(math.Ceil((max - min) / step))
	x := mat.NewDense(n*n, 2, nil)
	for iy := 0; iy < n; iy++ {
		for ix := 0; ix < n; ix++ {
			x.Set(iy*n+ix, 0, min+float64(ix)*step)
			x.Set(iy*n+ix, 1, min+float64(iy)*step)
		}
	}
	return x
}

func TestLinearSeparatesClusters(t *testing.T) {
	x, y := clusters()
	c := fit(t, DefaultParams(), x, y)

	got, err := c.Predict(mat.NewDense(2, 2, []float64{2, 5, 9, 8}))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, got)

	train, err := c.Predict(x)
	require.NoError(t, err)
	require.Equal(t, y, train)
	require.Greater(t, c.SupportVectors(), 1)
}

func TestEveryKernelFitsTrainingSet(t *testing.T) {
	x, y := clusters()
	tests := []struct {
		name   string
		params Params
	}{
		{"linear", DefaultParams()},
		{"poly", Params{Kernel: KernelPoly, C: 1, Degree: 3, Gamma: Gamma{Mode: GammaScale}, Coef0: 1}},
		{"rbf scale", Params{Kernel: KernelRBF, C: 1, Degree: 3, Gamma: Gamma{Mode: GammaScale}}},
		{"rbf auto", Params{Kernel: KernelRBF, C: 10, Degree: 3, Gamma: Gamma{Mode: GammaAuto}}},
		{"rbf value", Params{Kernel: KernelRBF, C: 1, Degree: 3, Gamma: GammaOf(0.5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fit(t, tt.params, x, y)
			got, err := c.Predict(x)
			require.NoError(t, err)
			require.Equal(t, y, got)
		})
	}
}

func TestPolyDegreeOneMatchesLinear(t *testing.T) {
	x, y := clusters()
	lin := fit(t, DefaultParams(), x, y)
	poly := fit(t, Params{Kernel: KernelPoly, C: 1, Degree: 1, Gamma: GammaOf(1), Coef0: 0}, x, y)

	grid := meshPoints(0, 10, 0.25)
	a, err := lin.Predict(grid)
	require.NoError(t, err)
	b, err := poly.Predict(grid)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestFitIsDeterministic(t *testing.T) {
	x, y := clusters()
	p := Params{Kernel: KernelRBF, C: 2, Gamma: Gamma{Mode: GammaScale}}
	grid := meshPoints(0, 10, 0.5)

	a, err := fit(t, p, x, y).Decision(grid)
	require.NoError(t, err)
	b, err := fit(t, p, x, y).Decision(grid)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestSinglePointPerClass(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{3, 3, 8, 8})
	c := fit(t, DefaultParams(), x, []int{0, 1})
	got, err := c.Predict(mat.NewDense(2, 2, []float64{1, 1, 9, 9}))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, got)
	require.Equal(t, 2, c.SupportVectors())
}

func TestFitErrors(t *testing.T) {
	tests := []struct {
		name string
		x    *mat.Dense
		y    []int
		want error
	}{
		{name: "nil", x: nil, y: nil, want: ErrEmpty},
		{name: "single class", x: mat.NewDense(2, 2, []float64{1, 1, 2, 2}), y: []int{0, 0}, want: ErrSingleClass},
		{name: "length mismatch", x: mat.NewDense(2, 2, []float64{1, 1, 2, 2}), y: []int{0}},
		{name: "bad label", x: mat.NewDense(2, 2, []float64{1, 1, 2, 2}), y: []int{0, 2}},
		{name: "nan", x: mat.NewDense(2, 2, []float64{1, math.NaN(), 2, 2}), y: []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(DefaultParams())
			require.NoError(t, err)
			err = c.Fit(tt.x, tt.y)
			require.Error(t, err)
			if tt.want != nil {
				require.True(t, errors.Is(err, tt.want), "got %v", err)
			}
		})
	}
}

func TestPredictBeforeFit(t *testing.T) {
	c, err := New(DefaultParams())
	require.NoError(t, err)
	_, err = c.Predict(mat.NewDense(1, 2, []float64{1, 1}))
	require.ErrorIs(t, err, ErrNotFitted)
}

func TestPredictFeatureMismatch(t *testing.T) {
	x, y := clusters()
	c := fit(t, DefaultParams(), x, y)
	_, err := c.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
	require.Error(t, err)
}

package calculator

import (
	"errors"
	"testing"

	"firecalc/fire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGaussSeidelMatrix(t *testing.T) {
	p := slab(5, 0.005, 1, 10, fire.Constant(1000))
	g, err := NewGaussSeidelStepper(p)
	require.NoError(t, err)

	fo := g.Fo()
	assert.InEpsilon(t, 40.0/(7850*450)*1/(0.005*0.005), fo, 1e-12)

	var a mat.Dense
	a.Add(g.l, g.u)
	want := mat.NewDense(5, 5, []float64{
		1 + 2*fo, -2 * fo, 0, 0, 0,
		-2 * fo, 2 * (1 + 2*fo), -2 * fo, 0, 0,
		0, -2 * fo, 2 * (1 + 2*fo), -2 * fo, 0,
		0, 0, -2 * fo, 2 * (1 + 2*fo), -2 * fo,
		0, 0, 0, -2 * fo, 1 + 2*fo,
	})
	assert.True(t, mat.EqualApprox(want, &a, 1e-12))
	assert.Equal(t, 0.0, g.u.At(1, 0))
	assert.Equal(t, 0.0, g.l.At(0, 1))
}

func TestGaussSeidelWarmStart(t *testing.T) {
	p := slab(20, 0.005, 1, 10, fire.Constant(1000))
	g, err := NewGaussSeidelStepper(p)
	require.NoError(t, err)

	field := p.InitialField()
	cold, err := g.StepFrom(1, 0, field, field)
	require.NoError(t, err)
	assert.Greater(t, cold.Iterations, 1)
	assert.Less(t, cold.Residual, p.Tolerance)
	assert.Greater(t, cold.Field[0], 20.0)

	warm, err := g.StepFrom(1, 0, field, cold.Field)
	require.NoError(t, err)
	assert.Less(t, warm.Iterations, cold.Iterations)
	assert.Less(t, warm.Residual, p.Tolerance)
	for i := range warm.Field {
		assert.InEpsilon(t, cold.Field[i], warm.Field[i], 1e-8)
	}

	next, err := g.Step(1, 0, field)
	require.NoError(t, err)
	assert.Equal(t, cold.Field, next)
}

func TestGaussSeidelDivergence(t *testing.T) {
	p := slab(20, 0.005, 1, 10, fire.Constant(1000))
	p.MaxIterations = 1
	p.Tolerance = 1e-12
	g, err := NewGaussSeidelStepper(p)
	require.NoError(t, err)

	_, err = g.StepFrom(3, 2, p.InitialField(), p.InitialField())
	require.ErrorIs(t, err, ErrDivergence)
	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 3, se.Step)
	assert.Equal(t, 2.0, se.Time)
	assert.Equal(t, 0, se.Node)
}

func TestGaussSeidelZeroTrial(t *testing.T) {
	p := slab(10, 0.005, 1, 10, fire.Constant(1000))
	g, err := NewGaussSeidelStepper(p)
	require.NoError(t, err)

	trial := p.InitialField()
	trial[3] = 0
	_, err = g.StepFrom(1, 0, p.InitialField(), trial)
	require.ErrorIs(t, err, ErrSingular)
	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 3, se.Node)
}

func TestGaussSeidelConfig(t *testing.T) {
	p := slab(10, 0.005, 1, 10, fire.Constant(1000))
	p.MaxIterations = 0
	_, err := NewGaussSeidelStepper(p)
	assert.ErrorIs(t, err, ErrConfig)

	p = slab(10, 0.005, 1, 10, fire.Constant(1000))
	g, err := NewGaussSeidelStepper(p)
	require.NoError(t, err)
	_, err = g.StepFrom(1, 0, p.InitialField(), make([]float64, 3))
	assert.ErrorIs(t, err, ErrConfig)
}

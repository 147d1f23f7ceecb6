package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKolmogorovSmirnov_IdenticalSamples(t *testing.T) {
	x := make([]float64, 100)
	for i := range x {
		x[i] = float64(i) * 0.3
	}
	y := append([]float64(nil), x...)

	d, p := KolmogorovSmirnov(x, y)
	assert.Zero(t, d)
	assert.Equal(t, 1.0, p)
}

func TestKolmogorovSmirnov_DisjointSamples(t *testing.T) {
	x := make([]float64, 100)
	y := make([]float64, 100)
	for i := range x {
		x[i] = float64(i)
		y[i] = 1000 + float64(i)
	}

	d, p := KolmogorovSmirnov(x, y)
	assert.Equal(t, 1.0, d)
	assert.Less(t, p, 1e-6)
}

func TestKolmogorovSmirnov_ShiftedSamples(t *testing.T) {
	x := make([]float64, 200)
	y := make([]float64, 200)
	for i := range x {
		x[i] = float64(i % 20)
		y[i] = float64(i%20) + 10
	}

	d, p := KolmogorovSmirnov(x, y)
	assert.InDelta(t, 0.5, d, 0.01)
	assert.Less(t, p, 0.001)
}

func TestKolmogorovSmirnov_UnsortedInputUntouched(t *testing.T) {
	x := []float64{5, 1, 3, 2, 4}
	y := []float64{2, 4, 1, 5, 3}

	d, _ := KolmogorovSmirnov(x, y)
	assert.Zero(t, d)
	// Inputs are copied before sorting.
	assert.Equal(t, []float64{5, 1, 3, 2, 4}, x)
}

func TestKolmogorovSmirnov_EmptySample(t *testing.T) {
	d, p := KolmogorovSmirnov(nil, []float64{1, 2, 3})
	assert.True(t, math.IsNaN(d))
	assert.True(t, math.IsNaN(p))
}

func TestChiSquare_SameDistribution(t *testing.T) {
	ref := make([]string, 200)
	cur := make([]string, 200)
	for i := range ref {
		if i%2 == 0 {
			ref[i], cur[i] = "a", "a"
		} else {
			ref[i], cur[i] = "b", "b"
		}
	}

	stat, p := ChiSquare(ref, cur)
	assert.Zero(t, stat)
	assert.InDelta(t, 1.0, p, 1e-9)
}

func TestChiSquare_CollapsedDistribution(t *testing.T) {
	ref := make([]string, 200)
	cur := make([]string, 200)
	for i := range ref {
		if i%2 == 0 {
			ref[i] = "a"
		} else {
			ref[i] = "b"
		}
		cur[i] = "a"
	}

	stat, p := ChiSquare(ref, cur)
	assert.Greater(t, stat, 10.0)
	assert.Less(t, p, 0.001)
}

func TestChiSquare_NewCategoryInWindow(t *testing.T) {
	ref := []string{"a", "a", "b", "b", "a", "b", "a", "b", "a", "b"}
	cur := []string{"a", "b", "c", "c", "c", "c", "c", "c", "c", "c"}

	stat, p := ChiSquare(ref, cur)
	assert.Greater(t, stat, 0.0)
	assert.Less(t, p, 0.05)
}

func TestChiSquare_SingleCategory(t *testing.T) {
	stat, p := ChiSquare([]string{"a", "a"}, []string{"a", "a"})
	assert.True(t, math.IsNaN(stat))
	assert.True(t, math.IsNaN(p))
}

func TestChiSquare_EmptySample(t *testing.T) {
	stat, p := ChiSquare(nil, []string{"a"})
	assert.True(t, math.IsNaN(stat))
	assert.True(t, math.IsNaN(p))
}

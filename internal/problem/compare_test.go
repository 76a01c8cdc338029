package problem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViolations(t *testing.T) {
	tests := []struct {
		name      string
		f         []float64
		nec       int
		tol       []float64
		wantCount int
		wantNorm  float64
	}{
		{
			name:      "no constraints",
			f:         []float64{1.5},
			nec:       0,
			tol:       nil,
			wantCount: 0,
			wantNorm:  0,
		},
		{
			name:      "all satisfied",
			f:         []float64{1, 0, -2},
			nec:       1,
			tol:       []float64{0, 0},
			wantCount: 0,
			wantNorm:  0,
		},
		{
			name:      "equality violated both signs",
			f:         []float64{1, -0.5, 0},
			nec:       2,
			tol:       []float64{0, 0},
			wantCount: 1,
			wantNorm:  0.5,
		},
		{
			name:      "inequality negative is satisfied",
			f:         []float64{1, -3},
			nec:       0,
			tol:       []float64{0},
			wantCount: 0,
			wantNorm:  0,
		},
		{
			name:      "tolerance absorbs small excess",
			f:         []float64{1, 0.05, 0.2},
			nec:       0,
			tol:       []float64{0.1, 0.1},
			wantCount: 1,
			wantNorm:  0.1,
		},
		{
			name:      "two violations norm",
			f:         []float64{1, 3, 4},
			nec:       0,
			tol:       []float64{0, 0},
			wantCount: 2,
			wantNorm:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, norm := Violations(tt.f, tt.nec, tt.tol)
			assert.Equal(t, tt.wantCount, count)
			assert.InDelta(t, tt.wantNorm, norm, 1e-12)
		})
	}
}

func TestLess(t *testing.T) {
	tol := []float64{0, 0}
	tests := []struct {
		name   string
		f1, f2 []float64
		nec    int
		want   bool
	}{
		{
			name: "both feasible lower objective wins",
			f1:   []float64{1, -1, -1},
			f2:   []float64{2, -1, -1},
			want: true,
		},
		{
			name: "both feasible higher objective loses",
			f1:   []float64{2, -1, -1},
			f2:   []float64{1, -1, -1},
			want: false,
		},
		{
			name: "feasible beats infeasible despite objective",
			f1:   []float64{100, -1, -1},
			f2:   []float64{1, 5, -1},
			want: true,
		},
		{
			name: "fewer violations wins",
			f1:   []float64{5, 1, -1},
			f2:   []float64{1, 1, 1},
			want: true,
		},
		{
			name: "equal count smaller norm wins",
			f1:   []float64{5, 1, -1},
			f2:   []float64{1, 2, -1},
			want: true,
		},
		{
			name: "equal fitness is not strictly better",
			f1:   []float64{1, -1, -1},
			f2:   []float64{1, -1, -1},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Less(tt.f1, tt.f2, tt.nec, tol))
		})
	}
}

func TestFeasible(t *testing.T) {
	assert.True(t, Feasible([]float64{3, 0, -1}, 1, []float64{0, 0}))
	assert.False(t, Feasible([]float64{3, 0.5, -1}, 1, []float64{0, 0}))
	assert.True(t, Feasible([]float64{math.Pi}, 0, nil))
}

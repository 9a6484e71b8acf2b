package flow

import (
	"math"
	"testing"
)

func TestFieldMagnitude(t *testing.T) {
	f := NewField(4, 4)
	f.U.Fill(3.0)
	f.V.Fill(-4.0)

	m := f.Magnitude()
	for y:=0; y<4; y++ {
		for x:=0; x<4; x++ {
			if math.Abs(m.Get(x,y) - 5.0) > 1e-12 {
				t.Errorf("(%d,%d): got %v, want 5.0", x, y, m.Get(x,y))
			}
		}
	}
}

func TestFieldMeanOver(t *testing.T) {
	f := NewField(6, 6)
	f.U.Fill(2.0)
	f.V.Fill(-1.0)

	// Poison the border ring; a margin of 1 must exclude it.
	for i:=0; i<6; i++ {
		f.U.Set(i, 0, 100.0)
		f.U.Set(i, 5, 100.0)
		f.U.Set(0, i, 100.0)
		f.U.Set(5, i, 100.0)
	}

	if u, v := f.MeanOver(1); u != 2.0 || v != -1.0 {
		t.Errorf("MeanOver(1): got (%v,%v), want (2,-1)", u, v)
	}

	// An over-large margin falls back to the whole grid.
	u, _ := f.MeanOver(10)
	if u <= 2.0 {
		t.Errorf("MeanOver(10) should cover the poisoned border, got u=%v", u)
	}
}

func TestStatsAccounting(t *testing.T) {
	s := Stats{Levels: []Result{
		{Iterations: 40, Residual: 5e-5, Converged: true},
		{Iterations: 1000, Residual: 2e-3, Converged: false},
	}}

	if got := s.TotalIterations(); got != 1040 {
		t.Errorf("TotalIterations: got %d, want 1040", got)
	}
	if s.AllConverged() {
		t.Errorf("AllConverged should be false with a capped level")
	}

	s.Levels[1].Converged = true
	if !s.AllConverged() {
		t.Errorf("AllConverged should be true now")
	}

	r := Result{Iterations: 12, Residual: 9e-5, Converged: true}
	if got := r.String(); got != "converged after 12 iters (residual 9e-05)" {
		t.Errorf("Result.String: got %q", got)
	}
	r.Converged = false
	if got := r.String(); got != "capped after 12 iters (residual 9e-05)" {
		t.Errorf("Result.String: got %q", got)
	}
}

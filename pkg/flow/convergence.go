package flow

import "fmt"

// Convergence is the solver's stopping policy. The fixed-point loop
// exits once the mean per-cell step norm drops below Tolerance, or
// unconditionally after MaxIterations.
type Convergence struct {
	MaxIterations int
	Tolerance     float64
}

func DefaultConvergence() Convergence {
	return Convergence{MaxIterations: 1000, Tolerance: 1e-4}
}

// Result reports how one solver invocation went. Hitting the iteration
// cap is not an error - the best available estimate is still returned -
// but callers may want to retry with a looser policy or different
// alpha, so the condition is surfaced here.
type Result struct {
	Iterations int
	Residual   float64
	Converged  bool
}

func (r Result)String() string {
	state := "converged"
	if !r.Converged {
		state = "capped"
	}
	return fmt.Sprintf("%s after %d iters (residual %.2g)", state, r.Iterations, r.Residual)
}

// Stats collects the per-level solver results of one Estimate call,
// coarsest level first.
type Stats struct {
	Levels []Result
}

func (s Stats)TotalIterations() int {
	n := 0
	for _, r := range s.Levels {
		n += r.Iterations
	}
	return n
}

func (s Stats)AllConverged() bool {
	for _, r := range s.Levels {
		if !r.Converged {
			return false
		}
	}
	return true
}

func (s Stats)String() string {
	str := fmt.Sprintf("%d levels, %d iterations total", len(s.Levels), s.TotalIterations())
	for i, r := range s.Levels {
		str += fmt.Sprintf("; L%d %s", len(s.Levels)-1-i, r)
	}
	return str
}

package flow

// The fixed-point solver for the Horn-Schunck (L2 data + L2
// smoothness) energy at a single resolution. Given an image pair and a
// prior flow estimate, it linearizes the intensity constancy equation
// around the prior-warped current image and iterates the discretized
// Euler-Lagrange update until the step norm stalls below tolerance.

import (
	"fmt"
	"log"
	"math"

	"mriflow/pkg/fmath"
)

type Solver struct {
	Alpha  float64 // regularization weight, > 0
	Conv   Convergence
	Warper Warper
}

func NewSolver(alpha float64) (*Solver, error) {
	if err := validAlpha(alpha); err != nil {
		return nil, err
	}
	return &Solver{
		Alpha:  alpha,
		Conv:   DefaultConvergence(),
		Warper: defaultWarper(),
	}, nil
}

func validAlpha(alpha float64) error {
	if !(alpha > 0) || math.IsInf(alpha, 0) {
		return fmt.Errorf("flow: alpha must be a positive finite number, got %v: %w", alpha, ErrInvalidParameter)
	}
	return nil
}

// Solve estimates the flow correction between iref and the
// prior-warped icur. The returned field is the correction relative to
// the prior; the pyramid controller accumulates corrections across
// levels, so a caller with no prior passes zero fields and gets the
// total flow back.
func (s *Solver)Solve(iref, icur fmath.Grid, prior Field) (Field, Result, error) {
	if err := validAlpha(s.Alpha); err != nil {
		return Field{}, Result{}, err
	}
	if s.Conv.MaxIterations < 1 {
		return Field{}, Result{}, fmt.Errorf("flow: MaxIterations %d: %w", s.Conv.MaxIterations, ErrInvalidParameter)
	}
	for _, c := range []struct{ name string; g fmath.Grid }{
		{"icur", icur}, {"prior u", prior.U}, {"prior v", prior.V},
	} {
		if err := checkSameDims("iref", iref, c.name, c.g); err != nil {
			return Field{}, Result{}, err
		}
	}
	for _, c := range []struct{ name string; g fmath.Grid }{
		{"iref", iref}, {"icur", icur}, {"prior u", prior.U}, {"prior v", prior.V},
	} {
		if err := checkFinite(c.name, c.g); err != nil {
			return Field{}, Result{}, err
		}
	}

	width := iref.Dx()
	height := iref.Dy()

	// Motion-compensate the current image by the prior, once. The loop
	// below refines a correction on top of this linearization point.
	ireg, err := s.warper().Warp(icur, prior.U, prior.V)
	if err != nil {
		return Field{}, Result{}, fmt.Errorf("flow: warp by prior: %v", err)
	}

	// Smoothness contribution of the prior: 3x3 box average minus the
	// field itself, a discrete Laplacian. Convolution pads with zeros,
	// so the border ring is rebuilt by replication afterwards.
	laplU := prior.U.BoxFilter3()
	laplV := prior.V.BoxFilter3()
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			laplU.Set(x, y, laplU.Get(x,y) - prior.U.Get(x,y))
			laplV.Set(x, y, laplV.Get(x,y) - prior.V.Get(x,y))
		}
	}
	laplU.ReplicateBorder()
	laplV.ReplicateBorder()

	ix, iy, it, denom := s.linearize(iref, ireg)

	// Fixed-point iteration on the correction (uk, vk), starting from
	// zero. Each pass is a Jacobi step: every cell reads only the
	// previous iterate and the precomputed per-cell constants.
	uk := iref.NewFromThis()
	vk := iref.NewFromThis()
	res := Result{}

	for n:=1; n<=s.Conv.MaxIterations; n++ {
		meanX := uk.BoxFilter3()
		meanY := vk.BoxFilter3()
		for y:=0; y<height; y++ {
			for x:=0; x<width; x++ {
				meanX.Set(x, y, meanX.Get(x,y) + laplU.Get(x,y))
				meanY.Set(x, y, meanY.Get(x,y) + laplV.Get(x,y))
			}
		}
		meanX.ReplicateBorder()
		meanY.ReplicateBorder()

		stepSum := 0.0
		for y:=0; y<height; y++ {
			for x:=0; x<width; x++ {
				mx := meanX.Get(x,y)
				my := meanY.Get(x,y)
				phi := (mx*ix.Get(x,y) + my*iy.Get(x,y) + it.Get(x,y)) / denom.Get(x,y)

				nu := mx - ix.Get(x,y)*phi
				nv := my - iy.Get(x,y)*phi

				du := nu - uk.Get(x,y)
				dv := nv - vk.Get(x,y)
				stepSum += math.Sqrt(du*du + dv*dv)

				meanX.Set(x, y, nu)
				meanY.Set(x, y, nv)
			}
		}
		uk, vk = meanX, meanY

		res.Iterations = n
		res.Residual = stepSum / float64(width*height)
		if res.Residual < s.Conv.Tolerance {
			res.Converged = true
			break
		}
	}

	if !res.Converged {
		log.Printf("flow: solve capped at %d iterations, residual %g (tolerance %g)\n",
			res.Iterations, res.Residual, s.Conv.Tolerance)
	}

	return Field{U: uk, V: vk}, res, nil
}

func (s *Solver)warper() Warper {
	if s.Warper == nil {
		s.Warper = defaultWarper()
	}
	return s.Warper
}

// linearize builds the per-cell constants of the fixed-point update:
// central-difference gradients of the warped image (border ring
// replicated), the temporal difference, and the always-positive
// denominator alpha + Ix^2 + Iy^2.
func (s *Solver)linearize(iref, ireg fmath.Grid) (ix, iy, it, denom fmath.Grid) {
	width := iref.Dx()
	height := iref.Dy()

	ix, iy = ireg.CentralGradients()
	ix.ReplicateBorder()
	iy.ReplicateBorder()

	// It is a pointwise difference - no convolution, no border bias,
	// so no replication pass.
	it = iref.NewFromThis()
	denom = iref.NewFromThis()
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			it.Set(x, y, ireg.Get(x,y) - iref.Get(x,y))
			denom.Set(x, y, s.Alpha + ix.Get(x,y)*ix.Get(x,y) + iy.Get(x,y)*iy.Get(x,y))
		}
	}
	return
}

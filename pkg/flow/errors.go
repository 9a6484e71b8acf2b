package flow

import (
	"errors"
	"fmt"

	"mriflow/pkg/fmath"
)

// Structural failures surfaced by Estimate and Solve. Match with
// errors.Is; every returned error wraps one of these with context.
var (
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNonFinite        = errors.New("non-finite value")
)

func checkFinite(name string, g fmath.Grid) error {
	if x, y, bad := g.FindNonFinite(); bad {
		return fmt.Errorf("flow: %s has NaN/Inf at (%d,%d): %w", name, x, y, ErrNonFinite)
	}
	return nil
}

func checkSameDims(aName string, a fmath.Grid, bName string, b fmath.Grid) error {
	if !a.SameDims(b) {
		return fmt.Errorf("flow: %s is %dx%d but %s is %dx%d: %w",
			aName, a.Dx(), a.Dy(), bName, b.Dx(), b.Dy(), ErrShapeMismatch)
	}
	return nil
}

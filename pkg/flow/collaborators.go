package flow

// The two collaborator contracts the core consumes. Both are pure
// functions over grids; the implementations in pkg/interp are the
// defaults, but callers can swap in their own (tests do).

import(
	"mriflow/pkg/fmath"
	"mriflow/pkg/interp"
)

// A Resampler rescales a grid to the given dimensions. Flow fields and
// images both go through it; the x2 displacement compensation when
// moving between pyramid levels is the Estimator's job, not the
// Resampler's. Resizing to a grid's own dimensions must be an exact
// copy.
type Resampler interface {
	Resize(g fmath.Grid, w, h int) (fmath.Grid, error)
}

// A Warper backward-warps img by the displacement field (u, v),
// sampling img at (x + u(x,y), y + v(x,y)). The output matches the
// dimensions of u and v.
type Warper interface {
	Warp(img, u, v fmath.Grid) (fmath.Grid, error)
}

func defaultResampler() Resampler { return interp.CatmullRom{} }
func defaultWarper() Warper       { return interp.Bilinear{} }

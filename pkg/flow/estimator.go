package flow

// The pyramid controller. Runs the fixed-point solver coarse-to-fine:
// motion that is too large for the solver's linearization at full
// resolution is only a fraction of a pixel at the coarsest level, so
// each level hands the next a warm start that keeps the linearization
// honest. The accumulated field is refined by addition at every level,
// never replaced.

import(
	"fmt"

	"mriflow/pkg/fmath"
)

type Estimator struct {
	Alpha     float64 // regularization weight, > 0
	Levels    int     // pyramid depth, >= 1; level k runs at 1/2^k resolution
	Conv      Convergence
	Resampler Resampler
	Warper    Warper
	DumpGrids bool    // write greyscale PNGs of the per-level grids
}

func NewEstimator(alpha float64, levels int) (*Estimator, error) {
	if err := validAlpha(alpha); err != nil {
		return nil, err
	}
	if levels < 1 {
		return nil, fmt.Errorf("flow: levels must be >= 1, got %d: %w", levels, ErrInvalidParameter)
	}
	return &Estimator{
		Alpha:     alpha,
		Levels:    levels,
		Conv:      DefaultConvergence(),
		Resampler: defaultResampler(),
		Warper:    defaultWarper(),
	}, nil
}

// Estimate computes the dense flow field that warps icur onto iref,
// plus the registered (motion-compensated) image and the per-level
// convergence stats. Structural problems - mismatched shapes, level
// dimensions that don't divide evenly, non-finite samples - fail the
// call before any iteration runs.
func (e *Estimator)Estimate(iref, icur fmath.Grid) (fmath.Grid, Field, Stats, error) {
	if err := validAlpha(e.Alpha); err != nil {
		return fmath.Grid{}, Field{}, Stats{}, err
	}
	if e.Levels < 1 {
		return fmath.Grid{}, Field{}, Stats{}, fmt.Errorf("flow: levels must be >= 1, got %d: %w", e.Levels, ErrInvalidParameter)
	}
	if err := checkSameDims("iref", iref, "icur", icur); err != nil {
		return fmath.Grid{}, Field{}, Stats{}, err
	}

	coarsest := 1 << (e.Levels - 1)
	if iref.Dx()%coarsest != 0 || iref.Dy()%coarsest != 0 {
		return fmath.Grid{}, Field{}, Stats{}, fmt.Errorf("flow: %dx%d images don't divide into %d pyramid levels (coarsest scale %d): %w",
			iref.Dx(), iref.Dy(), e.Levels, coarsest, ErrShapeMismatch)
	}

	if err := checkFinite("iref", iref); err != nil {
		return fmath.Grid{}, Field{}, Stats{}, err
	}
	if err := checkFinite("icur", icur); err != nil {
		return fmath.Grid{}, Field{}, Stats{}, err
	}

	solver := Solver{Alpha: e.Alpha, Conv: e.Conv, Warper: e.warper()}

	u := fmath.NewGrid(iref.Dx()/coarsest, iref.Dy()/coarsest)
	v := u.NewFromThis()
	stats := Stats{}

	for k := e.Levels - 1; k >= 0; k-- {
		scale := 1 << k
		width := iref.Dx() / scale
		height := iref.Dy() / scale

		levelRef, levelCur := iref, icur

		if e.Levels > 1 {
			// Bring the accumulated field up to this level's resolution. A
			// displacement of one cell in the coarser grid spans two cells
			// here, so the resampled values are doubled.
			var err error
			if u, err = e.resampler().Resize(u, width, height); err != nil {
				return fmath.Grid{}, Field{}, Stats{}, fmt.Errorf("flow: resize u to %dx%d: %v", width, height, err)
			}
			if v, err = e.resampler().Resize(v, width, height); err != nil {
				return fmath.Grid{}, Field{}, Stats{}, fmt.Errorf("flow: resize v to %dx%d: %v", width, height, err)
			}
			for y:=0; y<height; y++ {
				for x:=0; x<width; x++ {
					u.Set(x, y, 2.0*u.Get(x,y))
					v.Set(x, y, 2.0*v.Get(x,y))
				}
			}

			if levelRef, err = e.resampler().Resize(iref, width, height); err != nil {
				return fmath.Grid{}, Field{}, Stats{}, fmt.Errorf("flow: resize iref to %dx%d: %v", width, height, err)
			}
			if levelCur, err = e.resampler().Resize(icur, width, height); err != nil {
				return fmath.Grid{}, Field{}, Stats{}, fmt.Errorf("flow: resize icur to %dx%d: %v", width, height, err)
			}
		}

		e.maybeDumpGrid(levelRef, fmt.Sprintf("L%d ref %s", k, levelRef.Stats()), fmt.Sprintf("flow-L%02d-ref.png", k))
		e.maybeDumpGrid(levelCur, fmt.Sprintf("L%d cur %s", k, levelCur.Stats()), fmt.Sprintf("flow-L%02d-cur.png", k))

		correction, res, err := solver.Solve(levelRef, levelCur, Field{U: u, V: v})
		if err != nil {
			return fmath.Grid{}, Field{}, Stats{}, fmt.Errorf("flow: level %d (%dx%d): %w", k, width, height, err)
		}
		stats.Levels = append(stats.Levels, res)

		for y:=0; y<height; y++ {
			for x:=0; x<width; x++ {
				u.Set(x, y, u.Get(x,y) + correction.U.Get(x,y))
				v.Set(x, y, v.Get(x,y) + correction.V.Get(x,y))
			}
		}

		e.maybeDumpGrid(u, fmt.Sprintf("L%d u %s", k, u.Stats()), fmt.Sprintf("flow-L%02d-u.png", k))
		e.maybeDumpGrid(v, fmt.Sprintf("L%d v %s", k, v.Stats()), fmt.Sprintf("flow-L%02d-v.png", k))
	}

	ireg, err := e.warper().Warp(icur, u, v)
	if err != nil {
		return fmath.Grid{}, Field{}, Stats{}, fmt.Errorf("flow: final warp: %v", err)
	}

	return ireg, Field{U: u, V: v}, stats, nil
}

// The collaborator fields default lazily, so a zero-value-ish Estimator
// built by hand still works.
func (e *Estimator)resampler() Resampler {
	if e.Resampler == nil {
		e.Resampler = defaultResampler()
	}
	return e.Resampler
}

func (e *Estimator)warper() Warper {
	if e.Warper == nil {
		e.Warper = defaultWarper()
	}
	return e.Warper
}

func (e *Estimator)maybeDumpGrid(g fmath.Grid, comment, filename string) {
	if e.DumpGrids {
		g.ToImg(comment, filename)
	}
}

package flow

import (
	"math"

	"mriflow/pkg/fmath"
)

// A Field is a dense displacement field: U holds the horizontal
// displacement per cell, V the vertical. A field always matches the
// dimensions of the image pair it was estimated from.
type Field struct {
	U fmath.Grid
	V fmath.Grid
}

func NewField(w, h int) Field {
	return Field{U: fmath.NewGrid(w, h), V: fmath.NewGrid(w, h)}
}

func (f *Field)Dx() int { return f.U.Dx() }
func (f *Field)Dy() int { return f.U.Dy() }

// Magnitude returns the per-cell Euclidean displacement length.
func (f *Field)Magnitude() fmath.Grid {
	m := f.U.NewFromThis()
	for y:=0; y<f.Dy(); y++ {
		for x:=0; x<f.Dx(); x++ {
			u := f.U.Get(x,y)
			v := f.V.Get(x,y)
			m.Set(x, y, math.Sqrt(u*u + v*v))
		}
	}
	return m
}

// MeanOver averages (u, v) over the grid with `margin` cells shaved
// off each side, where border effects don't muddy the estimate.
func (f *Field)MeanOver(margin int) (float64, float64) {
	x0, y0 := margin, margin
	x1, y1 := f.Dx()-margin, f.Dy()-margin
	if x1 <= x0 || y1 <= y0 {
		x0, y0, x1, y1 = 0, 0, f.Dx(), f.Dy()
	}

	uSum, vSum := 0.0, 0.0
	for y:=y0; y<y1; y++ {
		for x:=x0; x<x1; x++ {
			uSum += f.U.Get(x,y)
			vSum += f.V.Get(x,y)
		}
	}
	n := float64((x1-x0) * (y1-y0))
	return uSum/n, vSum/n
}

package interp

// The Resampler collaborator: cubic rescaling of float grids, built on
// the Catmull-Rom kernel that x/image/draw exposes. The kernel is
// evaluated directly against the float64 samples, so solver data never
// gets squeezed through a 16-bit image on its way between pyramid
// levels.

import(
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"      // replace by "image/draw" at some point

	"mriflow/pkg/fmath"
)

type CatmullRom struct{}

// Resize scales g to w x h. Resizing to the grid's own dimensions is
// an exact copy, no kernel involved.
func (cr CatmullRom)Resize(g fmath.Grid, w, h int) (fmath.Grid, error) {
	if w < 1 || h < 1 {
		return fmath.Grid{}, fmt.Errorf("interp: resize target %dx%d", w, h)
	}
	if w == g.Dx() && h == g.Dy() {
		return *g.Copy(), nil
	}

	T := resampleRows(g, w)
	return resampleCols(T, h), nil
}

// resampleRows rescales horizontally, producing a w x g.Dy() grid.
func resampleRows(g fmath.Grid, w int) fmath.Grid {
	out := fmath.NewGrid(w, g.Dy())
	taps := kernelTaps(g.Dx(), w)

	for y:=0; y<g.Dy(); y++ {
		for x:=0; x<w; x++ {
			tap := taps[x]
			acc := 0.0
			for i, wgt := range tap.weights {
				acc += wgt * g.Get(tap.first+i, y)
			}
			out.Set(x, y, acc)
		}
	}
	return out
}

// resampleCols rescales vertically, producing a g.Dx() x h grid.
func resampleCols(g fmath.Grid, h int) fmath.Grid {
	out := fmath.NewGrid(g.Dx(), h)
	taps := kernelTaps(g.Dy(), h)

	for y:=0; y<h; y++ {
		tap := taps[y]
		for x:=0; x<g.Dx(); x++ {
			acc := 0.0
			for i, wgt := range tap.weights {
				acc += wgt * g.Get(x, tap.first+i)
			}
			out.Set(x, y, acc)
		}
	}
	return out
}

type tapSet struct {
	first   int
	weights []float64
}

// kernelTaps precomputes, for each of dstN destination samples, the
// source window and normalized kernel weights. The window is clamped
// to the source range and the kernel widened by the scale factor when
// minifying - the same contributor scheme draw.Kernel.Scale uses.
func kernelTaps(srcN, dstN int) []tapSet {
	q := draw.CatmullRom
	scale := float64(srcN) / float64(dstN)

	halfWidth := q.Support
	argScale := 1.0
	if scale > 1.0 {
		halfWidth *= scale
		argScale = 1.0 / scale
	}

	taps := make([]tapSet, dstN)
	for d:=0; d<dstN; d++ {
		center := (float64(d)+0.5)*scale - 0.5

		lo := int(math.Floor(center - halfWidth))
		if lo < 0 { lo = 0 }
		hi := int(math.Ceil(center + halfWidth))
		if hi > srcN-1 { hi = srcN-1 }

		weights := make([]float64, hi-lo+1)
		sum := 0.0
		for s:=lo; s<=hi; s++ {
			wgt := 0.0
			if t := math.Abs((float64(s) - center) * argScale); t < q.Support {
				wgt = q.At(t)
			}
			weights[s-lo] = wgt
			sum += wgt
		}
		for i := range weights {
			weights[i] /= sum
		}

		taps[d] = tapSet{first: lo, weights: weights}
	}
	return taps
}

// ResizeImage rescales a plain image, for display output. Solver grids
// go through Resize instead.
func ResizeImage(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

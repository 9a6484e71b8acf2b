package interp

// The Warper collaborator: backward warping of a grid by a flow field.
//
// Sign convention, fixed here and relied on by the solver's
// linearization: the output at (x,y) samples the input at
// (x + u(x,y), y + v(x,y)). A flow field therefore describes where the
// reference content has moved to in the current frame, and warping the
// current frame by that field brings it back onto the reference.

import(
	"fmt"

	"mriflow/pkg/fmath"
)

type Bilinear struct{}

// Warp backward-warps img by (u,v), bilinearly interpolating between
// the four surrounding samples. Sample positions outside the grid
// clamp to the edge, so no zeros bleed in at the borders.
func (bl Bilinear)Warp(img, u, v fmath.Grid) (fmath.Grid, error) {
	if !img.SameDims(u) || !img.SameDims(v) {
		return fmath.Grid{}, fmt.Errorf("interp: warp dims img=%dx%d u=%dx%d v=%dx%d",
			img.Dx(), img.Dy(), u.Dx(), u.Dy(), v.Dx(), v.Dy())
	}

	width := img.Dx()
	height := img.Dy()
	out := img.NewFromThis()

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			sx := float64(x) + u.Get(x,y)
			sy := float64(y) + v.Get(x,y)

			if sx < 0 { sx = 0 }
			if sy < 0 { sy = 0 }
			if sx > float64(width-1)  { sx = float64(width-1) }
			if sy > float64(height-1) { sy = float64(height-1) }

			xl := int(sx)
			yl := int(sy)
			xr := sx - float64(xl)
			yr := sy - float64(yl)

			xh := xl+1
			yh := yl+1
			if xh > width-1  { xh = width-1 }
			if yh > height-1 { yh = height-1 }

			vl := img.Get(xl,yl)*(1.0-xr) + img.Get(xh,yl)*xr
			vh := img.Get(xl,yh)*(1.0-xr) + img.Get(xh,yh)*xr
			out.Set(x, y, vl*(1.0-yr) + vh*yr)
		}
	}

	return out, nil
}

package interp

// Affine grid transforms, used to synthesize test and demo frames with
// a known motion between them. These round-trip through a 16-bit
// grayscale image so they can lean on draw.CatmullRom.Transform;
// that's plenty of precision for generating inputs, but solver-side
// resampling goes through Resize, which never quantizes.

import(
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"mriflow/pkg/fmath"
)

// TransformGrid applies m (a source-to-destination affine map) to the
// grid. Destination samples that m leaves uncovered take the grid's
// minimum value.
func TransformGrid(g fmath.Grid, m fmath.Aff3) fmath.Grid {
	min, max := g.MinMax()
	span := max - min
	if span == 0.0 { span = 1.0 }

	src := image.NewGray16(image.Rect(0, 0, g.Dx(), g.Dy()))
	for y:=0; y<g.Dy(); y++ {
		for x:=0; x<g.Dx(); x++ {
			v := (g.Get(x,y) - min) / span
			src.SetGray16(x, y, color.Gray16{Y: uint16(v * 65535.0)})
		}
	}

	dst := image.NewGray16(src.Bounds())
	draw.CatmullRom.Transform(dst, f64.Aff3(m), src, src.Bounds(), draw.Src, nil)

	out := g.NewFromThis()
	for y:=0; y<g.Dy(); y++ {
		for x:=0; x<g.Dx(); x++ {
			v := float64(dst.Gray16At(x,y).Y) / 65535.0
			out.Set(x, y, v*span + min)
		}
	}
	return out
}

// TranslateGrid shifts the grid's content by (dx, dy): the feature at
// (x, y) ends up at (x+dx, y+dy).
func TranslateGrid(g fmath.Grid, dx, dy float64) fmath.Grid {
	return TransformGrid(g, fmath.Identity().Translate(dx, dy))
}

// RotateGrid rotates the grid's content by thetaDeg about (cx, cy).
func RotateGrid(g fmath.Grid, thetaDeg, cx, cy float64) fmath.Grid {
	return TransformGrid(g, fmath.RotateAbout(thetaDeg, cx, cy))
}

package render

import(
	"image"
	"image/color"

	"mriflow/pkg/fmath"
)

// GridToGray16 windows the grid's value range onto 16-bit grayscale.
// A constant grid comes out black.
func GridToGray16(g fmath.Grid) *image.Gray16 {
	lo, hi := g.MinMax()
	span := hi - lo
	if span == 0 { span = 1 }

	img := image.NewGray16(image.Rect(0, 0, g.Dx(), g.Dy()))
	for y:=0; y<g.Dy(); y++ {
		for x:=0; x<g.Dx(); x++ {
			v := (g.Get(x,y) - lo) / span
			img.SetGray16(x, y, color.Gray16{Y: uint16(v*65535.0 + 0.5)})
		}
	}
	return img
}

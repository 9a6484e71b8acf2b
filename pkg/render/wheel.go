package render

import(
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"mriflow/pkg/flow"
)

// FlowWheel renders a displacement field with the usual color-wheel
// encoding: hue is the direction the cell moved, saturation is its
// magnitude relative to the largest in the field. Still cells come out
// white.
func FlowWheel(fld flow.Field) image.Image {
	width, height := fld.U.Dx(), fld.U.Dy()

	maxMag := 0.0
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			if m := math.Hypot(fld.U.Get(x,y), fld.V.Get(x,y)); m > maxMag {
				maxMag = m
			}
		}
	}
	if maxMag == 0 { maxMag = 1 }

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			u := fld.U.Get(x,y)
			v := fld.V.Get(x,y)

			deg := math.Atan2(v, u) * 180.0 / math.Pi
			if deg < 0 { deg += 360 }

			img.Set(x, y, colorful.Hsv(deg, math.Hypot(u,v)/maxMag, 1))
		}
	}
	return img
}

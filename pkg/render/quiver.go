package render

import(
	"math"

	"image"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"mriflow/pkg/flow"
	"mriflow/pkg/fmath"
)

// Quiver draws the field as arrows over the background frame, one
// arrow every step cells, colored by direction to match FlowWheel.
// Arrows are scaled so the longest one spans about step pixels.
func Quiver(bg fmath.Grid, fld flow.Field, step int) image.Image {
	if step < 1 { step = 8 }

	dc := gg.NewContextForImage(GridToGray16(bg))
	dc.SetLineWidth(1)

	maxMag := 0.0
	for y:=0; y<bg.Dy(); y++ {
		for x:=0; x<bg.Dx(); x++ {
			if m := math.Hypot(fld.U.Get(x,y), fld.V.Get(x,y)); m > maxMag {
				maxMag = m
			}
		}
	}
	if maxMag == 0 {
		return dc.Image() // nothing moved; just the background
	}
	scale := float64(step) / maxMag

	for y:=step/2; y<bg.Dy(); y+=step {
		for x:=step/2; x<bg.Dx(); x+=step {
			u := fld.U.Get(x,y)
			v := fld.V.Get(x,y)
			if math.Hypot(u, v)*scale < 0.5 {
				continue // sub-pixel arrow, not worth the ink
			}

			deg := math.Atan2(v, u) * 180.0 / math.Pi
			if deg < 0 { deg += 360 }
			dc.SetColor(colorful.Hsv(deg, 1, 1))

			drawArrow(dc, float64(x), float64(y), float64(x)+u*scale, float64(y)+v*scale)
		}
	}
	return dc.Image()
}

func drawArrow(dc *gg.Context, x0, y0, x1, y1 float64) {
	dc.DrawLine(x0, y0, x1, y1)
	dc.Stroke()

	ang := math.Atan2(y1-y0, x1-x0)
	headLen := math.Min(4, math.Hypot(x1-x0, y1-y0)*0.4)
	for _, da := range []float64{ang + 2.6, ang - 2.6} {
		dc.DrawLine(x1, y1, x1 + headLen*math.Cos(da), y1 + headLen*math.Sin(da))
		dc.Stroke()
	}
}

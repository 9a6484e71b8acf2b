package render

import(
	"image"

	"github.com/fogleman/gg"
)

// Montage lays panels out side by side on a black strip, with a label
// under each one. Handy for ref / current / registered / diff
// comparisons.
func Montage(panels []image.Image, labels []string) image.Image {
	const pad = 4
	const labelHeight = 16

	w, h := 0, 0
	for _, p := range panels {
		if p.Bounds().Dx() > w { w = p.Bounds().Dx() }
		if p.Bounds().Dy() > h { h = p.Bounds().Dy() }
	}

	dc := gg.NewContext(pad + len(panels)*(w+pad), h + labelHeight + 2*pad)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	for i, p := range panels {
		dc.DrawImage(p, pad + i*(w+pad), pad)
	}

	dc.SetRGB(1, 1, 1)
	for i, label := range labels {
		if i >= len(panels) { break }
		dc.DrawString(label, float64(pad + i*(w+pad)), float64(pad + h + 12))
	}

	return dc.Image()
}

package render

import(
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"

	"mriflow/pkg/fmath"
)

// GrayGrid presents a float grid as a grey HDR image, so the tone
// mapping operators and the Radiance codec can consume grids directly,
// whatever their value range.
type GrayGrid struct {
	Grid fmath.Grid
}

// Implement image.Image
func (gr GrayGrid)ColorModel() color.Model { return hdrcolor.RGBModel }
func (gr GrayGrid)Bounds() image.Rectangle {
	return image.Rectangle{Max: image.Point{gr.Grid.Dx(), gr.Grid.Dy()}}
}
func (gr GrayGrid)At(x, y int) color.Color { return gr.HDRAt(x, y) }

// Implement hdr.Image
func (gr GrayGrid)HDRAt(x, y int) hdrcolor.Color {
	v := gr.Grid.Get(x, y)
	return hdrcolor.RGB{R: v, G: v, B: v}
}
func (gr GrayGrid)Size() int { return gr.Grid.Dx() * gr.Grid.Dy() }

// WriteHDR outputs a grid as a Radiance image, keeping the full float
// range. You can load this into photoshop or other HDR tools.
func WriteHDR(g fmath.Grid, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("WriteHDR, open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return rgbe.Encode(writer, GrayGrid{g})
	}
}

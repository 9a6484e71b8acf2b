package render

import(
	"image"

	"mriflow/pkg/fmath"
)

// DiffGrid is the pointwise absolute difference between two frames -
// the image whose mean the MAD metric reports.
func DiffGrid(a, b fmath.Grid) fmath.Grid {
	d := a.NewFromThis()
	for y:=0; y<a.Dy(); y++ {
		for x:=0; x<a.Dx(); x++ {
			v := a.Get(x,y) - b.Get(x,y)
			if v < 0 { v = -v }
			d.Set(x, y, v)
		}
	}
	return d
}

// DiffImage renders |a-b| windowed to grayscale, for eyeballing where
// the registration still disagrees.
func DiffImage(a, b fmath.Grid) image.Image {
	return GridToGray16(DiffGrid(a, b))
}

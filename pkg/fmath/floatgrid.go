package fmath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// A Grid is a dense 2D grid of float64 samples, with the operations
// the flow solver needs. Sample (x,y) lives at values[stride*y + x].
type Grid struct {
	stride int
	values []float64
}

func NewGrid(w, h int) Grid {
	return Grid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (g1 *Grid)NewFromThis() Grid          { return NewGrid(g1.Dx(), g1.Dy()) }
func (g *Grid)Set(x, y int, v float64)     { g.values[g.stride*y + x] = v }
func (g *Grid)Get(x, y int) float64        { return g.values[g.stride*y + x] }
func (g *Grid)Dx() int                     { return g.stride }
func (g *Grid)Dy() int                     { return len(g.values) / g.stride }

func (g1 *Grid)Copy() *Grid {
	g2 := Grid{stride: g1.stride, values: make([]float64, len(g1.values))}
	copy(g2.values, g1.values)
	return &g2
}

func (g *Grid)Fill(v float64) {
	for i:=0; i<len(g.values); i++ {
		g.values[i] = v
	}
}

// SameDims is true when both grids have identical width and height.
func (g *Grid)SameDims(o Grid) bool {
	return g.Dx() == o.Dx() && g.Dy() == o.Dy()
}

// FindNonFinite reports the location of the first NaN or Inf sample,
// if the grid holds one.
func (g *Grid)FindNonFinite() (int, int, bool) {
	for i:=0; i<len(g.values); i++ {
		if v := g.values[i]; math.IsNaN(v) || math.IsInf(v, 0) {
			return i % g.stride, i / g.stride, true
		}
	}
	return 0, 0, false
}

func (g *Grid)MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0 * min

	for i:=0; i<len(g.values); i++ {
		if g.values[i] > max { max = g.values[i] }
		if g.values[i] < min { min = g.values[i] }
	}
	return min, max
}

func (g *Grid)Mean() float64 {
	sum := 0.0
	for i:=0; i<len(g.values); i++ {
		sum += g.values[i]
	}
	return sum / float64(len(g.values))
}

// MAD is the mean absolute difference between two same-size grids -
// the registration quality metric.
func MAD(a, b Grid) float64 {
	sum := 0.0
	for y:=0; y<a.Dy(); y++ {
		for x:=0; x<a.Dx(); x++ {
			sum += math.Abs(a.Get(x,y) - b.Get(x,y))
		}
	}
	return sum / float64(a.Dx()*a.Dy())
}

// BoxFilter3 convolves with the normalized 3x3 box kernel (ones/9).
// Samples outside the grid count as zero; callers that need Neumann
// behaviour follow up with ReplicateBorder, which overwrites the
// zero-biased outermost ring.
func (g1 *Grid)BoxFilter3() Grid {
	width := g1.Dx()
	height := g1.Dy()
	g2 := g1.NewFromThis()

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			t := 0.0
			for dy:=-1; dy<=1; dy++ {
				for dx:=-1; dx<=1; dx++ {
					xx := x+dx
					yy := y+dy
					if xx < 0 || xx >= width || yy < 0 || yy >= height { continue }
					t += g1.Get(xx, yy)
				}
			}
			g2.Set(x, y, t/9.0)
		}
	}

	return g2
}

// ReplicateBorder overwrites the outermost ring with its interior
// neighbours: row 0 := row 1, last row := second-last, same for
// columns, and the 4 corners := their diagonal interior neighbours.
// Grids smaller than 3x3 have no interior to replicate from and are
// left alone.
func (g *Grid)ReplicateBorder() {
	width := g.Dx()
	height := g.Dy()
	if width < 3 || height < 3 { return }

	for x:=0; x<width; x++ {
		g.Set(x, 0,        g.Get(x, 1))
		g.Set(x, height-1, g.Get(x, height-2))
	}
	for y:=0; y<height; y++ {
		g.Set(0, y,        g.Get(1, y))
		g.Set(width-1, y,  g.Get(width-2, y))
	}

	g.Set(0, 0,               g.Get(1, 1))
	g.Set(width-1, 0,         g.Get(width-2, 1))
	g.Set(0, height-1,        g.Get(1, height-2))
	g.Set(width-1, height-1,  g.Get(width-2, height-2))
}

// CentralGradients returns the horizontal and vertical derivative
// grids, via central differences wherever both neighbours exist. The
// outermost ring is left zero; the caller is expected to apply
// ReplicateBorder to both results.
func (g *Grid)CentralGradients() (Grid, Grid) {
	width := g.Dx()
	height := g.Dy()
	gx := g.NewFromThis()
	gy := g.NewFromThis()

	for y:=0; y<height; y++ {
		for x:=1; x<width-1; x++ {
			gx.Set(x, y, (g.Get(x+1,y) - g.Get(x-1,y)) / 2.0)
		}
	}
	for y:=1; y<height-1; y++ {
		for x:=0; x<width; x++ {
			gy.Set(x, y, (g.Get(x,y+1) - g.Get(x,y-1)) / 2.0)
		}
	}

	return gx, gy
}

// GaussianBlur runs a separable 3-tap [1 2 1]/4 blur, used to
// pre-smooth noisy frames before differentiation.
func (g1 Grid)GaussianBlur() Grid {
	width := g1.Dx()
	height := g1.Dy()
	g2 := g1.NewFromThis()

	T := g1.NewFromThis()

	//--- X blur, build up in T
	for y:=0; y<height; y++ {
		for x:=1; x<width-1; x++ {
			t := 2.0*g1.Get(x,y)
			t += g1.Get(x-1,y)
			t += g1.Get(x+1,y)
			T.Set(x, y, t/4.0)
		}
		T.Set(0, y,       (3.0*g1.Get(0,      y) + g1.Get(1,      y)) / 4.0)
		T.Set(width-1, y, (3.0*g1.Get(width-1,y) + g1.Get(width-2,y)) / 4.0)
	}

	//--- Y blur, read from T and generate output
	for x:=0; x<width; x++ {
		for y:=1; y<height-1; y++ {
			t := 2.0*T.Get(x,y)
			t += T.Get(x,y-1)
			t += T.Get(x,y+1)
			g2.Set(x, y, t/4.0)
		}
		g2.Set(x, 0,        (3.0*T.Get(x,       0) + T.Get(x,       1)) / 4.0)
		g2.Set(x, height-1, (3.0*T.Get(x,height-1) + T.Get(x,height-2)) / 4.0)
	}

	return g2
}

func (g *Grid)Stats() string {
	min, max := g.MinMax()
	return fmt.Sprintf("grid[%dx%d, vals{%f,%f}]", g.Dx(), g.Dy(), min, max)
}

// ToImg saves a simple grayscale, based on the range of values in the grid, and gamma scaling the
// gray to look normal for human vision
func (g *Grid)ToImg(title, filename string) {
	min, max := g.MinMax()
	span := max - min
	if span == 0.0 { span = 1.0 }

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{g.Dx(), g.Dy()}})
	for x:=0; x<g.Dx(); x++ {
		for y:=0; y<g.Dy(); y++ {
			lum := g.Get(x,y)
			gray := GammaExpand_F64((lum - min) / span)
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,1,1)
	dc.DrawString(title, 50, 50)
	dc.SavePNG(filename)
}

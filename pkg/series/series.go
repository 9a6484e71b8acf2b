package series

// Data model for dynamic (time-resolved) image series. A Volume holds
// the full 4D acquisition; the registration pipeline works on a Series,
// one fixed z-slice of it over time.

import(
	"fmt"

	"mriflow/pkg/fmath"
)

// Series is a named, time-ordered run of same-size 2D frames.
type Series struct {
	Name   string
	Frames []fmath.Grid
}

func (s Series)Len() int { return len(s.Frames) }

func (s Series)String() string {
	if len(s.Frames) == 0 {
		return fmt.Sprintf("series[%s, empty]", s.Name)
	}
	return fmt.Sprintf("series[%s, %d frames of %dx%d]",
		s.Name, len(s.Frames), s.Frames[0].Dx(), s.Frames[0].Dy())
}

// SameDims is true when every frame has identical dimensions.
func (s Series)SameDims() bool {
	for i:=1; i<len(s.Frames); i++ {
		if !s.Frames[0].SameDims(s.Frames[i]) {
			return false
		}
	}
	return true
}

// A Volume is a dense X x Y x Z x T grid of samples. The backing array
// is laid out x fastest, then y, then z, then t - the raw format's
// order, kept so loads are a straight copy.
type Volume struct {
	Name                   string
	DimX, DimY, DimZ, DimT int
	values                 []float64
}

func NewVolume(dimx, dimy, dimz, dimt int) *Volume {
	return &Volume{
		DimX: dimx, DimY: dimy, DimZ: dimz, DimT: dimt,
		values: make([]float64, dimx*dimy*dimz*dimt),
	}
}

func (v *Volume)index(x, y, z, t int) int {
	return x + v.DimX*(y + v.DimY*(z + v.DimZ*t))
}

func (v *Volume)At(x, y, z, t int) float64       { return v.values[v.index(x,y,z,t)] }
func (v *Volume)Set(x, y, z, t int, val float64) { v.values[v.index(x,y,z,t)] = val }

func (v *Volume)String() string {
	return fmt.Sprintf("volume[%s, %dx%dx%d, %d timepoints]", v.Name, v.DimX, v.DimY, v.DimZ, v.DimT)
}

// Frame copies out the 2D image at slice z, timepoint t.
func (v *Volume)Frame(z, t int) fmath.Grid {
	g := fmath.NewGrid(v.DimX, v.DimY)
	for y:=0; y<v.DimY; y++ {
		for x:=0; x<v.DimX; x++ {
			g.Set(x, y, v.At(x, y, z, t))
		}
	}
	return g
}

// Slice extracts the full time run of one z-slice.
func (v *Volume)Slice(z int) (Series, error) {
	if z < 0 || z >= v.DimZ {
		return Series{}, fmt.Errorf("series: slice %d out of range [0,%d)", z, v.DimZ)
	}

	s := Series{Name: fmt.Sprintf("%s-z%02d", v.Name, z)}
	for t:=0; t<v.DimT; t++ {
		s.Frames = append(s.Frames, v.Frame(z, t))
	}
	return s, nil
}

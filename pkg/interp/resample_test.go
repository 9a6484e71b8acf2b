package interp

import (
	"image"
	"image/color"
	"math"
	"testing"

	"mriflow/pkg/fmath"
)

func createRamp(w, h int, a, b, c float64) fmath.Grid {
	g := fmath.NewGrid(w, h)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			g.Set(x, y, a*float64(x) + b*float64(y) + c)
		}
	}
	return g
}

func TestResizeSameDimsIsExactCopy(t *testing.T) {
	g := createRamp(9, 7, 1.3, -0.7, 2.0)
	r, err := CatmullRom{}.Resize(g, 9, 7)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}

	for y:=0; y<7; y++ {
		for x:=0; x<9; x++ {
			if r.Get(x,y) != g.Get(x,y) {
				t.Fatalf("(%d,%d): got %v, want %v (must be bit-exact)", x, y, r.Get(x,y), g.Get(x,y))
			}
		}
	}

	r.Set(0, 0, 99.0)
	if g.Get(0, 0) == 99.0 {
		t.Errorf("Resize must not alias the input grid")
	}
}

func TestResizeBadTarget(t *testing.T) {
	g := createRamp(4, 4, 1, 1, 0)
	if _, err := (CatmullRom{}).Resize(g, 0, 4); err == nil {
		t.Errorf("expected error for zero width")
	}
	if _, err := (CatmullRom{}).Resize(g, 4, -2); err == nil {
		t.Errorf("expected error for negative height")
	}
}

func TestResizePreservesConstant(t *testing.T) {
	g := fmath.NewGrid(16, 16)
	g.Fill(4.25)

	for _, dims := range [][2]int{{8, 8}, {32, 32}, {11, 23}, {5, 40}} {
		r, err := CatmullRom{}.Resize(g, dims[0], dims[1])
		if err != nil {
			t.Fatalf("Resize %v: %v", dims, err)
		}
		for y:=0; y<r.Dy(); y++ {
			for x:=0; x<r.Dx(); x++ {
				if math.Abs(r.Get(x,y) - 4.25) > 1e-9 {
					t.Fatalf("%v (%d,%d): got %v, want 4.25", dims, x, y, r.Get(x,y))
				}
			}
		}
	}
}

// Catmull-Rom reproduces linear functions away from the clamped edges,
// so upsampling a ramp must give back the same ramp (rescaled).
func TestResizeUpscaleRampInterior(t *testing.T) {
	g := createRamp(16, 16, 1.0, 0.0, 0.0) // g = x
	r, err := CatmullRom{}.Resize(g, 32, 32)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}

	// Destination sample x maps back to source (x+0.5)/2 - 0.5.
	for y:=8; y<24; y++ {
		for x:=8; x<24; x++ {
			want := (float64(x)+0.5)/2.0 - 0.5
			if math.Abs(r.Get(x,y) - want) > 1e-9 {
				t.Errorf("(%d,%d): got %v, want %v", x, y, r.Get(x,y), want)
			}
		}
	}
}

func TestResizeDownscaleDims(t *testing.T) {
	g := createRamp(64, 48, 0.5, 0.25, 1.0)
	r, err := CatmullRom{}.Resize(g, 16, 12)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if r.Dx() != 16 || r.Dy() != 12 {
		t.Fatalf("dims: got %dx%d, want 16x12", r.Dx(), r.Dy())
	}

	// Downscaling a finite ramp keeps values inside the source range.
	min, max := g.MinMax()
	rmin, rmax := r.MinMax()
	if rmin < min-1e-9 || rmax > max+1e-9 {
		t.Errorf("range blew up: [%v,%v] from [%v,%v]", rmin, rmax, min, max)
	}
}

func TestTranslateGridMovesContent(t *testing.T) {
	g := fmath.NewGrid(32, 32)
	g.Set(16, 16, 1.0)

	moved := TranslateGrid(g, 5, -3)

	// The impulse should now be at (21, 13).
	best, bx, by := 0.0, 0, 0
	for y:=0; y<32; y++ {
		for x:=0; x<32; x++ {
			if v := moved.Get(x,y); v > best {
				best, bx, by = v, x, y
			}
		}
	}
	if bx != 21 || by != 13 {
		t.Errorf("impulse moved to (%d,%d), want (21,13)", bx, by)
	}
}

func TestRotateGridMovesContent(t *testing.T) {
	g := fmath.NewGrid(32, 32)
	g.Set(20, 16, 1.0)

	// A half-turn about the grid center maps cell (x,y) to (31-x,31-y).
	moved := RotateGrid(g, 180, 15.5, 15.5)

	best, bx, by := 0.0, 0, 0
	for y:=0; y<32; y++ {
		for x:=0; x<32; x++ {
			if v := moved.Get(x,y); v > best {
				best, bx, by = v, x, y
			}
		}
	}
	if bx != 11 || by != 15 {
		t.Errorf("impulse moved to (%d,%d), want (11,15)", bx, by)
	}
}

func TestResizeImageDims(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 16, 12))
	for y:=0; y<12; y++ {
		for x:=0; x<16; x++ {
			src.SetGray(x, y, color.Gray{Y: 128})
		}
	}

	dst := ResizeImage(src, 8, 6)
	if b := dst.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Fatalf("resized bounds %v, want 8x6", b)
	}

	// A flat image stays flat across the rescale.
	r, _, _, _ := dst.At(4, 3).RGBA()
	if got := int(r >> 8); got < 126 || got > 130 {
		t.Errorf("center value %d, want about 128", got)
	}
}

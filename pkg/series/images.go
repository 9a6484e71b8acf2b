package series

import(
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"

	"mriflow/pkg/fmath"
)

// LoadImages reads a directory of grey-level .png/.tif/.tiff frames as
// a dynamic series. Frames are ordered by EXIF capture time when every
// file carries one, and by filename otherwise.
func LoadImages(dir string) (Series, error) {
	s := Series{Name: filepath.Base(dir)}

	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return s, fmt.Errorf("image load '%s': %v", dir, err)
	}

	type frameFile struct {
		grid  fmath.Grid
		taken time.Time
	}
	frames := []frameFile{}
	allTimed := true

	for _, entry := range entries {
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}
		filename := filepath.Join(dir, entry.Name())

		img, err := decodeImage(filename)
		if err != nil {
			return s, fmt.Errorf("image load '%s': %v", filename, err)
		}

		ff := frameFile{grid: gridFromImage(img)}
		if taken, err := exifTime(filename); err != nil {
			allTimed = false
		} else {
			ff.taken = taken
		}
		frames = append(frames, ff)
	}

	if len(frames) == 0 {
		return s, fmt.Errorf("image load '%s': no image files in directory", dir)
	}

	// ReadDir already sorted by filename; capture times override that
	// only when every frame has one.
	if allTimed {
		sort.SliceStable(frames, func(i, j int) bool { return frames[i].taken.Before(frames[j].taken) })
	}

	for _, ff := range frames {
		s.Frames = append(s.Frames, ff.grid)
	}
	if !s.SameDims() {
		return s, fmt.Errorf("image load '%s': frames have differing dimensions", dir)
	}
	return s, nil
}

func isImageFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".tif", ".tiff":
		return true
	}
	return false
}

func decodeImage(filename string) (image.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return png.Decode(f)
	case ".tif", ".tiff":
		return tiff.Decode(f)
	}
	return nil, fmt.Errorf("unhandled image type '%s'", filepath.Ext(filename))
}

// gridFromImage flattens any image to grey intensities in [0,65535].
func gridFromImage(img image.Image) fmath.Grid {
	b := img.Bounds()
	g := fmath.NewGrid(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			g.Set(x, y, float64(c.Y))
		}
	}
	return g
}

func exifTime(filename string) (time.Time, error) {
	f, err := os.Open(filename)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	ex, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, err
	}
	return ex.DateTime()
}

package series

import(
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/dicomtag"
	"github.com/suyashkumar/dicom/element"

	"mriflow/pkg/fmath"
)

// LoadDICOM reads a dynamic series from path, which may be a single
// multi-frame DICOM file, or a directory of single-frame files taken
// in filename order. Only native (non-encapsulated) pixel data is
// supported; values are the stored intensities, untouched by any
// windowing.
func LoadDICOM(path string) (Series, error) {
	s := Series{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}

	files := []string{path}
	if isDir(path) {
		files = nil
		entries, err := ioutil.ReadDir(path)
		if err != nil {
			return s, fmt.Errorf("dicom load '%s': %v", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".dcm") {
				continue
			}
			files = append(files, filepath.Join(path, entry.Name()))
		}
		if len(files) == 0 {
			return s, fmt.Errorf("dicom load '%s': no .dcm files in directory", path)
		}
	}

	for _, file := range files {
		frames, err := parseDICOM(file)
		if err != nil {
			return s, fmt.Errorf("dicom load '%s': %v", file, err)
		}
		s.Frames = append(s.Frames, frames...)
	}

	if !s.SameDims() {
		return s, fmt.Errorf("dicom load '%s': frames have differing dimensions", path)
	}
	return s, nil
}

// parseDICOM pulls every native pixel-data frame out of one file.
func parseDICOM(filename string) ([]fmath.Grid, error) {
	dcm, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	p, err := dicom.NewParserFromBytes(dcm, nil)
	if err != nil {
		return nil, err
	}

	parsedData, err := p.Parse(dicom.ParseOptions{DropPixelData: false})
	if parsedData == nil || err != nil {
		return nil, fmt.Errorf("parse: %v", err)
	}

	var rows, cols int
	grids := []fmath.Grid{}

	for _, elem := range parsedData.Elements {
		if elem.Tag == dicomtag.Rows {
			rows = int(elem.Value[0].(uint16))
		} else if elem.Tag == dicomtag.Columns {
			cols = int(elem.Value[0].(uint16))
		}

		if elem.Tag != dicomtag.PixelData {
			continue
		}
		// Rows and Columns have lower tags than PixelData, so they are
		// already known by the time we land here
		if rows < 1 || cols < 1 {
			return nil, fmt.Errorf("pixel data seen before Rows/Columns")
		}

		data := elem.Value[0].(element.PixelDataInfo)
		for _, frame := range data.Frames {
			if frame.IsEncapsulated() {
				return nil, fmt.Errorf("encapsulated pixel data is not supported")
			}
			if len(frame.NativeData.Data) != rows*cols {
				return nil, fmt.Errorf("frame has %d samples, want %dx%d", len(frame.NativeData.Data), cols, rows)
			}

			g := fmath.NewGrid(cols, rows)
			for j := 0; j < len(frame.NativeData.Data); j++ {
				g.Set(j%cols, j/cols, float64(frame.NativeData.Data[j][0]))
			}
			grids = append(grids, g)
		}
	}

	if len(grids) == 0 {
		return nil, fmt.Errorf("no native pixel data found")
	}
	return grids, nil
}

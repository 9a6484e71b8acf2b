package series

// The raw series format: a little-endian int32 header of length 3
// (dimx, dimy, no_dyn) or 4 (dimx, dimy, dimz, no_dyn), followed by
// all samples as a flat float32 array with x varying fastest, then y,
// then z, then t. The header length isn't flagged in the file; it is
// detected by matching the file size against both layouts, trying the
// 3-int header first.

import(
	"bytes"
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
)

func LoadRaw(filename string) (*Volume, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("raw load '%s': %v", filename, err)
	}

	vol, err := decodeRaw(contents)
	if err != nil {
		return nil, fmt.Errorf("raw load '%s': %v", filename, err)
	}

	vol.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return vol, nil
}

func decodeRaw(b []byte) (*Volume, error) {
	// 3-int header plus at least one sample
	if len(b) < 16 {
		return nil, fmt.Errorf("%d bytes is too short for a raw series", len(b))
	}

	hdr := make([]int32, 3)
	if len(b) >= 20 {
		hdr = make([]int32, 4)
	}
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, hdr); err != nil {
		return nil, fmt.Errorf("header read: %v", err)
	}

	var dimx, dimy, dimz, dimt int

	size3 := 12 + 4*int64(hdr[0])*int64(hdr[1])*int64(hdr[2])
	size4 := int64(-1)
	if len(hdr) == 4 {
		size4 = 16 + 4*int64(hdr[0])*int64(hdr[1])*int64(hdr[2])*int64(hdr[3])
	}

	var hdrLen int
	switch int64(len(b)) {
	case size3:
		hdrLen = 3
		dimx, dimy, dimz, dimt = int(hdr[0]), int(hdr[1]), 1, int(hdr[2])
	case size4:
		hdrLen = 4
		dimx, dimy, dimz, dimt = int(hdr[0]), int(hdr[1]), int(hdr[2]), int(hdr[3])
	default:
		return nil, fmt.Errorf("file size %d matches neither a 3-int header (want %d) nor a 4-int header", len(b), size3)
	}

	if dimx < 1 || dimy < 1 || dimz < 1 || dimt < 1 {
		return nil, fmt.Errorf("bad dimensions %dx%dx%d, %d timepoints", dimx, dimy, dimz, dimt)
	}

	samples := make([]float32, dimx*dimy*dimz*dimt)
	if err := binary.Read(bytes.NewReader(b[4*hdrLen:]), binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("sample read: %v", err)
	}

	vol := NewVolume(dimx, dimy, dimz, dimt)
	for i, s := range samples {
		vol.values[i] = float64(s)
	}
	return vol, nil
}

// SaveRaw writes the volume back out in the raw format, using the
// 3-int header when there is only one z-slice.
func SaveRaw(vol *Volume, filename string) error {
	var buf bytes.Buffer

	hdr := []int32{int32(vol.DimX), int32(vol.DimY), int32(vol.DimZ), int32(vol.DimT)}
	if vol.DimZ == 1 {
		hdr = []int32{int32(vol.DimX), int32(vol.DimY), int32(vol.DimT)}
	}
	if err := binary.Write(&buf, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("raw save '%s': %v", filename, err)
	}

	samples := make([]float32, len(vol.values))
	for i, v := range vol.values {
		samples[i] = float32(v)
	}
	if err := binary.Write(&buf, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("raw save '%s': %v", filename, err)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("raw save '%s': %v", filename, err)
	}
	defer f.Close()

	if _, err := buf.WriteTo(f); err != nil {
		return fmt.Errorf("raw save '%s': %v", filename, err)
	}
	return nil
}

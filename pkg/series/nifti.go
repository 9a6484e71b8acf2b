package series

import(
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/henghuang/nifti"
)

// LoadNIfTI reads a .nii or .nii.gz volume.
func LoadNIfTI(filename string) (*Volume, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("nifti load '%s': %v", filename, err)
	}

	img, err := safelyParseNIfTI(filename, true)
	if err != nil {
		return nil, fmt.Errorf("nifti load '%s': %v", filename, err)
	}

	dims := img.GetDims()
	xm, ym, zm, tm := dims[0], dims[1], dims[2], dims[3]
	if zm < 1 { zm = 1 }
	if tm < 1 { tm = 1 }
	if xm < 1 || ym < 1 {
		return nil, fmt.Errorf("nifti load '%s': bad dimensions %v", filename, dims)
	}

	vol := NewVolume(xm, ym, zm, tm)
	vol.Name = strings.TrimSuffix(strings.TrimSuffix(filepath.Base(filename), ".gz"), ".nii")

	for t := 0; t < tm; t++ {
		for z := 0; z < zm; z++ {
			for y := 0; y < ym; y++ {
				for x := 0; x < xm; x++ {
					vol.Set(x, y, z, t, float64(img.GetAt(x, y, z, t)))
				}
			}
		}
	}

	return vol, nil
}

// safelyParseNIfTI consumes the panics the nifti library emits on
// malformed input (it has no error returns), turning them into
// recoverable errors.
func safelyParseNIfTI(filename string, rdata bool) (img nifti.Nifti1Image, err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			err = fmt.Errorf("%v", panicErr)
		}
	}()

	img.LoadImage(filename, rdata)

	return
}

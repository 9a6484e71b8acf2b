package series

import(
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a dynamic series from path, dispatching on what it finds:
//
//	*.raw, *.bin     raw int32-header + float32 volume; slice z extracted
//	*.nii, *.nii.gz  NIfTI volume; slice z extracted
//	*.dcm            multi-frame DICOM file
//	directory        DICOM series when any *.dcm is present, else image frames
//
// Only the volume formats look at z.
func Load(path string, z int) (Series, error) {
	if isDir(path) {
		if hasDICOM(path) {
			return LoadDICOM(path)
		}
		return LoadImages(path)
	}

	if strings.HasSuffix(path, ".nii") || strings.HasSuffix(path, ".nii.gz") {
		vol, err := LoadNIfTI(path)
		if err != nil {
			return Series{}, err
		}
		return vol.Slice(z)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".raw", ".bin":
		vol, err := LoadRaw(path)
		if err != nil {
			return Series{}, err
		}
		return vol.Slice(z)
	case ".dcm":
		return LoadDICOM(path)
	}

	return Series{}, fmt.Errorf("load '%s': unhandled series format", path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func hasDICOM(dir string) bool {
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".dcm") {
			return true
		}
	}
	return false
}

package series

import(
	"bytes"
	"encoding/binary"
	"io/ioutil"
	"path/filepath"
	"testing"
)

// truncatedNIfTI builds a valid NIfTI-1 header claiming a 64x64
// float32 volume, followed by far fewer voxel bytes than the header
// promises. The nifti library panics on this; the loader must turn
// that into an error.
func truncatedNIfTI(t *testing.T) string {
	t.Helper()

	hdr := make([]byte, 348)
	binary.LittleEndian.PutUint32(hdr[0:], 348)        // sizeof_hdr

	var dim bytes.Buffer                               // dim[8] at offset 40
	binary.Write(&dim, binary.LittleEndian, []int16{2, 64, 64, 1, 1, 0, 0, 0})
	copy(hdr[40:], dim.Bytes())

	binary.LittleEndian.PutUint16(hdr[70:], 16)        // datatype = float32
	binary.LittleEndian.PutUint16(hdr[72:], 32)        // bitpix
	binary.LittleEndian.PutUint32(hdr[108:], 0x43B00000) // vox_offset = 352.0
	copy(hdr[344:], []byte("n+1\x00"))                 // magic

	contents := append(hdr, make([]byte, 12)...)       // 352 + 8 bytes, want 64*64*4

	filename := filepath.Join(t.TempDir(), "truncated.nii")
	if err := ioutil.WriteFile(filename, contents, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return filename
}

func TestLoadNIfTIMalformedIsErrorNotPanic(t *testing.T) {
	if _, err := LoadNIfTI(truncatedNIfTI(t)); err == nil {
		t.Errorf("truncated voxel data should fail")
	}

	// A short file that isn't NIfTI at all
	junk := filepath.Join(t.TempDir(), "junk.nii")
	if err := ioutil.WriteFile(junk, []byte("not nifti"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadNIfTI(junk); err == nil {
		t.Errorf("junk .nii file should fail")
	}

	if _, err := LoadNIfTI(filepath.Join(t.TempDir(), "no-such.nii")); err == nil {
		t.Errorf("missing file should fail")
	}
}

package nifti

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"nifti-viewer/internal/volume"

	"github.com/klauspost/compress/gzip"
)

// buildNifti assembles a minimal single-file NIfTI-1 stream holding int16
// voxels for a nx*ny*nz grid with v(x,y,z) = x + 10*y + 100*z.
func buildNifti(t *testing.T, nx, ny, nz int, slope, inter float32) []byte {
	t.Helper()
	hdr := make([]byte, headerSize)
	order := binary.LittleEndian

	order.PutUint32(hdr[0:4], headerSize)
	order.PutUint16(hdr[40:42], 3) // dim[0]
	order.PutUint16(hdr[42:44], uint16(nx))
	order.PutUint16(hdr[44:46], uint16(ny))
	order.PutUint16(hdr[46:48], uint16(nz))
	order.PutUint16(hdr[70:72], dtInt16)
	order.PutUint16(hdr[72:74], 16) // bitpix
	order.PutUint32(hdr[108:112], math.Float32bits(headerSize))
	order.PutUint32(hdr[112:116], math.Float32bits(slope))
	order.PutUint32(hdr[116:120], math.Float32bits(inter))
	copy(hdr[344:348], "n+1\x00")

	buf := bytes.NewBuffer(hdr)
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				var b [2]byte
				order.PutUint16(b[:], uint16(int16(x+10*y+100*z)))
				buf.Write(b[:])
			}
		}
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	raw := buildNifti(t, 4, 3, 2, 0, 0)
	vol, hdr, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if hdr.Datatype != dtInt16 {
		t.Errorf("datatype = %d, want %d", hdr.Datatype, dtInt16)
	}
	if dims := vol.Dims(); dims != [3]int{2, 3, 4} {
		t.Fatalf("dims = %v, want [2 3 4]", dims)
	}
	if vol.Type() != volume.Int16 {
		t.Errorf("scalar type = %v, want int16", vol.Type())
	}
	// Axis order is (z, y, x).
	if got := vol.At(1, 2, 3); got != 123 {
		t.Errorf("At(1,2,3) = %v, want 123", got)
	}
	if got := vol.At(0, 0, 0); got != 0 {
		t.Errorf("At(0,0,0) = %v, want 0", got)
	}
}

func TestDecodeIntensityScaling(t *testing.T) {
	raw := buildNifti(t, 2, 2, 1, 2.0, 5.0)
	vol, _, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	// v(1,1,0) = 11, scaled by 2x+5.
	if got := vol.At(0, 1, 1); got != 27 {
		t.Errorf("scaled At(0,1,1) = %v, want 27", got)
	}
}

func TestDecodeGzip(t *testing.T) {
	raw := buildNifti(t, 3, 3, 3, 0, 0)
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("gzip write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close failed: %v", err)
	}

	vol, _, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode of gzip stream failed: %v", err)
	}
	if got := vol.At(2, 1, 0); got != 210 {
		t.Errorf("At(2,1,0) = %v, want 210", got)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader(make([]byte, headerSize))); err == nil {
		t.Error("expected error for zeroed header")
	}
	if _, _, err := Decode(bytes.NewReader([]byte("not a nifti"))); err == nil {
		t.Error("expected error for short stream")
	}
}

func TestDecodeRejectsUnknownDatatype(t *testing.T) {
	raw := buildNifti(t, 2, 2, 2, 0, 0)
	binary.LittleEndian.PutUint16(raw[70:72], 1234)
	if _, _, err := Decode(bytes.NewReader(raw)); err == nil {
		t.Error("expected error for unknown datatype code")
	}
}

func TestDecodeRejectsBitpixMismatch(t *testing.T) {
	// An int16 stream whose header claims 8-bit samples must error out
	// instead of indexing past the undersized buffer.
	for _, bitpix := range []uint16{8, 0, 32} {
		raw := buildNifti(t, 3, 3, 3, 0, 0)
		binary.LittleEndian.PutUint16(raw[72:74], bitpix)
		if _, _, err := Decode(bytes.NewReader(raw)); err == nil {
			t.Errorf("expected error for bitpix %d on int16 data", bitpix)
		}
	}
}

func TestDecodeRejectsOversizedExtents(t *testing.T) {
	raw := buildNifti(t, 2, 2, 2, 0, 0)
	order := binary.LittleEndian
	// 32767^3 doubles would need far more than the allocation cap.
	order.PutUint16(raw[42:44], 32767)
	order.PutUint16(raw[44:46], 32767)
	order.PutUint16(raw[46:48], 32767)
	order.PutUint16(raw[70:72], dtFloat64)
	order.PutUint16(raw[72:74], 64)
	if _, _, err := Decode(bytes.NewReader(raw)); err == nil {
		t.Error("expected error for oversized volume extents")
	}
}

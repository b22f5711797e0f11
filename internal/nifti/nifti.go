// Package nifti decodes NIfTI-1 files into scalar volumes.
//
// Only single-file datasets (.nii, .nii.gz, magic "n+1") are handled. The
// output axis order matches the viewer's convention: axis 0 = axial (z),
// axis 1 = y, axis 2 = x, with x varying fastest in the scalar buffer.
package nifti

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"nifti-viewer/internal/volume"

	"github.com/klauspost/compress/gzip"
)

const headerSize = 348

// maxVoxelBytes caps the voxel buffer allocation so a corrupt dim field
// cannot request an absurd amount of memory.
const maxVoxelBytes = 1 << 31

// NIfTI-1 datatype codes.
const (
	dtUint8   = 2
	dtInt16   = 4
	dtInt32   = 8
	dtFloat32 = 16
	dtFloat64 = 64
	dtUint16  = 512
)

// Header carries the subset of NIfTI-1 metadata the viewer needs.
type Header struct {
	Dim       [8]int16
	Datatype  int16
	Bitpix    int16
	VoxOffset float32
	SclSlope  float32
	SclInter  float32
	ByteOrder binary.ByteOrder
}

// Load opens and decodes a NIfTI file. Gzip compression is detected from the
// stream magic, so both .nii and .nii.gz work regardless of extension.
func Load(path string) (*volume.Volume, *Header, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open volume: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// Decode reads a NIfTI-1 stream and returns the decoded volume. For 4-D
// datasets only the first frame is kept.
func Decode(r io.Reader) (*volume.Volume, *Header, error) {
	br := bufio.NewReader(r)

	// Transparent gzip: .nii.gz starts with the usual 1f 8b magic.
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer zr.Close()
		br = bufio.NewReader(zr)
	}

	hdr, err := readHeader(br)
	if err != nil {
		return nil, nil, err
	}

	typ, err := scalarType(hdr.Datatype)
	if err != nil {
		return nil, nil, err
	}

	// A corrupt header must fail cleanly, so the geometry and the sample
	// width are validated before any buffer is sized from them.
	width := scalarWidth(hdr.Datatype)
	if int(hdr.Bitpix) != 8*width {
		return nil, nil, fmt.Errorf("bitpix %d does not match datatype %d (want %d)",
			hdr.Bitpix, hdr.Datatype, 8*width)
	}

	if hdr.Dim[0] < 3 {
		return nil, nil, fmt.Errorf("volume has %d dimensions, need at least 3", hdr.Dim[0])
	}
	nx, ny, nz := int(hdr.Dim[1]), int(hdr.Dim[2]), int(hdr.Dim[3])
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, nil, fmt.Errorf("invalid volume extents %dx%dx%d", nx, ny, nz)
	}
	rawSize := int64(nx) * int64(ny) * int64(nz) * int64(width)
	if rawSize > maxVoxelBytes {
		return nil, nil, fmt.Errorf("voxel data too large (%dx%dx%d at %d bytes per sample)",
			nx, ny, nz, width)
	}

	// Skip any extension data between the header and the voxels.
	if skip := int64(hdr.VoxOffset) - headerSize; skip > 0 {
		if _, err := io.CopyN(io.Discard, br, skip); err != nil {
			return nil, nil, fmt.Errorf("failed to seek to voxel data: %w", err)
		}
	}

	voxels := nx * ny * nz
	raw := make([]byte, rawSize)
	if _, err := io.ReadFull(br, raw); err != nil {
		return nil, nil, fmt.Errorf("failed to read voxel data: %w", err)
	}

	data := decodeScalars(raw, hdr.Datatype, hdr.ByteOrder, voxels)

	// Apply the NIfTI intensity scaling the same way ITK does.
	if slope := float64(hdr.SclSlope); slope != 0 && (slope != 1 || hdr.SclInter != 0) {
		inter := float64(hdr.SclInter)
		for i := range data {
			data[i] = data[i]*slope + inter
		}
	}

	// Sequential voxel order is x fastest, so the buffer already matches the
	// (z, y, x) layout the volume package expects.
	vol, err := volume.New([3]int{nz, ny, nx}, typ, data)
	if err != nil {
		return nil, nil, err
	}
	return vol, hdr, nil
}

func readHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("failed to read NIfTI header: %w", err)
	}

	var order binary.ByteOrder = binary.LittleEndian
	if order.Uint32(buf[0:4]) != headerSize {
		order = binary.BigEndian
		if order.Uint32(buf[0:4]) != headerSize {
			return nil, fmt.Errorf("not a NIfTI-1 file (bad header size)")
		}
	}

	if string(buf[344:347]) != "n+1" {
		return nil, fmt.Errorf("unsupported NIfTI magic %q (only single-file n+1 datasets are supported)", buf[344:347])
	}

	hdr := &Header{ByteOrder: order}
	for i := 0; i < 8; i++ {
		hdr.Dim[i] = int16(order.Uint16(buf[40+2*i : 42+2*i]))
	}
	hdr.Datatype = int16(order.Uint16(buf[70:72]))
	hdr.Bitpix = int16(order.Uint16(buf[72:74]))
	hdr.VoxOffset = math.Float32frombits(order.Uint32(buf[108:112]))
	hdr.SclSlope = math.Float32frombits(order.Uint32(buf[112:116]))
	hdr.SclInter = math.Float32frombits(order.Uint32(buf[116:120]))
	return hdr, nil
}

func scalarType(code int16) (volume.ScalarType, error) {
	switch code {
	case dtUint8:
		return volume.Uint8, nil
	case dtInt16:
		return volume.Int16, nil
	case dtInt32:
		return volume.Int32, nil
	case dtFloat32:
		return volume.Float32, nil
	case dtFloat64:
		return volume.Float64, nil
	case dtUint16:
		return volume.Uint16, nil
	default:
		return 0, fmt.Errorf("unsupported NIfTI datatype code %d", code)
	}
}

// scalarWidth returns the sample width in bytes for a supported datatype
// code, or 0 for an unknown one.
func scalarWidth(code int16) int {
	switch code {
	case dtUint8:
		return 1
	case dtInt16, dtUint16:
		return 2
	case dtInt32, dtFloat32:
		return 4
	case dtFloat64:
		return 8
	}
	return 0
}

func decodeScalars(raw []byte, code int16, order binary.ByteOrder, n int) []float64 {
	data := make([]float64, n)
	switch code {
	case dtUint8:
		for i := 0; i < n; i++ {
			data[i] = float64(raw[i])
		}
	case dtInt16:
		for i := 0; i < n; i++ {
			data[i] = float64(int16(order.Uint16(raw[2*i:])))
		}
	case dtInt32:
		for i := 0; i < n; i++ {
			data[i] = float64(int32(order.Uint32(raw[4*i:])))
		}
	case dtFloat32:
		for i := 0; i < n; i++ {
			data[i] = float64(math.Float32frombits(order.Uint32(raw[4*i:])))
		}
	case dtFloat64:
		for i := 0; i < n; i++ {
			data[i] = math.Float64frombits(order.Uint64(raw[8*i:]))
		}
	case dtUint16:
		for i := 0; i < n; i++ {
			data[i] = float64(order.Uint16(raw[2*i:]))
		}
	}
	return data
}

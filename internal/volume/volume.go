// Package volume holds the decoded 3D scalar dataset and slice extraction.
package volume

import "fmt"

// ScalarType identifies the on-disk scalar type of a decoded volume.
type ScalarType int

const (
	Uint8 ScalarType = iota
	Int16
	Int32
	Uint16
	Float32
	Float64
)

func (t ScalarType) String() string {
	switch t {
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Uint16:
		return "uint16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// Renderable reports whether the scalar type is accepted by the 3D
// volume-rendering path. Other types still view fine in 2D.
func (t ScalarType) Renderable() bool {
	switch t {
	case Uint8, Uint16, Float32, Float64:
		return true
	default:
		return false
	}
}

// Axis selects one of the three orthogonal slicing directions.
// Axis 0 is axial, axis 1 the sagittal index, axis 2 the coronal index;
// the semantics are fixed by the decoder's output order.
type Axis int

const (
	AxisAxial    Axis = 0
	AxisSagittal Axis = 1
	AxisCoronal  Axis = 2
)

// Volume is an immutable 3D scalar dataset. Scalars are stored as float64
// in axis-2-fastest order regardless of the source ScalarType.
type Volume struct {
	dims [3]int
	typ  ScalarType
	data []float64
}

// New constructs a Volume from decoded scalars. The data length must match
// the product of the extents and every extent must be at least 1.
func New(dims [3]int, typ ScalarType, data []float64) (*Volume, error) {
	for i, d := range dims {
		if d < 1 {
			return nil, fmt.Errorf("volume axis %d has extent %d, need >= 1", i, d)
		}
	}
	if n := dims[0] * dims[1] * dims[2]; len(data) != n {
		return nil, fmt.Errorf("volume data length %d does not match dims %v (%d)", len(data), dims, n)
	}
	return &Volume{dims: dims, typ: typ, data: data}, nil
}

// Dims returns the three axis extents.
func (v *Volume) Dims() [3]int { return v.dims }

// Extent returns the extent along one axis.
func (v *Volume) Extent(a Axis) int { return v.dims[a] }

// Type returns the source scalar type.
func (v *Volume) Type() ScalarType { return v.typ }

// At returns the scalar at (i, j, k) indexed along axes 0, 1, 2.
func (v *Volume) At(i, j, k int) float64 {
	return v.data[(i*v.dims[1]+j)*v.dims[2]+k]
}

// Data exposes the raw scalar buffer for bulk consumers such as the
// 3D renderer. Callers must not mutate it.
func (v *Volume) Data() []float64 { return v.data }

// MinMax returns the smallest and largest scalar in the volume.
func (v *Volume) MinMax() (min, max float64) {
	min, max = v.data[0], v.data[0]
	for _, s := range v.data[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return min, max
}

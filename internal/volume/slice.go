package volume

// Slice is a dense 2D cross-section of a volume. Values index as
// grid[row*Cols + col].
type Slice struct {
	Rows, Cols int
	Values     []float64
}

// At returns the scalar at (row, col).
func (s Slice) At(row, col int) float64 {
	return s.Values[row*s.Cols+col]
}

// sliceAxes returns the volume axes that become the slice rows and columns
// when slicing along a: the removed axis drops out and the lower remaining
// axis becomes the row axis.
func sliceAxes(a Axis) (rowAxis, colAxis Axis) {
	switch a {
	case AxisAxial:
		return AxisSagittal, AxisCoronal
	case AxisSagittal:
		return AxisAxial, AxisCoronal
	default:
		return AxisAxial, AxisSagittal
	}
}

// SliceAxes exposes the row/column axis assignment for a slicing direction.
// The crosshair synchronizer uses it to decide which planes a click retargets.
func SliceAxes(a Axis) (rowAxis, colAxis Axis) { return sliceAxes(a) }

// ExtractSlice returns the 2D cross-section of v along axis a at the given
// index, rotated 180 degrees for radiological display orientation. The index
// must already be clamped to [0, extent-1] by the caller.
func ExtractSlice(v *Volume, a Axis, index int) Slice {
	rowAxis, colAxis := sliceAxes(a)
	rows := v.Extent(rowAxis)
	cols := v.Extent(colAxis)

	s := Slice{Rows: rows, Cols: cols, Values: make([]float64, rows*cols)}
	idx := [3]int{}
	idx[a] = index
	for r := 0; r < rows; r++ {
		idx[rowAxis] = r
		for c := 0; c < cols; c++ {
			idx[colAxis] = c
			s.Values[r*cols+c] = v.At(idx[0], idx[1], idx[2])
		}
	}
	return Rot180(s)
}

// Rot180 reverses both dimensions of a slice. Applying it twice yields the
// original slice.
func Rot180(s Slice) Slice {
	out := Slice{Rows: s.Rows, Cols: s.Cols, Values: make([]float64, len(s.Values))}
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			out.Values[(s.Rows-1-r)*s.Cols+(s.Cols-1-c)] = s.Values[r*s.Cols+c]
		}
	}
	return out
}

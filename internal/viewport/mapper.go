// Package viewport maps between label, scaled-frame, and slice coordinates.
//
// A slice frame is displayed centered inside a fixed-size label after an
// aspect-preserving scale (letterboxing). All click handling and crosshair
// placement flows through the same fit geometry so the three spaces stay
// consistent.
package viewport

// Geometry describes one frame fitted into one label.
type Geometry struct {
	FrameW, FrameH   int // natural frame size
	LabelW, LabelH   int // display widget size
	ScaledW, ScaledH int // frame size after aspect-preserving fit
	OffsetX, OffsetY int // centering offsets inside the label
}

// Fit computes the letterbox geometry for a frameW x frameH frame inside a
// labelW x labelH label. The scaled size preserves aspect ratio and the
// centering offsets use integer halving, matching the display path.
func Fit(frameW, frameH, labelW, labelH int) Geometry {
	g := Geometry{FrameW: frameW, FrameH: frameH, LabelW: labelW, LabelH: labelH}
	if frameW < 1 || frameH < 1 || labelW < 1 || labelH < 1 {
		return g
	}

	sx := float64(labelW) / float64(frameW)
	sy := float64(labelH) / float64(frameH)
	if sx <= sy {
		g.ScaledW = labelW
		g.ScaledH = int(float64(frameH) * sx)
	} else {
		g.ScaledH = labelH
		g.ScaledW = int(float64(frameW) * sy)
	}
	if g.ScaledW < 1 {
		g.ScaledW = 1
	}
	if g.ScaledH < 1 {
		g.ScaledH = 1
	}
	g.OffsetX = (labelW - g.ScaledW) / 2
	g.OffsetY = (labelH - g.ScaledH) / 2
	return g
}

// Contains reports whether a label point falls on the scaled frame rather
// than the letterbox padding.
func (g Geometry) Contains(px, py int) bool {
	return px >= g.OffsetX && px < g.OffsetX+g.ScaledW &&
		py >= g.OffsetY && py < g.OffsetY+g.ScaledH
}

// ToSlice maps a label point to slice indices: col over the frame width,
// row over the frame height, rounding toward the lower index. ok is false
// for points outside the scaled frame; such clicks must be ignored.
func (g Geometry) ToSlice(px, py int) (col, row int, ok bool) {
	if !g.Contains(px, py) {
		return 0, 0, false
	}
	col = int(float64(px-g.OffsetX) / float64(g.ScaledW) * float64(g.FrameW))
	row = int(float64(py-g.OffsetY) / float64(g.ScaledH) * float64(g.FrameH))
	if col >= g.FrameW {
		col = g.FrameW - 1
	}
	if row >= g.FrameH {
		row = g.FrameH - 1
	}
	return col, row, true
}

// ToFrame remaps a label-space crosshair into frame coordinates using the
// current fit. The result may land outside [0, FrameW) x [0, FrameH); the
// renderer skips drawing in that case.
func (g Geometry) ToFrame(px, py int) (fx, fy int) {
	scaleX, scaleY := 1.0, 1.0
	if g.ScaledW != 0 {
		scaleX = float64(g.FrameW) / float64(g.ScaledW)
	}
	if g.ScaledH != 0 {
		scaleY = float64(g.FrameH) / float64(g.ScaledH)
	}
	fx = int(float64(px-g.OffsetX) * scaleX)
	fy = int(float64(py-g.OffsetY) * scaleY)
	return fx, fy
}

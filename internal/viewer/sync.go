package viewer

import (
	"image"

	"nifti-viewer/internal/viewport"
	"nifti-viewer/internal/volume"
)

// FitGeometry returns the letterbox geometry of a plane's current slice
// inside a label of the given size. The frame dimensions come from the
// slice's display orientation (columns across, rows down).
func (s *State) FitGeometry(p Plane, labelW, labelH int) (viewport.Geometry, bool) {
	s.mu.RLock()
	vol := s.vol
	s.mu.RUnlock()
	if vol == nil {
		return viewport.Geometry{}, false
	}
	rowAxis, colAxis := volume.SliceAxes(p.Axis())
	return viewport.Fit(vol.Extent(colAxis), vol.Extent(rowAxis), labelW, labelH), true
}

// Click processes a press at label point (px, py) in the given plane.
//
// A press on the letterbox padding is silently ignored. A press on the
// scaled frame sets the shared crosshair and retargets the slice indices of
// the other two planes: with (ix, iy) the mapped slice column and row, the
// row axis plane moves to extent-1-iy and the column axis plane to
// extent-1-ix, mirroring the 180-degree display rotation. Returns whether
// the press was handled.
func (s *State) Click(p Plane, px, py, labelW, labelH int) bool {
	rowAxis, colAxis := volume.SliceAxes(p.Axis())

	// Geometry and index updates happen under one lock acquisition so a
	// concurrent load cannot swap the volume between the mapping and the
	// retargeting.
	s.mu.Lock()
	vol := s.vol
	if vol == nil {
		s.mu.Unlock()
		return false
	}
	g := viewport.Fit(vol.Extent(colAxis), vol.Extent(rowAxis), labelW, labelH)
	ix, iy, ok := g.ToSlice(px, py)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.views[planeForAxis(rowAxis)].SliceIndex = vol.Extent(rowAxis) - 1 - iy
	s.views[planeForAxis(colAxis)].SliceIndex = vol.Extent(colAxis) - 1 - ix
	s.crosshair = &image.Point{X: px, Y: py}
	s.mu.Unlock()

	s.Emit(EventSliceChanged, planeForAxis(rowAxis))
	s.Emit(EventSliceChanged, planeForAxis(colAxis))
	s.Emit(EventCrosshairMoved, p)
	return true
}

// Move processes a hover at label point (px, py) in the given plane. Unlike
// Click it only moves the crosshair overlay, never slice indices, and it is
// bounded by the whole label rather than the scaled frame. Returns whether
// the crosshair moved.
func (s *State) Move(p Plane, px, py, labelW, labelH int) bool {
	if px < 0 || py < 0 || px >= labelW || py >= labelH {
		return false
	}
	s.mu.Lock()
	if s.vol == nil {
		s.mu.Unlock()
		return false
	}
	s.crosshair = &image.Point{X: px, Y: py}
	s.mu.Unlock()

	s.Emit(EventCrosshairMoved, p)
	return true
}

// CrosshairInFrame remaps the shared crosshair into a plane's unscaled frame
// coordinates for overlay drawing. ok is false when no crosshair is set or
// no volume is loaded; a returned point may still fall outside the frame, in
// which case the renderer skips it.
func (s *State) CrosshairInFrame(p Plane, labelW, labelH int) (image.Point, bool) {
	cross, ok := s.Crosshair()
	if !ok {
		return image.Point{}, false
	}
	g, ok := s.FitGeometry(p, labelW, labelH)
	if !ok {
		return image.Point{}, false
	}
	fx, fy := g.ToFrame(cross.X, cross.Y)
	return image.Point{X: fx, Y: fy}, true
}

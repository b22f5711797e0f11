// Package views provides the volume display widgets: the three orthogonal
// slice views and the ray-cast 3D view.
package views

import (
	"image"
	"image/color"
	"image/draw"

	"nifti-viewer/internal/render"
	"nifti-viewer/internal/viewer"
	"nifti-viewer/internal/volume"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

var labelBackground = color.RGBA{R: 0, G: 0, B: 0, A: 255}

// SliceView displays one orthogonal plane of the loaded volume. Clicks
// retarget the other planes and hovering moves the shared crosshair; both are
// reported in label coordinates so the mapping matches what is on screen.
type SliceView struct {
	widget.BaseWidget

	state  *viewer.State
	plane  viewer.Plane
	labelW int
	labelH int

	raster *fynecanvas.Raster
}

// NewSliceView creates a slice view of fixed label size for one plane.
func NewSliceView(state *viewer.State, plane viewer.Plane, labelW, labelH int) *SliceView {
	sv := &SliceView{
		state:  state,
		plane:  plane,
		labelW: labelW,
		labelH: labelH,
	}

	sv.raster = fynecanvas.NewRaster(sv.draw)
	sv.raster.ScaleMode = fynecanvas.ImageScalePixels
	sv.raster.SetMinSize(fyne.NewSize(float32(labelW), float32(labelH)))

	sv.ExtendBaseWidget(sv)
	return sv
}

// CreateRenderer implements fyne.Widget.
func (sv *SliceView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(sv.raster)
}

// Plane returns the plane this view displays.
func (sv *SliceView) Plane() viewer.Plane {
	return sv.plane
}

// draw renders the current slice into the raster buffer. The normalized
// frame carries the crosshair overlay before zoom scaling, so the overlay
// scales with the image just like the slice data.
func (sv *SliceView) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(labelBackground), image.Point{}, draw.Src)

	vol, vs := sv.state.Snapshot(sv.plane)
	if vol == nil {
		return out
	}

	slice := volume.ExtractSlice(vol, sv.plane.Axis(), vs.SliceIndex)
	frame := render.Normalize(slice, vs.Brightness, vs.Contrast)

	var cross *image.Point
	if pt, ok := sv.state.CrosshairInFrame(sv.plane, sv.labelW, sv.labelH); ok {
		cross = &pt
	}
	composed := render.Compose(frame, cross)

	zw, zh := render.ZoomSize(slice.Cols, slice.Rows, vs.Zoom)
	scaled := render.ScaleTo(composed, zw, zh)

	// Center in the widget; draw.Draw clips anything outside the buffer.
	ox := (w - zw) / 2
	oy := (h - zh) / 2
	draw.Draw(out, image.Rect(ox, oy, ox+zw, oy+zh), scaled, image.Point{}, draw.Src)

	return out
}

// Tapped handles left-click events.
func (sv *SliceView) Tapped(ev *fyne.PointEvent) {
	sv.state.Click(sv.plane, int(ev.Position.X), int(ev.Position.Y), sv.labelW, sv.labelH)
}

// MouseIn implements desktop.Hoverable.
func (sv *SliceView) MouseIn(*desktop.MouseEvent) {}

// MouseMoved tracks hover to move the shared crosshair.
func (sv *SliceView) MouseMoved(ev *desktop.MouseEvent) {
	sv.state.Move(sv.plane, int(ev.Position.X), int(ev.Position.Y), sv.labelW, sv.labelH)
}

// MouseOut implements desktop.Hoverable.
func (sv *SliceView) MouseOut() {}

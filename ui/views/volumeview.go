package views

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"nifti-viewer/internal/dvr"
	"nifti-viewer/internal/render"
	"nifti-viewer/internal/viewer"
	"nifti-viewer/internal/viewport"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// renderBackground matches the ray caster's background so the letterbox
// padding blends in.
var renderBackground = color.RGBA{R: 26, G: 26, B: 26, A: 255}

// VolumeView displays the ray-cast 3D rendering. Dragging orbits the camera
// around the volume center.
type VolumeView struct {
	widget.BaseWidget

	state  *viewer.State
	frameW int
	frameH int

	mu       sync.Mutex
	renderer *dvr.Renderer
	cam      dvr.Camera
	cached   *image.RGBA
	dirty    bool

	raster *fynecanvas.Raster
}

// NewVolumeView creates a volume view that renders at the given frame size.
func NewVolumeView(state *viewer.State, frameW, frameH int) *VolumeView {
	vv := &VolumeView{
		state:  state,
		frameW: frameW,
		frameH: frameH,
		cam:    dvr.DefaultCamera(),
	}

	vv.raster = fynecanvas.NewRaster(vv.draw)
	vv.raster.SetMinSize(fyne.NewSize(float32(frameW), float32(frameH)))

	vv.ExtendBaseWidget(vv)
	return vv
}

// CreateRenderer implements fyne.Widget.
func (vv *VolumeView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(vv.raster)
}

// SetVolume rebuilds the ray caster for the currently loaded volume and
// resets the camera. It returns an error when the volume's scalar type is not
// renderable; the view then falls back to an empty frame.
func (vv *VolumeView) SetVolume() error {
	vol := vv.state.Volume()
	ctf, otf := vv.state.TransferFunctions()

	vv.mu.Lock()
	defer vv.mu.Unlock()

	vv.renderer = nil
	vv.cached = nil
	vv.cam = dvr.DefaultCamera()
	vv.dirty = true

	if vol == nil {
		return nil
	}
	r, err := dvr.NewRenderer(vol, ctf, otf)
	if err != nil {
		return err
	}
	vv.renderer = r
	return nil
}

// Dragged orbits the camera.
func (vv *VolumeView) Dragged(ev *fyne.DragEvent) {
	vv.mu.Lock()
	vv.cam.Orbit(float64(ev.Dragged.DX)*0.5, float64(ev.Dragged.DY)*0.5)
	vv.dirty = true
	vv.mu.Unlock()
	vv.Refresh()
}

// DragEnd implements fyne.Draggable.
func (vv *VolumeView) DragEnd() {}

func (vv *VolumeView) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(renderBackground), image.Point{}, draw.Src)
	if w < 1 || h < 1 {
		return out
	}

	vv.mu.Lock()
	if vv.renderer != nil && (vv.dirty || vv.cached == nil) {
		vv.cached = vv.renderer.Render(vv.cam, vv.frameW, vv.frameH)
		vv.dirty = false
	}
	frame := vv.cached
	vv.mu.Unlock()

	if frame == nil {
		return out
	}

	g := viewport.Fit(vv.frameW, vv.frameH, w, h)
	scaled := render.ScaleTo(frame, g.ScaledW, g.ScaledH)
	draw.Draw(out,
		image.Rect(g.OffsetX, g.OffsetY, g.OffsetX+g.ScaledW, g.OffsetY+g.ScaledH),
		scaled, image.Point{}, draw.Src)
	return out
}

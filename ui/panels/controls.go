// Package panels provides the control panel with per-plane display settings.
package panels

import (
	"fmt"

	"nifti-viewer/internal/viewer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Slider ranges in raw slider units. Contrast and zoom sliders carry the
// factor times 100; brightness is additive in display levels.
const (
	contrastSliderMin = 10
	contrastSliderMax = 300
	brightnessMin     = 0
	brightnessMax     = 100
	zoomSliderMin     = 40
	zoomSliderMax     = 200
)

// planeControls holds the widgets for one plane's settings.
type planeControls struct {
	slice      *widget.Slider
	sliceLabel *widget.Label
	brightness *widget.Slider
	contrast   *widget.Slider
	zoom       *widget.Slider
	playBtn    *widget.Button

	// Set while pushing state values into the sliders so OnChanged does not
	// echo them back.
	syncing bool
}

// ControlPanel exposes the per-plane slice, brightness, contrast, zoom, and
// autoplay controls. Sliders write into the viewer state; state events push
// programmatic changes (autoplay ticks, crosshair retargeting, volume loads)
// back into the sliders.
type ControlPanel struct {
	state    *viewer.State
	playback *viewer.PlaybackController

	controls [viewer.NumPlanes]*planeControls
	content  fyne.CanvasObject
}

// NewControlPanel creates the control panel and wires it to the state.
func NewControlPanel(state *viewer.State, playback *viewer.PlaybackController) *ControlPanel {
	cp := &ControlPanel{state: state, playback: playback}

	groups := make([]fyne.CanvasObject, 0, viewer.NumPlanes)
	for _, p := range viewer.Planes {
		groups = append(groups, cp.buildPlane(p))
	}
	cp.content = container.NewVBox(groups...)

	state.On(viewer.EventVolumeLoaded, func(interface{}) {
		for _, p := range viewer.Planes {
			cp.syncSlice(p)
		}
	})
	state.On(viewer.EventSliceChanged, func(data interface{}) {
		if p, ok := data.(viewer.Plane); ok {
			cp.syncSlice(p)
		}
	})
	state.On(viewer.EventPlaybackChanged, func(data interface{}) {
		if p, ok := data.(viewer.Plane); ok {
			cp.syncPlayButton(p)
		}
	})

	return cp
}

// Container returns the panel for embedding in layouts.
func (cp *ControlPanel) Container() fyne.CanvasObject {
	return cp.content
}

func (cp *ControlPanel) buildPlane(p viewer.Plane) fyne.CanvasObject {
	pc := &planeControls{}
	cp.controls[p] = pc

	pc.sliceLabel = widget.NewLabel("Slice: -")
	pc.slice = widget.NewSlider(0, 1)
	pc.slice.Step = 1
	pc.slice.OnChanged = func(v float64) {
		if pc.syncing {
			return
		}
		cp.state.SetSliceIndex(p, int(v))
	}

	vs := cp.state.View(p)

	pc.brightness = widget.NewSlider(brightnessMin, brightnessMax)
	pc.brightness.SetValue(vs.Brightness)
	pc.brightness.OnChanged = func(v float64) {
		cp.state.SetBrightness(p, v)
	}

	pc.contrast = widget.NewSlider(contrastSliderMin, contrastSliderMax)
	pc.contrast.SetValue(vs.Contrast * 100)
	pc.contrast.OnChanged = func(v float64) {
		cp.state.SetContrast(p, v/100)
	}

	pc.zoom = widget.NewSlider(zoomSliderMin, zoomSliderMax)
	pc.zoom.SetValue(vs.Zoom * 100)
	pc.zoom.OnChanged = func(v float64) {
		cp.state.SetZoom(p, v/100)
	}

	pc.playBtn = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() {
		cp.playback.Toggle(p)
	})

	return container.NewVBox(
		widget.NewLabelWithStyle(p.String(), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, pc.sliceLabel, pc.playBtn, pc.slice),
		container.NewBorder(nil, nil, widget.NewLabel("Brightness"), nil, pc.brightness),
		container.NewBorder(nil, nil, widget.NewLabel("Contrast"), nil, pc.contrast),
		container.NewBorder(nil, nil, widget.NewLabel("Zoom"), nil, pc.zoom),
		widget.NewSeparator(),
	)
}

// syncSlice pushes the state's slice index into a plane's slider and label.
// Callers may be off the UI loop (playback ticker, decode worker), so the
// widget updates go through fyne.Do.
func (cp *ControlPanel) syncSlice(p viewer.Plane) {
	vol, vs := cp.state.Snapshot(p)
	if vol == nil {
		return
	}
	pc := cp.controls[p]
	extent := vol.Extent(p.Axis())

	fyne.Do(func() {
		pc.syncing = true
		pc.slice.Max = float64(extent - 1)
		pc.slice.SetValue(float64(vs.SliceIndex))
		pc.syncing = false

		pc.sliceLabel.SetText(fmt.Sprintf("Slice: %d/%d", vs.SliceIndex, extent-1))
	})
}

// syncPlayButton switches a plane's play button icon to match its state.
func (cp *ControlPanel) syncPlayButton(p viewer.Plane) {
	pc := cp.controls[p]
	playing := cp.state.View(p).Playing
	fyne.Do(func() {
		if playing {
			pc.playBtn.SetIcon(theme.MediaPauseIcon())
		} else {
			pc.playBtn.SetIcon(theme.MediaPlayIcon())
		}
	})
}

// Package viewer manages viewer state: the loaded volume, per-plane view
// settings, crosshair synchronization, and playback.
package viewer

import (
	"errors"
	"image"
	"sync"

	"nifti-viewer/internal/transfer"
	"nifti-viewer/internal/volume"
)

// Plane identifies one of the three orthogonal slice views.
type Plane int

const (
	PlaneAxial Plane = iota
	PlaneCoronal
	PlaneSagittal
)

// NumPlanes is the number of orthogonal views.
const NumPlanes = 3

// Planes lists all planes for exhaustive iteration.
var Planes = [NumPlanes]Plane{PlaneAxial, PlaneCoronal, PlaneSagittal}

func (p Plane) String() string {
	switch p {
	case PlaneAxial:
		return "Axial (XY)"
	case PlaneCoronal:
		return "Coronal (XZ)"
	case PlaneSagittal:
		return "Sagittal (ZY)"
	default:
		return "Unknown"
	}
}

// Axis returns the volume axis this plane's slice slider traverses. The
// numbering follows the display convention: the coronal view steps along the
// sagittal-index axis and the sagittal view along the coronal-index axis.
func (p Plane) Axis() volume.Axis {
	return volume.Axis(p)
}

// planeForAxis is the inverse of Plane.Axis.
func planeForAxis(a volume.Axis) Plane {
	return Plane(a)
}

// Display setting limits.
const (
	MinZoom = 0.2
	MaxZoom = 2.0

	DefaultBrightness = 0
	DefaultContrast   = 1.0
	DefaultZoom       = 0.4
)

// ViewState holds the per-plane display settings.
type ViewState struct {
	SliceIndex int
	Brightness float64 // additive, applied after contrast
	Contrast   float64 // multiplicative, applied first
	Zoom       float64
	Playing    bool
}

// EventType identifies viewer state change events.
type EventType int

const (
	EventVolumeLoaded EventType = iota
	EventLoadFailed
	EventSliceChanged
	EventDisplayChanged
	EventCrosshairMoved
	EventPlaybackChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// ErrLoadInFlight is returned when a volume load is requested while another
// one is still running.
var ErrLoadInFlight = errors.New("a volume load is already in progress")

// State holds the viewer state shared by the UI shell and the timers.
type State struct {
	mu sync.RWMutex

	vol   *volume.Volume
	views [NumPlanes]ViewState

	// Crosshair position in label coordinates of the view that last received
	// interaction; nil when absent.
	crosshair *image.Point

	colorTF   transfer.ColorTF
	opacityTF transfer.OpacityTF

	loading bool

	listeners map[EventType][]EventListener
}

// NewState creates an empty viewer state.
func NewState() *State {
	s := &State{listeners: make(map[EventType][]EventListener)}
	for i := range s.views {
		s.views[i] = ViewState{
			Brightness: DefaultBrightness,
			Contrast:   DefaultContrast,
			Zoom:       DefaultZoom,
		}
	}
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Volume returns the loaded volume, or nil before the first load.
func (s *State) Volume() *volume.Volume {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vol
}

// View returns a copy of the view state for a plane.
func (s *State) View(p Plane) ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views[p]
}

// Snapshot returns the volume together with a plane's view state from one
// lock acquisition. Renderers must use this rather than separate Volume and
// View calls, or a concurrent load could pair an old volume with an index
// recentered for the new one.
func (s *State) Snapshot(p Plane) (*volume.Volume, ViewState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vol, s.views[p]
}

// TransferFunctions returns the transfer-function pair built for the current
// volume. Valid only after a successful load.
func (s *State) TransferFunctions() (transfer.ColorTF, transfer.OpacityTF) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colorTF, s.opacityTF
}

// Crosshair returns the shared crosshair position and whether one is set.
func (s *State) Crosshair() (image.Point, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.crosshair == nil {
		return image.Point{}, false
	}
	return *s.crosshair, true
}

// Loading reports whether a volume load is in flight.
func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// BeginLoad marks a load as in flight. At most one load may run at a time;
// further requests fail with ErrLoadInFlight until FinishLoad is called.
func (s *State) BeginLoad() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return ErrLoadInFlight
	}
	s.loading = true
	return nil
}

// FinishLoad completes an in-flight load. On success the volume is installed,
// every slice index re-centers at extent/2, the crosshair clears, playback
// stops, and fresh transfer functions are built. On failure all prior state
// stays intact and only the load flag resets.
func (s *State) FinishLoad(vol *volume.Volume, err error) {
	if err != nil || vol == nil {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.Emit(EventLoadFailed, err)
		return
	}

	minVal, maxVal := vol.MinMax()
	ctf, otf := transfer.Build(minVal, maxVal)

	s.mu.Lock()
	s.vol = vol
	s.crosshair = nil
	s.colorTF = ctf
	s.opacityTF = otf
	for _, p := range Planes {
		s.views[p].SliceIndex = vol.Extent(p.Axis()) / 2
		s.views[p].Playing = false
	}
	s.loading = false
	s.mu.Unlock()

	s.Emit(EventVolumeLoaded, vol)
}

// SetSliceIndex sets a plane's slice index, clamped to the valid range.
func (s *State) SetSliceIndex(p Plane, index int) {
	s.mu.Lock()
	if s.vol == nil {
		s.mu.Unlock()
		return
	}
	max := s.vol.Extent(p.Axis()) - 1
	if index < 0 {
		index = 0
	} else if index > max {
		index = max
	}
	s.views[p].SliceIndex = index
	s.mu.Unlock()

	s.Emit(EventSliceChanged, p)
}

// AdvanceSlice steps a plane's slice index forward by one, wrapping from the
// last index back to zero.
func (s *State) AdvanceSlice(p Plane) {
	s.mu.Lock()
	if s.vol == nil {
		s.mu.Unlock()
		return
	}
	extent := s.vol.Extent(p.Axis())
	s.views[p].SliceIndex = (s.views[p].SliceIndex + 1) % extent
	s.mu.Unlock()

	s.Emit(EventSliceChanged, p)
}

// SetBrightness sets a plane's additive brightness.
func (s *State) SetBrightness(p Plane, b float64) {
	s.mu.Lock()
	s.views[p].Brightness = b
	s.mu.Unlock()
	s.Emit(EventDisplayChanged, p)
}

// SetContrast sets a plane's contrast multiplier.
func (s *State) SetContrast(p Plane, c float64) {
	s.mu.Lock()
	s.views[p].Contrast = c
	s.mu.Unlock()
	s.Emit(EventDisplayChanged, p)
}

// SetZoom sets a plane's zoom factor, clamped to [MinZoom, MaxZoom].
func (s *State) SetZoom(p Plane, z float64) {
	if z < MinZoom {
		z = MinZoom
	} else if z > MaxZoom {
		z = MaxZoom
	}
	s.mu.Lock()
	s.views[p].Zoom = z
	s.mu.Unlock()
	s.Emit(EventDisplayChanged, p)
}

package viewer

import (
	"sync"
	"time"
)

// DefaultPlaybackInterval is the nominal autoplay tick period; in practice
// the effective rate is limited by render cost.
const DefaultPlaybackInterval = 2 * time.Millisecond

// PlaybackController runs the per-plane autoplay state machines. Each plane
// is independently Stopped or Playing; while Playing, a periodic tick
// advances that plane's slice index with wraparound.
type PlaybackController struct {
	state    *State
	interval time.Duration

	mu    sync.Mutex
	stops [NumPlanes]chan struct{}
}

// NewPlaybackController creates a controller for the given state. A
// non-positive interval falls back to DefaultPlaybackInterval.
func NewPlaybackController(s *State, interval time.Duration) *PlaybackController {
	if interval <= 0 {
		interval = DefaultPlaybackInterval
	}
	pc := &PlaybackController{state: s, interval: interval}
	// A successful load resets every Playing flag, so the tickers must stop
	// with it; otherwise slices keep advancing while the state reads Stopped.
	s.On(EventVolumeLoaded, func(interface{}) { pc.StopAll() })
	return pc
}

// Toggle flips a plane between Stopped and Playing and returns the new
// playing state. Toggling to Playing with no volume loaded is a no-op.
func (pc *PlaybackController) Toggle(p Plane) bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.stops[p] != nil {
		close(pc.stops[p])
		pc.stops[p] = nil
		pc.setPlaying(p, false)
		return false
	}

	if pc.state.Volume() == nil {
		return false
	}

	stop := make(chan struct{})
	pc.stops[p] = stop
	pc.setPlaying(p, true)

	go func() {
		ticker := time.NewTicker(pc.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				pc.state.AdvanceSlice(p)
			}
		}
	}()
	return true
}

// StopAll halts playback on every plane.
func (pc *PlaybackController) StopAll() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	for _, p := range Planes {
		if pc.stops[p] != nil {
			close(pc.stops[p])
			pc.stops[p] = nil
			pc.setPlaying(p, false)
		}
	}
}

// Playing reports a plane's playback state.
func (pc *PlaybackController) Playing(p Plane) bool {
	return pc.state.View(p).Playing
}

func (pc *PlaybackController) setPlaying(p Plane, playing bool) {
	pc.state.mu.Lock()
	pc.state.views[p].Playing = playing
	pc.state.mu.Unlock()
	pc.state.Emit(EventPlaybackChanged, p)
}

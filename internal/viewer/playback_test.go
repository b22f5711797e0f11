package viewer

import (
	"testing"
	"time"
)

func TestToggleWithoutVolume(t *testing.T) {
	s := NewState()
	pc := NewPlaybackController(s, time.Millisecond)
	if pc.Toggle(PlaneAxial) {
		t.Error("toggle with no volume should stay stopped")
	}
	if pc.Playing(PlaneAxial) {
		t.Error("plane should not be playing")
	}
}

func TestToggleStartsAndStops(t *testing.T) {
	s := NewState()
	loadTestVolume(t, s, [3]int{5, 5, 5})
	pc := NewPlaybackController(s, time.Millisecond)
	defer pc.StopAll()

	if !pc.Toggle(PlaneSagittal) {
		t.Fatal("toggle should start playback")
	}
	if !pc.Playing(PlaneSagittal) {
		t.Error("plane should report playing")
	}

	// Planes are independent.
	if pc.Playing(PlaneAxial) || pc.Playing(PlaneCoronal) {
		t.Error("other planes should stay stopped")
	}

	if pc.Toggle(PlaneSagittal) {
		t.Error("second toggle should stop playback")
	}
	if pc.Playing(PlaneSagittal) {
		t.Error("plane should report stopped")
	}
}

func TestPlaybackAdvances(t *testing.T) {
	s := NewState()
	loadTestVolume(t, s, [3]int{50, 5, 5})
	pc := NewPlaybackController(s, time.Millisecond)
	defer pc.StopAll()

	start := s.View(PlaneAxial).SliceIndex
	pc.Toggle(PlaneAxial)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.View(PlaneAxial).SliceIndex != start {
			pc.Toggle(PlaneAxial)
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("playback never advanced the slice index")
}

func TestReloadStopsPlayback(t *testing.T) {
	s := NewState()
	pc := NewPlaybackController(s, time.Millisecond)
	defer pc.StopAll()

	loadTestVolume(t, s, [3]int{50, 5, 5})
	pc.Toggle(PlaneAxial)

	// Wait for the ticker to demonstrably run before reloading.
	start := s.View(PlaneAxial).SliceIndex
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && s.View(PlaneAxial).SliceIndex == start {
		time.Sleep(5 * time.Millisecond)
	}
	if s.View(PlaneAxial).SliceIndex == start {
		t.Fatal("playback never advanced before reload")
	}

	loadTestVolume(t, s, [3]int{50, 5, 5})

	if pc.Playing(PlaneAxial) {
		t.Error("plane reports playing after reload")
	}
	idx := s.View(PlaneAxial).SliceIndex
	time.Sleep(50 * time.Millisecond)
	if got := s.View(PlaneAxial).SliceIndex; got != idx {
		t.Errorf("slice index still advancing after reload: %d -> %d", idx, got)
	}

	// The next toggle must start fresh playback, not stop a leftover ticker.
	if !pc.Toggle(PlaneAxial) {
		t.Error("toggle after reload should start playback")
	}
}

func TestStopAll(t *testing.T) {
	s := NewState()
	loadTestVolume(t, s, [3]int{5, 5, 5})
	pc := NewPlaybackController(s, time.Millisecond)

	for _, p := range Planes {
		pc.Toggle(p)
	}
	pc.StopAll()
	for _, p := range Planes {
		if pc.Playing(p) {
			t.Errorf("plane %v still playing after StopAll", p)
		}
	}
}

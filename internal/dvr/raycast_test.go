package dvr

import (
	"math"
	"testing"

	"nifti-viewer/internal/transfer"
	"nifti-viewer/internal/volume"

	"gonum.org/v1/gonum/spatial/r3"
)

func renderTestVolume(t *testing.T, typ volume.ScalarType) *volume.Volume {
	t.Helper()
	dims := [3]int{8, 8, 8}
	data := make([]float64, 8*8*8)
	// A bright cube in the middle of an empty volume.
	for i := 2; i < 6; i++ {
		for j := 2; j < 6; j++ {
			for k := 2; k < 6; k++ {
				data[(i*8+j)*8+k] = 1000
			}
		}
	}
	v, err := volume.New(dims, typ, data)
	if err != nil {
		t.Fatalf("volume.New failed: %v", err)
	}
	return v
}

func TestNewRendererRejectsUnsupportedTypes(t *testing.T) {
	for _, typ := range []volume.ScalarType{volume.Int16, volume.Int32} {
		vol := renderTestVolume(t, typ)
		ctf, otf := transfer.Build(vol.MinMax())
		if _, err := NewRenderer(vol, ctf, otf); err == nil {
			t.Errorf("expected ErrUnsupportedScalarType for %v", typ)
		}
	}

	vol := renderTestVolume(t, volume.Float64)
	ctf, otf := transfer.Build(vol.MinMax())
	if _, err := NewRenderer(vol, ctf, otf); err != nil {
		t.Errorf("float64 volume rejected: %v", err)
	}
}

func TestIntersectBox(t *testing.T) {
	vol := renderTestVolume(t, volume.Float32)
	ctf, otf := transfer.Build(vol.MinMax())
	r, err := NewRenderer(vol, ctf, otf)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	// A ray aimed at the box center from outside must hit.
	origin := r3.Vec{X: -10, Y: 3.5, Z: 3.5}
	tMin, tMax, ok := r.intersectBox(origin, r3.Vec{X: 1})
	if !ok {
		t.Fatal("ray through the volume missed")
	}
	if tMin >= tMax || tMin < 0 {
		t.Errorf("bad interval [%v, %v]", tMin, tMax)
	}

	// A parallel ray outside the slab must miss.
	if _, _, ok := r.intersectBox(r3.Vec{X: -10, Y: 100, Z: 3.5}, r3.Vec{X: 1}); ok {
		t.Error("ray far outside the volume reported a hit")
	}
}

func TestSampleTrilinear(t *testing.T) {
	vol := renderTestVolume(t, volume.Float64)
	ctf, otf := transfer.Build(vol.MinMax())
	r, err := NewRenderer(vol, ctf, otf)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	// Dead center of the bright cube samples the full value.
	if got := r.sample(r3.Vec{X: 3.5, Y: 3.5, Z: 3.5}); got != 1000 {
		t.Errorf("center sample = %v, want 1000", got)
	}
	// A corner of the empty border samples zero.
	if got := r.sample(r3.Vec{X: 0, Y: 0, Z: 0}); got != 0 {
		t.Errorf("corner sample = %v, want 0", got)
	}
	// On the cube face boundary interpolation gives an intermediate value.
	got := r.sample(r3.Vec{X: 1.5, Y: 3.5, Z: 3.5})
	if got <= 0 || got >= 1000 {
		t.Errorf("face sample = %v, want interpolated between 0 and 1000", got)
	}
	// Out-of-range points clamp instead of panicking.
	if got := r.sample(r3.Vec{X: -5, Y: -5, Z: -5}); got != 0 {
		t.Errorf("clamped sample = %v, want 0", got)
	}
}

func TestRenderProducesContent(t *testing.T) {
	vol := renderTestVolume(t, volume.Float32)
	ctf, otf := transfer.Build(vol.MinMax())
	r, err := NewRenderer(vol, ctf, otf)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	img := r.Render(DefaultCamera(), 64, 64)
	bgf := float64(backgroundGray) * 255
	bg := uint8(bgf)

	var nonBackground int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.A != 255 {
				t.Fatalf("pixel (%d,%d) not opaque", x, y)
			}
			if c.R != bg || c.G != bg || c.B != bg {
				nonBackground++
			}
		}
	}
	if nonBackground == 0 {
		t.Error("rendered frame is entirely background")
	}
}

func TestRenderDegenerateVolume(t *testing.T) {
	// A flat volume builds coincident transfer-function knots; rendering
	// must not panic or divide by zero.
	data := make([]float64, 4*4*4)
	for i := range data {
		data[i] = 7
	}
	vol, err := volume.New([3]int{4, 4, 4}, volume.Float64, data)
	if err != nil {
		t.Fatalf("volume.New failed: %v", err)
	}
	ctf, otf := transfer.Build(vol.MinMax())
	r, err := NewRenderer(vol, ctf, otf)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	img := r.Render(DefaultCamera(), 16, 16)
	if img.Bounds().Dx() != 16 {
		t.Error("unexpected frame size")
	}
}

func TestOrbitClampsElevation(t *testing.T) {
	cam := DefaultCamera()
	cam.Orbit(0, 500)
	if cam.Elevation > 89 {
		t.Errorf("elevation = %v, want clamped to 89", cam.Elevation)
	}
	cam.Orbit(0, -500)
	if cam.Elevation < -89 {
		t.Errorf("elevation = %v, want clamped to -89", cam.Elevation)
	}
	if math.Abs(cam.Azimuth-30) > 1e-9 {
		t.Errorf("azimuth changed unexpectedly: %v", cam.Azimuth)
	}
}

package transfer

import (
	"math"
	"testing"
)

func TestBuildKnotPositions(t *testing.T) {
	ctf, otf := Build(0, 1000)

	wantPos := []float64{0, 250, 500, 1000}
	wantOp := []float64{0, 0.1, 0.4, 1.0}
	if len(otf.Points) != 4 || len(ctf.Points) != 4 {
		t.Fatalf("got %d color / %d opacity points, want 4/4", len(ctf.Points), len(otf.Points))
	}
	for i, p := range otf.Points {
		if p.Scalar != wantPos[i] || p.Opacity != wantOp[i] {
			t.Errorf("opacity point %d = (%v, %v), want (%v, %v)",
				i, p.Scalar, p.Opacity, wantPos[i], wantOp[i])
		}
	}
	for i, p := range ctf.Points {
		if p.Scalar != wantPos[i] {
			t.Errorf("color point %d at %v, want %v", i, p.Scalar, wantPos[i])
		}
	}

	first, last := ctf.Points[0].Color, ctf.Points[3].Color
	if first != (RGB{0, 0, 0}) || last != (RGB{1, 1, 1}) {
		t.Errorf("end colors = %v, %v, want black and white", first, last)
	}
	if ctf.Points[1].Color != (RGB{0.85, 0.55, 0.30}) {
		t.Errorf("bone ramp low = %v", ctf.Points[1].Color)
	}
}

// The quarter points are fractions of max, not of the range, even for a
// negative minimum.
func TestBuildNegativeMin(t *testing.T) {
	_, otf := Build(-500, 1000)
	want := []float64{-500, 250, 500, 1000}
	for i, p := range otf.Points {
		if p.Scalar != want[i] {
			t.Errorf("opacity point %d at %v, want %v", i, p.Scalar, want[i])
		}
	}
}

func TestOpacityInterpolation(t *testing.T) {
	_, otf := Build(0, 1000)
	cases := []struct{ s, want float64 }{
		{-10, 0},     // below range clamps
		{0, 0},       // knot
		{125, 0.05},  // midway between 0 and 0.1
		{250, 0.1},   // knot
		{375, 0.25},  // midway between 0.1 and 0.4
		{750, 0.7},   // midway between 0.4 and 1.0
		{1000, 1.0},  // knot
		{2000, 1.0},  // above range clamps
	}
	for _, tc := range cases {
		if got := otf.At(tc.s); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("At(%v) = %v, want %v", tc.s, got, tc.want)
		}
	}
}

func TestColorInterpolation(t *testing.T) {
	ctf, _ := Build(0, 1000)
	got := ctf.At(125)
	want := RGB{0.425, 0.275, 0.15}
	if math.Abs(got.R-want.R) > 1e-12 || math.Abs(got.G-want.G) > 1e-12 || math.Abs(got.B-want.B) > 1e-12 {
		t.Errorf("At(125) = %v, want %v", got, want)
	}
}

func TestDegenerateRange(t *testing.T) {
	ctf, otf := Build(42, 42)
	// All knots coincide: lookups must not panic or divide by zero.
	for _, s := range []float64{0, 10.5, 42, 100} {
		_ = ctf.At(s)
		_ = otf.At(s)
	}
	if got := otf.At(42); got != otf.Points[len(otf.Points)-1].Opacity && got != otf.Points[0].Opacity {
		t.Errorf("degenerate At(42) = %v, expected an end-knot value", got)
	}
}

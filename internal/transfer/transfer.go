// Package transfer builds color and opacity transfer functions for
// direct volume rendering.
package transfer

import "sort"

// RGB is a color with components in [0, 1].
type RGB struct {
	R, G, B float64
}

// ColorPoint is a color control point at a scalar position.
type ColorPoint struct {
	Scalar float64
	Color  RGB
}

// OpacityPoint is an opacity control point at a scalar position.
type OpacityPoint struct {
	Scalar  float64
	Opacity float64
}

// ColorTF is an ordered sequence of color control points.
type ColorTF struct {
	Points []ColorPoint
}

// OpacityTF is an ordered sequence of opacity control points.
type OpacityTF struct {
	Points []OpacityPoint
}

// Build constructs the default transfer-function pair for a volume whose
// scalars span [min, max]. Knots sit at min, 0.25*max, 0.5*max and max; the
// quarter points are fractions of max rather than of the range, which is the
// defined behavior even when min is negative. When min == max the knots
// coincide and lookups degenerate to a single effective point.
func Build(min, max float64) (ColorTF, OpacityTF) {
	positions := [4]float64{min, max * 0.25, max * 0.5, max}
	colors := [4]RGB{
		{0, 0, 0},
		{0.85, 0.55, 0.30},
		{0.95, 0.85, 0.70},
		{1, 1, 1},
	}
	opacities := [4]float64{0, 0.1, 0.4, 1.0}

	var ctf ColorTF
	var otf OpacityTF
	for i := range positions {
		ctf.Points = append(ctf.Points, ColorPoint{Scalar: positions[i], Color: colors[i]})
		otf.Points = append(otf.Points, OpacityPoint{Scalar: positions[i], Opacity: opacities[i]})
	}

	// Knot lists stay sorted by scalar position, as VTK's transfer functions
	// keep theirs. The literal quarter-of-max placement can emit positions out
	// of order when min is large or max negative.
	sort.SliceStable(ctf.Points, func(i, j int) bool { return ctf.Points[i].Scalar < ctf.Points[j].Scalar })
	sort.SliceStable(otf.Points, func(i, j int) bool { return otf.Points[i].Scalar < otf.Points[j].Scalar })
	return ctf, otf
}

// At evaluates the color at a scalar position by linear interpolation
// between the surrounding knots. Positions outside the knot range clamp to
// the end knots, and coincident knots never divide by zero.
func (tf ColorTF) At(s float64) RGB {
	if len(tf.Points) == 0 {
		return RGB{}
	}
	if s <= tf.Points[0].Scalar {
		return tf.Points[0].Color
	}
	last := tf.Points[len(tf.Points)-1]
	if s >= last.Scalar {
		return last.Color
	}
	for i := 1; i < len(tf.Points); i++ {
		p0, p1 := tf.Points[i-1], tf.Points[i]
		if s > p1.Scalar {
			continue
		}
		span := p1.Scalar - p0.Scalar
		if span == 0 {
			return p1.Color
		}
		t := (s - p0.Scalar) / span
		return RGB{
			R: p0.Color.R + (p1.Color.R-p0.Color.R)*t,
			G: p0.Color.G + (p1.Color.G-p0.Color.G)*t,
			B: p0.Color.B + (p1.Color.B-p0.Color.B)*t,
		}
	}
	return last.Color
}

// At evaluates the opacity at a scalar position; the clamping and
// coincident-knot rules match ColorTF.At.
func (tf OpacityTF) At(s float64) float64 {
	if len(tf.Points) == 0 {
		return 0
	}
	if s <= tf.Points[0].Scalar {
		return tf.Points[0].Opacity
	}
	last := tf.Points[len(tf.Points)-1]
	if s >= last.Scalar {
		return last.Opacity
	}
	for i := 1; i < len(tf.Points); i++ {
		p0, p1 := tf.Points[i-1], tf.Points[i]
		if s > p1.Scalar {
			continue
		}
		span := p1.Scalar - p0.Scalar
		if span == 0 {
			return p1.Opacity
		}
		t := (s - p0.Scalar) / span
		return p0.Opacity + (p1.Opacity-p0.Opacity)*t
	}
	return last.Opacity
}

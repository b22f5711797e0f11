// Package dvr renders volumes with direct volume raycasting.
package dvr

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera orbits the volume center. Angles are in degrees; Distance is a
// multiple of the volume's bounding-box diagonal.
type Camera struct {
	Azimuth   float64
	Elevation float64
	Distance  float64
	FovY      float64 // vertical field of view in degrees
}

// DefaultCamera returns the startup viewpoint: 30 degrees azimuth and
// elevation, pulled back twice the bounding diagonal.
func DefaultCamera() Camera {
	return Camera{Azimuth: 30, Elevation: 30, Distance: 2, FovY: 30}
}

// Orbit adds deltas to the camera angles, keeping elevation away from the
// poles so the view up vector stays well defined.
func (c *Camera) Orbit(dAzimuth, dElevation float64) {
	c.Azimuth += dAzimuth
	c.Elevation += dElevation
	if c.Elevation > 89 {
		c.Elevation = 89
	}
	if c.Elevation < -89 {
		c.Elevation = -89
	}
}

// basis returns the camera position and the right/up/forward unit vectors
// for a volume centered at center with bounding diagonal diag.
func (c Camera) basis(center r3.Vec, diag float64) (pos, right, up, forward r3.Vec) {
	az := c.Azimuth * math.Pi / 180
	el := c.Elevation * math.Pi / 180

	dir := r3.Vec{
		X: math.Cos(el) * math.Sin(az),
		Y: math.Sin(el),
		Z: math.Cos(el) * math.Cos(az),
	}
	pos = r3.Add(center, r3.Scale(c.Distance*diag, dir))
	forward = r3.Unit(r3.Sub(center, pos))
	worldUp := r3.Vec{Y: 1}
	right = r3.Unit(r3.Cross(forward, worldUp))
	up = r3.Cross(right, forward)
	return pos, right, up, forward
}

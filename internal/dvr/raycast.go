package dvr

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"nifti-viewer/internal/transfer"
	"nifti-viewer/internal/volume"

	"gonum.org/v1/gonum/spatial/r3"
)

// background shade for empty rays
const backgroundGray = 0.1

// ErrUnsupportedScalarType reports a volume whose scalar type the 3D path
// does not accept. 2D slice viewing still works for such volumes.
type ErrUnsupportedScalarType struct {
	Type volume.ScalarType
}

func (e ErrUnsupportedScalarType) Error() string {
	return fmt.Sprintf("scalar type %s is not supported for volume rendering", e.Type)
}

// Renderer raycasts a volume through its transfer-function pair.
type Renderer struct {
	vol     *volume.Volume
	colorTF transfer.ColorTF
	alphaTF transfer.OpacityTF

	// world extents: x spans axis 2, y axis 1, z axis 0
	nx, ny, nz int
	center     r3.Vec
	diag       float64
}

// NewRenderer prepares a raycaster for the volume. Volumes with a scalar
// type outside {uint8, uint16, float32, float64} are rejected.
func NewRenderer(vol *volume.Volume, ctf transfer.ColorTF, otf transfer.OpacityTF) (*Renderer, error) {
	if !vol.Type().Renderable() {
		return nil, ErrUnsupportedScalarType{Type: vol.Type()}
	}
	dims := vol.Dims()
	nx, ny, nz := dims[2], dims[1], dims[0]
	r := &Renderer{
		vol:     vol,
		colorTF: ctf,
		alphaTF: otf,
		nx:      nx,
		ny:      ny,
		nz:      nz,
	}
	r.center = r3.Vec{X: float64(nx-1) / 2, Y: float64(ny-1) / 2, Z: float64(nz-1) / 2}
	r.diag = math.Sqrt(float64(nx*nx + ny*ny + nz*nz))
	return r, nil
}

// Render raycasts a w x h frame from the given camera.
func (r *Renderer) Render(cam Camera, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bgf := float64(backgroundGray) * 255
	bg := uint8(bgf)

	pos, right, up, forward := cam.basis(r.center, r.diag)
	halfTan := math.Tan(cam.FovY * math.Pi / 360)
	aspect := float64(w) / float64(h)

	for py := 0; py < h; py++ {
		v := (1 - 2*(float64(py)+0.5)/float64(h)) * halfTan
		for px := 0; px < w; px++ {
			u := (2*(float64(px)+0.5)/float64(w) - 1) * halfTan * aspect
			dir := r3.Unit(r3.Add(forward, r3.Add(r3.Scale(u, right), r3.Scale(v, up))))

			cr, cg, cb, hit := r.castRay(pos, dir)
			if !hit {
				img.SetRGBA(px, py, color.RGBA{R: bg, G: bg, B: bg, A: 255})
				continue
			}
			img.SetRGBA(px, py, color.RGBA{
				R: quantize(cr),
				G: quantize(cg),
				B: quantize(cb),
				A: 255,
			})
		}
	}
	return img
}

func quantize(c float64) uint8 {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(c * 255)
}

// castRay composites samples front to back along one ray. The returned flag
// is false when the ray misses the volume bounding box entirely.
func (r *Renderer) castRay(origin, dir r3.Vec) (cr, cg, cb float64, hit bool) {
	tMin, tMax, ok := r.intersectBox(origin, dir)
	if !ok {
		return 0, 0, 0, false
	}
	if tMin < 0 {
		tMin = 0
	}

	const step = 1.0 // one voxel per sample
	transmittance := 1.0
	var accR, accG, accB float64

	for t := tMin; t <= tMax; t += step {
		p := r3.Add(origin, r3.Scale(t, dir))
		s := r.sample(p)
		a := r.alphaTF.At(s)
		if a <= 0 {
			continue
		}
		col := r.colorTF.At(s)
		shade := r.shade(p, dir)
		accR += transmittance * a * col.R * shade
		accG += transmittance * a * col.G * shade
		accB += transmittance * a * col.B * shade
		transmittance *= 1 - a
		if transmittance < 0.01 {
			transmittance = 0
			break
		}
	}

	cr = accR + transmittance*backgroundGray
	cg = accG + transmittance*backgroundGray
	cb = accB + transmittance*backgroundGray
	return cr, cg, cb, true
}

// shade applies headlight Lambert shading from the central-difference
// gradient; flat regions fall back to full intensity.
func (r *Renderer) shade(p, dir r3.Vec) float64 {
	const ambient = 0.3
	g := r3.Vec{
		X: r.sample(r3.Add(p, r3.Vec{X: 1})) - r.sample(r3.Add(p, r3.Vec{X: -1})),
		Y: r.sample(r3.Add(p, r3.Vec{Y: 1})) - r.sample(r3.Add(p, r3.Vec{Y: -1})),
		Z: r.sample(r3.Add(p, r3.Vec{Z: 1})) - r.sample(r3.Add(p, r3.Vec{Z: -1})),
	}
	norm := r3.Norm(g)
	if norm == 0 {
		return 1
	}
	n := r3.Scale(1/norm, g)
	lambert := math.Abs(r3.Dot(n, dir))
	return ambient + (1-ambient)*lambert
}

// intersectBox clips a ray against the volume bounding box with the slab
// method.
func (r *Renderer) intersectBox(origin, dir r3.Vec) (tMin, tMax float64, ok bool) {
	tMin = math.Inf(-1)
	tMax = math.Inf(1)

	bounds := [3][2]float64{
		{0, float64(r.nx - 1)},
		{0, float64(r.ny - 1)},
		{0, float64(r.nz - 1)},
	}
	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}

	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < bounds[i][0] || o[i] > bounds[i][1] {
				return 0, 0, false
			}
			continue
		}
		t0 := (bounds[i][0] - o[i]) / d[i]
		t1 := (bounds[i][1] - o[i]) / d[i]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}

// sample returns the trilinearly interpolated scalar at a world point,
// clamping to the volume bounds.
func (r *Renderer) sample(p r3.Vec) float64 {
	x := clampf(p.X, 0, float64(r.nx-1))
	y := clampf(p.Y, 0, float64(r.ny-1))
	z := clampf(p.Z, 0, float64(r.nz-1))

	x0, y0, z0 := int(x), int(y), int(z)
	x1, y1, z1 := x0+1, y0+1, z0+1
	if x1 > r.nx-1 {
		x1 = r.nx - 1
	}
	if y1 > r.ny-1 {
		y1 = r.ny - 1
	}
	if z1 > r.nz-1 {
		z1 = r.nz - 1
	}
	fx, fy, fz := x-float64(x0), y-float64(y0), z-float64(z0)

	// Volume axes are (axial, y, x); world x indexes axis 2.
	at := func(xi, yi, zi int) float64 { return r.vol.At(zi, yi, xi) }

	c00 := at(x0, y0, z0)*(1-fx) + at(x1, y0, z0)*fx
	c10 := at(x0, y1, z0)*(1-fx) + at(x1, y1, z0)*fx
	c01 := at(x0, y0, z1)*(1-fx) + at(x1, y0, z1)*fx
	c11 := at(x0, y1, z1)*(1-fx) + at(x1, y1, z1)*fx

	c0 := c00*(1-fy) + c10*fy
	c1 := c01*(1-fy) + c11*fy
	return c0*(1-fz) + c1*fz
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

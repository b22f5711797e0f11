package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

var (
	crosshairLineColor = color.RGBA{R: 255, A: 255}
	crosshairRingColor = color.RGBA{G: 255, A: 255}
)

const crosshairRingRadius = 5

// Compose converts a normalized frame to RGBA and, when cross is non-nil,
// draws the crosshair overlay at the given frame coordinates: full-extent
// red axis lines plus a small green ring at the intersection.
func Compose(frame *image.Gray, cross *image.Point) *image.RGBA {
	b := frame.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := frame.GrayAt(x, y).Y
			out.SetRGBA(x, y, color.RGBA{R: g, G: g, B: g, A: 255})
		}
	}
	if cross == nil {
		return out
	}
	if cross.X < b.Min.X || cross.X >= b.Max.X || cross.Y < b.Min.Y || cross.Y >= b.Max.Y {
		return out
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		out.SetRGBA(cross.X, y, crosshairLineColor)
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		out.SetRGBA(x, cross.Y, crosshairLineColor)
	}
	drawRing(out, cross.X, cross.Y, crosshairRingRadius)
	return out
}

// drawRing plots a one-pixel circle outline of radius r around (cx, cy).
func drawRing(img *image.RGBA, cx, cy, r int) {
	b := img.Bounds()
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d2 := dx*dx + dy*dy
			if d2 < (r-1)*(r-1) || d2 > r*r {
				continue
			}
			x, y := cx+dx, cy+dy
			if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
				img.SetRGBA(x, y, crosshairRingColor)
			}
		}
	}
}

// ScaleTo resamples a frame to the requested size with bilinear filtering.
// Width and height are clamped to at least one pixel.
func ScaleTo(src image.Image, w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// ZoomSize returns the display size of a frame at a zoom factor.
func ZoomSize(w, h int, zoom float64) (int, int) {
	zw, zh := int(float64(w)*zoom), int(float64(h)*zoom)
	if zw < 1 {
		zw = 1
	}
	if zh < 1 {
		zh = 1
	}
	return zw, zh
}

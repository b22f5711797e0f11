// Package render turns raw scalar slices into displayable pixel frames.
package render

import (
	"image"

	"nifti-viewer/internal/volume"
)

// Normalize maps a scalar slice to an 8-bit grayscale frame.
//
// The slice is first rescaled so its own min..max range covers 0..255, then
// contrast multiplies and brightness adds, in that order, before clamping.
// A flat slice (max == min) produces an all-zero frame.
func Normalize(s volume.Slice, brightness, contrast float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, s.Cols, s.Rows))
	if len(s.Values) == 0 {
		return img
	}

	minVal, maxVal := s.Values[0], s.Values[0]
	for _, v := range s.Values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		return img
	}

	scale := 255 / (maxVal - minVal)
	for r := 0; r < s.Rows; r++ {
		row := img.Pix[r*img.Stride : r*img.Stride+s.Cols]
		for c := 0; c < s.Cols; c++ {
			norm := (s.Values[r*s.Cols+c] - minVal) * scale
			display := norm*contrast + brightness
			if display < 0 {
				display = 0
			} else if display > 255 {
				display = 255
			}
			row[c] = uint8(display)
		}
	}
	return img
}

// Command slicedump exports normalized slice images from a NIfTI volume.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"nifti-viewer/internal/nifti"
	"nifti-viewer/internal/render"
	"nifti-viewer/internal/viewer"
	"nifti-viewer/internal/volume"
)

func main() {
	volumePath := flag.String("volume", "", "Path to NIfTI volume (.nii or .nii.gz)")
	planeName := flag.String("plane", "axial", "Plane to export: axial, coronal, or sagittal")
	outDir := flag.String("out", ".", "Output directory for PNG files")
	index := flag.Int("index", -1, "Slice index to export (-1 exports all)")
	brightness := flag.Float64("brightness", 0, "Additive brightness (0-100)")
	contrast := flag.Float64("contrast", 1.0, "Contrast multiplier")
	flag.Parse()

	if *volumePath == "" {
		fmt.Println("Usage: slicedump -volume <path> [-plane axial|coronal|sagittal] [-out dir] [-index n]")
		os.Exit(1)
	}

	plane, err := planeByName(*planeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	vol, hdr, err := nifti.Load(*volumePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load volume: %v\n", err)
		os.Exit(1)
	}

	d := vol.Dims()
	fmt.Printf("Loaded %s volume: %dx%dx%d, datatype %d\n", vol.Type(), d[0], d[1], d[2], hdr.Datatype)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	extent := vol.Extent(plane.Axis())
	first, last := 0, extent-1
	if *index >= 0 {
		if *index >= extent {
			fmt.Fprintf(os.Stderr, "Slice index %d out of range (0-%d)\n", *index, extent-1)
			os.Exit(1)
		}
		first, last = *index, *index
	}

	for i := first; i <= last; i++ {
		slice := volume.ExtractSlice(vol, plane.Axis(), i)
		img := render.Normalize(slice, *brightness, *contrast)

		name := fmt.Sprintf("%s_%04d.png", *planeName, i)
		if err := writePNG(filepath.Join(*outDir, name), img); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Exported %d slice(s) to %s\n", last-first+1, *outDir)
}

func planeByName(name string) (viewer.Plane, error) {
	switch name {
	case "axial":
		return viewer.PlaneAxial, nil
	case "coronal":
		return viewer.PlaneCoronal, nil
	case "sagittal":
		return viewer.PlaneSagittal, nil
	default:
		return 0, fmt.Errorf("unknown plane %q (want axial, coronal, or sagittal)", name)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

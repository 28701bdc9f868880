// Package labelio reads and writes label rasters as 16-bit grayscale TIFF,
// one pixel value per object id, and loads guide images for display behind
// the editor.
package labelio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/tiff"

	"object-editor/internal/labels"
)

// maxTIFFID is the largest id a Gray16 pixel can carry.
const maxTIFFID = 1<<16 - 1

// SavePlane writes one label plane as a Gray16 TIFF. Ids above the 16-bit
// range cannot be represented and fail the save.
func SavePlane(path string, plane *labels.Plane) error {
	rows, cols := plane.Rows(), plane.Cols()
	img := image.NewGray16(image.Rect(0, 0, cols, rows))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			id := plane.Get(r, c)
			if id > maxTIFFID {
				return fmt.Errorf("labelio: id %d exceeds 16-bit TIFF range", id)
			}
			img.SetGray16(c, r, color.Gray16{Y: uint16(id)})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create label file: %w", err)
	}
	defer file.Close()

	opts := &tiff.Options{Compression: tiff.Deflate}
	if err := tiff.Encode(file, img, opts); err != nil {
		return fmt.Errorf("failed to encode label TIFF: %w", err)
	}
	return nil
}

// LoadPlane reads a label plane from a TIFF written by SavePlane, or any
// grayscale TIFF whose pixel values are object ids.
func LoadPlane(path string) (*labels.Plane, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label file: %w", err)
	}
	defer file.Close()

	img, err := tiff.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode label TIFF: %w", err)
	}

	bounds := img.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()
	plane := labels.NewPlane(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			gray := color.Gray16Model.Convert(img.At(bounds.Min.X+c, bounds.Min.Y+r)).(color.Gray16)
			plane.Set(r, c, int(gray.Y))
		}
	}
	return plane, nil
}

// LoadGuide loads the image displayed behind the label outlines. TIFF, PNG
// and JPEG are accepted.
func LoadGuide(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open guide image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode guide image: %w", err)
	}
	return img, nil
}

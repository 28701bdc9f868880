// Package segment produces an initial label plane from a grayscale image,
// for sessions that start from a raw micrograph instead of an existing
// segmentation.
package segment

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"object-editor/internal/contour"
	"object-editor/internal/labels"
)

// Options configures segmentation.
type Options struct {
	MinArea    int  // Minimum blob area in pixels to keep
	OpenRadius int  // Morphological opening radius; 0 disables
	Invert     bool // Segment dark blobs on a light background
}

// DefaultOptions returns sensible defaults for segmentation.
func DefaultOptions() Options {
	return Options{
		MinArea:    25, // Ignore specks below 5x5 pixels
		OpenRadius: 1,  // Knock off single-pixel noise
	}
}

// SegmentImage thresholds the image with Otsu's method, opens the binary
// mask to drop noise, and labels the surviving 8-connected blobs. Blob
// numbering is compact and follows scan order.
func SegmentImage(img gocv.Mat, opts Options) (*labels.Plane, error) {
	if img.Empty() {
		return nil, fmt.Errorf("segment: empty input image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if img.Channels() > 1 {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	} else {
		img.CopyTo(&gray)
	}

	flags := gocv.ThresholdBinary | gocv.ThresholdOtsu
	if opts.Invert {
		flags = gocv.ThresholdBinaryInv | gocv.ThresholdOtsu
	}
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, 0, 255, flags)

	if opts.OpenRadius > 0 {
		size := 2*opts.OpenRadius + 1
		element := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(size, size))
		defer element.Close()
		gocv.MorphologyEx(binary, &binary, gocv.MorphOpen, element)
	}

	rows, cols := binary.Rows(), binary.Cols()
	mask := make([]bool, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if binary.GetUCharAt(r, c) > 0 {
				mask[r*cols+c] = true
			}
		}
	}

	comp, count := contour.LabelComponents(mask, rows, cols, contour.Connect8)

	// Drop small components and renumber the rest compactly.
	areas := make([]int, count+1)
	for _, v := range comp {
		if v > 0 {
			areas[v]++
		}
	}
	renumber := make([]int, count+1)
	next := 1
	for label := 1; label <= count; label++ {
		if areas[label] >= opts.MinArea {
			renumber[label] = next
			next++
		}
	}

	plane := labels.NewPlane(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if v := comp[r*cols+c]; v > 0 && renumber[v] > 0 {
				plane.Set(r, c, renumber[v])
			}
		}
	}
	return plane, nil
}

// SegmentFile loads an image from disk and segments it.
func SegmentFile(path string, opts Options) (*labels.Plane, error) {
	img := gocv.IMRead(path, gocv.IMReadGrayScale)
	if img.Empty() {
		return nil, fmt.Errorf("segment: failed to read image %q", path)
	}
	defer img.Close()
	return SegmentImage(img, opts)
}

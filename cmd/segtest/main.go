// Command segtest segments an image into labeled objects, reports shape
// statistics, and optionally writes the label raster for editing.
package main

import (
	"flag"
	"fmt"
	"os"

	"object-editor/internal/labelio"
	"object-editor/internal/labels"
	"object-editor/internal/measure"
	"object-editor/internal/segment"
)

func main() {
	imagePath := flag.String("image", "", "Path to grayscale image (TIFF, PNG, or JPEG)")
	outPath := flag.String("out", "", "Optional output path for the label TIFF")
	minArea := flag.Int("min-area", 25, "Minimum blob area in pixels")
	openRadius := flag.Int("open", 1, "Morphological opening radius, 0 disables")
	invert := flag.Bool("invert", false, "Segment dark blobs on a light background")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: segtest -image <path> [-out labels.tiff] [-min-area 25] [-open 1] [-invert]")
		os.Exit(1)
	}

	opts := segment.Options{
		MinArea:    *minArea,
		OpenRadius: *openRadius,
		Invert:     *invert,
	}
	plane, err := segment.SegmentFile(*imagePath, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Segmentation failed: %v\n", err)
		os.Exit(1)
	}

	stats := measure.MeasureObjects([]*labels.Plane{plane})
	fmt.Printf("Segmented %dx%d image into %d objects\n", plane.Cols(), plane.Rows(), len(stats))
	fmt.Printf("%-6s %8s %10s %10s %10s %8s\n", "ID", "Area", "CentX", "CentY", "Perim", "Ecc")
	for _, st := range stats {
		fmt.Printf("%-6d %8d %10.1f %10.1f %10.1f %8.3f\n",
			st.ID, st.Area, st.Centroid.X, st.Centroid.Y, st.Perimeter, st.Eccentricity)
	}

	if *outPath != "" {
		if err := labelio.SavePlane(*outPath, plane); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save labels: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *outPath)
	}
}

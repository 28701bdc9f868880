// Package main provides the entry point for the object editor application.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strings"

	"object-editor/internal/editor"
	"object-editor/internal/labelio"
	"object-editor/internal/labels"
	"object-editor/internal/measure"
	"object-editor/internal/segment"
	editorui "object-editor/ui/editor"

	"fyne.io/fyne/v2/app"
)

const (
	appTitle   = "Object Editor"
	appVersion = "0.1.0"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	labelPath := flag.String("labels", "", "label raster TIFF to edit")
	guidePath := flag.String("guide", "", "optional guide image shown behind the labels")
	outPath := flag.String("out", "edited_labels.tiff", "output path for the edited labels")
	segmentInput := flag.Bool("segment", false, "treat -labels as a raw image and segment it first")
	allowOverlap := flag.Bool("overlap", false, "allow edited objects to overlap")
	flag.Parse()

	log.Printf("Starting %s v%s", appTitle, appVersion)
	if *labelPath == "" {
		log.Fatal("no input: -labels is required")
	}

	var plane *labels.Plane
	var err error
	if *segmentInput {
		plane, err = segment.SegmentFile(*labelPath, segment.DefaultOptions())
	} else {
		plane, err = labelio.LoadPlane(*labelPath)
	}
	if err != nil {
		log.Fatalf("Failed to load labels: %v", err)
	}

	var guide image.Image
	if *guidePath != "" {
		guide, err = labelio.LoadGuide(*guidePath)
		if err != nil {
			log.Printf("Failed to load guide image: %v", err)
		}
	}

	session, err := editor.NewSession([]*labels.Plane{plane}, *allowOverlap)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	a := app.New()
	win := editorui.NewWindow(a, session, guide)
	win.OnFinalize = func(planes []*labels.Plane) {
		for i, p := range planes {
			path := *outPath
			if len(planes) > 1 {
				path = numberedPath(path, i)
			}
			if err := labelio.SavePlane(path, p); err != nil {
				log.Printf("Failed to save labels: %v", err)
				continue
			}
			log.Printf("Saved %s", path)
		}
		for _, st := range measure.MeasureObjects(planes) {
			log.Printf("object %d: area=%d centroid=(%.1f, %.1f) ecc=%.3f",
				st.ID, st.Area, st.Centroid.X, st.Centroid.Y, st.Eccentricity)
		}
	}
	win.Show()
	a.Run()
}

// numberedPath derives a per-plane output path for overlapping results.
func numberedPath(path string, i int) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_%d%s", base, i, ext)
}

// Package editor provides the interactive editing canvas and window.
package editor

import (
	"image"
	"image/color"

	edit "object-editor/internal/editor"
	"object-editor/internal/labels"
	"object-editor/pkg/colorutil"
	"object-editor/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.25
	maxZoom  = 16.0
	zoomStep = 1.25

	// labelAlpha blends object tints over the guide image.
	labelAlpha = 0.45
	// pointSize is the side, in screen pixels, of a control point marker.
	pointSize = 5
)

// Canvas displays the guide image, the label tints, and the open chains,
// and routes pointer events into the editing session.
type Canvas struct {
	widget.BaseWidget

	session *edit.Session
	guide   image.Image

	raster *fynecanvas.Raster
	scroll *container.Scroll
	zoom   float64

	dragging bool
	lastDrag geometry.Point2D

	// cursor is the last hovered image position, used by keyboard gestures.
	cursor geometry.Point2D

	// Callbacks
	onChange func()
}

// NewCanvas creates an editing canvas over a session. The guide image may
// be nil, in which case labels render on black.
func NewCanvas(session *edit.Session, guide image.Image) *Canvas {
	c := &Canvas{
		session: session,
		guide:   guide,
		zoom:    1.0,
	}
	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScalePixels
	c.updateContentSize()

	c.scroll = container.NewScroll(c.raster)
	c.scroll.Direction = container.ScrollBoth

	c.ExtendBaseWidget(c)
	return c
}

// Container returns the scrollable canvas for embedding in layouts.
func (c *Canvas) Container() fyne.CanvasObject {
	return c.scroll
}

// OnChange sets a callback fired after every session-mutating event.
func (c *Canvas) OnChange(callback func()) {
	c.onChange = callback
}

// Session returns the underlying editing session.
func (c *Canvas) Session() *edit.Session {
	return c.session
}

// SetZoom sets the zoom level.
func (c *Canvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	c.zoom = zoom
	c.updateContentSize()
}

// ZoomIn increases the zoom level.
func (c *Canvas) ZoomIn() { c.SetZoom(c.zoom * zoomStep) }

// ZoomOut decreases the zoom level.
func (c *Canvas) ZoomOut() { c.SetZoom(c.zoom / zoomStep) }

// Refresh redraws the canvas.
func (c *Canvas) Refresh() {
	c.raster.Refresh()
	c.BaseWidget.Refresh()
}

// changed redraws and notifies the window.
func (c *Canvas) changed() {
	c.Refresh()
	if c.onChange != nil {
		c.onChange()
	}
}

// toImage converts a widget position to image coordinates.
func (c *Canvas) toImage(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{
		X: float64(pos.X) / c.zoom,
		Y: float64(pos.Y) / c.zoom,
	}
}

// Tapped handles left clicks: picking split anchors, or press-and-release
// on a control point in place.
func (c *Canvas) Tapped(ev *fyne.PointEvent) {
	pt := c.toImage(ev.Position)
	c.cursor = pt
	c.session.Pick(pt)
	c.session.Release(pt)
	c.changed()
}

// TappedSecondary handles right clicks: open the object under the cursor
// for editing, or commit the open object containing the click.
func (c *Canvas) TappedSecondary(ev *fyne.PointEvent) {
	pt := c.toImage(ev.Position)
	c.cursor = pt
	c.session.CommitGesture(edit.GestureEditObject, pt)
	c.changed()
}

// Dragged handles press-drag motion: control point moves, freehand drawing
// and the region-delete rectangle.
func (c *Canvas) Dragged(ev *fyne.DragEvent) {
	pt := c.toImage(ev.Position)
	c.cursor = pt
	if !c.dragging {
		c.dragging = true
		start := c.toImage(fyne.Position{
			X: ev.Position.X - ev.Dragged.DX,
			Y: ev.Position.Y - ev.Dragged.DY,
		})
		c.session.Pick(start)
	}
	c.session.Drag(pt)
	c.lastDrag = pt
	c.Refresh()
}

// DragEnd completes a press-drag gesture.
func (c *Canvas) DragEnd() {
	if !c.dragging {
		return
	}
	c.dragging = false
	c.session.Release(c.lastDrag)
	c.changed()
}

// HandleKey dispatches a keyboard shortcut at the hovered position.
func (c *Canvas) HandleKey(key fyne.KeyName) {
	switch key {
	case fyne.KeyT:
		c.session.CommitGesture(edit.GestureToggleKeep, c.cursor)
	case fyne.KeyA:
		c.session.CommitGesture(edit.GestureAddPoint, c.cursor)
	case fyne.KeyD:
		c.session.CommitGesture(edit.GestureDeletePoint, c.cursor)
	case fyne.KeyN:
		c.session.CommitGesture(edit.GestureNewObject, c.cursor)
	case fyne.KeyS:
		c.session.SetMode(edit.ModeSplitPickFirst)
	case fyne.KeyF:
		c.session.SetMode(edit.ModeFreehandDraw)
	case fyne.KeyX:
		c.session.SetMode(edit.ModeRegionDelete)
	case fyne.KeyU:
		c.session.Undo()
	case fyne.KeyEscape:
		c.session.CommitGesture(edit.GestureEscape, c.cursor)
	default:
		return
	}
	c.changed()
}

// MouseMoved tracks the cursor for keyboard gestures.
func (c *Canvas) MouseMoved(pos fyne.Position) {
	c.cursor = c.toImage(pos)
}

// CreateRenderer implements fyne.Widget.
func (c *Canvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.scroll)
}

func (c *Canvas) updateContentSize() {
	labelSet := c.session.CurrentLabels()
	if len(labelSet) == 0 {
		return
	}
	w := float32(float64(labelSet[0].Cols()) * c.zoom)
	h := float32(float64(labelSet[0].Rows()) * c.zoom)
	c.raster.SetMinSize(fyne.NewSize(w, h))
	c.raster.Resize(fyne.NewSize(w, h))
	c.raster.Refresh()
	if c.scroll != nil {
		c.scroll.Refresh()
	}
}

// draw renders the canvas at the requested size.
func (c *Canvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	planes := c.session.CurrentLabels()
	if len(planes) == 0 {
		return output
	}
	rows, cols := planes[0].Rows(), planes[0].Cols()

	// Objects with open chains render as chains, not tint.
	open := make(map[int]bool)
	chains := c.session.CurrentChains()
	for _, ch := range chains {
		open[ch.Object] = true
	}

	for y := 0; y < h; y++ {
		srcR := int(float64(y) / c.zoom)
		if srcR >= rows {
			continue
		}
		for x := 0; x < w; x++ {
			srcC := int(float64(x) / c.zoom)
			if srcC >= cols {
				continue
			}

			var base color.RGBA
			if c.guide != nil {
				r, g, b, _ := c.guide.At(srcC, srcR).RGBA()
				base = color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
			}

			id := idAt(planes, srcR, srcC)
			if id != 0 && !open[id] {
				tint := colorutil.LabelColor(id)
				alpha := labelAlpha
				if !c.session.Kept(id) {
					// Discarded objects fade to a thin outline-like wash.
					alpha = labelAlpha / 3
				}
				base = blend(base, tint, alpha)
			}
			output.SetRGBA(x, y, base)
		}
	}

	for _, ch := range chains {
		lineColor := colorutil.LabelColor(ch.Object)
		if !ch.Outside {
			lineColor = colorutil.Magenta
		}
		for i := 0; i+1 < len(ch.Points); i++ {
			c.drawImageLine(output, ch.Points[i], ch.Points[i+1], lineColor)
		}
		for i := 0; i < ch.NumPoints(); i++ {
			c.drawMarker(output, ch.Points[i], colorutil.White)
		}
	}

	if path := c.session.DrawnPath(); len(path) > 1 {
		for i := 0; i+1 < len(path); i++ {
			c.drawImageLine(output, path[i], path[i+1], colorutil.Yellow)
		}
	}

	if rect, ok := c.session.ActiveRegion(); ok {
		c.drawImageRect(output, rect, colorutil.Cyan)
	}

	return output
}

// idAt returns the topmost id at a pixel.
func idAt(planes []*labels.Plane, r, c int) int {
	for _, p := range planes {
		if id := p.Get(r, c); id != 0 {
			return id
		}
	}
	return 0
}

// blend mixes the tint over the base with the given alpha.
func blend(base, tint color.RGBA, alpha float64) color.RGBA {
	inv := 1 - alpha
	return color.RGBA{
		R: uint8(float64(tint.R)*alpha + float64(base.R)*inv),
		G: uint8(float64(tint.G)*alpha + float64(base.G)*inv),
		B: uint8(float64(tint.B)*alpha + float64(base.B)*inv),
		A: 255,
	}
}

// drawImageLine draws a line between two image-space points in screen space.
func (c *Canvas) drawImageLine(output *image.RGBA, a, b geometry.Point2D, col color.RGBA) {
	x0, y0 := int(a.X*c.zoom), int(a.Y*c.zoom)
	x1, y1 := int(b.X*c.zoom), int(b.Y*c.zoom)

	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y0 - y1
	if dy > 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	bounds := output.Bounds()
	for {
		if image.Pt(x0, y0).In(bounds) {
			output.SetRGBA(x0, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawMarker draws a filled square centered on an image-space point.
func (c *Canvas) drawMarker(output *image.RGBA, p geometry.Point2D, col color.RGBA) {
	cx, cy := int(p.X*c.zoom), int(p.Y*c.zoom)
	bounds := output.Bounds()
	for dy := -pointSize / 2; dy <= pointSize/2; dy++ {
		for dx := -pointSize / 2; dx <= pointSize/2; dx++ {
			if image.Pt(cx+dx, cy+dy).In(bounds) {
				output.SetRGBA(cx+dx, cy+dy, col)
			}
		}
	}
}

// drawImageRect draws the outline of an image-space rectangle.
func (c *Canvas) drawImageRect(output *image.RGBA, r geometry.Rect, col color.RGBA) {
	tl := geometry.Point2D{X: r.X, Y: r.Y}
	tr := geometry.Point2D{X: r.X + r.Width, Y: r.Y}
	bl := geometry.Point2D{X: r.X, Y: r.Y + r.Height}
	br := geometry.Point2D{X: r.X + r.Width, Y: r.Y + r.Height}
	c.drawImageLine(output, tl, tr, col)
	c.drawImageLine(output, tr, br, col)
	c.drawImageLine(output, br, bl, col)
	c.drawImageLine(output, bl, tl, col)
}

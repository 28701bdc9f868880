package editor

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	edit "object-editor/internal/editor"
	"object-editor/internal/labels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Window owns the editor window: the canvas, the toolbar, and the status
// bar. OnFinalize receives the final planes when the user accepts the edit.
type Window struct {
	win    fyne.Window
	canvas *Canvas
	status *widget.Label

	// OnFinalize is called with the finalized planes when the user is done.
	OnFinalize func([]*labels.Plane)
}

// NewWindow builds the editor window for a session.
func NewWindow(app fyne.App, session *edit.Session, guide image.Image) *Window {
	w := &Window{
		win:    app.NewWindow("Edit Objects"),
		status: widget.NewLabel(""),
	}
	w.canvas = NewCanvas(session, guide)
	w.canvas.OnChange(w.updateStatus)

	toolbar := container.NewHBox(
		widget.NewButton("Split", func() {
			session.SetMode(edit.ModeSplitPickFirst)
			w.updateStatus()
		}),
		widget.NewButton("Freehand", func() {
			session.SetMode(edit.ModeFreehandDraw)
			w.updateStatus()
		}),
		widget.NewButton("Delete Region", func() {
			session.SetMode(edit.ModeRegionDelete)
			w.updateStatus()
		}),
		widget.NewButton("Join...", func() { w.promptIDs("Join objects", session.Join) }),
		widget.NewButton("Hull...", func() { w.promptIDs("Convex hull", session.ConvexHull) }),
		widget.NewButton("Undo", func() {
			session.Undo()
			w.refresh()
		}),
		widget.NewButton("Keep All", func() {
			session.KeepAll()
			w.refresh()
		}),
		widget.NewButton("Remove All", func() {
			session.RemoveAll()
			w.refresh()
		}),
		widget.NewButton("Toggle All", func() {
			session.ToggleAll()
			w.refresh()
		}),
		widget.NewButton("Reset", func() {
			session.Reset()
			w.refresh()
		}),
		widget.NewButton("Done", w.finish),
	)

	content := container.NewBorder(toolbar, w.status, nil, nil, w.canvas.Container())
	w.win.SetContent(content)
	w.win.Resize(fyne.NewSize(1024, 768))
	w.win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		w.canvas.HandleKey(ev.Name)
	})
	w.updateStatus()
	return w
}

// Show displays the window.
func (w *Window) Show() {
	w.win.Show()
}

func (w *Window) refresh() {
	w.canvas.Refresh()
	w.updateStatus()
}

func (w *Window) updateStatus() {
	s := w.canvas.Session()
	w.status.SetText(fmt.Sprintf("mode: %s | undo depth: %d", s.Mode(), s.UndoDepth()))
}

// promptIDs asks for a comma-separated id list and applies op to it.
func (w *Window) promptIDs(title string, op func([]int) error) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("e.g. 3, 7, 12")
	dialog.ShowForm(title, "Apply", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Object ids", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			ids, err := parseIDs(entry.Text)
			if err == nil {
				err = op(ids)
			}
			if err != nil {
				dialog.ShowError(err, w.win)
			}
			w.refresh()
		}, w.win)
}

func (w *Window) finish() {
	planes, err := w.canvas.Session().Finalize()
	if err != nil {
		dialog.ShowError(err, w.win)
		return
	}
	if w.OnFinalize != nil {
		w.OnFinalize(planes)
	}
	w.win.Close()
}

// parseIDs parses a comma-separated list of object ids.
func parseIDs(text string) ([]int, error) {
	var ids []int
	for _, field := range strings.Split(text, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid object id %q", field)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

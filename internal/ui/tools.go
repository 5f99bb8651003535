package ui

import (
	"fmt"
	"image/color"
	"strings"

	"StudyBoard/internal/whiteboard"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var toolIcons = map[whiteboard.Tool]fyne.Resource{
	whiteboard.Pen:       theme.DocumentCreateIcon(),
	whiteboard.Text:      theme.DocumentIcon(),
	whiteboard.Line:      theme.ContentRemoveIcon(),
	whiteboard.Rectangle: theme.CheckButtonIcon(),
	whiteboard.Circle:    theme.RadioButtonIcon(),
	whiteboard.Polygon:   theme.ViewFullScreenIcon(),
	whiteboard.Eraser:    theme.ContentClearIcon(),
}

func toolLabel(t whiteboard.Tool) string {
	name := t.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// colorSwatch is a tappable square of one palette colour.
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(20, 20))
	rect.CornerRadius = 10

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1
	border.CornerRadius = 10

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar is the board's side panel: tools, colours, stroke settings,
// history and export actions.
type Toolbar struct {
	board  *BoardWidget
	window fyne.Window

	tools   map[whiteboard.Tool]*widget.Button
	current *canvas.Rectangle
	width   *widget.Slider
	opacity *widget.Slider
	undo    *widget.Button
	redo    *widget.Button

	// OnStatus reports the outcome of toolbar actions.
	OnStatus func(msg string)
}

// NewToolbar builds the panel and keeps it in sync with board.
func NewToolbar(board *BoardWidget, w fyne.Window) *Toolbar {
	t := &Toolbar{board: board, window: w, tools: make(map[whiteboard.Tool]*widget.Button)}
	return t
}

// Content lays the toolbar out as a vertical panel.
func (t *Toolbar) Content() fyne.CanvasObject {
	toolBox := container.NewVBox()
	for _, tool := range whiteboard.Tools {
		btn := widget.NewButtonWithIcon(toolLabel(tool), toolIcons[tool], func() { t.selectTool(tool) })
		btn.Alignment = widget.ButtonAlignLeading
		t.tools[tool] = btn
		toolBox.Add(btn)
	}
	t.selectTool(t.board.Tool())

	style := t.board.Style()
	t.current = canvas.NewRectangle(style.Color)
	t.current.SetMinSize(fyne.NewSize(28, 28))
	t.current.CornerRadius = 4

	swatches := container.NewGridWithColumns(4)
	for _, c := range whiteboard.Palette {
		swatches.Add(newColorSwatch(c, t.pickColor))
	}
	custom := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), t.showColorPicker)

	t.width = widget.NewSlider(whiteboard.MinWidth, whiteboard.MaxWidth)
	t.width.Step = 1
	t.width.SetValue(float64(style.Width))
	t.width.OnChanged = func(v float64) { t.board.SetWidth(float32(v)) }

	t.opacity = widget.NewSlider(whiteboard.MinOpacity, whiteboard.MaxOpacity)
	t.opacity.Step = 0.1
	t.opacity.SetValue(float64(style.Opacity))
	t.opacity.OnChanged = func(v float64) { t.board.SetOpacity(float32(v)) }

	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), t.board.Undo)
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), t.board.Redo)
	clearBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), t.board.ClearAll)
	clearBtn.Importance = widget.DangerImportance
	png := widget.NewButtonWithIcon("PNG", theme.DownloadIcon(), func() { t.export("PNG", t.board.DownloadPNG) })
	pdf := widget.NewButtonWithIcon("PDF", theme.DocumentSaveIcon(), func() { t.export("PDF", t.board.DownloadPDF) })
	t.Refresh()

	return container.NewVBox(
		toolBox,
		widget.NewSeparator(),
		container.NewHBox(t.current, layout.NewSpacer(), custom),
		swatches,
		widget.NewSeparator(),
		widget.NewLabel("Thickness"),
		t.width,
		widget.NewLabel("Opacity"),
		t.opacity,
		widget.NewSeparator(),
		container.NewGridWithColumns(3, t.undo, t.redo, clearBtn),
		container.NewGridWithColumns(2, png, pdf),
	)
}

func (t *Toolbar) selectTool(tool whiteboard.Tool) {
	t.board.SetTool(tool)
	for k, btn := range t.tools {
		if k == tool {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

func (t *Toolbar) pickColor(c color.Color) {
	t.board.SetColor(c)
	if t.current != nil {
		t.current.FillColor = c
		t.current.Refresh()
	}
}

func (t *Toolbar) showColorPicker() {
	picker := dialog.NewColorPicker("Colour", "Pick a stroke colour", t.pickColor, t.window)
	picker.Advanced = true
	picker.SetColor(t.board.Style().Color)
	picker.Show()
}

func (t *Toolbar) export(kind string, download func() error) {
	if err := download(); err != nil {
		t.board.log.Error(fmt.Sprintf("[EXPORT] %s export failed", kind), err)
		dialog.ShowError(err, t.window)
		return
	}
	t.status(fmt.Sprintf("%s export ready", kind))
}

func (t *Toolbar) status(msg string) {
	if t.OnStatus != nil {
		t.OnStatus(msg)
	}
}

// Refresh matches the undo and redo buttons to the board history.
func (t *Toolbar) Refresh() {
	if t.undo == nil {
		return
	}
	setEnabled(t.undo, t.board.CanUndo())
	setEnabled(t.redo, t.board.CanRedo())
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

type participant struct {
	Name  string
	IsYou bool
}

var participants = []participant{
	{Name: "Alex Ryder (You)", IsYou: true},
	{Name: "Dr. Anya Sharma"},
	{Name: "Ben Carter"},
}

// NewParticipantsPanel lists the people in the study room.
func NewParticipantsPanel() fyne.CanvasObject {
	title := widget.NewLabelWithStyle(fmt.Sprintf("Participants (%d)", len(participants)), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	list := container.NewVBox(title)
	for _, p := range participants {
		name := widget.NewLabel(p.Name)
		if p.IsYou {
			name.Importance = widget.HighImportance
		}
		list.Add(container.NewHBox(widget.NewIcon(theme.AccountIcon()), name))
	}
	return list
}

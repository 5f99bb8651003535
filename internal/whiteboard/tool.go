package whiteboard

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Tool selects what pointer input draws.
type Tool int

const (
	Pen Tool = iota
	Eraser
	Rectangle
	Circle
	Line
	Text
	Polygon
)

var toolNames = [...]string{
	Pen:       "pen",
	Eraser:    "eraser",
	Rectangle: "rectangle",
	Circle:    "circle",
	Line:      "line",
	Text:      "text",
	Polygon:   "polygon",
}

// Tools lists every tool in toolbar order.
var Tools = []Tool{Pen, Text, Line, Rectangle, Circle, Polygon, Eraser}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool maps a lowercase tool name to its Tool.
func ParseTool(s string) (Tool, error) {
	for i, name := range toolNames {
		if strings.EqualFold(s, name) {
			return Tool(i), nil
		}
	}
	return Pen, errors.Errorf("unknown tool %q", s)
}

// isShape reports whether t previews from an anchor and a saved raster.
func (t Tool) isShape() bool {
	return t == Rectangle || t == Circle || t == Line
}

const (
	MinWidth   = 1
	MaxWidth   = 50
	MinOpacity = 0.1
	MaxOpacity = 1.0

	// TextSize is the logical pixel size of text placed on the board.
	TextSize = 16
)

// Palette holds the board's preset swatches.
var Palette = []color.NRGBA{
	{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF},
	{R: 0xF9, G: 0x73, B: 0x16, A: 0xFF},
	{R: 0xEA, G: 0xB3, B: 0x08, A: 0xFF},
	{R: 0x22, G: 0xC5, B: 0x5E, A: 0xFF},
	{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF},
	{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF},
}

// Style is the stroke configuration applied to the next drawing action.
type Style struct {
	Color   color.NRGBA // alpha is ignored, see Opacity
	Width   float32
	Opacity float32
}

// DefaultStyle is white, 5px wide, fully opaque.
func DefaultStyle() Style {
	return Style{Color: Palette[0], Width: 5, Opacity: 1}
}

// Paint combines the colour and opacity into one paint value.
func (s Style) Paint() color.NRGBA {
	c := s.Color
	c.A = uint8(math.Round(float64(clampOpacity(s.Opacity)) * 0xFF))
	return c
}

func clampWidth(w float32) float32 {
	if w < MinWidth || math.IsNaN(float64(w)) {
		return MinWidth
	}
	if w > MaxWidth {
		return MaxWidth
	}
	return w
}

func clampOpacity(o float32) float32 {
	if o < MinOpacity || math.IsNaN(float64(o)) {
		return MinOpacity
	}
	if o > MaxOpacity {
		return MaxOpacity
	}
	return o
}

// ParseHexColor parses "#RRGGBB" (the leading # is optional).
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var c color.NRGBA
	if len(s) != 6 {
		return c, errors.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return c, errors.Wrapf(err, "invalid colour %q", s)
	}
	c.R, c.G, c.B, c.A = uint8(v>>16), uint8(v>>8), uint8(v), 0xFF
	return c, nil
}

// HexColor formats c as "#RRGGBB".
func HexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
}

package whiteboard

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Tool selects how the next stroke is rendered
type Tool string

const (
	ToolPen       Tool = "pen"
	ToolEraser    Tool = "eraser"
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
)

// Tools lists every drawing tool in toolbar order
var Tools = []Tool{ToolPen, ToolEraser, ToolRectangle, ToolCircle, ToolLine}

// ParseTool validates a tool name
func ParseTool(s string) (Tool, error) {
	for _, t := range Tools {
		if string(t) == strings.ToLower(s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tool %q", s)
}

// Freehand reports whether the tool paints along the pointer path
func (t Tool) Freehand() bool {
	return t == ToolPen || t == ToolEraser
}

// Palette is the fixed set of swatches offered by the toolbar
var Palette = []string{
	"#000000", "#FF0000", "#00FF00", "#0000FF",
	"#FFFF00", "#FF00FF", "#00FFFF", "#FFA500",
	"#800080", "#FFC0CB", "#A52A2A", "#808080",
}

// ParseColor parses a #RRGGBB hex colour
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

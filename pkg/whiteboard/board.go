package whiteboard

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

// Board is one editing session of a whiteboard cell. It owns the canvas and
// its history; only the final raster is written back to the cell.
type Board struct {
	canvas  *Canvas
	history *History

	tool  Tool
	color color.RGBA
	size  int

	drawing bool
	start   image.Point
	last    image.Point
}

// NewBoard opens a blank board and records it as the first snapshot
func NewBoard(width, height, maxHistory int) *Board {
	b := &Board{
		canvas:  NewCanvas(width, height),
		history: NewHistory(maxHistory),
		tool:    ToolPen,
		color:   color.RGBA{A: 0xff},
		size:    2,
	}
	b.commit()
	return b
}

// OpenBoard restores a board from stored cell content. Empty content yields a
// blank board of the given size; otherwise the board takes the image's size.
func OpenBoard(content string, width, height, maxHistory int) (*Board, error) {
	if content == "" {
		return NewBoard(width, height, maxHistory), nil
	}
	img, err := DecodeDataURL(content)
	if err != nil {
		return nil, err
	}
	size := img.Bounds().Size()
	b := &Board{
		canvas:  NewCanvas(size.X, size.Y),
		history: NewHistory(maxHistory),
		tool:    ToolPen,
		color:   color.RGBA{A: 0xff},
		size:    2,
	}
	b.canvas.DrawImage(img)
	b.commit()
	return b, nil
}

// Canvas exposes the drawing surface
func (b *Board) Canvas() *Canvas {
	return b.canvas
}

// History exposes the undo/redo stack
func (b *Board) History() *History {
	return b.history
}

// SetTool selects the tool for the next stroke
func (b *Board) SetTool(t Tool) {
	b.tool = t
}

// SetColor selects the stroke colour
func (b *Board) SetColor(c color.RGBA) {
	b.color = c
}

// SetSize selects the stroke width in pixels
func (b *Board) SetSize(n int) {
	if n < 1 {
		n = 1
	}
	b.size = n
}

// Tool returns the selected tool
func (b *Board) Tool() Tool {
	return b.tool
}

func (b *Board) ink() color.RGBA {
	if b.tool == ToolEraser {
		return Background
	}
	return b.color
}

// BeginStroke starts a drawing action at p
func (b *Board) BeginStroke(p image.Point) {
	b.drawing = true
	b.start, b.last = p, p
	if b.tool.Freehand() {
		stamp(b.canvas.img, p, b.size, b.ink())
	}
}

// ExtendStroke moves the pointer while drawing. Freehand tools paint the
// segment immediately; shape tools only track the pointer.
func (b *Board) ExtendStroke(p image.Point) {
	if !b.drawing {
		return
	}
	if b.tool.Freehand() {
		line(b.canvas.img, b.last, p, b.size, b.ink())
	}
	b.last = p
}

// EndStroke completes the drawing action at p and records one snapshot
func (b *Board) EndStroke(p image.Point) {
	if !b.drawing {
		return
	}
	switch b.tool {
	case ToolPen, ToolEraser:
		line(b.canvas.img, b.last, p, b.size, b.ink())
	case ToolLine:
		line(b.canvas.img, b.start, p, b.size, b.ink())
	case ToolRectangle:
		rectangle(b.canvas.img, b.start, p, b.size, b.ink())
	case ToolCircle:
		circle(b.canvas.img, b.start, p, b.size, b.ink())
	}
	b.drawing = false
	b.commit()
}

// Stroke draws a complete action through the given points
func (b *Board) Stroke(points ...image.Point) {
	if len(points) == 0 {
		return
	}
	b.BeginStroke(points[0])
	if len(points) > 2 {
		for _, p := range points[1 : len(points)-1] {
			b.ExtendStroke(p)
		}
	}
	b.EndStroke(points[len(points)-1])
}

// Clear blanks the surface and records it as a drawing action
func (b *Board) Clear() {
	b.canvas.Fill(Background)
	b.commit()
}

// Undo restores the previous snapshot
func (b *Board) Undo() bool {
	s, ok := b.history.Undo()
	if ok {
		b.canvas.Restore(s)
	}
	return ok
}

// Redo restores the next snapshot
func (b *Board) Redo() bool {
	s, ok := b.history.Redo()
	if ok {
		b.canvas.Restore(s)
	}
	return ok
}

// Import draws an external image onto the surface and records a snapshot
func (b *Board) Import(r io.Reader) error {
	img, _, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	b.canvas.DrawImage(img)
	b.commit()
	return nil
}

// Export writes the surface as PNG
func (b *Board) Export(w io.Writer) error {
	return b.canvas.EncodePNG(w)
}

// DataURL returns the surface in the form stored in the cell content
func (b *Board) DataURL() (string, error) {
	return b.canvas.DataURL()
}

func (b *Board) commit() {
	b.history.Push(b.canvas.Snapshot())
}

// Package render turns a cell into terminal text. The strategy depends only
// on the cell type and whether the cell is being edited.
package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/whiteboard"
)

// Strategy names how a cell is shown
type Strategy string

const (
	MarkdownView      Strategy = "markdown-view"
	MarkdownSource    Strategy = "markdown-source"
	CodeBlock         Strategy = "code"
	WhiteboardPreview Strategy = "whiteboard"
)

// StrategyFor selects the rendering strategy for a cell
func StrategyFor(c models.Cell) Strategy {
	switch c.Type {
	case models.CellTypeMarkdown:
		if c.IsEditing {
			return MarkdownSource
		}
		return MarkdownView
	case models.CellTypeWhiteboard:
		return WhiteboardPreview
	default:
		return CodeBlock
	}
}

// Renderer renders cells at a fixed width
type Renderer struct {
	width int
	style string

	mu sync.Mutex
	md *glamour.TermRenderer
}

// Option configures a Renderer
type Option func(*Renderer)

// WithWidth sets the word wrap width
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithStyle sets the glamour style: "dark", "light", "notty" or "auto"
func WithStyle(style string) Option {
	return func(r *Renderer) {
		r.style = style
	}
}

// StyleFor maps the dark mode flag to a glamour style
func StyleFor(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

// New creates a Renderer
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{width: 80, style: "auto"}
	for _, opt := range opts {
		opt(r)
	}

	styleOpt := glamour.WithStylePath(r.style)
	if r.style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	md, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(r.width))
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	r.md = md
	return r, nil
}

// Width returns the wrap width
func (r *Renderer) Width() int {
	return r.width
}

// Render returns the cell's text
func (r *Renderer) Render(c models.Cell) string {
	switch StrategyFor(c) {
	case MarkdownView:
		return r.markdown(c.Content)
	case MarkdownSource:
		return c.Content
	case WhiteboardPreview:
		return Whiteboard(c.Content)
	default:
		return Code(c)
	}
}

func (r *Renderer) markdown(src string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out, err := r.md.Render(src)
	if err != nil {
		return src
	}
	return strings.Trim(out, "\n")
}

// Code renders a code cell as a fenced block followed by its run state
func Code(c models.Cell) string {
	var b strings.Builder
	fmt.Fprintf(&b, "```%s\n%s\n```", c.Language, c.Content)
	switch {
	case c.IsExecuting:
		b.WriteString("\nRunning...")
	case c.Error != "":
		if c.Output != "" {
			fmt.Fprintf(&b, "\nOutput:\n%s", c.Output)
		}
		fmt.Fprintf(&b, "\nError: %s", c.Error)
	case c.Output != "":
		fmt.Fprintf(&b, "\nOutput:\n%s", c.Output)
	}
	return b.String()
}

// Whiteboard renders a placeholder describing the stored raster
func Whiteboard(content string) string {
	if content == "" {
		return "[whiteboard: empty]"
	}
	size, err := whiteboard.DataURLSize(content)
	if err != nil {
		return "[whiteboard: unreadable image]"
	}
	return fmt.Sprintf("[whiteboard %dx%d]", size.X, size.Y)
}

// Package notebook implements the cell store: ordered, heterogeneous cells
// owned by a notebook. Every operation is a pure transition that takes a
// notebook value and returns a new one; the input is never modified.
package notebook

import (
	"time"

	"github.com/google/uuid"

	"github.com/mattsolo1/grove-cellbook/pkg/models"
)

// Direction for MoveCell
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Editor applies cell store transitions. It carries only the id and clock
// sources so tests can make results deterministic.
type Editor struct {
	newID    func() string
	now      func() time.Time
	language string
}

// Option configures an Editor
type Option func(*Editor)

// WithIDFunc overrides the id generator
func WithIDFunc(fn func() string) Option {
	return func(e *Editor) {
		e.newID = fn
	}
}

// WithClock overrides the time source used for last-modified markers
func WithClock(fn func() time.Time) Option {
	return func(e *Editor) {
		e.now = fn
	}
}

// WithDefaultLanguage sets the language given to new code cells
func WithDefaultLanguage(lang string) Option {
	return func(e *Editor) {
		if lang != "" {
			e.language = lang
		}
	}
}

// NewEditor creates an editor using uuid ids and the wall clock
func NewEditor(opts ...Option) *Editor {
	e := &Editor{
		newID:    uuid.NewString,
		now:      time.Now,
		language: models.DefaultLanguage,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewCell builds a cell of the given type with its default content
func (e *Editor) NewCell(t models.CellType) models.Cell {
	cfg := models.DefaultCellTypeConfigs[t]
	cell := models.Cell{
		ID:      e.newID(),
		Type:    t,
		Content: cfg.DefaultContent,
	}
	if t == models.CellTypeCode {
		cell.Language = e.language
	}
	return cell
}

// AddCell inserts a new cell after position *at, or appends when at is nil.
// at == -1 inserts at the front; out-of-range positions are clamped.
func (e *Editor) AddCell(nb models.Notebook, t models.CellType, at *int) (models.Notebook, string) {
	cell := e.NewCell(t)
	out := nb.Clone()

	pos := len(out.Cells)
	if at != nil {
		pos = *at + 1
		if pos < 0 {
			pos = 0
		}
		if pos > len(out.Cells) {
			pos = len(out.Cells)
		}
	}

	out.Cells = append(out.Cells, models.Cell{})
	copy(out.Cells[pos+1:], out.Cells[pos:])
	out.Cells[pos] = cell
	out.LastModified = e.now()
	return out, cell.ID
}

// UpdateContent replaces the content of a cell
func (e *Editor) UpdateContent(nb models.Notebook, id, content string) models.Notebook {
	idx := nb.CellIndex(id)
	if idx < 0 {
		return nb
	}
	out := nb.Clone()
	out.Cells[idx].Content = content
	out.LastModified = e.now()
	return out
}

// UpdateLanguage changes the language tag of a code cell
func (e *Editor) UpdateLanguage(nb models.Notebook, id, language string) models.Notebook {
	idx := nb.CellIndex(id)
	if idx < 0 || nb.Cells[idx].Type != models.CellTypeCode {
		return nb
	}
	out := nb.Clone()
	out.Cells[idx].Language = language
	return out
}

// ToggleEdit flips a cell between viewing and editing
func (e *Editor) ToggleEdit(nb models.Notebook, id string) models.Notebook {
	idx := nb.CellIndex(id)
	if idx < 0 {
		return nb
	}
	out := nb.Clone()
	out.Cells[idx].IsEditing = !out.Cells[idx].IsEditing
	return out
}

// MoveCell swaps a cell with its neighbour. Moving past either end does nothing.
func (e *Editor) MoveCell(nb models.Notebook, id string, dir Direction) models.Notebook {
	idx := nb.CellIndex(id)
	if idx < 0 {
		return nb
	}

	target := idx - 1
	if dir == Down {
		target = idx + 1
	}
	if target < 0 || target >= len(nb.Cells) {
		return nb
	}

	out := nb.Clone()
	out.Cells[idx], out.Cells[target] = out.Cells[target], out.Cells[idx]
	out.LastModified = e.now()
	return out
}

// DuplicateCell inserts a copy right after the source cell with a fresh id
// and cleared execution state.
func (e *Editor) DuplicateCell(nb models.Notebook, id string) (models.Notebook, string) {
	idx := nb.CellIndex(id)
	if idx < 0 {
		return nb, ""
	}

	dup := nb.Cells[idx]
	dup.ID = e.newID()
	dup.IsEditing = false
	dup.IsExecuting = false
	dup.Output = ""
	dup.Error = ""

	out := nb.Clone()
	out.Cells = append(out.Cells, models.Cell{})
	copy(out.Cells[idx+2:], out.Cells[idx+1:])
	out.Cells[idx+1] = dup
	out.LastModified = e.now()
	return out, dup.ID
}

// DeleteCell removes a cell
func (e *Editor) DeleteCell(nb models.Notebook, id string) models.Notebook {
	idx := nb.CellIndex(id)
	if idx < 0 {
		return nb
	}
	out := nb.Clone()
	out.Cells = append(out.Cells[:idx], out.Cells[idx+1:]...)
	out.LastModified = e.now()
	return out
}

// Touch bumps the last-modified marker
func (e *Editor) Touch(nb models.Notebook) models.Notebook {
	out := nb.Clone()
	out.LastModified = e.now()
	return out
}

package models

import "time"

// CellType represents the kind of content a cell holds
type CellType string

const (
	CellTypeMarkdown   CellType = "markdown"
	CellTypeCode       CellType = "code"
	CellTypeWhiteboard CellType = "whiteboard"
)

// Valid reports whether t is one of the known cell types
func (t CellType) Valid() bool {
	switch t {
	case CellTypeMarkdown, CellTypeCode, CellTypeWhiteboard:
		return true
	}
	return false
}

// Cell is one editable unit within a notebook
type Cell struct {
	ID   string   `json:"id"`
	Type CellType `json:"type"`
	// Markdown/code source, or a PNG data URL for whiteboards
	Content  string `json:"content"`
	Language string `json:"language,omitempty"` // Code cells only

	// Ephemeral UI state, cleared on duplicate
	IsEditing   bool   `json:"isEditing,omitempty"`
	IsExecuting bool   `json:"isExecuting,omitempty"`
	Output      string `json:"output,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Notebook is a named, ordered collection of cells
type Notebook struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LastModified time.Time `json:"lastModified"`
	Cells        []Cell    `json:"cells"`
	ParentID     string    `json:"parentId,omitempty"`
}

// Clone returns a deep copy of the notebook so callers can derive a new value
// without touching the original cell slice.
func (n Notebook) Clone() Notebook {
	out := n
	out.Cells = make([]Cell, len(n.Cells))
	copy(out.Cells, n.Cells)
	return out
}

// CellIndex returns the position of the cell with the given id, or -1.
func (n Notebook) CellIndex(id string) int {
	for i, c := range n.Cells {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Cell looks up a cell by id
func (n Notebook) Cell(id string) (Cell, bool) {
	if i := n.CellIndex(id); i >= 0 {
		return n.Cells[i], true
	}
	return Cell{}, false
}

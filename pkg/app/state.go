// Package app owns the application state: the file tree, the notebooks it
// points at, the theme flag and which notebook is open. Every transition is
// a pure function from one State to the next.
package app

import (
	"fmt"
	"time"

	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/tree"
)

// State is the whole application state
type State struct {
	Files          []tree.Entry
	Notebooks      []models.Notebook
	DarkMode       bool
	OpenNotebookID string
}

func (s State) clone() State {
	out := s
	out.Files = append([]tree.Entry(nil), s.Files...)
	out.Notebooks = make([]models.Notebook, len(s.Notebooks))
	for i, nb := range s.Notebooks {
		out.Notebooks[i] = nb.Clone()
	}
	return out
}

// Notebook looks up a notebook by id
func (s State) Notebook(id string) (models.Notebook, bool) {
	if i := s.notebookIndex(id); i >= 0 {
		return s.Notebooks[i], true
	}
	return models.Notebook{}, false
}

// OpenNotebook returns the notebook shown in the editor, if any
func (s State) OpenNotebook() (models.Notebook, bool) {
	if s.OpenNotebookID == "" {
		return models.Notebook{}, false
	}
	return s.Notebook(s.OpenNotebookID)
}

func (s State) notebookIndex(id string) int {
	for i, nb := range s.Notebooks {
		if nb.ID == id {
			return i
		}
	}
	return -1
}

func (s State) effectiveParent(parentID string) string {
	if parentID == "" {
		return ""
	}
	if e, ok := tree.Find(s.Files, parentID); ok && e.IsFolder() {
		return parentID
	}
	return ""
}

// CreateFile adds a file entry and its empty notebook, both with id
func (s State) CreateFile(id, name, parentID string, now time.Time) State {
	out := s.clone()
	parentID = out.effectiveParent(parentID)
	out.Files = tree.Insert(out.Files, parentID, tree.Entry{
		ID:           id,
		Name:         name,
		Type:         tree.TypeFile,
		LastModified: now,
	})
	out.Notebooks = append(out.Notebooks, models.Notebook{
		ID:           id,
		Name:         name,
		LastModified: now,
		Cells:        []models.Cell{},
		ParentID:     parentID,
	})
	return out
}

// CreateFolder adds an empty folder
func (s State) CreateFolder(id, name, parentID string, now time.Time) State {
	out := s.clone()
	out.Files = tree.Insert(out.Files, out.effectiveParent(parentID), tree.Entry{
		ID:           id,
		Name:         name,
		Type:         tree.TypeFolder,
		Children:     []tree.Entry{},
		LastModified: now,
	})
	return out
}

// Rename renames an entry and, for files, the paired notebook
func (s State) Rename(id, name string) State {
	out := s.clone()
	out.Files = tree.Rename(out.Files, id, name)
	if i := out.notebookIndex(id); i >= 0 {
		out.Notebooks[i].Name = name
	}
	return out
}

// Delete removes an entry. Deleting a folder removes every notebook beneath
// it, and the editor is closed if its notebook went away.
func (s State) Delete(id string) State {
	out := s.clone()
	var removed []string
	out.Files, removed = tree.Remove(out.Files, id)

	gone := make(map[string]bool, len(removed))
	for _, fid := range removed {
		gone[fid] = true
	}
	kept := out.Notebooks[:0]
	for _, nb := range out.Notebooks {
		if !gone[nb.ID] {
			kept = append(kept, nb)
		}
	}
	out.Notebooks = kept

	if gone[out.OpenNotebookID] {
		out.OpenNotebookID = ""
	}
	return out
}

// Open shows a notebook in the editor. Unknown ids are ignored.
func (s State) Open(id string) State {
	if _, ok := s.Notebook(id); !ok {
		return s
	}
	out := s.clone()
	out.OpenNotebookID = id
	return out
}

// Close hides the editor
func (s State) Close() State {
	out := s.clone()
	out.OpenNotebookID = ""
	return out
}

// ToggleDarkMode flips the theme
func (s State) ToggleDarkMode() State {
	out := s.clone()
	out.DarkMode = !out.DarkMode
	return out
}

// Save stamps the open notebook and its file entry with now
func (s State) Save(now time.Time) State {
	if s.OpenNotebookID == "" {
		return s
	}
	return s.touch(s.OpenNotebookID, now)
}

func (s State) touch(id string, now time.Time) State {
	i := s.notebookIndex(id)
	if i < 0 {
		return s
	}
	out := s.clone()
	out.Notebooks[i].LastModified = now
	out.Files = tree.Touch(out.Files, id, now)
	return out
}

// UpdateNotebook replaces a notebook with fn's result. The id, name and
// parent stay owned by the tree; fn may only change content. The file entry
// takes the notebook's new modification time.
func (s State) UpdateNotebook(id string, fn func(models.Notebook) models.Notebook) State {
	i := s.notebookIndex(id)
	if i < 0 {
		return s
	}
	out := s.clone()
	prev := out.Notebooks[i]
	next := fn(prev.Clone())
	next.ID, next.Name, next.ParentID = prev.ID, prev.Name, prev.ParentID
	out.Notebooks[i] = next
	if !next.LastModified.Equal(prev.LastModified) {
		out.Files = tree.Touch(out.Files, id, next.LastModified)
	}
	return out
}

// AddNotebook inserts an existing notebook, such as an import, together with
// its file entry.
func (s State) AddNotebook(nb models.Notebook, parentID string) State {
	out := s.clone()
	parentID = out.effectiveParent(parentID)
	nb.ParentID = parentID
	out.Files = tree.Insert(out.Files, parentID, tree.Entry{
		ID:           nb.ID,
		Name:         nb.Name,
		Type:         tree.TypeFile,
		LastModified: nb.LastModified,
	})
	out.Notebooks = append(out.Notebooks, nb)
	return out
}

// Validate checks that every file entry has exactly one notebook with the
// same id and vice versa.
func (s State) Validate() error {
	files := tree.FileIDs(s.Files)
	seen := make(map[string]bool, len(files))
	for _, id := range files {
		if seen[id] {
			return fmt.Errorf("duplicate file id %q", id)
		}
		seen[id] = true
	}

	paired := make(map[string]bool, len(s.Notebooks))
	for _, nb := range s.Notebooks {
		if paired[nb.ID] {
			return fmt.Errorf("duplicate notebook id %q", nb.ID)
		}
		if !seen[nb.ID] {
			return fmt.Errorf("notebook %q has no file entry", nb.ID)
		}
		paired[nb.ID] = true
	}
	for _, id := range files {
		if !paired[id] {
			return fmt.Errorf("file %q has no notebook", id)
		}
	}
	if s.OpenNotebookID != "" && !paired[s.OpenNotebookID] {
		return fmt.Errorf("open notebook %q does not exist", s.OpenNotebookID)
	}
	return nil
}

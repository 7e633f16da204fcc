// Package tree holds the folder/file navigation hierarchy. It is independent
// of notebook content: file entries only carry the id of their notebook.
package tree

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// ItemType categorizes entries in the tree
type ItemType string

const (
	TypeFile   ItemType = "file"
	TypeFolder ItemType = "folder"
)

// Entry is a single node in the tree. Folders hold ordered children; a file's
// id matches the id of the notebook it opens.
type Entry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         ItemType  `json:"type"`
	ParentID     string    `json:"parentId,omitempty"`
	Children     []Entry   `json:"children,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// IsFolder reports whether the entry is a folder
func (e Entry) IsFolder() bool {
	return e.Type == TypeFolder
}

// Insert adds entry under the folder parentID. When parentID is empty or does
// not name a folder, the entry is appended at the root.
func Insert(entries []Entry, parentID string, entry Entry) []Entry {
	if parentID != "" {
		if parent, ok := Find(entries, parentID); ok && parent.IsFolder() {
			entry.ParentID = parentID
			out, _ := insertInto(entries, parentID, entry)
			return out
		}
	}
	entry.ParentID = ""
	out := make([]Entry, 0, len(entries)+1)
	out = append(out, entries...)
	return append(out, entry)
}

func insertInto(entries []Entry, parentID string, entry Entry) ([]Entry, bool) {
	out := make([]Entry, len(entries))
	inserted := false
	for i, item := range entries {
		out[i] = item
		if inserted {
			continue
		}
		if item.ID == parentID && item.IsFolder() {
			children := make([]Entry, 0, len(item.Children)+1)
			children = append(children, item.Children...)
			out[i].Children = append(children, entry)
			inserted = true
			continue
		}
		if len(item.Children) > 0 {
			out[i].Children, inserted = insertInto(item.Children, parentID, entry)
		}
	}
	return out, inserted
}

// Rename returns a copy of the tree with the entry's name replaced
func Rename(entries []Entry, id, name string) []Entry {
	out := make([]Entry, len(entries))
	for i, item := range entries {
		out[i] = item
		if item.ID == id {
			out[i].Name = name
		}
		if len(item.Children) > 0 {
			out[i].Children = Rename(item.Children, id, name)
		}
	}
	return out
}

// Touch returns a copy of the tree with the entry's modification time set
func Touch(entries []Entry, id string, at time.Time) []Entry {
	out := make([]Entry, len(entries))
	for i, item := range entries {
		out[i] = item
		if item.ID == id {
			out[i].LastModified = at
		}
		if len(item.Children) > 0 {
			out[i].Children = Touch(item.Children, id, at)
		}
	}
	return out
}

// Remove returns a copy of the tree without the entry. The second result
// lists every file id that was removed, including files nested in a removed
// folder, so callers can cascade to the paired notebooks.
func Remove(entries []Entry, id string) ([]Entry, []string) {
	var removed []string
	out := make([]Entry, 0, len(entries))
	for _, item := range entries {
		if item.ID == id {
			removed = append(removed, FileIDs([]Entry{item})...)
			continue
		}
		if len(item.Children) > 0 {
			var sub []string
			item.Children, sub = Remove(item.Children, id)
			removed = append(removed, sub...)
		}
		out = append(out, item)
	}
	return out, removed
}

// Find locates an entry by id
func Find(entries []Entry, id string) (Entry, bool) {
	for _, item := range entries {
		if item.ID == id {
			return item, true
		}
		if found, ok := Find(item.Children, id); ok {
			return found, true
		}
	}
	return Entry{}, false
}

// Path returns the chain of entries from the root down to id, inclusive
func Path(entries []Entry, id string) []Entry {
	for _, item := range entries {
		if item.ID == id {
			return []Entry{item}
		}
		if sub := Path(item.Children, id); sub != nil {
			return append([]Entry{item}, sub...)
		}
	}
	return nil
}

// FileIDs returns the ids of every file entry in tree order
func FileIDs(entries []Entry) []string {
	var ids []string
	Walk(entries, func(e Entry, _ int) {
		if !e.IsFolder() {
			ids = append(ids, e.ID)
		}
	})
	return ids
}

// Walk visits entries depth-first in display order
func Walk(entries []Entry, fn func(e Entry, depth int)) {
	walk(entries, 0, fn)
}

func walk(entries []Entry, depth int, fn func(Entry, int)) {
	for _, item := range entries {
		fn(item, depth)
		walk(item.Children, depth+1, fn)
	}
}

// Filter keeps entries whose name contains query (case-insensitive) together
// with the ancestors of every match. A folder that matches by name keeps all
// of its children. An empty query returns the tree unchanged.
func Filter(entries []Entry, query string) []Entry {
	if strings.TrimSpace(query) == "" {
		return entries
	}
	// A Caser keeps state between calls and must not be shared.
	fold := cases.Fold()
	return filter(entries, fold.String(query), fold)
}

func filter(entries []Entry, q string, fold cases.Caser) []Entry {
	var out []Entry
	for _, item := range entries {
		if strings.Contains(fold.String(item.Name), q) {
			out = append(out, item)
			continue
		}
		if children := filter(item.Children, q, fold); len(children) > 0 {
			item.Children = children
			out = append(out, item)
		}
	}
	return out
}

package app

import (
	"testing"
	"time"

	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func TestDefaultIsValid(t *testing.T) {
	s := Default(now)
	require.NoError(t, s.Validate())
	assert.Len(t, s.Notebooks, 6)
	assert.False(t, s.DarkMode)
	assert.Empty(t, s.OpenNotebookID)

	welcome, ok := s.Notebook("notebook1")
	require.True(t, ok)
	assert.Equal(t, "folder1", welcome.ParentID)
	require.Len(t, welcome.Cells, 3)
	assert.Equal(t, models.CellTypeMarkdown, welcome.Cells[0].Type)
	assert.Equal(t, models.CellTypeCode, welcome.Cells[1].Type)
	assert.Equal(t, models.CellTypeWhiteboard, welcome.Cells[2].Type)
	assert.Equal(t, now.Add(-2*time.Hour), welcome.LastModified)
}

func TestCreateFileAndFolder(t *testing.T) {
	s := Default(now).
		CreateFolder("f3", "Drafts", "folder1", now).
		CreateFile("n7", "Draft One", "f3", now).
		CreateFile("n8", "Loose", "missing-parent", now)
	require.NoError(t, s.Validate())

	path := tree.Path(s.Files, "n7")
	require.Len(t, path, 3)
	assert.Equal(t, []string{"Projects", "Drafts", "Draft One"}, []string{path[0].Name, path[1].Name, path[2].Name})

	nb, ok := s.Notebook("n7")
	require.True(t, ok)
	assert.Equal(t, "f3", nb.ParentID)
	assert.Empty(t, nb.Cells)

	loose, ok := s.Notebook("n8")
	require.True(t, ok)
	assert.Empty(t, loose.ParentID)
	assert.Equal(t, "n8", s.Files[len(s.Files)-1].ID)
}

func TestCreateFileUnderFileFallsBackToRoot(t *testing.T) {
	s := Default(now).CreateFile("n7", "Child", "notebook4", now)
	require.NoError(t, s.Validate())
	e, ok := tree.Find(s.Files, "n7")
	require.True(t, ok)
	assert.Empty(t, e.ParentID)
}

func TestRenameNestedFileRenamesNotebook(t *testing.T) {
	before := Default(now)
	after := before.Rename("notebook2", "Pandas Notes")

	e, _ := tree.Find(after.Files, "notebook2")
	assert.Equal(t, "Pandas Notes", e.Name)
	nb, _ := after.Notebook("notebook2")
	assert.Equal(t, "Pandas Notes", nb.Name)

	// Every other node keeps its name
	names := map[string]string{}
	tree.Walk(before.Files, func(e tree.Entry, _ int) { names[e.ID] = e.Name })
	tree.Walk(after.Files, func(e tree.Entry, _ int) {
		if e.ID != "notebook2" {
			assert.Equal(t, names[e.ID], e.Name, e.ID)
		}
	})

	// Input untouched
	old, _ := before.Notebook("notebook2")
	assert.Equal(t, "Python Data Analysis", old.Name)
}

func TestRenameFolderLeavesNotebooks(t *testing.T) {
	s := Default(now).Rename("folder2", "Courses")
	e, _ := tree.Find(s.Files, "folder2")
	assert.Equal(t, "Courses", e.Name)
	nb, _ := s.Notebook("notebook3")
	assert.Equal(t, "Algorithm Study", nb.Name)
}

func TestDeleteFolderCascadesAndClosesEditor(t *testing.T) {
	s := Default(now).Open("notebook2")
	require.Equal(t, "notebook2", s.OpenNotebookID)

	s = s.Delete("folder1")
	require.NoError(t, s.Validate())
	assert.Empty(t, s.OpenNotebookID)
	_, ok := s.Notebook("notebook1")
	assert.False(t, ok)
	_, ok = s.Notebook("notebook2")
	assert.False(t, ok)
	assert.Len(t, s.Notebooks, 4)
}

func TestDeleteOtherFileKeepsEditorOpen(t *testing.T) {
	s := Default(now).Open("notebook1").Delete("notebook6")
	assert.Equal(t, "notebook1", s.OpenNotebookID)
	require.NoError(t, s.Validate())
}

func TestMissingIDsAreNoOps(t *testing.T) {
	s := Default(now)
	assert.Equal(t, s, s.Open("nope"))
	assert.Equal(t, s, s.UpdateNotebook("nope", func(nb models.Notebook) models.Notebook { return nb }))
	assert.Equal(t, s.Files, s.Delete("nope").Files)
	assert.Equal(t, s.Files, s.Rename("nope", "x").Files)
	assert.Equal(t, s, s.Save(now))
}

func TestSaveTouchesOpenNotebook(t *testing.T) {
	later := now.Add(time.Hour)
	s := Default(now).Open("notebook3").Save(later)

	nb, _ := s.Notebook("notebook3")
	assert.Equal(t, later, nb.LastModified)
	e, _ := tree.Find(s.Files, "notebook3")
	assert.Equal(t, later, e.LastModified)
}

func TestToggleDarkMode(t *testing.T) {
	s := Default(now)
	assert.True(t, s.ToggleDarkMode().DarkMode)
	assert.False(t, s.ToggleDarkMode().ToggleDarkMode().DarkMode)
	assert.False(t, s.DarkMode)
}

func TestUpdateNotebookKeepsIdentity(t *testing.T) {
	later := now.Add(time.Minute)
	s := Default(now).UpdateNotebook("notebook4", func(nb models.Notebook) models.Notebook {
		nb.ID = "hijack"
		nb.Name = "renamed"
		nb.Cells = append(nb.Cells, models.Cell{ID: "c", Type: models.CellTypeMarkdown})
		nb.LastModified = later
		return nb
	})
	nb, ok := s.Notebook("notebook4")
	require.True(t, ok)
	assert.Equal(t, "Meeting Whiteboard", nb.Name)
	assert.Len(t, nb.Cells, 1)
	e, _ := tree.Find(s.Files, "notebook4")
	assert.Equal(t, later, e.LastModified)
	require.NoError(t, s.Validate())
}

func TestAddNotebook(t *testing.T) {
	nb := models.Notebook{ID: "imp", Name: "Imported", LastModified: now, Cells: []models.Cell{}}
	s := Default(now).AddNotebook(nb, "folder2")
	require.NoError(t, s.Validate())
	got, _ := s.Notebook("imp")
	assert.Equal(t, "folder2", got.ParentID)
}

func TestValidateDetectsBrokenPairing(t *testing.T) {
	s := Default(now)
	s.Notebooks = s.Notebooks[1:]
	assert.Error(t, s.Validate())

	s = Default(now)
	s.Notebooks = append(s.Notebooks, models.Notebook{ID: "orphan"})
	assert.Error(t, s.Validate())

	s = Default(now)
	s.OpenNotebookID = "gone"
	assert.Error(t, s.Validate())
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-cellbook/pkg/assistant"
	"github.com/mattsolo1/grove-cellbook/pkg/export"
	"github.com/mattsolo1/grove-cellbook/pkg/migration"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/notebook"
	"github.com/mattsolo1/grove-cellbook/pkg/tree"
	"github.com/mattsolo1/grove-cellbook/pkg/whiteboard"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.AssistantDelayScale = 0
	return cfg
}

func newTestService(t *testing.T, cfg *Config) *Service {
	t.Helper()
	n := 0
	s, err := New(cfg,
		WithClock(func() time.Time { return fixedNow }),
		WithIDFunc(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewLoadsSeedState(t *testing.T) {
	s := newTestService(t, testConfig(t))

	st := s.State()
	require.NoError(t, st.Validate())
	assert.Len(t, st.Files, 5)
	assert.False(t, st.DarkMode)

	nb, err := s.Notebook("notebook1")
	require.NoError(t, err)
	assert.Equal(t, "Project Research Notes", nb.Name)
	assert.Equal(t, "Projects", s.FolderPath("notebook1"))
}

func TestCreateRenameDelete(t *testing.T) {
	s := newTestService(t, testConfig(t))

	folder, err := s.CreateFolder("Work", "")
	require.NoError(t, err)
	assert.Equal(t, tree.TypeFolder, folder.Type)

	nb, err := s.CreateNotebook("", folder.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("New File %d", fixedNow.UnixMilli()), nb.Name)
	assert.Equal(t, folder.ID, nb.ParentID)
	assert.Empty(t, nb.Cells)

	require.NoError(t, s.Rename(nb.ID, "Plan"))
	got, err := s.Notebook(nb.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan", got.Name)
	entry, ok := tree.Find(s.State().Files, nb.ID)
	require.True(t, ok)
	assert.Equal(t, "Plan", entry.Name)

	_, err = s.Open(nb.ID)
	require.NoError(t, err)
	removed, err := s.Delete(folder.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{nb.ID}, removed)

	st := s.State()
	assert.Empty(t, st.OpenNotebookID)
	_, err = s.Notebook(nb.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, st.Validate())
}

func TestMissingEntities(t *testing.T) {
	s := newTestService(t, testConfig(t))
	before := s.State()

	assert.ErrorIs(t, s.Rename("nope", "x"), ErrNotFound)
	_, err := s.Delete("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Open("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.UpdateCell("notebook1", "nope", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.AddCell("nope", models.CellTypeCode, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, before, s.State())
}

func TestCellOperations(t *testing.T) {
	s := newTestService(t, testConfig(t))
	nb, err := s.CreateNotebook("Cells", "")
	require.NoError(t, err)

	md, err := s.AddCell(nb.ID, models.CellTypeMarkdown, nil)
	require.NoError(t, err)
	code, err := s.AddCell(nb.ID, models.CellTypeCode, nil)
	require.NoError(t, err)

	got, err := s.MoveCell(nb.ID, code, notebook.Up)
	require.NoError(t, err)
	assert.Equal(t, code, got.Cells[0].ID)

	// Already at the top
	got, err = s.MoveCell(nb.ID, code, notebook.Up)
	require.NoError(t, err)
	assert.Equal(t, code, got.Cells[0].ID)

	dup, err := s.DuplicateCell(nb.ID, md)
	require.NoError(t, err)
	got, err = s.DeleteCell(nb.ID, dup)
	require.NoError(t, err)
	assert.Len(t, got.Cells, 2)

	got, err = s.SetLanguage(nb.ID, code, "Python")
	require.NoError(t, err)
	c, _ := got.Cell(code)
	assert.Equal(t, "python", c.Language)

	_, err = s.SetLanguage(nb.ID, md, "go")
	assert.ErrorIs(t, err, ErrWrongCellType)

	got, err = s.ToggleEdit(nb.ID, md)
	require.NoError(t, err)
	c, _ = got.Cell(md)
	assert.True(t, c.IsEditing)

	_, err = s.AddCell(nb.ID, models.CellType("video"), nil)
	assert.Error(t, err)
}

func TestRunCell(t *testing.T) {
	s := newTestService(t, testConfig(t))
	nb, err := s.CreateNotebook("Run", "")
	require.NoError(t, err)
	md, err := s.AddCell(nb.ID, models.CellTypeMarkdown, nil)
	require.NoError(t, err)
	code, err := s.AddCell(nb.ID, models.CellTypeCode, nil)
	require.NoError(t, err)
	_, err = s.UpdateCell(nb.ID, code, "1+1")
	require.NoError(t, err)

	cell, err := s.RunCell(context.Background(), nb.ID, "")
	require.NoError(t, err)
	assert.Equal(t, code, cell.ID)
	assert.Equal(t, "Result: 2", cell.Output)
	assert.Empty(t, cell.Error)
	assert.False(t, cell.IsExecuting)

	_, err = s.UpdateCell(nb.ID, code, "missing()")
	require.NoError(t, err)
	cell, err = s.RunCell(context.Background(), nb.ID, code)
	require.NoError(t, err)
	assert.Contains(t, cell.Error, "ReferenceError")
	assert.Empty(t, cell.Output)

	_, err = s.RunCell(context.Background(), nb.ID, md)
	assert.ErrorIs(t, err, ErrWrongCellType)
}

func TestPersistsAcrossRestart(t *testing.T) {
	cfg := testConfig(t)

	s, err := New(cfg)
	require.NoError(t, err)
	nb, err := s.CreateNotebook("Keep me", "folder2")
	require.NoError(t, err)
	s.ToggleDarkMode()
	require.NoError(t, s.Close())

	reopened := newTestService(t, cfg)
	got, err := reopened.Notebook(nb.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep me", got.Name)
	assert.True(t, reopened.DarkMode())
	require.NoError(t, reopened.State().Validate())
}

func TestSearch(t *testing.T) {
	s := newTestService(t, testConfig(t))
	nb, err := s.CreateNotebook("Algorithms", "")
	require.NoError(t, err)
	code, err := s.AddCell(nb.ID, models.CellTypeCode, nil)
	require.NoError(t, err)
	_, err = s.UpdateCell(nb.ID, code, "function fibonacci(n) { return n }")
	require.NoError(t, err)

	hits, err := s.Search(context.Background(), "fibonacci")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, code, hits[0].CellID)
	assert.Equal(t, "Algorithms", hits[0].NotebookName)

	hits, err = s.Search(context.Background(), "fibonacci", OfType(models.CellTypeMarkdown))
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = s.Delete(nb.ID)
	require.NoError(t, err)
	hits, err = s.Search(context.Background(), "fibonacci")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestExportMarkdown(t *testing.T) {
	s := newTestService(t, testConfig(t))
	nb, err := s.CreateNotebook("Demo", "")
	require.NoError(t, err)
	code, err := s.AddCell(nb.ID, models.CellTypeCode, nil)
	require.NoError(t, err)
	_, err = s.UpdateCell(nb.ID, code, "1+1")
	require.NoError(t, err)
	_, err = s.RunCell(context.Background(), nb.ID, code)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf, nb.ID, export.FormatMarkdown))
	assert.Equal(t, "# Demo\n\n```javascript\n1+1\n```\n\n**Output:**\n```\nResult: 2\n```\n\n", buf.String())

	err = s.Export(&buf, nb.ID, export.FormatPDF)
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
}

func TestImport(t *testing.T) {
	s := newTestService(t, testConfig(t))
	path := filepath.Join(t.TempDir(), "notes.md")
	src := "# Imported\n\nSome text\n\n```go\nfmt.Println(1)\n```\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	nb, err := s.Import(path, "folder2")
	require.NoError(t, err)
	assert.Equal(t, "Imported", nb.Name)
	assert.Equal(t, "folder2", nb.ParentID)
	require.Len(t, nb.Cells, 2)
	assert.Equal(t, models.CellTypeMarkdown, nb.Cells[0].Type)
	assert.Equal(t, models.CellTypeCode, nb.Cells[1].Type)
	assert.Equal(t, "go", nb.Cells[1].Language)
	require.NoError(t, s.State().Validate())

	_, err = s.Import(filepath.Join(t.TempDir(), "missing.json"), "")
	assert.Error(t, err)
}

func TestImportDirectory(t *testing.T) {
	s := newTestService(t, testConfig(t))
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "intro.md"), []byte("# Intro\n\ntext\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "untitled-note.md"), []byte("plain text\n"), 0o644))

	report, err := s.ImportDirectory(root, "folder2", migration.Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.ImportedFiles)
	assert.Equal(t, 1, report.CreatedFolders)
	require.NoError(t, s.State().Validate())

	folder, ok := tree.Find(s.State().Files, "folder2")
	require.True(t, ok)
	var sub tree.Entry
	for _, c := range folder.Children {
		if c.IsFolder() && c.Name == "sub" {
			sub = c
		}
	}
	require.NotEmpty(t, sub.ID)
	require.Len(t, sub.Children, 1)
	nb, err := s.Notebook(sub.Children[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Untitled Note", nb.Name)

	_, err = s.ImportDirectory(root, "nope", migration.Options{}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWhiteboard(t *testing.T) {
	s := newTestService(t, testConfig(t))
	nb, err := s.CreateNotebook("Sketch", "")
	require.NoError(t, err)
	wb, err := s.AddCell(nb.ID, models.CellTypeWhiteboard, nil)
	require.NoError(t, err)

	script, err := whiteboard.ParseScript([]byte("- tool: rectangle\n  color: \"#FF0000\"\n  stroke: [[10, 10], [50, 40]]\n"))
	require.NoError(t, err)
	_, err = s.ApplyWhiteboardScript(nb.ID, wb, script, t.TempDir())
	require.NoError(t, err)

	got, err := s.Notebook(nb.ID)
	require.NoError(t, err)
	c, _ := got.Cell(wb)
	assert.True(t, strings.HasPrefix(c.Content, "data:image/png;base64,"))

	var buf bytes.Buffer
	require.NoError(t, s.ExportWhiteboard(&buf, nb.ID, wb))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())

	md, err := s.AddCell(nb.ID, models.CellTypeMarkdown, nil)
	require.NoError(t, err)
	_, err = s.OpenBoard(nb.ID, md)
	assert.ErrorIs(t, err, ErrWrongCellType)
}

func TestAssist(t *testing.T) {
	s := newTestService(t, testConfig(t))

	out, err := s.Assist(context.Background(), assistant.ActionGenerate, "a sorting function")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	out, err = s.AssistCell(context.Background(), assistant.ActionExplain, "notebook1", "cell2")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = s.AssistCell(context.Background(), assistant.ActionExplain, "notebook1", "cell1")
	assert.ErrorIs(t, err, ErrWrongCellType)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Assist(ctx, assistant.ActionEnhance, "text")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSaveTouchesNotebook(t *testing.T) {
	s := newTestService(t, testConfig(t))

	nb, err := s.Save("notebook3")
	require.NoError(t, err)
	assert.True(t, nb.LastModified.Equal(fixedNow))
	assert.Equal(t, "notebook3", s.State().OpenNotebookID)

	entry, ok := tree.Find(s.State().Files, "notebook3")
	require.True(t, ok)
	assert.True(t, entry.LastModified.Equal(fixedNow))

	_, err = s.Save("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattsolo1/grove-cellbook/pkg/app"
	"github.com/mattsolo1/grove-cellbook/pkg/export"
	"github.com/mattsolo1/grove-cellbook/pkg/migration"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
)

// Export writes a notebook in the given format
func (s *Service) Export(w io.Writer, nbID string, format export.Format) error {
	nb, err := s.Notebook(nbID)
	if err != nil {
		return err
	}
	return export.Write(w, nb, format, export.Options{
		Frontmatter: s.Config.ExportFrontmatter,
		Folder:      s.FolderPath(nbID),
	})
}

// Import reads a JSON or markdown notebook and adds it under parentID. The
// format follows the file extension; anything but .json is read as markdown.
func (s *Service) Import(path, parentID string) (models.Notebook, error) {
	return s.importFile(path, parentID, "")
}

// ImportDirectory imports every notebook file under root, mirroring its
// subdirectories as folders beneath parentID.
func (s *Service) ImportDirectory(root, parentID string, opts migration.Options, out io.Writer) (*migration.Report, error) {
	if parentID != "" {
		if err := requireEntry(s.State(), parentID); err != nil {
			return nil, err
		}
	}
	return migration.Migrate(root, dirTarget{s}, parentID, opts, out, s.log.WithField("operation", "import"))
}

type dirTarget struct{ s *Service }

func (t dirTarget) CreateFolder(name, parentID string) (string, error) {
	e, err := t.s.CreateFolder(name, parentID)
	return e.ID, err
}

func (t dirTarget) ImportFile(path, parentID, title string) error {
	_, err := t.s.importFile(path, parentID, title)
	return err
}

// importFile names the notebook after title when the file carries none
func (s *Service) importFile(path, parentID, title string) (models.Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Notebook{}, fmt.Errorf("read %s: %w", path, err)
	}

	im := export.NewImporter()
	im.NewID = s.newID
	im.Now = s.now
	if s.Config.DefaultLanguage != "" {
		im.Language = s.Config.DefaultLanguage
	}

	var nb models.Notebook
	if strings.EqualFold(filepath.Ext(path), ".json") {
		nb, err = im.JSON(data)
	} else {
		nb, err = im.Markdown(string(data))
	}
	if err != nil {
		return models.Notebook{}, fmt.Errorf("import %s: %w", path, err)
	}
	if nb.Name == export.DefaultImportName && title != "" {
		nb.Name = title
	}

	st, err := s.commit(func(st app.State) (app.State, error) {
		if _, exists := st.Notebook(nb.ID); exists {
			nb.ID = s.newID()
		}
		return st.AddNotebook(nb, parentID), nil
	})
	if err != nil {
		return models.Notebook{}, err
	}
	out, _ := st.Notebook(nb.ID)
	s.index(out)
	return out, nil
}

// EditCell opens a cell's content in the user's editor and stores the result
func (s *Service) EditCell(nbID, cellID string) (models.Notebook, error) {
	nb, err := s.Notebook(nbID)
	if err != nil {
		return models.Notebook{}, err
	}
	c, err := requireCell(nb, cellID)
	if err != nil {
		return models.Notebook{}, err
	}
	if c.Type == models.CellTypeWhiteboard {
		return models.Notebook{}, fmt.Errorf("whiteboard cells cannot be edited as text: %w", ErrWrongCellType)
	}

	f, err := os.CreateTemp("", "cellbook-*"+editorExt(c))
	if err != nil {
		return models.Notebook{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(c.Content); err != nil {
		f.Close()
		return models.Notebook{}, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return models.Notebook{}, fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := s.openInEditor(path); err != nil {
		return models.Notebook{}, fmt.Errorf("failed to open editor: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return models.Notebook{}, fmt.Errorf("failed to read edited content: %w", err)
	}
	return s.UpdateCell(nbID, cellID, string(content))
}

var languageExt = map[string]string{
	"javascript": ".js",
	"typescript": ".ts",
	"python":     ".py",
	"go":         ".go",
	"starlark":   ".star",
}

func editorExt(c models.Cell) string {
	if c.Type == models.CellTypeMarkdown {
		return ".md"
	}
	if ext, ok := languageExt[c.Language]; ok {
		return ext
	}
	return ".txt"
}

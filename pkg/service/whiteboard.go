package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/whiteboard"
)

func (s *Service) whiteboardCell(nb models.Notebook, cellID string) (models.Cell, error) {
	c, err := requireCell(nb, cellID)
	if err != nil {
		return c, err
	}
	if c.Type != models.CellTypeWhiteboard {
		return c, fmt.Errorf("cell %q is %s, not whiteboard: %w", cellID, c.Type, ErrWrongCellType)
	}
	return c, nil
}

// OpenBoard loads the drawing stored in a whiteboard cell
func (s *Service) OpenBoard(nbID, cellID string) (*whiteboard.Board, error) {
	nb, err := s.Notebook(nbID)
	if err != nil {
		return nil, err
	}
	c, err := s.whiteboardCell(nb, cellID)
	if err != nil {
		return nil, err
	}
	return whiteboard.OpenBoard(c.Content, s.Config.WhiteboardWidth, s.Config.WhiteboardHeight, s.Config.WhiteboardMaxHistory)
}

// SaveBoard stores a board's image as the cell content
func (s *Service) SaveBoard(nbID, cellID string, b *whiteboard.Board) error {
	url, err := b.DataURL()
	if err != nil {
		return fmt.Errorf("encode whiteboard: %w", err)
	}
	_, err = s.updateNotebook(nbID, func(nb models.Notebook) (models.Notebook, error) {
		if _, err := s.whiteboardCell(nb, cellID); err != nil {
			return nb, err
		}
		return s.editor.UpdateContent(nb, cellID, url), nil
	})
	return err
}

// ApplyWhiteboardScript replays a drawing script against a whiteboard cell.
// Image imports in the script are resolved relative to baseDir.
func (s *Service) ApplyWhiteboardScript(nbID, cellID string, script whiteboard.Script, baseDir string) (*whiteboard.Board, error) {
	b, err := s.OpenBoard(nbID, cellID)
	if err != nil {
		return nil, err
	}
	open := func(path string) (io.ReadCloser, error) {
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		return os.Open(path)
	}
	if err := script.Apply(b, open); err != nil {
		return nil, err
	}
	if err := s.SaveBoard(nbID, cellID, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ExportWhiteboard writes a whiteboard cell as PNG
func (s *Service) ExportWhiteboard(w io.Writer, nbID, cellID string) error {
	b, err := s.OpenBoard(nbID, cellID)
	if err != nil {
		return err
	}
	return b.Export(w)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattsolo1/grove-cellbook/pkg/app"
	"github.com/mattsolo1/grove-cellbook/pkg/assistant"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/notebook"
)

// updateNotebook runs a cell store transition against one notebook and
// reindexes the result.
func (s *Service) updateNotebook(nbID string, fn func(models.Notebook) (models.Notebook, error)) (models.Notebook, error) {
	st, err := s.commit(func(st app.State) (app.State, error) {
		nb, ok := st.Notebook(nbID)
		if !ok {
			return st, fmt.Errorf("notebook %q: %w", nbID, ErrNotFound)
		}
		next, err := fn(nb)
		if err != nil {
			return st, err
		}
		return st.UpdateNotebook(nbID, func(models.Notebook) models.Notebook { return next }), nil
	})
	if err != nil {
		return models.Notebook{}, err
	}
	nb, _ := st.Notebook(nbID)
	s.index(nb)
	return nb, nil
}

func requireCell(nb models.Notebook, cellID string) (models.Cell, error) {
	c, ok := nb.Cell(cellID)
	if !ok {
		return models.Cell{}, fmt.Errorf("cell %q in notebook %q: %w", cellID, nb.ID, ErrNotFound)
	}
	return c, nil
}

// AddCell inserts a cell after position at, or appends when at is nil, and
// returns the new cell's id.
func (s *Service) AddCell(nbID string, t models.CellType, at *int) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("unknown cell type %q", t)
	}
	var id string
	_, err := s.updateNotebook(nbID, func(nb models.Notebook) (models.Notebook, error) {
		var next models.Notebook
		next, id = s.editor.AddCell(nb, t, at)
		return next, nil
	})
	return id, err
}

// UpdateCell replaces a cell's content
func (s *Service) UpdateCell(nbID, cellID, content string) (models.Notebook, error) {
	return s.updateNotebook(nbID, func(nb models.Notebook) (models.Notebook, error) {
		if _, err := requireCell(nb, cellID); err != nil {
			return nb, err
		}
		return s.editor.UpdateContent(nb, cellID, content), nil
	})
}

// SetLanguage changes a code cell's language
func (s *Service) SetLanguage(nbID, cellID, language string) (models.Notebook, error) {
	return s.updateNotebook(nbID, func(nb models.Notebook) (models.Notebook, error) {
		c, err := requireCell(nb, cellID)
		if err != nil {
			return nb, err
		}
		if c.Type != models.CellTypeCode {
			return nb, fmt.Errorf("cell %q is %s, not code: %w", cellID, c.Type, ErrWrongCellType)
		}
		return s.editor.UpdateLanguage(nb, cellID, strings.ToLower(language)), nil
	})
}

// ToggleEdit flips a cell between viewing and editing
func (s *Service) ToggleEdit(nbID, cellID string) (models.Notebook, error) {
	return s.updateNotebook(nbID, func(nb models.Notebook) (models.Notebook, error) {
		if _, err := requireCell(nb, cellID); err != nil {
			return nb, err
		}
		return s.editor.ToggleEdit(nb, cellID), nil
	})
}

// MoveCell moves a cell one position. Moving past either end is a no-op.
func (s *Service) MoveCell(nbID, cellID string, dir notebook.Direction) (models.Notebook, error) {
	if dir != notebook.Up && dir != notebook.Down {
		return models.Notebook{}, fmt.Errorf("unknown direction %q", dir)
	}
	return s.updateNotebook(nbID, func(nb models.Notebook) (models.Notebook, error) {
		if _, err := requireCell(nb, cellID); err != nil {
			return nb, err
		}
		return s.editor.MoveCell(nb, cellID, dir), nil
	})
}

// DuplicateCell copies a cell in place and returns the copy's id
func (s *Service) DuplicateCell(nbID, cellID string) (string, error) {
	var id string
	_, err := s.updateNotebook(nbID, func(nb models.Notebook) (models.Notebook, error) {
		if _, err := requireCell(nb, cellID); err != nil {
			return nb, err
		}
		var next models.Notebook
		next, id = s.editor.DuplicateCell(nb, cellID)
		return next, nil
	})
	return id, err
}

// DeleteCell removes a cell
func (s *Service) DeleteCell(nbID, cellID string) (models.Notebook, error) {
	return s.updateNotebook(nbID, func(nb models.Notebook) (models.Notebook, error) {
		if _, err := requireCell(nb, cellID); err != nil {
			return nb, err
		}
		return s.editor.DeleteCell(nb, cellID), nil
	})
}

// RunCell executes a code cell and records its output. An empty cellID runs
// the first code cell that is not already executing. The cell is marked as
// executing while the runner works outside the state lock.
func (s *Service) RunCell(ctx context.Context, nbID, cellID string) (models.Cell, error) {
	var cell models.Cell
	_, err := s.updateNotebook(nbID, func(nb models.Notebook) (models.Notebook, error) {
		if cellID == "" {
			id, ok := notebook.FirstRunnable(nb)
			if !ok {
				return nb, fmt.Errorf("notebook %q has no runnable code cell: %w", nbID, ErrNotFound)
			}
			cellID = id
		}
		c, err := requireCell(nb, cellID)
		if err != nil {
			return nb, err
		}
		if c.Type != models.CellTypeCode {
			return nb, fmt.Errorf("cell %q is %s, not code: %w", cellID, c.Type, ErrWrongCellType)
		}
		next, started, _ := s.editor.BeginExecution(nb, cellID)
		cell = started
		return next, nil
	})
	if err != nil {
		return models.Cell{}, err
	}

	s.log.WithField("cell", cellID).WithField("language", cell.Language).Debug("Running cell")
	res, runErr := s.runners.Run(ctx, cell.Language, cell.Content)
	errText := res.Err
	if runErr != nil && errText == "" {
		errText = runErr.Error()
	}

	nb, err := s.updateNotebook(nbID, func(nb models.Notebook) (models.Notebook, error) {
		return s.editor.FinishExecution(nb, cellID, res.Output, errText), nil
	})
	if err != nil {
		// Notebook was deleted while running
		return models.Cell{}, err
	}
	out, _ := nb.Cell(cellID)
	return out, runErr
}

// Assist runs an assistant action on free text
func (s *Service) Assist(ctx context.Context, action assistant.Action, input string) (string, error) {
	return assistant.Do(ctx, s.assistant, action, input)
}

// AssistCell runs an assistant action on a cell's content. Explain and
// optimize expect code cells, enhance expects markdown.
func (s *Service) AssistCell(ctx context.Context, action assistant.Action, nbID, cellID string) (string, error) {
	nb, err := s.Notebook(nbID)
	if err != nil {
		return "", err
	}
	c, err := requireCell(nb, cellID)
	if err != nil {
		return "", err
	}
	switch action {
	case assistant.ActionExplain, assistant.ActionOptimize:
		if c.Type != models.CellTypeCode {
			return "", fmt.Errorf("%s needs a code cell, %q is %s: %w", action, cellID, c.Type, ErrWrongCellType)
		}
	case assistant.ActionEnhance:
		if c.Type != models.CellTypeMarkdown {
			return "", fmt.Errorf("%s needs a markdown cell, %q is %s: %w", action, cellID, c.Type, ErrWrongCellType)
		}
	}
	return s.Assist(ctx, action, c.Content)
}

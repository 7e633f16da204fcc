package models

import (
	"testing"
	"time"
)

func TestCellTypeValidation(t *testing.T) {
	tests := []struct {
		cellType CellType
		isValid  bool
	}{
		{"markdown", true},
		{"code", true},
		{"whiteboard", true},
		{"drawing", false},
		{CellType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.cellType), func(t *testing.T) {
			if got := tt.cellType.Valid(); got != tt.isValid {
				t.Errorf("Expected Valid() %v for cell type %q", tt.isValid, tt.cellType)
			}
		})
	}
}

func TestNotebookClone(t *testing.T) {
	nb := Notebook{
		ID:           "nb1",
		Name:         "Test",
		LastModified: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Cells: []Cell{
			{ID: "a", Type: CellTypeMarkdown, Content: "# A"},
			{ID: "b", Type: CellTypeCode, Content: "1+1", Language: "javascript"},
		},
	}

	clone := nb.Clone()
	clone.Cells[0].Content = "changed"

	if nb.Cells[0].Content != "# A" {
		t.Errorf("Expected original content to be untouched, got %q", nb.Cells[0].Content)
	}
	if clone.Name != nb.Name {
		t.Errorf("Expected name %q, got %q", nb.Name, clone.Name)
	}
}

func TestNotebookCellLookup(t *testing.T) {
	nb := Notebook{Cells: []Cell{{ID: "a"}, {ID: "b"}}}

	if idx := nb.CellIndex("b"); idx != 1 {
		t.Errorf("Expected index 1, got %d", idx)
	}
	if idx := nb.CellIndex("missing"); idx != -1 {
		t.Errorf("Expected index -1, got %d", idx)
	}
	if _, ok := nb.Cell("missing"); ok {
		t.Error("Expected missing cell lookup to fail")
	}
}

func TestDefaultCellTypeConfigs(t *testing.T) {
	code := DefaultCellTypeConfigs[CellTypeCode]
	if code.Language != "javascript" {
		t.Errorf("Expected default language javascript, got %s", code.Language)
	}
	if DefaultCellTypeConfigs[CellTypeWhiteboard].DefaultContent != "" {
		t.Error("Expected whiteboard cells to start blank")
	}
}

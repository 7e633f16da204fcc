package notebook

import "github.com/mattsolo1/grove-cellbook/pkg/models"

// ExecState is the execution state of a code cell
type ExecState string

const (
	Idle      ExecState = "idle"
	Executing ExecState = "executing"
	Succeeded ExecState = "succeeded"
	Failed    ExecState = "failed"
)

// StateOf derives the execution state from a cell's ephemeral flags
func StateOf(c models.Cell) ExecState {
	switch {
	case c.IsExecuting:
		return Executing
	case c.Error != "":
		return Failed
	case c.Output != "":
		return Succeeded
	}
	return Idle
}

// BeginExecution moves a code cell into Executing, clearing its previous
// output and error. It returns the cell as it should be run. A second call
// while the cell is already executing is not rejected.
func (e *Editor) BeginExecution(nb models.Notebook, id string) (models.Notebook, models.Cell, bool) {
	idx := nb.CellIndex(id)
	if idx < 0 || nb.Cells[idx].Type != models.CellTypeCode {
		return nb, models.Cell{}, false
	}
	out := nb.Clone()
	out.Cells[idx].IsExecuting = true
	out.Cells[idx].Output = ""
	out.Cells[idx].Error = ""
	return out, out.Cells[idx], true
}

// FinishExecution records the outcome of a run. A non-empty errText moves the
// cell to Failed; output captured before the fault is kept either way.
func (e *Editor) FinishExecution(nb models.Notebook, id, output, errText string) models.Notebook {
	idx := nb.CellIndex(id)
	if idx < 0 {
		return nb
	}
	out := nb.Clone()
	out.Cells[idx].IsExecuting = false
	out.Cells[idx].Output = output
	out.Cells[idx].Error = errText
	return out
}

// FirstRunnable returns the id of the first code cell that is not executing
func FirstRunnable(nb models.Notebook) (string, bool) {
	for _, c := range nb.Cells {
		if c.Type == models.CellTypeCode && !c.IsExecuting {
			return c.ID, true
		}
	}
	return "", false
}

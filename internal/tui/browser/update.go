package browser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/grove-cellbook/internal/tui/browser/components/confirm"
	"github.com/mattsolo1/grove-cellbook/pkg/assistant"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/notebook"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
	"github.com/mattsolo1/grove-cellbook/pkg/tree"
)

const (
	entryTarget = "entry:"
	cellTarget  = "cell:"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.editor.SetWidth(m.mainWidth() - 4)
		m.editor.SetHeight(max(5, m.height/3))
		m.applyTheme()
		return m, nil

	case presenceMsg:
		m.collaborators = msg.collaborators
		return m, waitForPresence(m.presenceCh)

	case cellRanMsg:
		delete(m.running, msg.cellID)
		switch {
		case msg.cell.ID == "" && msg.err != nil:
			m.statusMessage = "Run failed: " + msg.err.Error()
		case msg.cell.Error != "":
			m.statusMessage = "Cell failed"
		default:
			m.statusMessage = "Cell ran"
		}
		return m, nil

	case assistMsg:
		m.assistantBusy = false
		m.assistantAction = msg.action
		if msg.err != nil {
			m.assistantOutput = "Error: " + msg.err.Error()
		} else {
			m.assistantOutput = msg.output
		}
		return m, nil

	case searchResultsMsg:
		m.searchResults = msg.hits
		m.searchCursor = 0
		m.showSearch = true
		if msg.err != nil {
			m.statusMessage = "Search failed: " + msg.err.Error()
		} else {
			m.statusMessage = fmt.Sprintf("%d results for %q", len(msg.hits), msg.query)
		}
		return m, nil

	case confirm.ConfirmedMsg:
		m.deleteTarget(msg.Target)
		return m, nil

	case confirm.CancelledMsg:
		m.statusMessage = "Cancelled"
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.confirm.Active:
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		case m.mode != noInput:
			return m.updateInput(msg)
		case m.editingID != "":
			return m.updateEditor(msg)
		case m.showHelp:
			if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		case m.showSearch:
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	if m.editingID != "" {
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.NewFile):
		return m.startInput(newFileInput, "", "Notebook name"), nil
	case key.Matches(msg, m.keys.NewFolder):
		return m.startInput(newFolderInput, "", "Folder name"), nil
	case key.Matches(msg, m.keys.Save):
		m.save()
		return m, nil
	case key.Matches(msg, m.keys.Search):
		return m.startInput(searchInput, "", "Search notebooks and cells"), nil
	case key.Matches(msg, m.keys.ToggleDarkMode):
		dark := m.service.ToggleDarkMode()
		m.applyTheme()
		m.statusMessage = "Light mode"
		if dark {
			m.statusMessage = "Dark mode"
		}
		return m, nil
	case key.Matches(msg, m.keys.AddMarkdownCell):
		m.addCell(models.CellTypeMarkdown)
		return m, nil
	case key.Matches(msg, m.keys.AddCodeCell):
		m.addCell(models.CellTypeCode)
		return m, nil
	case key.Matches(msg, m.keys.AddWhiteboard):
		m.addCell(models.CellTypeWhiteboard)
		return m, nil
	case key.Matches(msg, m.keys.RunCode):
		return m.runCell()
	case key.Matches(msg, m.keys.ToggleAssistant):
		m.assistantOpen = !m.assistantOpen
		return m, nil
	case key.Matches(msg, m.keys.SwitchPane):
		m.switchPane()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.assistantOpen {
			m.assistantOpen = false
		} else {
			m.pane = sidebarPane
		}
		return m, nil
	}

	if m.pane == sidebarPane {
		return m.updateSidebar(msg)
	}
	return m.updateCells(msg)
}

func (m Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	node, ok := m.selectedNode()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.displayNodes)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Collapse):
		if !ok {
			break
		}
		if node.entry.IsFolder() && !m.collapsed[node.entry.ID] {
			m.collapsed[node.entry.ID] = true
			m.buildDisplayTree()
		} else if node.entry.ParentID != "" {
			m.selectID(node.entry.ParentID)
		}
	case key.Matches(msg, m.keys.Expand):
		if ok && node.entry.IsFolder() {
			delete(m.collapsed, node.entry.ID)
			m.buildDisplayTree()
		}
	case key.Matches(msg, m.keys.Open):
		if !ok {
			break
		}
		if node.entry.IsFolder() {
			m.collapsed[node.entry.ID] = !m.collapsed[node.entry.ID]
			m.buildDisplayTree()
			break
		}
		m.openNotebook(node.entry.ID)
	case key.Matches(msg, m.keys.Rename):
		if ok {
			return m.startInput(renameInput, node.entry.ID, node.entry.Name), nil
		}
	case key.Matches(msg, m.keys.Delete):
		if !ok {
			break
		}
		prompt := fmt.Sprintf("Delete notebook %q?", node.entry.Name)
		if node.entry.IsFolder() {
			count := len(tree.FileIDs([]tree.Entry{node.entry}))
			prompt = fmt.Sprintf("Delete folder %q and its %d notebooks?", node.entry.Name, count)
		}
		m.confirm.Activate(prompt, entryTarget+node.entry.ID)
	case key.Matches(msg, m.keys.Assist):
		m.assistantOpen = true
		return m.startInput(promptInput, "", "Describe the code to generate"), nil
	}
	return m, nil
}

func (m Model) updateCells(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nb, ok := m.service.State().OpenNotebook()
	if !ok {
		return m, nil
	}
	if m.cellCursor >= len(nb.Cells) {
		m.cellCursor = len(nb.Cells) - 1
	}
	if m.cellCursor < 0 || len(nb.Cells) == 0 {
		m.cellCursor = 0
		return m, nil
	}
	cell := nb.Cells[m.cellCursor]

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cellCursor > 0 {
			m.cellCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cellCursor < len(nb.Cells)-1 {
			m.cellCursor++
		}
	case key.Matches(msg, m.keys.Open):
		if cell.Type == models.CellTypeMarkdown {
			m.report(m.service.ToggleEdit(nb.ID, cell.ID))
			break
		}
		return m.startEditing(cell)
	case key.Matches(msg, m.keys.Edit):
		return m.startEditing(cell)
	case key.Matches(msg, m.keys.MoveUp):
		if _, err := m.service.MoveCell(nb.ID, cell.ID, notebook.Up); err == nil && m.cellCursor > 0 {
			m.cellCursor--
		}
	case key.Matches(msg, m.keys.MoveDown):
		if _, err := m.service.MoveCell(nb.ID, cell.ID, notebook.Down); err == nil && m.cellCursor < len(nb.Cells)-1 {
			m.cellCursor++
		}
	case key.Matches(msg, m.keys.Duplicate):
		if _, err := m.service.DuplicateCell(nb.ID, cell.ID); err != nil {
			m.statusMessage = err.Error()
		} else {
			m.cellCursor++
			m.statusMessage = "Cell duplicated"
		}
	case key.Matches(msg, m.keys.Delete):
		m.confirm.Activate(fmt.Sprintf("Delete %s cell %d?", cell.Type, m.cellCursor+1), cellTarget+cell.ID)
	case key.Matches(msg, m.keys.Language):
		if cell.Type == models.CellTypeCode {
			lang := nextLanguage(cell.Language)
			if _, err := m.service.SetLanguage(nb.ID, cell.ID, lang); err == nil {
				m.statusMessage = "Language: " + lang
			}
		}
	case key.Matches(msg, m.keys.Assist):
		if cell.Type == models.CellTypeWhiteboard {
			m.statusMessage = "The assistant works on code and markdown cells"
			break
		}
		action := defaultAction(cell)
		if m.assistantOpen && cell.Type == models.CellTypeCode && m.assistantAction == assistant.ActionExplain && m.assistantOutput != "" {
			action = assistant.ActionOptimize
		}
		m.assistantOpen = true
		m.assistantBusy = true
		m.assistantAction = action
		m.assistantOutput = ""
		return m, assistCellCmd(m.service, action, nb.ID, cell.ID)
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nb, ok := m.service.State().OpenNotebook()
	switch {
	case msg.Type == tea.KeyEsc:
		if ok {
			m.report(m.service.UpdateCell(nb.ID, m.editingID, m.editor.Value()))
		}
		m.editingID = ""
		m.editor.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		if ok {
			m.report(m.service.UpdateCell(nb.ID, m.editingID, m.editor.Value()))
			m.save()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = noInput
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode, target := m.mode, m.inputTarget
		m.mode = noInput
		m.input.Blur()
		return m.submitInput(mode, target, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitInput(mode inputMode, target, value string) (tea.Model, tea.Cmd) {
	switch mode {
	case newFileInput:
		nb, err := m.service.CreateNotebook(value, m.parentForNew())
		if err != nil {
			m.statusMessage = err.Error()
			break
		}
		m.buildDisplayTree()
		m.selectID(nb.ID)
		m.openNotebook(nb.ID)
		m.statusMessage = "Created " + nb.Name
	case newFolderInput:
		folder, err := m.service.CreateFolder(value, m.parentForNew())
		if err != nil {
			m.statusMessage = err.Error()
			break
		}
		m.buildDisplayTree()
		m.selectID(folder.ID)
		m.statusMessage = "Created folder " + folder.Name
	case renameInput:
		if value == "" {
			break
		}
		if err := m.service.Rename(target, value); err != nil {
			m.statusMessage = err.Error()
			break
		}
		m.buildDisplayTree()
		m.statusMessage = "Renamed to " + value
	case searchInput:
		if value == "" {
			break
		}
		return m, searchCmd(m.service, value)
	case promptInput:
		if value == "" {
			break
		}
		m.assistantBusy = true
		m.assistantOutput = ""
		return m, assistTextCmd(m.service, assistant.ActionGenerate, value)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.showSearch = false
	case key.Matches(msg, m.keys.Up):
		if m.searchCursor > 0 {
			m.searchCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.searchCursor >= len(m.searchResults) {
			break
		}
		hit := m.searchResults[m.searchCursor]
		m.showSearch = false
		m.selectID(hit.NotebookID)
		m.openNotebook(hit.NotebookID)
		if nb, ok := m.service.State().OpenNotebook(); ok && hit.CellID != "" {
			if i := nb.CellIndex(hit.CellID); i >= 0 {
				m.cellCursor = i
			}
		}
	}
	return m, nil
}

func (m Model) startInput(mode inputMode, target, value string) Model {
	m.mode = mode
	m.inputTarget = target
	m.input.Placeholder = ""
	m.input.SetValue("")
	if mode == renameInput {
		m.input.SetValue(value)
	} else {
		m.input.Placeholder = value
	}
	m.input.Focus()
	return m
}

func (m Model) startEditing(cell models.Cell) (tea.Model, tea.Cmd) {
	if cell.Type == models.CellTypeWhiteboard {
		m.statusMessage = "Draw with: cellbook whiteboard apply <notebook> <cell> <script.yaml>"
		return m, nil
	}
	m.editingID = cell.ID
	m.editor.SetValue(cell.Content)
	return m, m.editor.Focus()
}

func (m Model) runCell() (tea.Model, tea.Cmd) {
	nb, ok := m.service.State().OpenNotebook()
	if !ok {
		m.statusMessage = "Open a notebook first"
		return m, nil
	}
	var cellID string
	if m.pane == cellsPane && m.cellCursor < len(nb.Cells) && nb.Cells[m.cellCursor].Type == models.CellTypeCode {
		cellID = nb.Cells[m.cellCursor].ID
	} else {
		id, ok := notebook.FirstRunnable(nb)
		if !ok {
			m.statusMessage = "No code cell to run"
			return m, nil
		}
		cellID = id
	}
	if m.running[cellID] {
		m.statusMessage = "Cell is already running"
		return m, nil
	}
	m.running[cellID] = true
	m.statusMessage = "Running..."
	return m, runCellCmd(m.service, nb.ID, cellID)
}

func (m *Model) addCell(t models.CellType) {
	nb, ok := m.service.State().OpenNotebook()
	if !ok {
		m.statusMessage = "Open a notebook first"
		return
	}
	var at *int
	pos := len(nb.Cells)
	if len(nb.Cells) > 0 {
		after := m.cellCursor
		at = &after
		pos = after + 1
	}
	if _, err := m.service.AddCell(nb.ID, t, at); err != nil {
		m.statusMessage = err.Error()
		return
	}
	m.cellCursor = pos
	m.pane = cellsPane
	m.statusMessage = fmt.Sprintf("Added %s cell", t)
}

func (m *Model) save() {
	nb, err := m.service.Save("")
	if err != nil {
		m.statusMessage = "Nothing to save"
		return
	}
	m.statusMessage = "Saved " + nb.Name
}

func (m *Model) openNotebook(id string) {
	nb, err := m.service.Open(id)
	if err != nil {
		m.statusMessage = err.Error()
		return
	}
	m.pane = cellsPane
	m.cellCursor = 0
	m.statusMessage = fmt.Sprintf("Opened %s", nb.Name)
}

func (m *Model) deleteTarget(target string) {
	switch {
	case strings.HasPrefix(target, entryTarget):
		removed, err := m.service.Delete(strings.TrimPrefix(target, entryTarget))
		if err != nil {
			m.statusMessage = err.Error()
			return
		}
		m.buildDisplayTree()
		m.statusMessage = fmt.Sprintf("Deleted (%d notebooks)", len(removed))
		if m.service.State().OpenNotebookID == "" {
			m.pane = sidebarPane
		}
	case strings.HasPrefix(target, cellTarget):
		nb, ok := m.service.State().OpenNotebook()
		if !ok {
			return
		}
		if _, err := m.service.DeleteCell(nb.ID, strings.TrimPrefix(target, cellTarget)); err != nil {
			m.statusMessage = err.Error()
			return
		}
		if m.cellCursor > 0 && m.cellCursor >= len(nb.Cells)-1 {
			m.cellCursor--
		}
		m.statusMessage = "Cell deleted"
	}
}

func (m *Model) switchPane() {
	if m.pane == sidebarPane {
		if _, ok := m.service.State().OpenNotebook(); ok {
			m.pane = cellsPane
		}
		return
	}
	m.pane = sidebarPane
}

func (m *Model) selectID(id string) {
	for i, n := range m.displayNodes {
		if n.entry.ID == id {
			m.cursor = i
			return
		}
	}
}

// report shows the error of a service call in the status line
func (m *Model) report(_ models.Notebook, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		m.statusMessage = "No longer exists"
		return
	}
	m.statusMessage = err.Error()
}

func (m Model) mainWidth() int {
	w := m.width - sidebarWidth - 2
	if w < 20 {
		w = 20
	}
	return w
}

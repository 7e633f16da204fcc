package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mattsolo1/grove-cellbook/pkg/keymap"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/notebook"
	"github.com/mattsolo1/grove-cellbook/pkg/presence"
	"github.com/mattsolo1/grove-cellbook/pkg/render"
)

func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - 1
	if bodyHeight < 5 {
		bodyHeight = 5
	}

	var main string
	switch {
	case m.confirm.Active:
		main = m.confirm.View()
	case m.showSearch:
		main = m.renderSearch()
	default:
		main = m.renderCells(bodyHeight)
	}
	if m.assistantOpen {
		main = lipgloss.JoinVertical(lipgloss.Left, main, m.renderAssistant())
	}
	main = cropLines(main, bodyHeight)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(sidebarWidth).Render(m.renderSidebar(bodyHeight)),
		"  ",
		lipgloss.NewStyle().Width(m.mainWidth()).Render(main),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	t := m.theme
	title := t.Header.Render("Cellbook")
	if nb, ok := m.service.State().OpenNotebook(); ok {
		title += t.Muted.Render("  ›  ") + t.Highlight.Render(nb.Name)
		if !nb.LastModified.IsZero() {
			title += t.Muted.Render("  modified " + nb.LastModified.Format("Jan 2 15:04"))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "   ", m.renderPresence())
}

func (m Model) renderPresence() string {
	t := m.theme
	online := presence.Online(m.collaborators)
	var parts []string
	for _, c := range online {
		parts = append(parts, t.Success.Render("●")+" "+c.Initials())
	}
	label := t.Muted.Render(fmt.Sprintf("%d online", len(online)))
	if len(parts) == 0 {
		return label
	}
	return strings.Join(parts, " ") + " " + label
}

func (m Model) renderFooter() string {
	var b strings.Builder
	if m.mode != noInput {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.statusMessage != "" {
		b.WriteString(m.theme.Info.Render(m.statusMessage))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderSidebar(height int) string {
	t := m.theme
	var b strings.Builder
	if m.pane == sidebarPane {
		b.WriteString(t.Highlight.Render("Files"))
	} else {
		b.WriteString(t.Header.Render("Files"))
	}
	b.WriteString("\n")

	if len(m.displayNodes) == 0 {
		b.WriteString(t.Muted.Render("No files. ctrl+n creates one."))
		return b.String()
	}

	start := 0
	if m.cursor >= height-2 {
		start = m.cursor - (height - 3)
	}
	openID := m.service.State().OpenNotebookID
	for i := start; i < len(m.displayNodes) && i-start < height-1; i++ {
		node := m.displayNodes[i]
		cursor := "  "
		if i == m.cursor && m.pane == sidebarPane {
			cursor = t.Highlight.Render("▶ ")
		}

		icon := "  "
		if node.entry.IsFolder() {
			icon = "▾ "
			if m.collapsed[node.entry.ID] {
				icon = "▸ "
			}
		}
		name := truncate(node.entry.Name, sidebarWidth-4-2*node.depth-len(cursor))
		if node.entry.ID == openID {
			name = t.Highlight.Render(name)
		}
		b.WriteString(cursor + strings.Repeat("  ", node.depth) + icon + name + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderCells(height int) string {
	t := m.theme
	nb, ok := m.service.State().OpenNotebook()
	if !ok {
		return t.Muted.Render("Select a notebook and press enter to open it.\nPress ? for shortcuts.")
	}
	if len(nb.Cells) == 0 {
		return t.Muted.Render("This notebook is empty. Add a cell with alt+m, alt+j or alt+w.")
	}

	var blocks []string
	selectedLine := 0
	lines := 0
	for i, c := range nb.Cells {
		block := m.renderCell(i, c)
		if i == m.cellCursor {
			selectedLine = lines
		}
		lines += lipgloss.Height(block)
		blocks = append(blocks, block)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, blocks...)
	offset := selectedLine - height/3
	if offset < 0 {
		offset = 0
	}
	all := strings.Split(out, "\n")
	if offset > len(all) {
		offset = len(all)
	}
	return strings.Join(all[offset:], "\n")
}

func (m Model) renderCell(i int, c models.Cell) string {
	t := m.theme
	width := m.mainWidth() - 2
	style := t.Border
	if i == m.cellCursor && m.pane == cellsPane {
		style = t.Selected
	}

	label := string(c.Type)
	if c.Type == models.CellTypeCode {
		label += " · " + c.Language
		if m.running[c.ID] {
			label += " · running"
		} else if s := notebook.StateOf(c); s != notebook.Idle {
			label += " · " + string(s)
		}
	}
	if c.IsEditing {
		label += " · editing"
	}
	title := t.Muted.Render(fmt.Sprintf("[%d] %s", i+1, label))

	var content string
	switch {
	case c.ID == m.editingID:
		content = m.editor.View() + "\n" + t.Muted.Render("esc to finish, ctrl+s to save")
	case render.StrategyFor(c) == render.MarkdownView:
		content = m.markdown(c)
	case c.Type == models.CellTypeCode:
		content = m.renderCode(c)
	default:
		content = m.renderer.Render(c)
	}

	return style.Width(width).Render(title + "\n" + content)
}

func (m Model) renderCode(c models.Cell) string {
	t := m.theme
	var b strings.Builder
	b.WriteString(c.Content)
	if m.running[c.ID] || c.IsExecuting {
		b.WriteString("\n" + t.Muted.Render("Running..."))
		return b.String()
	}
	if c.Output != "" {
		b.WriteString("\n" + t.Muted.Render("Output:") + "\n" + c.Output)
	}
	if c.Error != "" {
		b.WriteString("\n" + t.Error.Render("Error: "+c.Error))
	}
	return b.String()
}

// markdown renders a markdown cell through the per-theme cache
func (m Model) markdown(c models.Cell) string {
	if out, ok := m.rendered[c.Content]; ok {
		return out
	}
	if m.renderer == nil {
		return c.Content
	}
	out := m.renderer.Render(c)
	m.rendered[c.Content] = out
	return out
}

func (m Model) renderAssistant() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.Header.Render("AI Assistant"))
	b.WriteString(t.Muted.Render("  (" + string(m.assistantAction) + ")"))
	b.WriteString("\n")
	switch {
	case m.assistantBusy:
		b.WriteString(t.Muted.Render("Thinking..."))
	case m.assistantOutput == "":
		b.WriteString(t.Muted.Render("Press a on a cell to explain, optimize or enhance it, or in the file list to generate code."))
	default:
		b.WriteString(m.assistantOutput)
	}
	return t.Border.Width(m.mainWidth() - 2).Render(b.String())
}

func (m Model) renderSearch() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.Header.Render("Search results"))
	b.WriteString("\n")
	if len(m.searchResults) == 0 {
		b.WriteString(t.Muted.Render("No results found"))
		return b.String()
	}
	for i, hit := range m.searchResults {
		cursor := "  "
		if i == m.searchCursor {
			cursor = t.Highlight.Render("▶ ")
		}
		line := hit.NotebookName
		if hit.CellID != "" {
			line += t.Muted.Render(" › " + hit.Type)
		}
		b.WriteString(cursor + line + "\n")
		if hit.Snippet != "" {
			b.WriteString("    " + t.Muted.Render(truncate(firstLine(hit.Snippet), m.mainWidth()-6)) + "\n")
		}
	}
	b.WriteString(t.Muted.Render("enter to open, esc to close"))
	return b.String()
}

func (m Model) renderHelp() string {
	t := m.theme
	chords := t.Border.Render(t.Header.Render("Keyboard Shortcuts") + "\n\n" + keymap.HelpText())
	m.help.ShowAll = true
	return lipgloss.JoinVertical(lipgloss.Left,
		chords,
		"",
		m.help.View(m.keys),
		"",
		t.Muted.Render("press ? or esc to close"),
	)
}

func cropLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}

package browser

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/grove-cellbook/internal/tui/browser/components/confirm"
	"github.com/mattsolo1/grove-cellbook/internal/tui/theme"
	"github.com/mattsolo1/grove-cellbook/pkg/assistant"
	"github.com/mattsolo1/grove-cellbook/pkg/presence"
	"github.com/mattsolo1/grove-cellbook/pkg/render"
	"github.com/mattsolo1/grove-cellbook/pkg/search"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
	"github.com/mattsolo1/grove-cellbook/pkg/tree"
)

type pane int

const (
	sidebarPane pane = iota
	cellsPane
)

type inputMode int

const (
	noInput inputMode = iota
	newFileInput
	newFolderInput
	renameInput
	searchInput
	promptInput
)

const sidebarWidth = 32

// displayNode is one visible line of the file tree
type displayNode struct {
	entry tree.Entry
	depth int
}

// Model is the main model for the notebook TUI
type Model struct {
	service  *service.Service
	keys     KeyMap
	help     help.Model
	theme    *theme.Theme
	renderer *render.Renderer
	rendered map[string]string // markdown source -> rendered view

	width  int
	height int
	pane   pane

	// Sidebar
	displayNodes []displayNode
	cursor       int
	collapsed    map[string]bool

	// Cells of the open notebook
	cellCursor int
	editingID  string
	editor     textarea.Model
	running    map[string]bool

	// Prompts
	mode        inputMode
	inputTarget string
	input       textinput.Model
	confirm     confirm.Model

	// Search
	searchResults []search.Hit
	searchCursor  int
	showSearch    bool

	// Assistant panel
	assistantOpen   bool
	assistantAction assistant.Action
	assistantOutput string
	assistantBusy   bool

	collaborators []presence.Collaborator
	presenceCh    <-chan []presence.Collaborator
	cancel        context.CancelFunc

	showHelp      bool
	statusMessage string
}

// New creates the TUI model
func New(svc *service.Service) Model {
	ctx, cancel := context.WithCancel(context.Background())

	ti := textinput.New()
	ti.CharLimit = 120

	ta := textarea.New()
	ta.ShowLineNumbers = false

	h := help.New()
	h.ShowAll = false

	m := Model{
		service:         svc,
		keys:            keys,
		help:            h,
		rendered:        make(map[string]string),
		width:           100,
		height:          30,
		collapsed:       make(map[string]bool),
		editor:          ta,
		running:         make(map[string]bool),
		input:           ti,
		confirm:         confirm.New(),
		assistantAction: assistant.ActionExplain,
		collaborators:   svc.Presence().Snapshot(),
		presenceCh:      svc.Presence().Subscribe(ctx),
		cancel:          cancel,
	}
	m.applyTheme()
	m.buildDisplayTree()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForPresence(m.presenceCh), textarea.Blink)
}

// applyTheme rebuilds the styles and the markdown renderer for the current
// theme and width.
func (m *Model) applyTheme() {
	dark := m.service.DarkMode()
	m.theme = theme.New(dark)
	width := m.width - sidebarWidth - 6
	if width < 20 {
		width = 20
	}
	r, err := render.New(render.WithWidth(width), render.WithStyle(render.StyleFor(dark)))
	if err != nil {
		m.statusMessage = err.Error()
		return
	}
	m.renderer = r
	m.rendered = make(map[string]string)
}

// buildDisplayTree flattens the visible part of the file tree
func (m *Model) buildDisplayTree() {
	var nodes []displayNode
	var walk func(entries []tree.Entry, depth int)
	walk = func(entries []tree.Entry, depth int) {
		for _, e := range entries {
			nodes = append(nodes, displayNode{entry: e, depth: depth})
			if e.IsFolder() && !m.collapsed[e.ID] {
				walk(e.Children, depth+1)
			}
		}
	}
	walk(m.service.Tree(""), 0)
	m.displayNodes = nodes
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.displayNodes) {
		m.cursor = len(m.displayNodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selectedNode() (displayNode, bool) {
	if m.cursor < 0 || m.cursor >= len(m.displayNodes) {
		return displayNode{}, false
	}
	return m.displayNodes[m.cursor], true
}

// parentForNew is the folder new entries go into: the selected folder, or
// the folder of the selected file.
func (m *Model) parentForNew() string {
	node, ok := m.selectedNode()
	if !ok {
		return ""
	}
	if node.entry.IsFolder() {
		return node.entry.ID
	}
	return node.entry.ParentID
}

package browser

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/grove-cellbook/pkg/assistant"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/presence"
	"github.com/mattsolo1/grove-cellbook/pkg/search"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
)

type cellRanMsg struct {
	cellID string
	cell   models.Cell
	err    error
}

type assistMsg struct {
	action assistant.Action
	output string
	err    error
}

type presenceMsg struct {
	collaborators []presence.Collaborator
}

type searchResultsMsg struct {
	query string
	hits  []search.Hit
	err   error
}

func runCellCmd(svc *service.Service, nbID, cellID string) tea.Cmd {
	return func() tea.Msg {
		cell, err := svc.RunCell(context.Background(), nbID, cellID)
		return cellRanMsg{cellID: cellID, cell: cell, err: err}
	}
}

func assistCellCmd(svc *service.Service, action assistant.Action, nbID, cellID string) tea.Cmd {
	return func() tea.Msg {
		out, err := svc.AssistCell(context.Background(), action, nbID, cellID)
		return assistMsg{action: action, output: out, err: err}
	}
}

func assistTextCmd(svc *service.Service, action assistant.Action, text string) tea.Cmd {
	return func() tea.Msg {
		out, err := svc.Assist(context.Background(), action, text)
		return assistMsg{action: action, output: out, err: err}
	}
}

func searchCmd(svc *service.Service, query string) tea.Cmd {
	return func() tea.Msg {
		hits, err := svc.Search(context.Background(), query, service.WithLimit(20))
		return searchResultsMsg{query: query, hits: hits, err: err}
	}
}

// waitForPresence delivers the next presence snapshot. It returns nil once
// the subscription is closed.
func waitForPresence(ch <-chan []presence.Collaborator) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-ch
		if !ok {
			return nil
		}
		return presenceMsg{collaborators: snapshot}
	}
}

package browser

import (
	"strings"

	"github.com/mattsolo1/grove-cellbook/pkg/assistant"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
)

// languages is the order the language key cycles through
var languages = []string{"javascript", "python", "go", "starlark", "typescript"}

func nextLanguage(current string) string {
	for i, l := range languages {
		if l == current {
			return languages[(i+1)%len(languages)]
		}
	}
	return languages[0]
}

// defaultAction picks the assistant action that fits a cell
func defaultAction(c models.Cell) assistant.Action {
	if c.Type == models.CellTypeMarkdown {
		return assistant.ActionEnhance
	}
	return assistant.ActionExplain
}

func nextAction(a assistant.Action) assistant.Action {
	for i, x := range assistant.Actions {
		if x == a {
			return assistant.Actions[(i+1)%len(assistant.Actions)]
		}
	}
	return assistant.Actions[0]
}

// truncate shortens s to n runes with an ellipsis
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

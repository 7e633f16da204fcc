package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-cellbook/internal/logging"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
	"github.com/mattsolo1/grove-cellbook/pkg/tree"
)

var treeUlog = logging.NewUnifiedLogger("grove-cellbook.cmd.tree")

func NewTreeCmd(svc **service.Service) *cobra.Command {
	var (
		filter  string
		jsonOut bool
		showIDs bool
	)

	cmd := &cobra.Command{
		Use:     "tree",
		Aliases: []string{"ls"},
		Short:   "Show the folder and notebook tree",
		Long: `Show the folder and notebook tree.

Examples:
  cellbook tree                # Everything
  cellbook tree --filter algo  # Only entries whose name contains "algo"
  cellbook tree --ids          # Include ids for use with other commands`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			entries := s.Tree(filter)

			if jsonOut {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(entries)
			}

			if len(entries) == 0 {
				treeUlog.Info("No entries").
					Field("filter", filter).
					Pretty("No matching files or folders").
					PrettyOnly().
					Emit()
				return nil
			}

			open := s.State().OpenNotebookID
			treeUlog.Info("File tree").
				Field("filter", filter).
				Pretty(strings.TrimRight(formatTree(entries, open, showIDs), "\n")).
				PrettyOnly().
				Emit()
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only show entries whose name contains this text")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show entry ids")

	return cmd
}

func formatTree(entries []tree.Entry, openID string, showIDs bool) string {
	var b strings.Builder
	tree.Walk(entries, func(e tree.Entry, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		if e.IsFolder() {
			b.WriteString("▸ ")
		} else if e.ID == openID {
			b.WriteString("* ")
		} else {
			b.WriteString("  ")
		}
		b.WriteString(e.Name)
		if showIDs {
			fmt.Fprintf(&b, "  (%s)", e.ID)
		}
		b.WriteString("\n")
	})
	return b.String()
}

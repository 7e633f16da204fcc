package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-cellbook/internal/logging"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
)

var searchUlog = logging.NewUnifiedLogger("grove-cellbook.cmd.search")

func NewSearchCmd(svc **service.Service) *cobra.Command {
	var (
		notebookID  string
		searchType  string
		searchLimit int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search notebooks and cells",
		Long: `Search notebook names and cell content.

Examples:
  cellbook search "binary search"
  cellbook search fetch -t code
  cellbook search todo --notebook notebook1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			query := strings.Join(args, " ")

			var opts []service.SearchOption
			if notebookID != "" {
				opts = append(opts, service.InNotebook(notebookID))
			}
			if searchType != "" {
				opts = append(opts, service.OfType(models.CellType(searchType)))
			}
			opts = append(opts, service.WithLimit(searchLimit))

			results, err := s.Search(cmd.Context(), query, opts...)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				searchUlog.Info("No results found").
					Field("query", query).
					Pretty("No results found").
					PrettyOnly().
					Emit()
				return nil
			}

			searchUlog.Info("Search results").
				Field("query", query).
				Field("result_count", len(results)).
				Pretty(fmt.Sprintf("Found %d results:\n", len(results))).
				PrettyOnly().
				Emit()

			for i, hit := range results {
				var prettyStr strings.Builder
				prettyStr.WriteString(fmt.Sprintf("%d. %s", i+1, hit.NotebookName))
				if hit.CellID != "" {
					prettyStr.WriteString(fmt.Sprintf(" › %s cell %s", hit.Type, hit.CellID))
				}
				prettyStr.WriteString(fmt.Sprintf("\n   %s", hit.NotebookID))
				if hit.Snippet != "" {
					prettyStr.WriteString(fmt.Sprintf("\n   %s", hit.Snippet))
				}
				prettyStr.WriteString("\n")

				searchUlog.Info("Search result").
					Field("query", query).
					Field("result_index", i+1).
					Field("notebook", hit.NotebookID).
					Field("cell", hit.CellID).
					Field("type", hit.Type).
					Pretty(prettyStr.String()).
					PrettyOnly().
					Emit()
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&notebookID, "notebook", "", "Only search this notebook")
	cmd.Flags().StringVarP(&searchType, "type", "t", "", "Only search cells of this type (markdown, code, whiteboard, notebook)")
	cmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "Maximum number of results")

	return cmd
}

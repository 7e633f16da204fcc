package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-cellbook/internal/logging"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/notebook"
	"github.com/mattsolo1/grove-cellbook/pkg/render"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
)

var cellUlog = logging.NewUnifiedLogger("grove-cellbook.cmd.cell")

// resolveCell accepts a cell id or a 1-based position within the notebook
func resolveCell(s *service.Service, nbID, ref string) (string, error) {
	nb, err := s.Notebook(nbID)
	if err != nil {
		return "", err
	}
	if _, ok := nb.Cell(ref); ok {
		return ref, nil
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(nb.Cells) {
		return nb.Cells[n-1].ID, nil
	}
	return "", fmt.Errorf("cell %q in notebook %q: %w", ref, nbID, service.ErrNotFound)
}

func NewCellCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cell",
		Short: "Work with the cells of a notebook",
		Long: `Work with the cells of a notebook. Cells can be named by id or by their
1-based position.

Examples:
  cellbook cell list notebook1
  cellbook cell add notebook1 code --at 1
  cellbook cell edit notebook1 2 --content "console.log('hi')"
  cellbook cell move notebook1 2 up`,
	}

	cmd.AddCommand(
		newCellAddCmd(svc),
		newCellEditCmd(svc),
		newCellLangCmd(svc),
		newCellToggleCmd(svc),
		newCellMoveCmd(svc),
		newCellDupCmd(svc),
		newCellRmCmd(svc),
		newCellListCmd(svc),
		newCellShowCmd(svc),
	)
	return cmd
}

func newCellAddCmd(svc **service.Service) *cobra.Command {
	var after int

	cmd := &cobra.Command{
		Use:       "add <notebook> <markdown|code|whiteboard>",
		Short:     "Add a cell",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"markdown", "code", "whiteboard"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			t := models.CellType(strings.ToLower(args[1]))

			var at *int
			if cmd.Flags().Changed("at") {
				pos := after - 1
				at = &pos
			}

			id, err := s.AddCell(args[0], t, at)
			if err != nil {
				return err
			}

			cellUlog.Success("Cell added").
				Field("notebook", args[0]).
				Field("cell", id).
				Field("type", t).
				Pretty(fmt.Sprintf("Added %s cell %s", t, id)).
				PrettyOnly().
				Emit()
			return nil
		},
	}

	cmd.Flags().IntVar(&after, "at", 0, "Insert after this 1-based position (0 inserts at the front)")

	return cmd
}

func newCellEditCmd(svc **service.Service) *cobra.Command {
	var (
		content   string
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "edit <notebook> <cell>",
		Short: "Replace a cell's content",
		Long: `Replace a cell's content from a flag, stdin, or your editor.

Examples:
  cellbook cell edit notebook1 cell2 --content "1 + 1"
  echo "# Title" | cellbook cell edit notebook1 1
  cellbook cell edit notebook1 1       # Opens $EDITOR`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			cellID, err := resolveCell(s, args[0], args[1])
			if err != nil {
				return err
			}

			// Auto-detect stdin if not explicitly set
			if !cmd.Flags().Changed("stdin") && !cmd.Flags().Changed("content") {
				if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
					fromStdin = true
				}
			}

			switch {
			case cmd.Flags().Changed("content"):
				_, err = s.UpdateCell(args[0], cellID, content)
			case fromStdin:
				data, readErr := io.ReadAll(os.Stdin)
				if readErr != nil {
					return fmt.Errorf("read stdin: %w", readErr)
				}
				_, err = s.UpdateCell(args[0], cellID, string(data))
			default:
				_, err = s.EditCell(args[0], cellID)
			}
			if err != nil {
				return err
			}

			cellUlog.Success("Cell updated").
				Field("notebook", args[0]).
				Field("cell", cellID).
				Pretty(fmt.Sprintf("Updated cell %s", cellID)).
				PrettyOnly().
				Emit()
			return nil
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "New content")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read content from stdin (auto-detected when piped)")

	return cmd
}

func newCellLangCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "lang <notebook> <cell> <language>",
		Short: "Set a code cell's language",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			cellID, err := resolveCell(s, args[0], args[1])
			if err != nil {
				return err
			}
			if _, err := s.SetLanguage(args[0], cellID, args[2]); err != nil {
				return err
			}

			cellUlog.Success("Language set").
				Field("cell", cellID).
				Field("language", args[2]).
				Pretty(fmt.Sprintf("Cell %s is now %s", cellID, strings.ToLower(args[2]))).
				PrettyOnly().
				Emit()
			return nil
		},
	}
}

func newCellToggleCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <notebook> <cell>",
		Short: "Switch a cell between viewing and editing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			cellID, err := resolveCell(s, args[0], args[1])
			if err != nil {
				return err
			}
			nb, err := s.ToggleEdit(args[0], cellID)
			if err != nil {
				return err
			}

			c, _ := nb.Cell(cellID)
			mode := "viewing"
			if c.IsEditing {
				mode = "editing"
			}
			cellUlog.Info("Cell toggled").
				Field("cell", cellID).
				Field("editing", c.IsEditing).
				Pretty(fmt.Sprintf("Cell %s: %s", cellID, mode)).
				PrettyOnly().
				Emit()
			return nil
		},
	}
}

func newCellMoveCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:       "move <notebook> <cell> <up|down>",
		Short:     "Move a cell up or down",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			cellID, err := resolveCell(s, args[0], args[1])
			if err != nil {
				return err
			}
			nb, err := s.MoveCell(args[0], cellID, notebook.Direction(strings.ToLower(args[2])))
			if err != nil {
				return err
			}

			cellUlog.Success("Cell moved").
				Field("cell", cellID).
				Field("position", nb.CellIndex(cellID)+1).
				Pretty(fmt.Sprintf("Cell %s is at position %d", cellID, nb.CellIndex(cellID)+1)).
				PrettyOnly().
				Emit()
			return nil
		},
	}
}

func newCellDupCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "dup <notebook> <cell>",
		Short: "Duplicate a cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			cellID, err := resolveCell(s, args[0], args[1])
			if err != nil {
				return err
			}
			id, err := s.DuplicateCell(args[0], cellID)
			if err != nil {
				return err
			}

			cellUlog.Success("Cell duplicated").
				Field("source", cellID).
				Field("cell", id).
				Pretty(fmt.Sprintf("Duplicated %s as %s", cellID, id)).
				PrettyOnly().
				Emit()
			return nil
		},
	}
}

func newCellRmCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <notebook> <cell>",
		Aliases: []string{"delete"},
		Short:   "Delete a cell",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			cellID, err := resolveCell(s, args[0], args[1])
			if err != nil {
				return err
			}
			if _, err := s.DeleteCell(args[0], cellID); err != nil {
				return err
			}

			cellUlog.Success("Cell deleted").
				Field("cell", cellID).
				Pretty(fmt.Sprintf("Deleted cell %s", cellID)).
				PrettyOnly().
				Emit()
			return nil
		},
	}
}

func newCellListCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "list <notebook>",
		Short: "List the cells of a notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			nb, err := s.Notebook(args[0])
			if err != nil {
				return err
			}
			if len(nb.Cells) == 0 {
				fmt.Printf("%s has no cells\n", nb.Name)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tID\tTYPE\tLANGUAGE\tSTATE\tPREVIEW")
			for i, c := range nb.Cells {
				state := "-"
				if c.Type == models.CellTypeCode {
					state = string(notebook.StateOf(c))
				}
				lang := c.Language
				if lang == "" {
					lang = "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, c.ID, c.Type, lang, state, preview(c))
			}
			return w.Flush()
		},
	}
}

func preview(c models.Cell) string {
	if c.Type == models.CellTypeWhiteboard {
		return render.Whiteboard(c.Content)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(c.Content), "\n")
	if r := []rune(line); len(r) > 40 {
		line = string(r[:39]) + "…"
	}
	return line
}

func newCellShowCmd(svc **service.Service) *cobra.Command {
	var (
		width int
		style string
	)

	cmd := &cobra.Command{
		Use:   "show <notebook> [cell]",
		Short: "Render a notebook or a single cell",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			nb, err := s.Notebook(args[0])
			if err != nil {
				return err
			}

			if style == "" {
				style = render.StyleFor(s.DarkMode())
				if !isatty.IsTerminal(os.Stdout.Fd()) {
					style = "notty"
				}
			}
			r, err := render.New(render.WithWidth(width), render.WithStyle(style))
			if err != nil {
				return err
			}

			cells := nb.Cells
			if len(args) > 1 {
				cellID, err := resolveCell(s, args[0], args[1])
				if err != nil {
					return err
				}
				c, _ := nb.Cell(cellID)
				cells = []models.Cell{c}
			} else {
				fmt.Printf("# %s\n\n", nb.Name)
			}

			for _, c := range cells {
				fmt.Println(r.Render(c))
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 80, "Wrap width")
	cmd.Flags().StringVar(&style, "style", "", "Markdown style: dark, light, notty or auto (default follows the theme)")

	return cmd
}

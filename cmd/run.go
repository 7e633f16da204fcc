package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-cellbook/internal/logging"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
)

var runUlog = logging.NewUnifiedLogger("grove-cellbook.cmd.run")

func NewRunCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <notebook> [cell]",
		Short: "Run a code cell",
		Long: `Run a code cell and store its output. Without a cell, the first code cell
that is not already running is used.

Languages: javascript, go and starlark run in-process; other languages are
simulated.

Examples:
  cellbook run notebook1
  cellbook run notebook1 cell2
  cellbook run notebook1 3`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			ctx := cmd.Context()

			var cellID string
			if len(args) > 1 {
				id, err := resolveCell(s, args[0], args[1])
				if err != nil {
					return err
				}
				cellID = id
			}

			cell, err := s.RunCell(ctx, args[0], cellID)
			if err != nil && cell.ID == "" {
				return err
			}
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					runUlog.Warn("Execution timed out").
						Field("cell", cell.ID).
						Pretty(fmt.Sprintf("Cell %s timed out", cell.ID)).
						PrettyOnly().
						Emit()
				} else {
					runUlog.Warn("Execution interrupted").
						Err(err).
						Field("cell", cell.ID).
						Pretty(fmt.Sprintf("Cell %s interrupted: %v", cell.ID, err)).
						PrettyOnly().
						Emit()
				}
			}

			if cell.Output != "" {
				runUlog.Info("Cell output").
					Field("cell", cell.ID).
					Pretty(cell.Output).
					PrettyOnly().
					Emit()
			}
			if cell.Error != "" {
				runUlog.Error("Cell failed").
					Field("cell", cell.ID).
					Field("error", cell.Error).
					Pretty("Error: " + cell.Error).
					PrettyOnly().
					Emit()
				return fmt.Errorf("cell %s failed", cell.ID)
			}
			if cell.Output == "" {
				runUlog.Success("Cell ran").
					Field("cell", cell.ID).
					Pretty(fmt.Sprintf("Cell %s ran with no output", cell.ID)).
					PrettyOnly().
					Emit()
			}
			return nil
		},
	}
	cmd.SilenceUsage = true

	return cmd
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-cellbook/internal/logging"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
	"github.com/mattsolo1/grove-cellbook/pkg/whiteboard"
)

var whiteboardUlog = logging.NewUnifiedLogger("grove-cellbook.cmd.whiteboard")

func NewWhiteboardCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "whiteboard",
		Aliases: []string{"wb"},
		Short:   "Draw on and export whiteboard cells",
	}
	cmd.AddCommand(newWhiteboardApplyCmd(svc), newWhiteboardExportCmd(svc))
	return cmd
}

func newWhiteboardApplyCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <notebook> <cell> <script.yaml>",
		Short: "Replay a drawing script on a whiteboard cell",
		Long: `Replay a drawing script on a whiteboard cell. A script is a YAML list of
steps; each step may change the tool, color or size and then import an image,
clear, draw a stroke, undo or redo.

Example script:
  - tool: rectangle
    color: "#FF0000"
    size: 4
    stroke: [[10, 10], [120, 80]]
  - tool: pen
    stroke: [[0, 0], [40, 20], [80, 0]]
  - undo: true
  - import: sketch.png`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			cellID, err := resolveCell(s, args[0], args[1])
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[2])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			script, err := whiteboard.ParseScript(data)
			if err != nil {
				return err
			}

			b, err := s.ApplyWhiteboardScript(args[0], cellID, script, filepath.Dir(args[2]))
			if err != nil {
				return err
			}

			size := b.Canvas().Bounds().Size()
			whiteboardUlog.Success("Whiteboard updated").
				Field("cell", cellID).
				Field("steps", len(script)).
				Field("history", b.History().Len()).
				Pretty(fmt.Sprintf("Applied %d steps to %s (%dx%d)", len(script), cellID, size.X, size.Y)).
				PrettyOnly().
				Emit()
			return nil
		},
	}
}

func newWhiteboardExportCmd(svc **service.Service) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <notebook> <cell>",
		Short: "Save a whiteboard cell as PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			cellID, err := resolveCell(s, args[0], args[1])
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("whiteboard-%s.png", cellID)
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := s.ExportWhiteboard(file, args[0], cellID); err != nil {
				file.Close()
				os.Remove(output)
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			whiteboardUlog.Success("Whiteboard exported").
				Field("cell", cellID).
				Field("path", output).
				Pretty(fmt.Sprintf("Saved %s", output)).
				PrettyOnly().
				Emit()
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default whiteboard-<cell>.png)")

	return cmd
}

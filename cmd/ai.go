package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-cellbook/internal/logging"
	"github.com/mattsolo1/grove-cellbook/pkg/assistant"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
)

var aiUlog = logging.NewUnifiedLogger("grove-cellbook.cmd.ai")

func NewAICmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Ask the assistant about code or text",
		Long: `Ask the assistant to explain or optimize code, enhance markdown, or generate
code from a prompt. Input comes from the arguments, a cell, or stdin.

Examples:
  cellbook ai explain --cell notebook1/cell2
  cellbook ai enhance --cell notebook1/1
  cellbook ai generate "a function that sorts users by age"
  cat main.js | cellbook ai optimize`,
	}

	for _, action := range assistant.Actions {
		cmd.AddCommand(newAIActionCmd(svc, action))
	}
	return cmd
}

func newAIActionCmd(svc **service.Service, action assistant.Action) *cobra.Command {
	var cellRef string

	cmd := &cobra.Command{
		Use:   string(action) + " [text]",
		Short: aiShort[action],
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			ctx := cmd.Context()

			var (
				out string
				err error
			)
			switch {
			case cellRef != "":
				nbID, ref, ok := strings.Cut(cellRef, "/")
				if !ok {
					return fmt.Errorf("--cell wants <notebook>/<cell>, got %q", cellRef)
				}
				cellID, rerr := resolveCell(s, nbID, ref)
				if rerr != nil {
					return rerr
				}
				out, err = s.AssistCell(ctx, action, nbID, cellID)
			case len(args) > 0:
				out, err = s.Assist(ctx, action, strings.Join(args, " "))
			default:
				data, rerr := io.ReadAll(os.Stdin)
				if rerr != nil {
					return fmt.Errorf("read stdin: %w", rerr)
				}
				out, err = s.Assist(ctx, action, string(data))
			}
			if err != nil {
				return err
			}

			aiUlog.Info("Assistant response").
				Field("action", action).
				Field("length", len(out)).
				Pretty(out).
				PrettyOnly().
				Emit()
			return nil
		},
	}

	cmd.Flags().StringVar(&cellRef, "cell", "", "Use a cell's content, as <notebook>/<cell>")

	return cmd
}

var aiShort = map[assistant.Action]string{
	assistant.ActionExplain:  "Explain what code does",
	assistant.ActionOptimize: "Suggest an optimized version of code",
	assistant.ActionEnhance:  "Improve markdown text",
	assistant.ActionGenerate: "Generate code from a prompt",
}

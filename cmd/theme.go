package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-cellbook/internal/logging"
	"github.com/mattsolo1/grove-cellbook/pkg/keymap"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
)

var themeUlog = logging.NewUnifiedLogger("grove-cellbook.cmd.theme")

func NewThemeCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [toggle]",
		Short:     "Show or toggle dark mode",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			dark := s.DarkMode()
			msg := "Theme"
			if len(args) > 0 {
				if args[0] != "toggle" {
					return cmd.Usage()
				}
				dark = s.ToggleDarkMode()
				msg = "Theme changed"
			}

			name := "light"
			if dark {
				name = "dark"
			}
			themeUlog.Info(msg).
				Field("dark_mode", dark).
				Pretty("Theme: " + name).
				PrettyOnly().
				Emit()
			return nil
		},
	}
}

func NewKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List keyboard shortcuts",
		RunE: func(cmd *cobra.Command, args []string) error {
			themeUlog.Info("Keyboard shortcuts").
				Field("count", len(keymap.Shortcuts)).
				Pretty(keymap.HelpText()).
				PrettyOnly().
				Emit()
			return nil
		},
	}
}

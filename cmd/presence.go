package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-cellbook/internal/logging"
	"github.com/mattsolo1/grove-cellbook/pkg/presence"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
)

var presenceUlog = logging.NewUnifiedLogger("grove-cellbook.cmd.presence")

func NewPresenceCmd(svc **service.Service) *cobra.Command {
	var (
		ticks  int
		invite string
	)

	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Watch simulated collaborator presence",
		Long: `Watch simulated collaborator presence. Every interval each collaborator
comes online or goes offline at random.

Examples:
  cellbook presence              # Current snapshot
  cellbook presence --ticks 3    # Watch three updates
  cellbook presence --invite dana@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			src := s.Presence()

			if invite != "" {
				if err := src.Invite(invite); err != nil {
					return err
				}
				presenceUlog.Success("Invitation sent").
					Field("email", invite).
					Pretty(fmt.Sprintf("Invited %s", strings.TrimSpace(invite))).
					PrettyOnly().
					Emit()
				return nil
			}

			printPresence(src.Snapshot())
			if ticks <= 0 {
				return nil
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			seen := 0
			for snapshot := range src.Subscribe(ctx) {
				printPresence(snapshot)
				seen++
				if seen >= ticks {
					cancel()
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "n", 0, "Number of updates to watch")
	cmd.Flags().StringVar(&invite, "invite", "", "Invite a collaborator by email")

	return cmd
}

func printPresence(collaborators []presence.Collaborator) {
	var b strings.Builder
	online := presence.Online(collaborators)
	fmt.Fprintf(&b, "%d of %d online\n", len(online), len(collaborators))
	for _, c := range collaborators {
		status := "offline, last seen " + c.LastSeen
		if c.Online {
			status = "online"
			if c.Cursor != nil {
				status += fmt.Sprintf(" at (%.0f, %.0f)", c.Cursor.X, c.Cursor.Y)
			}
		}
		fmt.Fprintf(&b, "  [%s] %-14s %s\n", c.Initials(), c.Name, status)
	}

	presenceUlog.Info("Presence").
		Field("online", len(online)).
		Pretty(strings.TrimRight(b.String(), "\n")).
		PrettyOnly().
		Emit()
}

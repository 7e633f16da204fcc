package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-cellbook/cmd"
	"github.com/mattsolo1/grove-cellbook/cmd/config"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
)

var svc *service.Service

// skipService lists the commands that run without opening the data store
var skipService = map[string]bool{
	"version":    true,
	"keys":       true,
	"help":       true,
	"completion": true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if svc != nil {
			svc.Close()
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "cellbook",
		Short:        "Notebooks of markdown, code and whiteboard cells",
		SilenceUsage: true,
	}
	config.AddGlobalFlags(rootCmd)
	cobra.OnInitialize(config.InitConfig)

	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		// This runs once before any subcommand
		config.InitLogging()
		if skipService[c.Name()] || (c.Parent() != nil && skipService[c.Parent().Name()]) {
			return nil
		}

		var err error
		svc, err = config.InitService()
		if err != nil {
			return fmt.Errorf("failed to initialize service: %w", err)
		}
		return nil
	}
	rootCmd.PersistentPostRunE = func(c *cobra.Command, args []string) error {
		if svc == nil {
			return nil
		}
		err := svc.Close()
		svc = nil
		return err
	}

	// Add subcommands
	rootCmd.AddCommand(cmd.NewTreeCmd(&svc))
	rootCmd.AddCommand(cmd.NewNotebookCmd(&svc))
	rootCmd.AddCommand(cmd.NewFolderCmd(&svc))
	rootCmd.AddCommand(cmd.NewRenameCmd(&svc))
	rootCmd.AddCommand(cmd.NewDeleteCmd(&svc))
	rootCmd.AddCommand(cmd.NewOpenCmd(&svc))
	rootCmd.AddCommand(cmd.NewSaveCmd(&svc))
	rootCmd.AddCommand(cmd.NewCellCmd(&svc))
	rootCmd.AddCommand(cmd.NewRunCmd(&svc))
	rootCmd.AddCommand(cmd.NewExportCmd(&svc))
	rootCmd.AddCommand(cmd.NewImportCmd(&svc))
	rootCmd.AddCommand(cmd.NewWhiteboardCmd(&svc))
	rootCmd.AddCommand(cmd.NewAICmd(&svc))
	rootCmd.AddCommand(cmd.NewPresenceCmd(&svc))
	rootCmd.AddCommand(cmd.NewSearchCmd(&svc))
	rootCmd.AddCommand(cmd.NewThemeCmd(&svc))
	rootCmd.AddCommand(cmd.NewKeysCmd())
	rootCmd.AddCommand(cmd.NewTuiCmd(&svc))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	return rootCmd
}

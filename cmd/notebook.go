package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-cellbook/internal/logging"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
	"github.com/mattsolo1/grove-cellbook/pkg/tree"
)

var notebookUlog = logging.NewUnifiedLogger("grove-cellbook.cmd.notebook")

func NewNotebookCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notebook",
		Aliases: []string{"nb"},
		Short:   "Manage notebooks",
	}
	cmd.AddCommand(newNotebookNewCmd(svc))
	return cmd
}

func newNotebookNewCmd(svc **service.Service) *cobra.Command {
	var (
		parentID string
		openIt   bool
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a notebook",
		Long: `Create an empty notebook. Without a name it gets a timestamped one.

Examples:
  cellbook notebook new "Reading list"
  cellbook notebook new "Sorting" --parent folder2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			name := strings.Join(args, " ")

			nb, err := s.CreateNotebook(name, parentID)
			if err != nil {
				return err
			}
			if openIt {
				if _, err := s.Open(nb.ID); err != nil {
					return err
				}
			}

			notebookUlog.Success("Notebook created").
				Field("id", nb.ID).
				Field("name", nb.Name).
				Field("parent", nb.ParentID).
				Pretty(fmt.Sprintf("Created notebook: %s (%s)", nb.Name, nb.ID)).
				PrettyOnly().
				Emit()
			return nil
		},
	}

	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "Folder to create the notebook in")
	cmd.Flags().BoolVar(&openIt, "open", false, "Open the notebook after creating it")

	return cmd
}

func NewFolderCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage folders",
	}

	var parentID string
	newCmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			folder, err := s.CreateFolder(strings.Join(args, " "), parentID)
			if err != nil {
				return err
			}

			notebookUlog.Success("Folder created").
				Field("id", folder.ID).
				Field("name", folder.Name).
				Pretty(fmt.Sprintf("Created folder: %s (%s)", folder.Name, folder.ID)).
				PrettyOnly().
				Emit()
			return nil
		},
	}
	newCmd.Flags().StringVarP(&parentID, "parent", "p", "", "Folder to create the folder in")
	cmd.AddCommand(newCmd)

	return cmd
}

func NewRenameCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a notebook or folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			name := strings.Join(args[1:], " ")
			if err := s.Rename(args[0], name); err != nil {
				return err
			}

			notebookUlog.Success("Renamed").
				Field("id", args[0]).
				Field("name", name).
				Pretty(fmt.Sprintf("Renamed %s to %q", args[0], name)).
				PrettyOnly().
				Emit()
			return nil
		},
	}
}

func NewDeleteCmd(svc **service.Service) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a notebook or folder",
		Long: `Delete a notebook or folder. Deleting a folder deletes every notebook
inside it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			id := args[0]

			entry, ok := tree.Find(s.State().Files, id)
			if !ok {
				return fmt.Errorf("entry %q: %w", id, service.ErrNotFound)
			}

			// Confirm unless --force is used
			if entry.IsFolder() && !force {
				count := len(tree.FileIDs([]tree.Entry{entry}))
				fmt.Printf("Delete folder %q and %d notebooks? [y/N] ", entry.Name, count)
				var response string
				_, _ = fmt.Scanln(&response)

				if strings.ToLower(response) != "y" {
					fmt.Println("Cancelled")
					return nil
				}
			}

			removed, err := s.Delete(id)
			if err != nil {
				return err
			}

			notebookUlog.Success("Deleted").
				Field("id", id).
				Field("notebooks_removed", len(removed)).
				Pretty(fmt.Sprintf("Deleted %s (%d notebooks)", entry.Name, len(removed))).
				PrettyOnly().
				Emit()
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}

func NewOpenCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Open a notebook in the editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			nb, err := s.Open(args[0])
			if err != nil {
				return err
			}

			notebookUlog.Info("Notebook opened").
				Field("id", nb.ID).
				Pretty(fmt.Sprintf("Opened %s (%d cells)", nb.Name, len(nb.Cells))).
				PrettyOnly().
				Emit()
			return nil
		},
	}
}

func NewSaveCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "save [id]",
		Short: "Save a notebook, the open one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			var id string
			if len(args) > 0 {
				id = args[0]
			}
			if id == "" && s.State().OpenNotebookID == "" {
				return fmt.Errorf("no notebook is open; pass an id")
			}

			nb, err := s.Save(id)
			if err != nil {
				return err
			}

			notebookUlog.Success("Notebook saved").
				Field("id", nb.ID).
				Field("modified", nb.LastModified).
				Pretty(fmt.Sprintf("Saved %s", nb.Name)).
				PrettyOnly().
				Emit()
			return nil
		},
	}
}

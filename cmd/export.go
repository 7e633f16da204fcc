package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-cellbook/internal/logging"
	"github.com/mattsolo1/grove-cellbook/pkg/export"
	"github.com/mattsolo1/grove-cellbook/pkg/migration"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
)

var exportUlog = logging.NewUnifiedLogger("grove-cellbook.cmd.export")

func NewExportCmd(svc **service.Service) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <notebook>",
		Short: "Export a notebook",
		Long: `Export a notebook as JSON, a markdown transcript or HTML.

Examples:
  cellbook export notebook1 --format markdown
  cellbook export notebook1 -f json -o research.json
  cellbook export notebook1 -o research.html   # Format from the extension`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			if !cmd.Flags().Changed("format") && output != "" {
				if f, err := export.ParseFormat(filepath.Ext(output)); err == nil {
					format = string(f)
				}
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			if output == "" {
				w := bufio.NewWriter(os.Stdout)
				if err := exportErr(s.Export(w, args[0], f), f); err != nil {
					return err
				}
				return w.Flush()
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			w := bufio.NewWriter(file)
			if err := exportErr(s.Export(w, args[0], f), f); err != nil {
				file.Close()
				os.Remove(output)
				return err
			}
			if err := w.Flush(); err != nil {
				file.Close()
				return fmt.Errorf("write %s: %w", output, err)
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			exportUlog.Success("Notebook exported").
				Field("notebook", args[0]).
				Field("format", f).
				Field("path", output).
				Pretty(fmt.Sprintf("Exported %s as %s to %s", args[0], f, output)).
				PrettyOnly().
				Emit()
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatMarkdown), "Export format: json, markdown, html or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

// exportErr turns the unsupported PDF export into an acknowledgement
func exportErr(err error, f export.Format) error {
	if errors.Is(err, export.ErrUnsupportedFormat) {
		exportUlog.Warn("Export format not available").
			Field("format", f).
			Pretty(fmt.Sprintf("Export to %s is not available yet. Try markdown or html instead.", f)).
			PrettyOnly().
			Emit()
	}
	return err
}

func NewImportCmd(svc **service.Service) *cobra.Command {
	var (
		parentID string
		openIt   bool
		dryRun   bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "import <file|dir>",
		Short: "Import notebooks from JSON or markdown transcripts",
		Long: `Import a notebook from a JSON file or a markdown transcript.

When given a directory, every .md, .markdown and .json file beneath it is
imported and its subdirectories become folders.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if info.IsDir() {
				return importDirectory(cmd.OutOrStdout(), s, args[0], parentID, migration.Options{DryRun: dryRun, Verbose: verbose})
			}

			nb, err := s.Import(args[0], parentID)
			if err != nil {
				return err
			}
			if openIt {
				if _, err := s.Open(nb.ID); err != nil {
					return err
				}
			}

			exportUlog.Success("Notebook imported").
				Field("id", nb.ID).
				Field("name", nb.Name).
				Field("cells", len(nb.Cells)).
				Pretty(fmt.Sprintf("Imported %s (%s) with %d cells", nb.Name, nb.ID, len(nb.Cells))).
				PrettyOnly().
				Emit()
			return nil
		},
	}

	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "Folder to import into")
	cmd.Flags().BoolVar(&openIt, "open", false, "Open the notebook after importing")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List what a directory import would create")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print each imported file")

	return cmd
}

func importDirectory(out io.Writer, s *service.Service, root, parentID string, opts migration.Options) error {
	report, err := s.ImportDirectory(root, parentID, opts, out)
	if err != nil {
		return err
	}

	if opts.DryRun {
		exportUlog.Info("Directory import planned").
			Field("root", root).
			Field("files", report.TotalFiles).
			Pretty(fmt.Sprintf("\n%d files would be imported", report.TotalFiles)).
			PrettyOnly().
			Emit()
		return nil
	}

	for path, fileErr := range report.Errors {
		exportUlog.Warn("Import failed").
			Field("path", path).
			Err(fileErr).
			Pretty(fmt.Sprintf("✗ %s: %v", path, fileErr)).
			Emit()
	}

	exportUlog.Success("Directory imported").
		Field("root", root).
		Field("imported", report.ImportedFiles).
		Field("failed", report.FailedFiles).
		Field("folders", report.CreatedFolders).
		Field("duration", report.Duration()).
		Pretty(fmt.Sprintf("Imported %d of %d files into %d new folders (%s)",
			report.ImportedFiles, report.TotalFiles, report.CreatedFolders, report.Duration().Round(time.Millisecond))).
		PrettyOnly().
		Emit()

	if report.FailedFiles > 0 {
		return fmt.Errorf("%d files failed to import", report.FailedFiles)
	}
	return nil
}

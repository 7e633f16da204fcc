package migration

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Target receives the folders and notebooks of a directory import
type Target interface {
	CreateFolder(name, parentID string) (string, error)
	ImportFile(path, parentID, title string) error
}

type Migrator struct {
	options Options
	target  Target
	rootID  string
	report  *Report
	output  io.Writer
	logger  *logrus.Entry
	folders map[string]string // Relative directory to folder id
}

// NewMigrator imports into target beneath the folder rootID ("" for the tree root)
func NewMigrator(options Options, target Target, rootID string, output io.Writer, logger *logrus.Entry) *Migrator {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	if output == nil {
		output = io.Discard
	}
	return &Migrator{
		options: options,
		target:  target,
		rootID:  rootID,
		report:  NewReport(),
		output:  output,
		logger:  logger.WithField("sub-component", "migrator"),
		folders: map[string]string{"": rootID},
	}
}

// MigrateNote mirrors the note's directory as folders and imports the file
func (m *Migrator) MigrateNote(note Note) error {
	m.report.TotalFiles++

	if m.options.DryRun {
		m.report.SkippedFiles++
		fmt.Fprintf(m.output, "Would import %s as %q into /%s\n", note.Path, note.Title, note.Dir)
		return nil
	}

	parentID, err := m.ensureFolder(note.Dir)
	if err != nil {
		m.report.AddError(note.Path, err)
		return err
	}

	if err := m.target.ImportFile(note.Path, parentID, note.Title); err != nil {
		m.report.AddError(note.Path, err)
		m.logger.WithError(err).WithField("path", note.Path).Warn("Failed to import note")
		return fmt.Errorf("failed to import %s: %w", note.Path, err)
	}

	m.report.ImportedFiles++
	if m.options.Verbose {
		fmt.Fprintf(m.output, "✓ %s → %s\n", note.Path, note.Title)
	}
	return nil
}

func (m *Migrator) ensureFolder(dir string) (string, error) {
	if id, ok := m.folders[dir]; ok {
		return id, nil
	}

	parent, name := "", dir
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		parent, name = dir[:i], dir[i+1:]
	}
	parentID, err := m.ensureFolder(parent)
	if err != nil {
		return "", err
	}

	id, err := m.target.CreateFolder(name, parentID)
	if err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", dir, err)
	}
	m.report.CreatedFolders++
	m.folders[dir] = id
	m.logger.WithField("folder", dir).Debug("Created folder")
	return id, nil
}

func (m *Migrator) Complete() {
	m.report.Complete()
}

func (m *Migrator) GetReport() *Report {
	return m.report
}

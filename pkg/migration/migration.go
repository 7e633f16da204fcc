package migration

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Migrate imports every note under basePath into target. A file that fails
// is recorded in the report and the walk continues.
func Migrate(basePath string, target Target, rootID string, options Options, output io.Writer, logger *logrus.Entry) (*Report, error) {
	migrator := NewMigrator(options, target, rootID, output, logger)

	notes, err := NewAnalyzer(basePath).Scan()
	if err != nil {
		migrator.Complete()
		return migrator.GetReport(), err
	}

	for _, note := range notes {
		if err := migrator.MigrateNote(note); err != nil && options.Verbose {
			fmt.Fprintf(migrator.output, "✗ Error processing %s: %v\n", note.Path, err)
		}
	}

	migrator.Complete()
	return migrator.GetReport(), nil
}

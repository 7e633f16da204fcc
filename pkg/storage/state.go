package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattsolo1/grove-cellbook/pkg/app"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/tree"
	"github.com/sirupsen/logrus"
)

// Load reads the persisted state. Each blob is read on its own: a missing or
// malformed blob leaves that part of the default state in place and a
// malformed one is logged. The open notebook is never persisted.
func Load(ctx context.Context, s Store, log logrus.FieldLogger, now time.Time) app.State {
	st := app.Default(now)

	var files []tree.Entry
	if readBlob(ctx, s, log, KeyFiles, &files) {
		st.Files = files
	}
	var notebooks []models.Notebook
	if readBlob(ctx, s, log, KeyNotebooks, &notebooks) {
		st.Notebooks = clearExecuting(notebooks)
	}
	var dark bool
	if readBlob(ctx, s, log, KeyDarkMode, &dark) {
		st.DarkMode = dark
	}
	return st
}

// clearExecuting resets cells left executing by a process that stopped
// before the run finished.
func clearExecuting(notebooks []models.Notebook) []models.Notebook {
	for i := range notebooks {
		for j := range notebooks[i].Cells {
			notebooks[i].Cells[j].IsExecuting = false
		}
	}
	return notebooks
}

func readBlob(ctx context.Context, s Store, log logrus.FieldLogger, key string, v any) bool {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("Failed to read persisted state")
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.WithError(err).WithField("key", key).Error("Failed to parse persisted state, using defaults")
		return false
	}
	return true
}

// Save writes all three blobs. Ephemeral cell state is persisted as is;
// Load clears the executing flag.
func Save(ctx context.Context, s Store, st app.State) error {
	blobs := []struct {
		key   string
		value any
	}{
		{KeyFiles, st.Files},
		{KeyNotebooks, st.Notebooks},
		{KeyDarkMode, st.DarkMode},
	}

	var errs []error
	for _, b := range blobs {
		data, err := json.Marshal(b.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal %s: %w", b.key, err))
			continue
		}
		if err := s.Put(ctx, b.key, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

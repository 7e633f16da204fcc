package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/mattsolo1/grove-cellbook/pkg/models"
)

// TypeNotebook marks the row that indexes a notebook's name
const TypeNotebook = "notebook"

// Hit is one search result. CellID is empty when the notebook name matched.
// Each notebook is indexed as one row for its name plus one row per cell.
type Hit struct {
	NotebookID   string
	NotebookName string
	CellID       string
	Type         string
	Snippet      string
}

// Index manages the search index
type Index struct {
	db     *sql.DB
	useFTS bool
}

// NewIndex creates the index tables in db
func NewIndex(db *sql.DB) (*Index, error) {
	idx := &Index{db: db}
	if err := idx.init(); err != nil {
		return nil, err
	}
	return idx, nil
}

// UsesFTS reports whether the sqlite build provides FTS5
func (idx *Index) UsesFTS() bool {
	return idx.useFTS
}

// init creates the database schema
func (idx *Index) init() error {
	// First, check if FTS5 is available
	idx.useFTS = idx.checkFTS5Support()

	// Metadata table is always needed; it also serves LIKE searches
	metaSchema := `
	CREATE TABLE IF NOT EXISTS cells_meta (
		notebook_id TEXT NOT NULL,
		cell_id TEXT NOT NULL,
		type TEXT,
		name TEXT,
		content TEXT,
		position INTEGER,
		modified_at TIMESTAMP,
		PRIMARY KEY (notebook_id, cell_id)
	);

	CREATE INDEX IF NOT EXISTS idx_cells_meta_type ON cells_meta(type);
	`

	if _, err := idx.db.Exec(metaSchema); err != nil {
		return fmt.Errorf("create cells_meta: %w", err)
	}

	if idx.useFTS {
		ftsSchema := `
		CREATE VIRTUAL TABLE IF NOT EXISTS cells_fts USING fts5(
			notebook_id UNINDEXED,
			cell_id UNINDEXED,
			type UNINDEXED,
			content,
			tokenize = 'porter unicode61'
		);
		`

		if _, err := idx.db.Exec(ftsSchema); err != nil {
			// If FTS creation fails, disable FTS and continue
			idx.useFTS = false
		}
	}

	return nil
}

// checkFTS5Support checks if FTS5 module is available
func (idx *Index) checkFTS5Support() bool {
	_, err := idx.db.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS fts5_test USING fts5(content)")
	if err != nil {
		return false
	}

	_, _ = idx.db.Exec("DROP TABLE IF EXISTS fts5_test")
	return true
}

// IndexNotebook replaces every indexed row of the notebook. Whiteboard
// cells are indexed by type only; their image data is not searchable.
func (idx *Index) IndexNotebook(ctx context.Context, nb models.Notebook) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := deleteNotebook(ctx, tx, nb.ID, idx.useFTS); err != nil {
		return err
	}

	type row struct {
		cellID, typ, content string
	}
	rows := []row{{"", TypeNotebook, nb.Name}}
	for _, c := range nb.Cells {
		content := c.Content
		if c.Type == models.CellTypeWhiteboard {
			content = ""
		}
		rows = append(rows, row{c.ID, string(c.Type), content})
	}

	for pos, r := range rows {
		if idx.useFTS {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO cells_fts (notebook_id, cell_id, type, content)
				VALUES (?, ?, ?, ?)
			`, nb.ID, r.cellID, r.typ, r.content)
			if err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO cells_meta (notebook_id, cell_id, type, name, content, position, modified_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, nb.ID, r.cellID, r.typ, nb.Name, r.content, pos, nb.LastModified.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RemoveNotebook removes a notebook from the index
func (idx *Index) RemoveNotebook(ctx context.Context, id string) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := deleteNotebook(ctx, tx, id, idx.useFTS); err != nil {
		return err
	}
	return tx.Commit()
}

// Reindex drops everything and indexes the given notebooks
func (idx *Index) Reindex(ctx context.Context, notebooks []models.Notebook) error {
	if idx.useFTS {
		if _, err := idx.db.ExecContext(ctx, "DELETE FROM cells_fts"); err != nil {
			return err
		}
	}
	if _, err := idx.db.ExecContext(ctx, "DELETE FROM cells_meta"); err != nil {
		return err
	}
	for _, nb := range notebooks {
		if err := idx.IndexNotebook(ctx, nb); err != nil {
			return fmt.Errorf("index %s: %w", nb.ID, err)
		}
	}
	return nil
}

func deleteNotebook(ctx context.Context, tx *sql.Tx, id string, useFTS bool) error {
	if useFTS {
		if _, err := tx.ExecContext(ctx, "DELETE FROM cells_fts WHERE notebook_id = ?", id); err != nil {
			return err
		}
	}
	_, err := tx.ExecContext(ctx, "DELETE FROM cells_meta WHERE notebook_id = ?", id)
	return err
}

// Options for searching
type Options struct {
	NotebookID string
	Type       string
	Limit      int
}

// Search performs a full-text search
func (idx *Index) Search(ctx context.Context, query string, opts *Options) ([]Hit, error) {
	if opts == nil {
		opts = &Options{Limit: 50}
	}
	if opts.Limit == 0 {
		opts.Limit = 50
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	if idx.useFTS {
		return idx.searchWithFTS(ctx, query, opts)
	}
	return idx.searchWithoutFTS(ctx, query, opts)
}

func filters(prefix string, opts *Options) ([]string, []any) {
	var conditions []string
	var args []any
	if opts.NotebookID != "" {
		conditions = append(conditions, prefix+"notebook_id = ?")
		args = append(args, opts.NotebookID)
	}
	if opts.Type != "" {
		conditions = append(conditions, prefix+"type = ?")
		args = append(args, opts.Type)
	}
	return conditions, args
}

// ftsQuery quotes every term so user input cannot use FTS5 query syntax.
// Terms without a letter or digit produce no tokens and are dropped.
func ftsQuery(query string) string {
	var terms []string
	for _, t := range strings.Fields(query) {
		if strings.IndexFunc(t, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
			continue
		}
		terms = append(terms, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	return strings.Join(terms, " ")
}

// searchWithFTS performs search using FTS5
func (idx *Index) searchWithFTS(ctx context.Context, query string, opts *Options) ([]Hit, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	conditions, args := filters("f.", opts)
	conditions = append(conditions, "cells_fts MATCH ?")
	args = append(args, match, opts.Limit)

	searchQuery := fmt.Sprintf(`
		SELECT
			f.notebook_id, m.name, f.cell_id, f.type,
			snippet(cells_fts, 3, '<match>', '</match>', '...', 32) as snippet
		FROM cells_fts f
		JOIN cells_meta m ON f.notebook_id = m.notebook_id AND f.cell_id = m.cell_id
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	rows, err := idx.db.QueryContext(ctx, searchQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.NotebookID, &h.NotebookName, &h.CellID, &h.Type, &h.Snippet); err != nil {
			return nil, err
		}
		results = append(results, h)
	}
	return results, rows.Err()
}

// searchWithoutFTS performs search using LIKE queries on metadata table
func (idx *Index) searchWithoutFTS(ctx context.Context, query string, opts *Options) ([]Hit, error) {
	conditions, args := filters("", opts)

	searchPattern := "%" + strings.Join(strings.Fields(query), "%") + "%"
	conditions = append(conditions, "content LIKE ?")
	args = append(args, searchPattern, opts.Limit)

	searchQuery := fmt.Sprintf(`
		SELECT notebook_id, name, cell_id, type, content
		FROM cells_meta
		WHERE %s
		ORDER BY modified_at DESC, notebook_id, position
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	rows, err := idx.db.QueryContext(ctx, searchQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Hit
	for rows.Next() {
		var h Hit
		var content string
		if err := rows.Scan(&h.NotebookID, &h.NotebookName, &h.CellID, &h.Type, &content); err != nil {
			return nil, err
		}
		h.Snippet = snippet(content, strings.Fields(query)[0], 32)
		results = append(results, h)
	}
	return results, rows.Err()
}

// snippet cuts about width runes of context around the first match of term
func snippet(content, term string, width int) string {
	lower, lowerTerm := strings.ToLower(content), strings.ToLower(term)
	if len(lower) != len(content) || len(lowerTerm) != len(term) {
		lower, lowerTerm = content, term
	}
	at := strings.Index(lower, lowerTerm)
	if at < 0 {
		return ""
	}
	start := at - width
	prefix := "..."
	if start <= 0 {
		start, prefix = 0, ""
	}
	end := at + len(term) + width
	suffix := "..."
	if end >= len(content) {
		end, suffix = len(content), ""
	}
	for start > 0 && !isRuneStart(content[start]) {
		start--
	}
	for end < len(content) && !isRuneStart(content[end]) {
		end++
	}
	return prefix + content[start:at] + "<match>" + content[at:at+len(term)] + "</match>" + content[at+len(term):end] + suffix
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// Close is a no-op; the database belongs to the caller
func (idx *Index) Close() error {
	return nil
}

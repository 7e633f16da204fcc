package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mattsolo1/grove-cellbook/pkg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	datePattern     = regexp.MustCompile(`^\d{8}[-_]`)
	markdownHeading = regexp.MustCompile(`^#\s+(.+)`)
)

// Extensions lists the file types an import root is scanned for
var Extensions = []string{".md", ".markdown", ".json"}

// Analyzer scans a directory of notes
type Analyzer struct {
	basePath string
}

func NewAnalyzer(basePath string) *Analyzer {
	return &Analyzer{basePath: basePath}
}

// Scan walks the root and returns every importable file, sorted by path.
// Hidden files and directories are skipped.
func (a *Analyzer) Scan() ([]Note, error) {
	info, err := os.Stat(a.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", a.basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", a.basePath)
	}

	var notes []Note
	err = filepath.WalkDir(a.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != a.basePath && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !importable(path) {
			return nil
		}

		note, err := a.AnalyzeNote(path)
		if err != nil {
			return err
		}
		notes = append(notes, note)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", a.basePath, err)
	}

	sort.Slice(notes, func(i, j int) bool { return notes[i].Path < notes[j].Path })
	return notes, nil
}

// AnalyzeNote resolves where a file lands in the tree and what it is called
func (a *Analyzer) AnalyzeNote(filePath string) (Note, error) {
	rel, err := filepath.Rel(a.basePath, filePath)
	if err != nil {
		return Note{}, fmt.Errorf("failed to resolve %s: %w", filePath, err)
	}
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." {
		dir = ""
	}

	stem := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	note := Note{Path: filePath, Dir: dir, Title: TitleFromFilename(stem)}

	if strings.EqualFold(filepath.Ext(filePath), ".json") {
		return note, nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return Note{}, fmt.Errorf("failed to read file: %w", err)
	}
	fm, body, err := frontmatter.Parse(string(content))
	if err != nil {
		return Note{}, fmt.Errorf("failed to parse frontmatter in %s: %w", filePath, err)
	}
	if title := extractTitle(fm, body); title != "" {
		note.Title = title
	}
	return note, nil
}

func extractTitle(fm *frontmatter.Frontmatter, body string) string {
	if fm != nil && fm.Title != "" {
		return fm.Title
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if match := markdownHeading.FindStringSubmatch(line); match != nil {
			return strings.TrimSpace(match[1])
		}
		break
	}
	return ""
}

// TitleFromFilename turns a file stem like "20240301-weekly_sync-of-team"
// into "Weekly Sync of Team". Short words after the first stay lower case.
func TitleFromFilename(stem string) string {
	title := datePattern.ReplaceAllString(stem, "")
	title = strings.ReplaceAll(title, "-", " ")
	title = strings.ReplaceAll(title, "_", " ")

	caser := cases.Title(language.English)
	words := strings.Fields(title)
	for i, word := range words {
		if i == 0 || len(word) > 2 {
			words[i] = caser.String(strings.ToLower(word))
		} else {
			words[i] = strings.ToLower(word)
		}
	}
	if len(words) == 0 {
		return stem
	}
	return strings.Join(words, " ")
}

func importable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

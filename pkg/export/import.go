package export

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattsolo1/grove-cellbook/pkg/frontmatter"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/whiteboard"
)

// DefaultImportName names notebooks whose source carries no title
const DefaultImportName = "Imported Notebook"

var whiteboardImage = regexp.MustCompile(`^!\[whiteboard\]\((data:image/[^)]+)\)$`)

// Importer turns exported documents back into notebooks
type Importer struct {
	NewID    func() string
	Now      func() time.Time
	Language string
}

// NewImporter creates an Importer with random ids and the wall clock
func NewImporter() *Importer {
	return &Importer{
		NewID:    uuid.NewString,
		Now:      time.Now,
		Language: models.DefaultLanguage,
	}
}

// JSON decodes a notebook produced by the JSON export. Missing or duplicate
// ids are replaced, and transient editing state is dropped.
func (im *Importer) JSON(data []byte) (models.Notebook, error) {
	var nb models.Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return models.Notebook{}, fmt.Errorf("failed to parse notebook json: %w", err)
	}
	if nb.ID == "" {
		nb.ID = im.NewID()
	}
	if strings.TrimSpace(nb.Name) == "" {
		nb.Name = DefaultImportName
	}
	if nb.LastModified.IsZero() {
		nb.LastModified = im.Now()
	}

	seen := make(map[string]bool)
	for i := range nb.Cells {
		c := &nb.Cells[i]
		if !c.Type.Valid() {
			return models.Notebook{}, fmt.Errorf("cell %d: unknown cell type %q", i, c.Type)
		}
		if c.ID == "" || seen[c.ID] {
			c.ID = im.NewID()
		}
		seen[c.ID] = true
		c.IsEditing = false
		c.IsExecuting = false
		if c.Type == models.CellTypeCode && c.Language == "" {
			c.Language = im.Language
		}
	}
	if nb.Cells == nil {
		nb.Cells = []models.Cell{}
	}
	return nb, nil
}

// Markdown parses a transcript produced by the markdown export. The first
// level-one heading is the notebook name. Fenced blocks become code cells, a
// fence preceded by "**Output:**" is the output of the code cell before it,
// whiteboard images become whiteboard cells, and runs of other text become
// markdown cells.
func (im *Importer) Markdown(content string) (models.Notebook, error) {
	fm, body, err := frontmatter.Parse(content)
	if err != nil {
		return models.Notebook{}, err
	}

	nb := models.Notebook{
		ID:           im.NewID(),
		Name:         DefaultImportName,
		LastModified: im.Now(),
		Cells:        []models.Cell{},
	}
	if fm != nil {
		if fm.ID != "" {
			nb.ID = fm.ID
		}
		if fm.Title != "" {
			nb.Name = fm.Title
		}
		if ts, err := frontmatter.ParseTimestamp(fm.Modified); err == nil {
			nb.LastModified = ts
		}
	}

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "# ") {
			if fm == nil || fm.Title == "" {
				nb.Name = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			}
			lines = lines[i+1:]
		}
		break
	}

	p := &transcriptParser{im: im, nb: &nb}
	p.parse(lines)
	return nb, nil
}

type transcriptParser struct {
	im           *Importer
	nb           *models.Notebook
	text         []string
	expectOutput bool
}

func (p *transcriptParser) parse(lines []string) {
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "```"):
			lang := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			var block []string
			for i++; i < len(lines) && strings.TrimSpace(lines[i]) != "```"; i++ {
				block = append(block, lines[i])
			}
			p.fence(lang, strings.Join(block, "\n"))

		case trimmed == "**Output:**" && p.lastIsCode() && !p.hasText():
			p.flush()
			p.expectOutput = true

		case whiteboardImage.MatchString(trimmed):
			url, err := whiteboard.NormalizeDataURL(whiteboardImage.FindStringSubmatch(trimmed)[1])
			if err != nil {
				// Unreadable images stay in the text
				p.expectOutput = false
				p.text = append(p.text, line)
				continue
			}
			p.flush()
			p.add(models.Cell{
				Type:    models.CellTypeWhiteboard,
				Content: url,
			})

		default:
			if trimmed != "" {
				p.expectOutput = false
			}
			p.text = append(p.text, line)
		}
	}
	p.flush()
}

func (p *transcriptParser) fence(lang, source string) {
	p.flush()
	if p.expectOutput && lang == "" && p.lastIsCode() {
		p.nb.Cells[len(p.nb.Cells)-1].Output = source
		p.expectOutput = false
		return
	}
	p.expectOutput = false
	if lang == "" {
		lang = p.im.Language
	}
	p.add(models.Cell{Type: models.CellTypeCode, Content: source, Language: lang})
}

func (p *transcriptParser) flush() {
	text := strings.Trim(strings.Join(p.text, "\n"), "\n")
	p.text = nil
	if strings.TrimSpace(text) == "" {
		return
	}
	p.add(models.Cell{Type: models.CellTypeMarkdown, Content: text})
}

func (p *transcriptParser) hasText() bool {
	return strings.TrimSpace(strings.Join(p.text, "")) != ""
}

func (p *transcriptParser) add(c models.Cell) {
	c.ID = p.im.NewID()
	p.nb.Cells = append(p.nb.Cells, c)
}

func (p *transcriptParser) lastIsCode() bool {
	n := len(p.nb.Cells)
	return n > 0 && p.nb.Cells[n-1].Type == models.CellTypeCode
}

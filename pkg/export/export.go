// Package export writes notebooks out as JSON, a markdown transcript or HTML,
// and reads JSON and markdown transcripts back in.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	stdhtml "html"
	"io"
	"strings"

	"github.com/mattsolo1/grove-cellbook/pkg/frontmatter"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Format is an export encoding
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

// ErrUnsupportedFormat is returned for formats that are offered but not produced
var ErrUnsupportedFormat = errors.New("export format not supported")

// ParseFormat converts a name or file extension to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Ext returns the file extension for the format, with the dot
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return "." + string(f)
}

// Options tune the markdown transcript
type Options struct {
	// Frontmatter prepends a YAML metadata block
	Frontmatter bool
	// Folder is the slash-separated folder path of the notebook
	Folder string
}

// Write encodes nb in the given format
func Write(w io.Writer, nb models.Notebook, format Format, opts Options) error {
	var data []byte
	var err error
	switch format {
	case FormatJSON:
		data, err = JSON(nb)
	case FormatMarkdown:
		data = []byte(Markdown(nb, opts))
	case FormatHTML:
		data, err = HTML(nb)
	case FormatPDF:
		return fmt.Errorf("%s: %w", format, ErrUnsupportedFormat)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s export: %w", format, err)
	}
	return nil
}

// JSON serializes the whole notebook with two-space indentation
func JSON(nb models.Notebook) ([]byte, error) {
	data, err := json.MarshalIndent(nb, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notebook: %w", err)
	}
	return data, nil
}

// Markdown renders the transcript: a title heading, markdown cells verbatim,
// code cells fenced with their language and followed by their output, and
// non-empty whiteboards as inline images.
func Markdown(nb models.Notebook, opts Options) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", nb.Name)

	for _, cell := range nb.Cells {
		switch cell.Type {
		case models.CellTypeMarkdown:
			sb.WriteString(cell.Content + "\n\n")
		case models.CellTypeCode:
			lang := cell.Language
			if lang == "" {
				lang = models.DefaultLanguage
			}
			fmt.Fprintf(&sb, "```%s\n%s\n```\n\n", lang, cell.Content)
			if cell.Output != "" {
				fmt.Fprintf(&sb, "**Output:**\n```\n%s\n```\n\n", cell.Output)
			}
		case models.CellTypeWhiteboard:
			if cell.Content != "" {
				fmt.Fprintf(&sb, "![whiteboard](%s)\n\n", cell.Content)
			}
		}
	}

	if !opts.Frontmatter {
		return sb.String()
	}
	fm := &frontmatter.Frontmatter{
		ID:       nb.ID,
		Title:    nb.Name,
		Folder:   opts.Folder,
		Tags:     frontmatter.MergeTags(frontmatter.ExtractPathTags(opts.Folder), codeLanguages(nb)),
		Language: firstLanguage(nb),
		Modified: frontmatter.FormatTimestamp(nb.LastModified.UTC()),
	}
	return frontmatter.BuildContent(fm, sb.String())
}

// codeLanguages lists the distinct languages of the code cells in order
func codeLanguages(nb models.Notebook) []string {
	var langs []string
	for _, c := range nb.Cells {
		if c.Type == models.CellTypeCode && c.Language != "" {
			langs = append(langs, strings.ToLower(c.Language))
		}
	}
	return frontmatter.MergeTags(langs)
}

func firstLanguage(nb models.Notebook) string {
	for _, c := range nb.Cells {
		if c.Type == models.CellTypeCode {
			return c.Language
		}
	}
	return ""
}

// newMarkdownRenderer creates a configured goldmark renderer
func newMarkdownRenderer() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// HTML renders the markdown transcript as a standalone page
func HTML(nb models.Notebook) ([]byte, error) {
	var body bytes.Buffer
	if err := newMarkdownRenderer().Convert([]byte(Markdown(nb, Options{})), &body); err != nil {
		return nil, fmt.Errorf("failed to render html: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n", stdhtml.EscapeString(nb.Name))
	out.WriteString("</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

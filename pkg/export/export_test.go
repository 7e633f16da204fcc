package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/whiteboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modified = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleNotebook() models.Notebook {
	return models.Notebook{
		ID:           "nb1",
		Name:         "Demo",
		LastModified: modified,
		Cells: []models.Cell{
			{ID: "c1", Type: models.CellTypeMarkdown, Content: "# Hi"},
			{ID: "c2", Type: models.CellTypeCode, Language: "javascript", Content: "1+1", Output: "2"},
		},
	}
}

func testImporter() *Importer {
	n := 0
	return &Importer{
		NewID: func() string {
			n++
			return fmt.Sprintf("id%d", n)
		},
		Now:      func() time.Time { return modified },
		Language: models.DefaultLanguage,
	}
}

func TestMarkdownTranscript(t *testing.T) {
	got := Markdown(sampleNotebook(), Options{})
	want := "# Demo\n\n# Hi\n\n```javascript\n1+1\n```\n\n**Output:**\n```\n2\n```\n\n"
	assert.Equal(t, want, got)
	assert.Contains(t, got, "```javascript\n1+1\n```")
	assert.Less(t, strings.Index(got, "1+1"), strings.Index(got, "```\n2\n```"))
}

func TestMarkdownSkipsEmptyWhiteboardAndOutput(t *testing.T) {
	nb := models.Notebook{
		Name: "Board",
		Cells: []models.Cell{
			{ID: "w", Type: models.CellTypeWhiteboard},
			{ID: "c", Type: models.CellTypeCode, Content: "x"},
		},
	}
	assert.Equal(t, "# Board\n\n```javascript\nx\n```\n\n", Markdown(nb, Options{}))
}

func TestMarkdownWithFrontmatter(t *testing.T) {
	got := Markdown(sampleNotebook(), Options{Frontmatter: true, Folder: "Projects/Research"})
	assert.True(t, strings.HasPrefix(got, "---\nid: nb1\ntitle: Demo\nfolder: Projects/Research\ntags: [projects, research, javascript]\nlanguage: javascript\nmodified: 2024-03-01 09:30:00\n---\n\n# Demo\n\n"), got)
}

func TestJSON(t *testing.T) {
	data, err := JSON(sampleNotebook())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"id\": \"nb1\",\n  \"name\": \"Demo\","))
	assert.Contains(t, string(data), "\"output\": \"2\"")
}

func TestHTML(t *testing.T) {
	data, err := HTML(sampleNotebook())
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "<title>Demo</title>")
	assert.Contains(t, out, `<h1 id="hi">Hi</h1>`)
	assert.Contains(t, out, `<code class="language-javascript">1+1`)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleNotebook(), FormatMarkdown, Options{}))
	assert.True(t, strings.HasPrefix(buf.String(), "# Demo"))

	buf.Reset()
	err := Write(&buf, sampleNotebook(), FormatPDF, Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Zero(t, buf.Len())
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, ".md": FormatMarkdown, "HTML": FormatHTML, "pdf": FormatPDF} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("docx")
	assert.Error(t, err)
	assert.Equal(t, ".md", FormatMarkdown.Ext())
	assert.Equal(t, ".json", FormatJSON.Ext())
}

func TestImportMarkdownRoundTrip(t *testing.T) {
	url, err := whiteboard.NewCanvas(4, 4).DataURL()
	require.NoError(t, err)

	src := sampleNotebook()
	src.Cells = append(src.Cells,
		models.Cell{ID: "c3", Type: models.CellTypeWhiteboard, Content: url},
		models.Cell{ID: "c4", Type: models.CellTypeMarkdown, Content: "closing\n\nwith two paragraphs"},
		models.Cell{ID: "c5", Type: models.CellTypeCode, Language: "go", Content: "fmt.Println(1)\nfmt.Println(2)"},
	)

	got, err := testImporter().Markdown(Markdown(src, Options{}))
	require.NoError(t, err)
	assert.Equal(t, "Demo", got.Name)

	type shape struct {
		Type     models.CellType
		Content  string
		Language string
		Output   string
	}
	var gotShape, wantShape []shape
	for _, c := range got.Cells {
		gotShape = append(gotShape, shape{c.Type, c.Content, c.Language, c.Output})
	}
	for _, c := range src.Cells {
		wantShape = append(wantShape, shape{c.Type, c.Content, c.Language, c.Output})
	}
	if diff := cmp.Diff(wantShape, gotShape); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestImportMarkdownFrontmatter(t *testing.T) {
	doc := Markdown(sampleNotebook(), Options{Frontmatter: true})
	got, err := testImporter().Markdown(doc)
	require.NoError(t, err)
	assert.Equal(t, "nb1", got.ID)
	assert.Equal(t, "Demo", got.Name)
	assert.True(t, got.LastModified.Equal(modified))
	require.Len(t, got.Cells, 2)
	assert.Equal(t, "# Hi", got.Cells[0].Content)
}

func TestImportMarkdownWithoutTitle(t *testing.T) {
	got, err := testImporter().Markdown("just text\n\n```\nplain\n```\n")
	require.NoError(t, err)
	assert.Equal(t, DefaultImportName, got.Name)
	assert.Equal(t, "id1", got.ID)
	require.Len(t, got.Cells, 2)
	assert.Equal(t, "just text", got.Cells[0].Content)
	assert.Equal(t, models.DefaultLanguage, got.Cells[1].Language)
}

func TestImportJSON(t *testing.T) {
	data := []byte(`{"name":"","cells":[
		{"id":"a","type":"code","content":"1","isExecuting":true},
		{"id":"a","type":"markdown","content":"x","isEditing":true}
	]}`)
	got, err := testImporter().JSON(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultImportName, got.Name)
	assert.Equal(t, "id1", got.ID)
	require.Len(t, got.Cells, 2)
	assert.Equal(t, "a", got.Cells[0].ID)
	assert.Equal(t, "id2", got.Cells[1].ID)
	assert.False(t, got.Cells[0].IsExecuting)
	assert.False(t, got.Cells[1].IsEditing)
	assert.Equal(t, models.DefaultLanguage, got.Cells[0].Language)

	_, err = testImporter().JSON([]byte(`{"cells":[{"type":"chart"}]}`))
	assert.Error(t, err)
	_, err = testImporter().JSON([]byte(`{`))
	assert.Error(t, err)
}

func TestImportJSONRoundTrip(t *testing.T) {
	data, err := JSON(sampleNotebook())
	require.NoError(t, err)
	got, err := testImporter().JSON(data)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleNotebook(), got); diff != "" {
		t.Errorf("json round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestImportMarkdownConvertsWhiteboardImages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2)), nil))
	jpegURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	src := "# Sketches\n\n![whiteboard](" + jpegURL + ")\n\n![whiteboard](data:image/gif;base64,AAAA)\n"
	got, err := testImporter().Markdown(src)
	require.NoError(t, err)
	require.Len(t, got.Cells, 2)

	board := got.Cells[0]
	assert.Equal(t, models.CellTypeWhiteboard, board.Type)
	assert.True(t, strings.HasPrefix(board.Content, "data:image/png;base64,"))
	img, err := whiteboard.DecodeDataURL(board.Content)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	assert.Equal(t, models.CellTypeMarkdown, got.Cells[1].Type, "an unreadable image stays as text")
	assert.Contains(t, got.Cells[1].Content, "data:image/gif;base64,AAAA")
}

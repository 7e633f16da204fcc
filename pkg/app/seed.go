package app

import (
	"time"

	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/tree"
)

const welcomeMarkdown = "# Welcome to your notebook\n\n" +
	"This is a markdown cell. You can write formatted text here.\n\n" +
	"## Features\n\n" +
	"- **Bold** and *italic* text\n" +
	"- Lists and checkboxes\n" +
	"  - [x] Task 1\n" +
	"  - [ ] Task 2\n" +
	"- [Links](https://example.com)\n" +
	"- Code blocks:\n\n" +
	"```javascript\n" +
	"function hello() {\n" +
	"  console.log(\"Hello world!\");\n" +
	"}\n" +
	"```\n\n" +
	"- Tables:\n\n" +
	"| Name | Value |\n" +
	"|------|-------|\n" +
	"| Item 1 | 100 |\n" +
	"| Item 2 | 200 |\n"

const welcomeCode = `// This is a JavaScript code cell
// You can run this code directly in the browser

function generateData(count) {
  const data = [];
  for (let i = 0; i < count; i++) {
    data.push({
      x: i,
      y: Math.sin(i * 0.2) * Math.random() * 10
    });
  }
  return data;
}

// Generate and return some data
const result = generateData(20);
console.log("Generated data points:", result);
return result;`

// Default returns the first-run state: two folders of sample notebooks, three
// loose notebooks, and a welcome notebook with one cell of each type.
func Default(now time.Time) State {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	day := 24 * time.Hour

	file := func(id, name, parent string, modified time.Time) tree.Entry {
		return tree.Entry{ID: id, Name: name, Type: tree.TypeFile, ParentID: parent, LastModified: modified}
	}

	files := []tree.Entry{
		{
			ID: "folder1", Name: "Projects", Type: tree.TypeFolder, LastModified: ago(2 * time.Hour),
			Children: []tree.Entry{
				file("notebook1", "Project Research Notes", "folder1", ago(2*time.Hour)),
				file("notebook2", "Python Data Analysis", "folder1", ago(day)),
			},
		},
		{
			ID: "folder2", Name: "Study Notes", Type: tree.TypeFolder, LastModified: ago(3 * day),
			Children: []tree.Entry{
				file("notebook3", "Algorithm Study", "folder2", ago(7*day)),
			},
		},
		file("notebook4", "Meeting Whiteboard", "", ago(3*day)),
		file("notebook5", "Product Design Ideas", "", ago(14*day)),
		file("notebook6", "JavaScript Snippets", "", ago(30*day)),
	}

	var notebooks []models.Notebook
	tree.Walk(files, func(e tree.Entry, _ int) {
		if e.IsFolder() {
			return
		}
		notebooks = append(notebooks, models.Notebook{
			ID:           e.ID,
			Name:         e.Name,
			LastModified: e.LastModified,
			Cells:        []models.Cell{},
			ParentID:     e.ParentID,
		})
	})
	notebooks[0].Cells = []models.Cell{
		{ID: "cell1", Type: models.CellTypeMarkdown, Content: welcomeMarkdown},
		{ID: "cell2", Type: models.CellTypeCode, Content: welcomeCode, Language: models.DefaultLanguage},
		{ID: "cell3", Type: models.CellTypeWhiteboard},
	}

	return State{Files: files, Notebooks: notebooks}
}

package models

// DefaultLanguage is the language assigned to new code cells
const DefaultLanguage = "javascript"

// CellTypeConfig defines creation defaults for each cell type
type CellTypeConfig struct {
	DefaultContent string
	Language       string
}

// DefaultCellTypeConfigs provides the content a freshly added cell starts with
var DefaultCellTypeConfigs = map[CellType]CellTypeConfig{
	CellTypeMarkdown: {
		DefaultContent: "New markdown cell - click to edit",
	},
	CellTypeCode: {
		DefaultContent: "// New code cell\n// Start coding here",
		Language:       DefaultLanguage,
	},
	CellTypeWhiteboard: {
		DefaultContent: "", // Blank board
	},
}

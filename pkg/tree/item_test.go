package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() []Entry {
	return []Entry{
		{
			ID: "folder1", Name: "Projects", Type: TypeFolder,
			Children: []Entry{
				{ID: "notebook1", Name: "Project Research Notes", Type: TypeFile, ParentID: "folder1"},
				{
					ID: "folder3", Name: "Archive", Type: TypeFolder, ParentID: "folder1",
					Children: []Entry{
						{ID: "notebook7", Name: "Old Ideas", Type: TypeFile, ParentID: "folder3"},
					},
				},
			},
		},
		{ID: "notebook4", Name: "Meeting Whiteboard", Type: TypeFile},
	}
}

func TestInsert(t *testing.T) {
	entries := sampleTree()

	out := Insert(entries, "folder3", Entry{ID: "nb-new", Name: "New", Type: TypeFile})
	found, ok := Find(out, "nb-new")
	require.True(t, ok)
	assert.Equal(t, "folder3", found.ParentID)

	_, ok = Find(entries, "nb-new")
	assert.False(t, ok, "input tree must not change")

	// Files cannot be parents; fall back to the root.
	out = Insert(entries, "notebook4", Entry{ID: "nb-root", Name: "Root", Type: TypeFile})
	assert.Equal(t, "nb-root", out[len(out)-1].ID)
	assert.Empty(t, out[len(out)-1].ParentID)
}

func TestRenameNestedFileOnly(t *testing.T) {
	entries := sampleTree()
	out := Rename(entries, "notebook7", "Renamed Ideas")

	want := sampleTree()
	want[0].Children[1].Children[0].Name = "Renamed Ideas"

	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("Rename() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(sampleTree(), entries); diff != "" {
		t.Errorf("Rename() modified its input (-want +got):\n%s", diff)
	}
}

func TestRemoveCascadesFileIDs(t *testing.T) {
	out, removed := Remove(sampleTree(), "folder3")
	assert.Equal(t, []string{"notebook7"}, removed)
	_, ok := Find(out, "folder3")
	assert.False(t, ok)

	out, removed = Remove(sampleTree(), "folder1")
	assert.ElementsMatch(t, []string{"notebook1", "notebook7"}, removed)
	assert.Len(t, out, 1)

	out, removed = Remove(sampleTree(), "missing")
	assert.Empty(t, removed)
	assert.Equal(t, sampleTree(), out)
}

func TestPathAndFileIDs(t *testing.T) {
	entries := sampleTree()

	var names []string
	for _, e := range Path(entries, "notebook7") {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Projects", "Archive", "Old Ideas"}, names)
	assert.Nil(t, Path(entries, "missing"))

	assert.Equal(t, []string{"notebook1", "notebook7", "notebook4"}, FileIDs(entries))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query keeps everything", "", []string{"folder1", "notebook1", "folder3", "notebook7", "notebook4"}},
		{"case insensitive match keeps ancestors", "old IDEAS", []string{"folder1", "folder3", "notebook7"}},
		{"matching folder keeps its children", "projects", []string{"folder1", "notebook1", "folder3", "notebook7"}},
		{"root file", "whiteboard", []string{"notebook4"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			Walk(Filter(sampleTree(), tt.query), func(e Entry, _ int) {
				got = append(got, e.ID)
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

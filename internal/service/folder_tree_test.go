package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tms/internal/model"
)

func folderChain() (a, b, c model.Folder) {
	a = model.Folder{ID: uuid.New(), Name: "A"}
	b = model.Folder{ID: uuid.New(), Name: "B", ParentID: &a.ID}
	c = model.Folder{ID: uuid.New(), Name: "C", ParentID: &b.ID}
	return a, b, c
}

func flatten(nodes []*model.FolderNode, edges map[uuid.UUID]*uuid.UUID) {
	for _, n := range nodes {
		for _, child := range n.Children {
			id := n.ID
			edges[child.ID] = &id
		}
		if _, ok := edges[n.ID]; !ok {
			edges[n.ID] = nil
		}
		flatten(n.Children, edges)
	}
}

func TestBuildTree_RoundTrip(t *testing.T) {
	a, b, c := folderChain()
	d := model.Folder{ID: uuid.New(), Name: "D", ParentID: &a.ID}
	e := model.Folder{ID: uuid.New(), Name: "E"}
	folders := []model.Folder{a, b, c, d, e}

	roots := BuildTree(folders)
	require.Len(t, roots, 2)
	assert.Equal(t, "A", roots[0].Name)
	assert.Equal(t, "E", roots[1].Name)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, "B", roots[0].Children[0].Name)
	assert.Equal(t, "D", roots[0].Children[1].Name)

	edges := make(map[uuid.UUID]*uuid.UUID)
	flatten(roots, edges)
	require.Len(t, edges, len(folders))
	for _, f := range folders {
		assert.Equal(t, f.ParentID, edges[f.ID], f.Name)
	}
}

func TestBuildTree_OrphanBecomesRoot(t *testing.T) {
	missing := uuid.New()
	orphan := model.Folder{ID: uuid.New(), Name: "Orphan", ParentID: &missing}

	roots := BuildTree([]model.Folder{orphan})
	require.Len(t, roots, 1)
	assert.Equal(t, orphan.ID, roots[0].ID)
	assert.NotNil(t, roots[0].Children)
}

func TestDescendantIDs(t *testing.T) {
	a, b, c := folderChain()
	other := model.Folder{ID: uuid.New(), Name: "Other"}
	folders := []model.Folder{a, b, c, other}

	assert.Equal(t, []uuid.UUID{a.ID, b.ID, c.ID}, DescendantIDs(folders, a.ID))
	assert.Equal(t, []uuid.UUID{c.ID}, DescendantIDs(folders, c.ID))
	assert.Equal(t, []uuid.UUID{other.ID}, DescendantIDs(folders, other.ID))
}

func TestDescendantIDs_TerminatesOnCycle(t *testing.T) {
	x := model.Folder{ID: uuid.New(), Name: "X"}
	y := model.Folder{ID: uuid.New(), Name: "Y", ParentID: &x.ID}
	x.ParentID = &y.ID

	ids := DescendantIDs([]model.Folder{x, y}, x.ID)
	assert.ElementsMatch(t, []uuid.UUID{x.ID, y.ID}, ids)
}

func TestPathTo(t *testing.T) {
	a, b, c := folderChain()
	index := indexFolders([]model.Folder{a, b, c})

	path := PathTo(index, &c.ID)
	assert.Equal(t, []model.PathSegment{
		{ID: a.ID, Name: "A"},
		{ID: b.ID, Name: "B"},
		{ID: c.ID, Name: "C"},
	}, path)

	assert.Empty(t, PathTo(index, nil))

	unknown := uuid.New()
	assert.Empty(t, PathTo(index, &unknown))
}

package service

import (
	"github.com/google/uuid"

	"tms/internal/model"
)

// BuildTree arranges a flat folder list into a forest. Input order is preserved among
// siblings, so callers pass folders sorted by name. Folders whose parent is missing are
// returned as roots.
func BuildTree(folders []model.Folder) []*model.FolderNode {
	nodes := make(map[uuid.UUID]*model.FolderNode, len(folders))
	for _, f := range folders {
		nodes[f.ID] = &model.FolderNode{Folder: f, Children: []*model.FolderNode{}}
	}

	roots := make([]*model.FolderNode, 0)
	for _, f := range folders {
		node := nodes[f.ID]
		if f.ParentID != nil {
			if parent, ok := nodes[*f.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// DescendantIDs returns root followed by every folder reachable below it, breadth first.
func DescendantIDs(folders []model.Folder, root uuid.UUID) []uuid.UUID {
	children := make(map[uuid.UUID][]uuid.UUID)
	for _, f := range folders {
		if f.ParentID != nil {
			children[*f.ParentID] = append(children[*f.ParentID], f.ID)
		}
	}

	ids := []uuid.UUID{root}
	visited := map[uuid.UUID]bool{root: true}
	for i := 0; i < len(ids); i++ {
		for _, child := range children[ids[i]] {
			if visited[child] {
				continue
			}
			visited[child] = true
			ids = append(ids, child)
		}
	}
	return ids
}

// PathTo walks parent pointers from folderID up to its root and returns the path
// ordered root first. A nil folderID yields an empty path; the walk stops at a missing
// parent or a repeated folder.
func PathTo(index map[uuid.UUID]model.Folder, folderID *uuid.UUID) []model.PathSegment {
	path := []model.PathSegment{}
	if folderID == nil {
		return path
	}

	seen := make(map[uuid.UUID]bool)
	for current := folderID; current != nil; {
		f, ok := index[*current]
		if !ok || seen[f.ID] {
			break
		}
		seen[f.ID] = true
		path = append(path, model.PathSegment{ID: f.ID, Name: f.Name})
		current = f.ParentID
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func indexFolders(folders []model.Folder) map[uuid.UUID]model.Folder {
	index := make(map[uuid.UUID]model.Folder, len(folders))
	for _, f := range folders {
		index[f.ID] = f
	}
	return index
}

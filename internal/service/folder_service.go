package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "tms/internal/errors"
	"tms/internal/model"
	"tms/internal/repository"
)

// FolderService manages the folder hierarchy. The tree is rebuilt from the flat folder
// table on every call.
type FolderService interface {
	GetTree(ctx context.Context) ([]*model.FolderNode, error)
	Create(ctx context.Context, name string, parentID *uuid.UUID) (*model.Folder, error)
	DescendantIDs(ctx context.Context, folderID uuid.UUID) ([]uuid.UUID, error)
	PathTo(ctx context.Context, folderID *uuid.UUID) ([]model.PathSegment, error)
	ListTestCases(ctx context.Context, folderID uuid.UUID) ([]model.TestCase, error)
}

type folderService struct {
	store repository.Store
}

// NewFolderService creates a new folder service.
func NewFolderService(store repository.Store) FolderService {
	return &folderService{store: store}
}

func (s *folderService) GetTree(ctx context.Context) ([]*model.FolderNode, error) {
	folders, err := s.store.Folders().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return BuildTree(folders), nil
}

// Create adds a folder under parentID, or at the root when parentID is nil.
func (s *folderService) Create(ctx context.Context, name string, parentID *uuid.UUID) (*model.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("folder name is required")
	}
	if err := ensureFolder(ctx, s.store, parentID); err != nil {
		return nil, err
	}

	folder := &model.Folder{Name: name, ParentID: parentID}
	if err := s.store.Folders().Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return folder, nil
}

func (s *folderService) DescendantIDs(ctx context.Context, folderID uuid.UUID) ([]uuid.UUID, error) {
	folders, err := s.store.Folders().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return DescendantIDs(folders, folderID), nil
}

func (s *folderService) PathTo(ctx context.Context, folderID *uuid.UUID) ([]model.PathSegment, error) {
	if folderID == nil {
		return []model.PathSegment{}, nil
	}
	folders, err := s.store.Folders().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return PathTo(indexFolders(folders), folderID), nil
}

// ListTestCases returns the test cases of a folder and all of its subfolders.
func (s *folderService) ListTestCases(ctx context.Context, folderID uuid.UUID) ([]model.TestCase, error) {
	if err := ensureFolder(ctx, s.store, &folderID); err != nil {
		return nil, err
	}
	return listWithPaths(ctx, s.store, &folderID)
}

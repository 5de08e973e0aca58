package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tms/internal/service"
)

// FolderHandler handles folder endpoints.
type FolderHandler struct {
	folderService service.FolderService
}

// NewFolderHandler creates a new folder handler.
func NewFolderHandler(folderService service.FolderService) *FolderHandler {
	return &FolderHandler{folderService: folderService}
}

// CreateFolderRequest creates a folder under ParentID, or at the root when it is null.
type CreateFolderRequest struct {
	Name     string     `json:"name" validate:"required"`
	ParentID *uuid.UUID `json:"parentId"`
}

// GetTree godoc
// @Summary Folder tree
// @Tags folders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.FolderNode}
// @Failure 401 {object} errors.ErrorResponse
// @Router /folders/tree [get]
func (h *FolderHandler) GetTree(c echo.Context) error {
	tree, err := h.folderService.GetTree(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, tree)
}

// Create godoc
// @Summary Create a folder
// @Tags folders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateFolderRequest true "Folder"
// @Success 201 {object} Response{data=model.Folder}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /folders [post]
func (h *FolderHandler) Create(c echo.Context) error {
	var req CreateFolderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	folder, err := h.folderService.Create(c.Request().Context(), req.Name, req.ParentID)
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusCreated, folder)
}

// ListTestCases godoc
// @Summary Test cases of a folder and its subfolders
// @Tags folders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Folder ID"
// @Success 200 {object} Response{data=[]model.TestCase}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /folders/{id}/testcases [get]
func (h *FolderHandler) ListTestCases(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	cases, err := h.folderService.ListTestCases(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, cases)
}

package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tms/internal/model"
	"tms/internal/service"
)

// TestCaseHandler handles test case endpoints.
type TestCaseHandler struct {
	testCaseService service.TestCaseService
	importService   service.ImportService
	files           *service.FileStore
}

// NewTestCaseHandler creates a new test case handler.
func NewTestCaseHandler(testCaseService service.TestCaseService, importService service.ImportService, files *service.FileStore) *TestCaseHandler {
	return &TestCaseHandler{
		testCaseService: testCaseService,
		importService:   importService,
		files:           files,
	}
}

// CreateTestCaseRequest represents a new test case.
type CreateTestCaseRequest struct {
	Title          string               `json:"title" validate:"required"`
	Description    *string              `json:"description"`
	Precondition   *string              `json:"precondition"`
	Steps          *string              `json:"steps"`
	ExpectedResult *string              `json:"expectedResult"`
	Priority       model.Priority       `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AutomationType model.AutomationType `json:"automationType" validate:"omitempty,oneof=MANUAL AUTOMATED"`
	Category       *string              `json:"category"`
	FolderID       *uuid.UUID           `json:"folderId"`
}

// UpdateTestCaseRequest is a partial update. Omitted fields are left unchanged and
// nullable fields may be cleared with null.
type UpdateTestCaseRequest struct {
	Title          *string                `json:"title" validate:"omitempty,min=1"`
	Description    model.Optional[string] `json:"description" swaggertype:"string"`
	Precondition   model.Optional[string] `json:"precondition" swaggertype:"string"`
	Steps          model.Optional[string] `json:"steps" swaggertype:"string"`
	ExpectedResult model.Optional[string] `json:"expectedResult" swaggertype:"string"`
	Priority       *model.Priority        `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AutomationType *model.AutomationType  `json:"automationType" validate:"omitempty,oneof=MANUAL AUTOMATED"`
	Category       model.Optional[string] `json:"category" swaggertype:"string"`
}

// ReorderRequest lists test case ids in their new order.
type ReorderRequest struct {
	OrderedIDs []uuid.UUID `json:"orderedIds" validate:"required,min=1"`
	FolderID   *uuid.UUID  `json:"folderId"`
}

// MoveRequest moves test cases to TargetFolderID, or to the root when it is null.
type MoveRequest struct {
	IDs            []uuid.UUID `json:"ids" validate:"required,min=1"`
	TargetFolderID *uuid.UUID  `json:"targetFolderId"`
}

// BulkUpdateRequest applies the given fields to every listed test case.
type BulkUpdateRequest struct {
	IDs            []uuid.UUID               `json:"ids" validate:"required,min=1"`
	Priority       *model.Priority           `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AutomationType *model.AutomationType     `json:"automationType" validate:"omitempty,oneof=MANUAL AUTOMATED"`
	Category       model.Optional[string]    `json:"category" swaggertype:"string"`
	FolderID       model.Optional[uuid.UUID] `json:"folderId" swaggertype:"string"`
}

// BulkDeleteRequest lists test cases to delete.
type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

// List godoc
// @Summary List test cases
// @Description With folderId, returns the test cases of that folder and all its subfolders.
// @Tags testcases
// @Produce json
// @Security BearerAuth
// @Param folderId query string false "Folder ID"
// @Success 200 {object} Response{data=[]model.TestCase}
// @Failure 400 {object} errors.ErrorResponse
// @Router /testcases [get]
func (h *TestCaseHandler) List(c echo.Context) error {
	folderID, err := optionalUUID(c.QueryParam("folderId"), "folderId")
	if err != nil {
		return err
	}
	cases, err := h.testCaseService.List(c.Request().Context(), folderID)
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, cases)
}

// Create godoc
// @Summary Create a test case
// @Tags testcases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTestCaseRequest true "Test case"
// @Success 201 {object} Response{data=model.TestCase}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /testcases [post]
func (h *TestCaseHandler) Create(c echo.Context) error {
	var req CreateTestCaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tc, err := h.testCaseService.Create(c.Request().Context(), service.CreateTestCaseInput{
		Title:          req.Title,
		Description:    req.Description,
		Precondition:   req.Precondition,
		Steps:          req.Steps,
		ExpectedResult: req.ExpectedResult,
		Priority:       req.Priority,
		AutomationType: req.AutomationType,
		Category:       req.Category,
		FolderID:       req.FolderID,
	})
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusCreated, tc)
}

// Update godoc
// @Summary Update a test case
// @Tags testcases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Test case ID"
// @Param request body UpdateTestCaseRequest true "Fields to change"
// @Success 200 {object} Response{data=model.TestCase}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /testcases/{id} [patch]
func (h *TestCaseHandler) Update(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateTestCaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tc, err := h.testCaseService.Update(c.Request().Context(), id, service.UpdateTestCaseInput{
		Title:          req.Title,
		Description:    req.Description,
		Precondition:   req.Precondition,
		Steps:          req.Steps,
		ExpectedResult: req.ExpectedResult,
		Priority:       req.Priority,
		AutomationType: req.AutomationType,
		Category:       req.Category,
	})
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, tc)
}

// Delete godoc
// @Summary Delete a test case
// @Description Plan items referencing the test case are removed too.
// @Tags testcases
// @Produce json
// @Security BearerAuth
// @Param id path string true "Test case ID"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /testcases/{id} [delete]
func (h *TestCaseHandler) Delete(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.testCaseService.Delete(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, Response{Success: true, Message: "test case deleted"})
}

// Import godoc
// @Summary Import test cases from CSV
// @Description The first CSV row holds the headers. mapping is a JSON object of CSV header to field name.
// @Tags testcases
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Param folderId formData string false "Target folder ID"
// @Param mapping formData string false "Header to field mapping (JSON)"
// @Success 200 {object} Response{data=service.ImportResult}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /testcases/import [post]
func (h *TestCaseHandler) Import(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest("file is required")
	}
	folderID, err := optionalUUID(c.FormValue("folderId"), "folderId")
	if err != nil {
		return err
	}
	mapping, err := service.ParseMapping(c.FormValue("mapping"))
	if err != nil {
		return respondError(err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return respondError(fmt.Errorf("open upload: %w", err))
	}
	path, cleanup, err := h.files.SaveTemp(src)
	src.Close()
	if err != nil {
		return respondError(err)
	}
	defer cleanup()

	f, err := os.Open(path)
	if err != nil {
		return respondError(fmt.Errorf("open temp file: %w", err))
	}
	defer f.Close()

	result, err := h.importService.Import(c.Request().Context(), service.ImportInput{
		FileName:   filepath.Base(fileHeader.Filename),
		Content:    f,
		FolderID:   folderID,
		Mapping:    mapping,
		ImportedBy: claims.Name,
	})
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, result)
}

// ListImports godoc
// @Summary Recent CSV imports
// @Tags testcases
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.ImportLog}
// @Router /testcases/imports [get]
func (h *TestCaseHandler) ListImports(c echo.Context) error {
	logs, err := h.importService.Recent(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, logs)
}

// Reorder godoc
// @Summary Reorder test cases
// @Tags testcases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReorderRequest true "Ordering"
// @Success 200 {object} Response{data=[]model.TestCase}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /testcases/reorder [post]
func (h *TestCaseHandler) Reorder(c echo.Context) error {
	var req ReorderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cases, err := h.testCaseService.Reorder(c.Request().Context(), req.OrderedIDs, req.FolderID)
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, cases)
}

// Move godoc
// @Summary Move test cases to a folder
// @Tags testcases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MoveRequest true "Move"
// @Success 200 {object} Response{data=CountResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /testcases/move [post]
func (h *TestCaseHandler) Move(c echo.Context) error {
	var req MoveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	n, err := h.testCaseService.Move(c.Request().Context(), req.IDs, req.TargetFolderID)
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, CountResponse{Count: n, Message: fmt.Sprintf("%d test cases moved", n)})
}

// BulkUpdate godoc
// @Summary Update many test cases
// @Tags testcases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkUpdateRequest true "Fields"
// @Success 200 {object} Response{data=CountResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /testcases/bulk [patch]
func (h *TestCaseHandler) BulkUpdate(c echo.Context) error {
	var req BulkUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	n, err := h.testCaseService.BulkUpdate(c.Request().Context(), req.IDs, service.BulkUpdateInput{
		Priority:       req.Priority,
		AutomationType: req.AutomationType,
		Category:       req.Category,
		FolderID:       req.FolderID,
	})
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, CountResponse{Count: n, Message: fmt.Sprintf("%d test cases updated", n)})
}

// BulkDelete godoc
// @Summary Delete many test cases
// @Tags testcases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkDeleteRequest true "IDs"
// @Success 200 {object} Response{data=CountResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Router /testcases/bulk [delete]
func (h *TestCaseHandler) BulkDelete(c echo.Context) error {
	var req BulkDeleteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	n, err := h.testCaseService.BulkDelete(c.Request().Context(), req.IDs)
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusOK, CountResponse{Count: n, Message: fmt.Sprintf("%d test cases deleted", n)})
}

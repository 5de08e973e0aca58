package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"tms/internal/service"
)

// UploadHandler stores images referenced from test case text.
type UploadHandler struct {
	files *service.FileStore
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(files *service.FileStore) *UploadHandler {
	return &UploadHandler{files: files}
}

// UploadImage godoc
// @Summary Upload an image
// @Description Accepts images up to 5MB; the content type is detected from the file bytes.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 201 {object} Response{data=service.UploadedImage}
// @Failure 400 {object} errors.ErrorResponse
// @Router /upload/image [post]
func (h *UploadHandler) UploadImage(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest("image file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return respondError(fmt.Errorf("open upload: %w", err))
	}
	defer src.Close()

	img, err := h.files.SaveImage(fileHeader.Filename, src)
	if err != nil {
		return respondError(err)
	}
	return respond(c, http.StatusCreated, img)
}

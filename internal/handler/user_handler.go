package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tms/internal/model"
	"tms/internal/service"
)

// UserHandler serves the caller's profile and user administration.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest renames the caller.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// ApproveUserRequest approves or rejects a pending user.
type ApproveUserRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

// UpdateRoleRequest changes a user's role.
type UpdateRoleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=ADMIN USER"`
}

// UpdateStatusRequest changes a user's status.
type UpdateStatusRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Status string `json:"status" validate:"required,oneof=ACTIVE REJECTED PENDING"`
}

// ResetPasswordRequest sets a new password for a user.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// UserResponse carries one user at the top level.
type UserResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	User    *model.User `json:"user"`
}

// UsersResponse carries a list of users at the top level.
type UsersResponse struct {
	Success bool         `json:"success"`
	Users   []model.User `json:"users"`
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.Me(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, UserResponse{Success: true, User: user})
}

// UpdateProfile godoc
// @Summary Update the caller's display name
// @Description Plan items assigned to the old name are reassigned to the new one.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/profile [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), id, req.Name)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, UserResponse{Success: true, Message: "profile updated", User: user})
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/change-password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.userService.ChangePassword(c.Request().Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, Response{Success: true, Message: "password changed"})
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UsersResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, UsersResponse{Success: true, Users: users})
}

// ListPending godoc
// @Summary List users waiting for approval
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UsersResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/pending-users [get]
func (h *UserHandler) ListPending(c echo.Context) error {
	users, err := h.userService.ListPending(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, UsersResponse{Success: true, Users: users})
}

// Approve godoc
// @Summary Approve or reject a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ApproveUserRequest true "Decision"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/approve [patch]
func (h *UserHandler) Approve(c echo.Context) error {
	var req ApproveUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Approve(c.Request().Context(), req.Email, service.ApprovalAction(req.Action))
	if err != nil {
		return respondError(err)
	}
	message := "user approved"
	if service.ApprovalAction(req.Action) == service.ActionReject {
		message = "user rejected"
	}
	return c.JSON(http.StatusOK, UserResponse{Success: true, Message: message, User: user})
}

// SetRole godoc
// @Summary Change a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateRoleRequest true "Role"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/role [patch]
func (h *UserHandler) SetRole(c echo.Context) error {
	var req UpdateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userService.SetRole(c.Request().Context(), req.Email, model.Role(req.Role))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, UserResponse{Success: true, Message: "role updated", User: user})
}

// SetStatus godoc
// @Summary Change a user's status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateStatusRequest true "Status"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/status [patch]
func (h *UserHandler) SetStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userService.SetStatus(c.Request().Context(), req.Email, model.UserStatus(req.Status))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, UserResponse{Success: true, Message: "status updated", User: user})
}

// ResetPassword godoc
// @Summary Reset a user's password
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/reset-password [post]
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.userService.ResetPassword(c.Request().Context(), req.Email, req.NewPassword); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, Response{Success: true, Message: "password reset"})
}

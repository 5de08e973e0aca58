package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrFolderNotFound is returned when a folder id does not resolve.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrTestCaseNotFound is returned when a test case id does not resolve.
	ErrTestCaseNotFound = errors.New("test case not found")
	// ErrPlanNotFound is returned when a plan id does not resolve.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrPlanItemNotFound is returned when a plan item does not resolve within its plan.
	ErrPlanItemNotFound = errors.New("plan item not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")

	// ErrUnauthorized is returned when a request carries no usable credentials.
	ErrUnauthorized = errors.New("authentication required")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrAccountPending is returned when a user logs in before approval.
	ErrAccountPending = errors.New("account is pending approval")
	// ErrAccountRejected is returned when a rejected user logs in.
	ErrAccountRejected = errors.New("account has been rejected")
	// ErrUserAlreadyExists is returned when trying to register an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// ValidationError reports malformed or incomplete input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ve):
		return NewHTTPError(http.StatusBadRequest, ve.Message, "VALIDATION_ERROR")
	case errors.Is(err, ErrFolderNotFound):
		return NewHTTPError(http.StatusNotFound, ErrFolderNotFound.Error(), "FOLDER_NOT_FOUND")
	case errors.Is(err, ErrTestCaseNotFound):
		return NewHTTPError(http.StatusNotFound, ErrTestCaseNotFound.Error(), "TEST_CASE_NOT_FOUND")
	case errors.Is(err, ErrPlanNotFound):
		return NewHTTPError(http.StatusNotFound, ErrPlanNotFound.Error(), "PLAN_NOT_FOUND")
	case errors.Is(err, ErrPlanItemNotFound):
		return NewHTTPError(http.StatusNotFound, ErrPlanItemNotFound.Error(), "PLAN_ITEM_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidRefreshToken.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrAccountPending):
		return NewHTTPError(http.StatusForbidden, ErrAccountPending.Error(), "ACCOUNT_PENDING")
	case errors.Is(err, ErrAccountRejected):
		return NewHTTPError(http.StatusForbidden, ErrAccountRejected.Error(), "ACCOUNT_REJECTED")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, ErrUserAlreadyExists.Error(), "USER_ALREADY_EXISTS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"tms/internal/auth"
	"tms/internal/config"
	apperrors "tms/internal/errors"
	"tms/internal/handler"
)

// TokenVerifier resolves a bearer token into the caller's claims.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*auth.Claims, error)
}

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Folder    *handler.FolderHandler
	TestCase  *handler.TestCaseHandler
	Plan      *handler.PlanHandler
	Dashboard *handler.DashboardHandler
	Upload    *handler.UploadHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log *slog.Logger, verifier TokenVerifier, h Handlers) {
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(log, cfg.IsDevelopment())

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(requestLogger(log))
	e.Use(middleware.CORS())
	// multipart imports and images share this limit
	e.Use(middleware.BodyLimit("10M"))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", cfg.UploadDir)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	// Secured routes (require JWT authentication)
	secured := api.Group("", JWTMiddleware(verifier))

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/auth/me", h.User.Me)
	secured.PATCH("/auth/profile", h.User.UpdateProfile)
	secured.POST("/auth/change-password", h.User.ChangePassword)

	secured.GET("/folders/tree", h.Folder.GetTree)
	secured.POST("/folders", h.Folder.Create)
	secured.GET("/folders/:id/testcases", h.Folder.ListTestCases)

	secured.GET("/testcases", h.TestCase.List)
	secured.POST("/testcases", h.TestCase.Create)
	secured.POST("/testcases/import", h.TestCase.Import)
	secured.GET("/testcases/imports", h.TestCase.ListImports)
	secured.POST("/testcases/reorder", h.TestCase.Reorder)
	secured.POST("/testcases/move", h.TestCase.Move)
	secured.PATCH("/testcases/bulk", h.TestCase.BulkUpdate)
	secured.DELETE("/testcases/bulk", h.TestCase.BulkDelete)
	secured.PATCH("/testcases/:id", h.TestCase.Update)
	secured.DELETE("/testcases/:id", h.TestCase.Delete)

	secured.GET("/plans", h.Plan.List)
	secured.POST("/plans", h.Plan.Create)
	secured.GET("/plans/:id", h.Plan.Get)
	secured.PATCH("/plans/:id", h.Plan.Update)
	secured.DELETE("/plans/:id", h.Plan.Delete)
	secured.POST("/plans/:id/rerun", h.Plan.Rerun)
	secured.PATCH("/plans/:id/items/bulk", h.Plan.BulkUpdateItems)
	secured.PATCH("/plans/:id/items/:itemId", h.Plan.UpdateItem)

	secured.GET("/dashboard/stats", h.Dashboard.Stats)
	secured.GET("/dashboard/my-assignments", h.Dashboard.MyAssignments)
	secured.GET("/dashboard/recent-activity", h.Dashboard.RecentActivity)

	secured.POST("/upload/image", h.Upload.UploadImage)

	admin := secured.Group("/admin", handler.RequireAdmin)
	admin.GET("/users", h.User.ListUsers)
	admin.GET("/pending-users", h.User.ListPending)
	admin.PATCH("/users/approve", h.User.Approve)
	admin.PATCH("/users/role", h.User.SetRole)
	admin.PATCH("/users/status", h.User.SetStatus)
	admin.POST("/users/reset-password", h.User.ResetPassword)
}

// JWTMiddleware authenticates bearer tokens through verifier, which also rejects
// blacklisted tokens, and stores the claims under handler.ClaimsContextKey.
func JWTMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ClaimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return verifier.VerifyAccessToken(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUnauthorized)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
		},
	})
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil && v.Status < http.StatusInternalServerError {
				attrs = append(attrs, "error", v.Error.Error())
			}
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", slog.Group("http", attrs...))
			return nil
		},
	})
}

// ErrorHandler renders every error as the JSON error envelope. Server errors are
// logged with their cause; outside development their message is generic.
func ErrorHandler(log *slog.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorBody(err)
		if status >= http.StatusInternalServerError {
			cause := err
			var he *echo.HTTPError
			if errors.As(err, &he) && he.Internal != nil {
				cause = he.Internal
			}
			log.Error("request failed",
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"method", c.Request().Method,
				"path", c.Path(),
				"error", cause,
			)
			if development {
				body.Message = cause.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Warn("write error response", "error", err)
		}
	}
}

func errorBody(err error) (int, apperrors.ErrorResponse) {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		httpErr := apperrors.MapErrorToHTTP(err)
		return httpErr.StatusCode, httpErr.ToErrorResponse()
	}

	switch msg := he.Message.(type) {
	case apperrors.ErrorResponse:
		return he.Code, msg
	case string:
		return he.Code, apperrors.ErrorResponse{Message: msg, Code: statusCode(he.Code)}
	default:
		return he.Code, apperrors.ErrorResponse{Message: fmt.Sprint(msg), Code: statusCode(he.Code)}
	}
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		if status >= http.StatusInternalServerError {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator used by every handler.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

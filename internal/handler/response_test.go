package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tms/internal/auth"
	apperrors "tms/internal/errors"
)

func newContext() echo.Context {
	e := echo.New()
	return e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
}

func httpError(t *testing.T, err error) (*echo.HTTPError, apperrors.ErrorResponse) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	body, ok := he.Message.(apperrors.ErrorResponse)
	require.True(t, ok, "message is the error envelope")
	return he, body
}

func TestOptionalUUID(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name    string
		raw     string
		want    *uuid.UUID
		wantErr bool
	}{
		{name: "empty", raw: "", want: nil},
		{name: "null literal", raw: "null", want: nil},
		{name: "valid", raw: " " + id.String() + " ", want: &id},
		{name: "invalid", raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := optionalUUID(tt.raw, "folderId")
			if tt.wantErr {
				he, body := httpError(t, err)
				assert.Equal(t, http.StatusBadRequest, he.Code)
				assert.Equal(t, "INVALID_UUID", body.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRespondError(t *testing.T) {
	he, body := httpError(t, respondError(apperrors.ErrPlanNotFound))
	assert.Equal(t, http.StatusNotFound, he.Code)
	assert.Equal(t, "PLAN_NOT_FOUND", body.Code)
	assert.ErrorIs(t, he.Internal, apperrors.ErrPlanNotFound)
}

func TestRequireAdmin(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	tests := []struct {
		name       string
		claims     *auth.Claims
		wantStatus int
	}{
		{name: "no claims", wantStatus: http.StatusUnauthorized},
		{name: "user", claims: &auth.Claims{Role: "USER"}, wantStatus: http.StatusForbidden},
		{name: "admin", claims: &auth.Claims{Role: "ADMIN"}, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext()
			if tt.claims != nil {
				c.Set(ClaimsContextKey, tt.claims)
			}
			err := RequireAdmin(ok)(c)
			if tt.wantStatus == http.StatusNoContent {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, c.Response().Status)
				return
			}
			he, _ := httpError(t, err)
			assert.Equal(t, tt.wantStatus, he.Code)
		})
	}
}

func TestCurrentUserID(t *testing.T) {
	id := uuid.New()
	c := newContext()
	c.Set(ClaimsContextKey, &auth.Claims{UserID: id.String()})

	got, err := currentUserID(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	c.Set(ClaimsContextKey, &auth.Claims{UserID: "bogus"})
	_, err = currentUserID(c)
	assert.Error(t, err)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/utils"
)

const testSecret = "test-secret"

func doRequest(t *testing.T, mw []echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuth(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 42, model.RolePlayer, 15)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + mustToken(t, "other-secret"), http.StatusUnauthorized},
		{"valid token", "Bearer " + at.Token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doRequest(t, []echo.MiddlewareFunc{JWTAuth(testSecret)}, tt.header)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestJWTAuthSetsClaims(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 42, model.RoleOwner, 15)
	require.NoError(t, err)

	_, c := doRequest(t, []echo.MiddlewareFunc{JWTAuth(testSecret)}, "Bearer "+at.Token)
	// jwt.MapClaims decodes numbers as float64.
	assert.Equal(t, float64(42), c.Get("user_id"))
	assert.Equal(t, model.RoleOwner, c.Get("role"))
}

func TestRequireRole(t *testing.T) {
	ownerToken, err := utils.NewAccessToken(testSecret, 7, model.RoleOwner, 15)
	require.NoError(t, err)
	playerToken, err := utils.NewAccessToken(testSecret, 8, model.RolePlayer, 15)
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		roles      []string
		wantStatus int
	}{
		{"owner allowed", ownerToken.Token, []string{model.RoleOwner}, http.StatusOK},
		{"player blocked from owner route", playerToken.Token, []string{model.RoleOwner}, http.StatusForbidden},
		{"either role allowed", playerToken.Token, []string{model.RolePlayer, model.RoleOwner}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := []echo.MiddlewareFunc{JWTAuth(testSecret), RequireRole(tt.roles...)}
			rec, _ := doRequest(t, mw, "Bearer "+tt.token)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	// No JWTAuth ran, so no role in context.
	rec, _ := doRequest(t, []echo.MiddlewareFunc{RequireRole(model.RoleOwner)}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func mustToken(t *testing.T, secret string) string {
	t.Helper()
	at, err := utils.NewAccessToken(secret, 1, model.RolePlayer, 15)
	require.NoError(t, err)
	return at.Token
}

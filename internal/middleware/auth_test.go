package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/my", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	h := JWTAuth(testJWTSecret)(func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	return rec, captured, err
}

func TestJWTAuth_ValidToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-1", "role": "owner"})

	_, c, err := runAuth(t, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", UserID(c))
	assert.Equal(t, "owner", c.Get("role"))
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	_, _, err := runAuth(t, "")

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"}).
		SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, _, err = runAuth(t, "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestJWTAuth_MissingSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"role": "user"})

	_, _, err := runAuth(t, "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireOwner(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	t.Run("owner passes", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/owner/dashboard", nil), httptest.NewRecorder())
		c.Set("role", "owner")
		assert.NoError(t, RequireOwner()(next)(c))
	})

	t.Run("renter rejected", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/owner/dashboard", nil), httptest.NewRecorder())
		c.Set("role", "user")
		err := RequireOwner()(next)(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, he.Code)
	})
}

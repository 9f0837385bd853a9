package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proconnect-app/backend/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: 42,
		Email:  "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runMiddleware(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := JWTAuthMiddleware(testSecret)(next)(c)
	return c, err
}

func TestValidTokenSetsClaims(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(time.Hour))

	c, err := runMiddleware(t, "Bearer "+token)
	require.NoError(t, err)

	claims, ok := c.Get(ContextKeyUser).(*models.JwtCustomClaims)
	require.True(t, ok)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestMissingHeaderRejected(t *testing.T) {
	_, err := runMiddleware(t, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

func TestMalformedHeaderRejected(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(time.Hour))
	_, err := runMiddleware(t, "Token "+token)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

func TestWrongSecretRejected(t *testing.T) {
	token := signToken(t, "other-secret", time.Now().Add(time.Hour))
	_, err := runMiddleware(t, "Bearer "+token)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(-time.Minute))
	_, err := runMiddleware(t, "Bearer "+token)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

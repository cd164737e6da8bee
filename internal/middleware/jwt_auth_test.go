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

	"github.com/andreazevedo1975/OldKut-sub000/internal/models"
)

func signToken(t *testing.T, secret string, userID uint) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Email:  "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runAuth(t *testing.T, secret, authHeader string) (int, *models.JwtCustomClaims) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *models.JwtCustomClaims
	handler := JWTAuthMiddleware(secret)(func(c echo.Context) error {
		got, _ = c.Get("user").(*models.JwtCustomClaims)
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	if err != nil {
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		return he.Code, got
	}
	return rec.Code, got
}

func TestJWTAuthAcceptsConfiguredSecret(t *testing.T) {
	token := signToken(t, "configured-secret", 42)

	status, claims := runAuth(t, "configured-secret", "Bearer "+token)

	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, claims)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	token := signToken(t, "some-other-secret", 42)

	status, claims := runAuth(t, "configured-secret", "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Nil(t, claims)
}

func TestJWTAuthEmptySecretFallsBackToDefault(t *testing.T) {
	token := signToken(t, DefaultJWTSecret, 7)

	status, claims := runAuth(t, "", "Bearer "+token)

	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, claims)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestJWTAuthRejectsMalformedHeader(t *testing.T) {
	for name, header := range map[string]string{
		"missing":   "",
		"no scheme": "just-a-token",
		"wrong":     "Basic dXNlcjpwYXNz",
	} {
		t.Run(name, func(t *testing.T) {
			status, _ := runAuth(t, "configured-secret", header)
			assert.Equal(t, http.StatusUnauthorized, status)
		})
	}
}

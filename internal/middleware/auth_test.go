package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"autoclient/internal/middleware"
)

func signToken(t *testing.T, workshopID int64, key []byte, ttl time.Duration) string {
	t.Helper()
	claims := &middleware.Claims{
		WorkshopID: workshopID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AuthMiddleware())
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"workshop_id": c.GetInt64("workshop_id")})
	}
	r.GET("/clients", handler)
	r.POST("/auth/login", handler)
	r.GET("/invoices/:id/pdf", handler)
	return r
}

func do(r *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r := newProtectedRouter()
	require.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/clients", "").Code)
	require.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/clients", "Token abc").Code)
	require.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/clients", "Bearer ").Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r := newProtectedRouter()
	token := signToken(t, 7, middleware.JWTKey, time.Hour)

	w := do(r, http.MethodGet, "/clients", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"workshop_id":7`)
}

func TestAuthMiddlewareRejectsBadSignatureAndExpiry(t *testing.T) {
	r := newProtectedRouter()

	forged := signToken(t, 7, []byte("attacker-key"), time.Hour)
	require.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/clients", "Bearer "+forged).Code)

	// просрочен сильнее, чем leeway в 2 минуты
	expired := signToken(t, 7, middleware.JWTKey, -time.Hour)
	require.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/clients", "Bearer "+expired).Code)

	zeroID := signToken(t, 0, middleware.JWTKey, time.Hour)
	require.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/clients", "Bearer "+zeroID).Code)
}

func TestAuthMiddlewarePublicPaths(t *testing.T) {
	r := newProtectedRouter()

	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/auth/login", "").Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/invoices/5/pdf", "").Code)
}

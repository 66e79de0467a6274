package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptorium/internal/config"
	"scriptorium/internal/services"
)

func testAuth(t *testing.T) *services.AuthService {
	t.Helper()
	auth, err := services.NewAuthService(nil, config.AuthConfig{
		JWTSecret:     "test-secret",
		JWTAccessTTL:  "15m",
		JWTRefreshTTL: "168h",
	})
	require.NoError(t, err)
	return auth
}

func signToken(t *testing.T, secret, subject, username, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":      subject,
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func protectedRouter(auth *services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(auth), func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	r.GET("/admin", AuthRequired(auth), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/open", LoadUser(auth), func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			c.JSON(http.StatusOK, gin.H{"username": user.Username})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": nil})
	})
	return r
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	r := protectedRouter(testAuth(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsBadToken(t *testing.T) {
	r := protectedRouter(testAuth(t))

	for _, header := range []string{
		"Bearer garbage",
		"Basic dXNlcjpwYXNz",
		"Bearer " + signToken(t, "wrong-secret", "1", "mallory", "user", time.Hour),
		"Bearer " + signToken(t, "test-secret", "1", "ada", "user", -time.Hour),
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	r := protectedRouter(testAuth(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "42", "ada", "user", time.Hour))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada")
}

func TestAdminRequired(t *testing.T) {
	r := protectedRouter(testAuth(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "42", "ada", "user", time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "1", "root", "admin", time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoadUserIsOptional(t *testing.T) {
	r := protectedRouter(testAuth(t))

	// Anonymous passes through.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")

	// Garbage token also passes through, just without an identity.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer nonsense")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")

	// Valid token attaches the user.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "42", "ada", "user", time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada")
}

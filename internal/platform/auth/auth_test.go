package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

const secret = "test-secret"

func sign(t *testing.T, key string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func TestVerify(t *testing.T) {
	v := NewVerifier(secret)

	caller, err := v.Verify(sign(t, secret, Claims{UserID: "u-1", Name: "Uma"}))
	require.NoError(t, err)
	assert.Equal(t, "u-1", caller.ID)
	assert.Equal(t, "Uma", caller.Name)
	assert.Equal(t, identity.RoleUser, caller.Role)

	admin, err := v.Verify(sign(t, secret, Claims{Role: "ADMIN", StandardClaims: jwt.StandardClaims{Subject: "a-1"}}))
	require.NoError(t, err)
	assert.Equal(t, "a-1", admin.ID)
	assert.True(t, admin.IsAdmin())
}

func TestVerify_Rejects(t *testing.T) {
	v := NewVerifier(secret)
	expired := Claims{UserID: "u-1", StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()}}

	cases := map[string]string{
		"wrong secret": sign(t, "other", Claims{UserID: "u-1"}),
		"expired":      sign(t, secret, expired),
		"no subject":   sign(t, secret, Claims{Name: "ghost"}),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func newRouter(v *Verifier, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(v.Middleware())
	handlers := append(extra, func(c *gin.Context) {
		caller, ok := identity.FromContext(c.Request.Context())
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, caller.ID)
	})
	router.GET("/whoami", handlers...)
	return router
}

func TestMiddleware(t *testing.T) {
	router := newRouter(NewVerifier(secret))

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "anonymous", status: http.StatusOK, body: "anonymous"},
		{name: "valid", header: "Bearer " + sign(t, secret, Claims{UserID: "u-7"}), status: http.StatusOK, body: "u-7"},
		{name: "invalid", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", status: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code)
			if tc.body != "" {
				require.Equal(t, tc.body, rec.Body.String())
			} else {
				require.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
			}
		})
	}
}

func TestRequireIdentity(t *testing.T) {
	router := newRouter(NewVerifier(secret), RequireIdentity())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, secret, Claims{UserID: "u-9"}))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "u-9", rec.Body.String())
}

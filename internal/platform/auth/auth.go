// Package auth verifies bearer tokens and places the caller identity on the
// request context. Token issuance lives outside this service.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

// ErrInvalidToken is returned for malformed, expired or badly signed tokens.
var ErrInvalidToken = errors.New("invalid bearer token")

// Claims is the token payload: the user id, a display name and an optional role.
type Claims struct {
	UserID string `json:"id"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.StandardClaims
}

// Verifier checks HMAC-signed tokens with a shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a verifier for tokens signed with secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses the token and returns the identity it carries.
func (v *Verifier) Verify(token string) (*identity.Identity, error) {
	if v == nil || len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: verifier not configured", ErrInvalidToken)
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	id := strings.TrimSpace(claims.UserID)
	if id == "" {
		id = strings.TrimSpace(claims.Subject)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	role := identity.RoleUser
	if strings.EqualFold(claims.Role, string(identity.RoleAdmin)) {
		role = identity.RoleAdmin
	}
	return &identity.Identity{ID: id, Name: claims.Name, Role: role}, nil
}

// Middleware attaches the caller identity when a bearer token is present.
// Requests without a token continue anonymously; a present but invalid token
// is rejected with 401.
func (v *Verifier) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}
		token, ok := bearerToken(header)
		if !ok {
			apierrors.DefaultResponder.Unauthorized(c, "authorization header must use the Bearer scheme")
			c.Abort()
			return
		}
		caller, err := v.Verify(token)
		if err != nil {
			apierrors.DefaultResponder.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(identity.NewContext(c.Request.Context(), caller))
		c.Next()
	}
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identity.FromContext(c.Request.Context()); !ok {
			apierrors.DefaultResponder.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

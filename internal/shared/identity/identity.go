// Package identity carries the authenticated caller through the core and
// enforces role requirements at each entry point.
package identity

import (
	"context"
	"errors"
)

// Role enumerates caller privileges.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var (
	// ErrUnauthenticated is returned when an operation requires a caller and none was supplied.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = errors.New("caller is not allowed to perform this operation")
)

// Identity is the authenticated principal produced by the auth collaborator.
type Identity struct {
	ID   string
	Name string
	Role Role
}

// IsAdmin reports whether the identity holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Authorize checks that caller satisfies required. RoleUser is satisfied by
// any authenticated identity, RoleAdmin only by admins.
func Authorize(caller *Identity, required Role) error {
	if caller == nil || caller.ID == "" {
		return ErrUnauthenticated
	}
	switch required {
	case RoleAdmin:
		if caller.Role != RoleAdmin {
			return ErrForbidden
		}
	case RoleUser, "":
	default:
		return ErrForbidden
	}
	return nil
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the identity stored by NewContext, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok && id != nil
}

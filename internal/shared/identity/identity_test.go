package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	admin := &Identity{ID: "a1", Name: "Ada", Role: RoleAdmin}
	user := &Identity{ID: "u1", Name: "Uma", Role: RoleUser}

	require.ErrorIs(t, Authorize(nil, RoleUser), ErrUnauthenticated)
	require.ErrorIs(t, Authorize(&Identity{}, RoleUser), ErrUnauthenticated)
	require.NoError(t, Authorize(user, RoleUser))
	require.NoError(t, Authorize(admin, RoleUser))
	require.NoError(t, Authorize(admin, RoleAdmin))
	require.ErrorIs(t, Authorize(user, RoleAdmin), ErrForbidden)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)

	ctx := NewContext(context.Background(), &Identity{ID: "u1"})
	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "u1", got.ID)
}

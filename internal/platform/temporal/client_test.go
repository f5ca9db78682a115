package temporal

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
)

func TestDial_Disabled(t *testing.T) {
	c, err := Dial(DialOptions{Disabled: true}, nil)
	require.ErrorIs(t, err, ErrDisabled)
	require.Nil(t, c)
}

func TestClientOptions_AppliesDefaults(t *testing.T) {
	opts, err := ClientOptions(DialOptions{}, nil)
	require.NoError(t, err)
	require.Equal(t, client.DefaultHostPort, opts.HostPort)
	require.Equal(t, client.DefaultNamespace, opts.Namespace)
	require.NotNil(t, opts.Logger)
	require.Len(t, opts.Interceptors, 1)
}

func TestClientOptions_KeepsExplicitSettings(t *testing.T) {
	opts, err := ClientOptions(DialOptions{Address: "temporal:7233", Namespace: "storefront"}, nil)
	require.NoError(t, err)
	require.Equal(t, "temporal:7233", opts.HostPort)
	require.Equal(t, "storefront", opts.Namespace)
}

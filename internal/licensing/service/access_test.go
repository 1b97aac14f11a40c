package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePermission(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	access := &AccessService{Store: st, MainAdminID: "admin"}

	app := seedApplication(t, st, "perm-app", "alice")

	t.Run("main admin", func(t *testing.T) {
		perm, err := access.ResolvePermission(ctx, "admin", app.APIKey)
		require.NoError(t, err)
		require.True(t, perm.Granted)
		require.True(t, perm.IsMainAdmin)
	})

	t.Run("owner", func(t *testing.T) {
		perm, err := access.ResolvePermission(ctx, "alice", app.APIKey)
		require.NoError(t, err)
		require.True(t, perm.Granted)
		require.False(t, perm.IsMainAdmin)
	})

	t.Run("support grantee", func(t *testing.T) {
		supports := &SupportService{Store: st, Access: access}
		require.NoError(t, supports.AddSupport(ctx, "helper", "admin"))

		perm, err := access.ResolvePermission(ctx, "helper", app.APIKey)
		require.NoError(t, err)
		require.True(t, perm.Granted)
		require.False(t, perm.IsMainAdmin)
	})

	t.Run("stranger", func(t *testing.T) {
		perm, err := access.ResolvePermission(ctx, "mallory", app.APIKey)
		require.NoError(t, err)
		require.False(t, perm.Granted)
	})

	t.Run("unknown api key denies non-elevated actors", func(t *testing.T) {
		perm, err := access.ResolvePermission(ctx, "alice", "no-such-api")
		require.NoError(t, err)
		require.False(t, perm.Granted)
	})

	t.Run("empty api key grants only elevated actors", func(t *testing.T) {
		perm, err := access.ResolvePermission(ctx, "alice", "")
		require.NoError(t, err)
		require.False(t, perm.Granted)

		perm, err = access.ResolvePermission(ctx, "admin", "")
		require.NoError(t, err)
		require.True(t, perm.Granted)
	})
}

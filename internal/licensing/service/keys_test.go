package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &KeyService{Store: st}

	app := seedApplication(t, st, "create-key-app", "owner")

	t.Run("mints a prefixed key with defaults", func(t *testing.T) {
		key, err := svc.CreateKey(ctx, app.APIKey, "TRIAL", 30, 0)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(key, "TRIAL-"))
		require.Len(t, key, len("TRIAL-")+6)

		k, err := svc.InspectKey(ctx, app.APIKey, key)
		require.NoError(t, err)
		require.Equal(t, DefaultDeviceLimit, k.DeviceLimit)
		require.False(t, k.Used)
		require.False(t, k.Banned)
		require.Empty(t, k.HWIDs)
		require.Nil(t, k.FirstUsed)
		require.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), k.ExpiresAt, time.Minute)
	})

	t.Run("honours an explicit device limit", func(t *testing.T) {
		key, err := svc.CreateKey(ctx, app.APIKey, "TEAM", 7, 5)
		require.NoError(t, err)

		k, err := svc.InspectKey(ctx, app.APIKey, key)
		require.NoError(t, err)
		require.Equal(t, 5, k.DeviceLimit)
	})

	t.Run("unknown application", func(t *testing.T) {
		_, err := svc.CreateKey(ctx, "no-such-api", "TRIAL", 30, 1)
		require.ErrorIs(t, err, ErrAppNotFound)
	})
}

func TestListKeysNewestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &KeyService{Store: st}

	app := seedApplication(t, st, "list-key-app", "owner")

	for _, key := range []string{"TEST-OLDEST", "TEST-MIDDLE", "TEST-NEWEST"} {
		seedKey(t, st, app.APIKey, key, 1, 24*time.Hour)
	}

	keys, err := svc.ListKeys(ctx, app.APIKey)
	require.NoError(t, err)
	require.Len(t, keys, 3)
	require.Equal(t, "TEST-NEWEST", keys[0].Key)
	require.Equal(t, "TEST-OLDEST", keys[2].Key)
}

func TestBanKeyIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &KeyService{Store: st}

	app := seedApplication(t, st, "ban-key-app", "owner")
	seedKey(t, st, app.APIKey, "TEST-BANME1", 1, 24*time.Hour)

	ok, err := svc.BanKey(ctx, app.APIKey, "TEST-BANME1")
	require.NoError(t, err)
	require.True(t, ok)

	// Second ban still reports success.
	ok, err = svc.BanKey(ctx, app.APIKey, "TEST-BANME1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.BanKey(ctx, app.APIKey, "TEST-MISSNG")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDeleteKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &KeyService{Store: st}

	app := seedApplication(t, st, "del-key-app", "owner")
	seedKey(t, st, app.APIKey, "TEST-DELME1", 1, 24*time.Hour)

	ok, err := svc.DeleteKey(ctx, app.APIKey, "TEST-DELME1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.DeleteKey(ctx, app.APIKey, "TEST-DELME1")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = svc.InspectKey(ctx, app.APIKey, "TEST-DELME1")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestResetBinding(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	keySvc := &KeyService{Store: st}
	valSvc := &ValidationService{Store: st}

	app := seedApplication(t, st, "reset-key-app", "owner")
	seedKey(t, st, app.APIKey, "TEST-RESETS", 1, 24*time.Hour)

	res, err := valSvc.Validate(ctx, app.APIKey, "TEST-RESETS", "machine-a", "laptop")
	require.NoError(t, err)
	require.True(t, res.OK)

	// Limit is full; a second device is refused until the reset.
	res, err = valSvc.Validate(ctx, app.APIKey, "TEST-RESETS", "machine-b", "")
	require.NoError(t, err)
	require.False(t, res.OK)

	ok, err := keySvc.ResetBinding(ctx, app.APIKey, "TEST-RESETS")
	require.NoError(t, err)
	require.True(t, ok)

	k, err := keySvc.InspectKey(ctx, app.APIKey, "TEST-RESETS")
	require.NoError(t, err)
	require.False(t, k.Used)
	require.Empty(t, k.SystemInfo)
	require.Empty(t, k.HWIDs)
	require.Nil(t, k.FirstUsed)

	res, err = valSvc.Validate(ctx, app.APIKey, "TEST-RESETS", "machine-b", "")
	require.NoError(t, err)
	require.True(t, res.OK)
}

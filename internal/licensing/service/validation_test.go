package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/keyhaven/keyhaven/internal/licensing/domain"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &ValidationService{Store: st}

	app := seedApplication(t, st, "order-app", "owner")

	t.Run("unknown api key", func(t *testing.T) {
		res, err := svc.Validate(ctx, "no-such-api", "TEST-AAAAAA", "hwid-1", "")
		require.NoError(t, err)
		require.False(t, res.OK)
		require.Equal(t, domain.ReasonInvalidAPI, res.Reason)
	})

	t.Run("unknown key", func(t *testing.T) {
		res, err := svc.Validate(ctx, app.APIKey, "TEST-MISSNG", "hwid-1", "")
		require.NoError(t, err)
		require.False(t, res.OK)
		require.Equal(t, domain.ReasonInvalidKey, res.Reason)
	})

	t.Run("banned beats expired", func(t *testing.T) {
		// Banned and expired at once: ban must win the ordering.
		seedKey(t, st, app.APIKey, "TEST-BANEXP", 1, -time.Hour)
		ok, err := st.Keys().BanKey(ctx, app.APIKey, "TEST-BANEXP")
		require.NoError(t, err)
		require.True(t, ok)

		res, err := svc.Validate(ctx, app.APIKey, "TEST-BANEXP", "hwid-1", "")
		require.NoError(t, err)
		require.False(t, res.OK)
		require.Equal(t, domain.ReasonBanned, res.Reason)
	})

	t.Run("expired", func(t *testing.T) {
		seedKey(t, st, app.APIKey, "TEST-EXPIRD", 1, -time.Minute)

		res, err := svc.Validate(ctx, app.APIKey, "TEST-EXPIRD", "hwid-1", "")
		require.NoError(t, err)
		require.False(t, res.OK)
		require.Equal(t, domain.ReasonExpired, res.Reason)
	})
}

func TestValidateBindsFirstDevice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &ValidationService{Store: st}

	app := seedApplication(t, st, "bind-app", "owner")
	seedKey(t, st, app.APIKey, "TEST-FRESH1", 1, 24*time.Hour)

	res, err := svc.Validate(ctx, app.APIKey, "TEST-FRESH1", "machine-a", "windows 11 x64")
	require.NoError(t, err)
	require.True(t, res.OK)

	k, err := st.Keys().GetKey(ctx, app.APIKey, "TEST-FRESH1")
	require.NoError(t, err)
	require.True(t, k.Used)
	require.Equal(t, "windows 11 x64", k.SystemInfo)
	require.Equal(t, []string{"machine-a"}, k.HWIDs)
	require.NotNil(t, k.FirstUsed)
}

func TestValidateIdempotentForBoundDevice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &ValidationService{Store: st}

	app := seedApplication(t, st, "idem-app", "owner")
	seedKey(t, st, app.APIKey, "TEST-REPEAT", 1, 24*time.Hour)

	res, err := svc.Validate(ctx, app.APIKey, "TEST-REPEAT", "machine-a", "first boot")
	require.NoError(t, err)
	require.True(t, res.OK)

	first, err := st.Keys().GetKey(ctx, app.APIKey, "TEST-REPEAT")
	require.NoError(t, err)
	require.NotNil(t, first.FirstUsed)

	// Same hwid again: accepted without touching the stored record.
	res, err = svc.Validate(ctx, app.APIKey, "TEST-REPEAT", "machine-a", "second boot")
	require.NoError(t, err)
	require.True(t, res.OK)

	again, err := st.Keys().GetKey(ctx, app.APIKey, "TEST-REPEAT")
	require.NoError(t, err)
	require.Equal(t, []string{"machine-a"}, again.HWIDs)
	require.Equal(t, "first boot", again.SystemInfo)
	require.Equal(t, first.FirstUsed.Unix(), again.FirstUsed.Unix())
}

func TestValidateDeviceLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &ValidationService{Store: st}

	app := seedApplication(t, st, "limit-app", "owner")
	seedKey(t, st, app.APIKey, "TEST-TWOSLT", 2, 24*time.Hour)

	for _, hwid := range []string{"machine-a", "machine-b"} {
		res, err := svc.Validate(ctx, app.APIKey, "TEST-TWOSLT", hwid, "")
		require.NoError(t, err)
		require.True(t, res.OK)
	}

	res, err := svc.Validate(ctx, app.APIKey, "TEST-TWOSLT", "machine-c", "")
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Equal(t, domain.ReasonLimited, res.Reason)

	// Bound devices keep validating after the set fills up.
	res, err = svc.Validate(ctx, app.APIKey, "TEST-TWOSLT", "machine-a", "")
	require.NoError(t, err)
	require.True(t, res.OK)

	k, err := st.Keys().GetKey(ctx, app.APIKey, "TEST-TWOSLT")
	require.NoError(t, err)
	require.Equal(t, []string{"machine-a", "machine-b"}, k.HWIDs)
}

func TestValidateSystemInfoOverwrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &ValidationService{Store: st}

	app := seedApplication(t, st, "sysinfo-app", "owner")
	seedKey(t, st, app.APIKey, "TEST-SYSINF", 3, 24*time.Hour)

	res, err := svc.Validate(ctx, app.APIKey, "TEST-SYSINF", "machine-a", "os one")
	require.NoError(t, err)
	require.True(t, res.OK)

	first, err := st.Keys().GetKey(ctx, app.APIKey, "TEST-SYSINF")
	require.NoError(t, err)

	// A new binding overwrites system_info but first_used stays.
	res, err = svc.Validate(ctx, app.APIKey, "TEST-SYSINF", "machine-b", "os two")
	require.NoError(t, err)
	require.True(t, res.OK)

	k, err := st.Keys().GetKey(ctx, app.APIKey, "TEST-SYSINF")
	require.NoError(t, err)
	require.Equal(t, "os two", k.SystemInfo)
	require.Equal(t, first.FirstUsed.Unix(), k.FirstUsed.Unix())
}

func TestValidateConcurrentNeverExceedsLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &ValidationService{Store: st}

	const (
		deviceLimit = 3
		attempts    = 16
	)

	app := seedApplication(t, st, "race-app", "owner")
	seedKey(t, st, app.APIKey, "TEST-RACING", deviceLimit, 24*time.Hour)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			hwid := fmt.Sprintf("machine-%02d", n)
			// Busy-wait on transient contention the way the HTTP boundary
			// does; correctness of the count is what matters here.
			for {
				res, err := svc.Validate(ctx, app.APIKey, "TEST-RACING", hwid, "")
				if err != nil {
					time.Sleep(5 * time.Millisecond)
					continue
				}
				if res.OK {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
				return
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, deviceLimit, accepted)

	k, err := st.Keys().GetKey(ctx, app.APIKey, "TEST-RACING")
	require.NoError(t, err)
	require.Len(t, k.HWIDs, deviceLimit)
}

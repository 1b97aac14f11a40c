package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/keyhaven/keyhaven/internal/licensing/domain"
	"github.com/keyhaven/keyhaven/internal/licensing/store"
	"github.com/keyhaven/keyhaven/internal/licensing/store/drivers/sqlite"
	"github.com/keyhaven/keyhaven/pkg/idx"
	"github.com/keyhaven/keyhaven/pkg/keygen"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a file-backed store in a per-test temp dir. A file DSN
// rather than :memory: because pooled connections each get their own
// in-memory database, which breaks any test that spans connections.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		filepath.Join(t.TempDir(), "licensing.db"))

	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

// seedApplication inserts an application owned by ownerID and returns it.
func seedApplication(t *testing.T, s store.Store, name, ownerID string) domain.Application {
	t.Helper()

	app := domain.Application{
		ID:        idx.New().String(),
		Name:      name,
		APIKey:    keygen.NewAPIKey(),
		CreatedBy: ownerID,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Applications().CreateApplication(context.Background(), app))
	return app
}

// seedKey inserts a key for app expiring ttl from now.
func seedKey(t *testing.T, s store.Store, apiKey, key string, deviceLimit int, ttl time.Duration) domain.Key {
	t.Helper()

	now := time.Now().UTC()
	k := domain.Key{
		Key:         key,
		APIKey:      apiKey,
		Prefix:      "TEST",
		DeviceLimit: deviceLimit,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}
	require.NoError(t, s.Keys().CreateKey(context.Background(), k))
	return k
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/keyhaven/keyhaven/internal/licensing/domain"
	"github.com/keyhaven/keyhaven/internal/licensing/store"
	"github.com/keyhaven/keyhaven/pkg/keygen"
	"github.com/keyhaven/keyhaven/pkg/slogx"
)

var (
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyCollision reports that a freshly generated key string collided
	// with an existing row. The uniqueness constraint is the backstop; a
	// collision is a creation failure, never a silent overwrite.
	ErrKeyCollision = errors.New("key collision, retry creation")
)

// DefaultDeviceLimit applies when a create request omits device_limit.
const DefaultDeviceLimit = 1

// KeyService implements the key store verbs. Callers are expected to have
// passed access control for the owning application before invoking any of
// these; validation is the only ungated path and lives in ValidationService.
type KeyService struct {
	Store store.Store
}

// CreateKey mints a key for the application identified by apiKey. The key
// string is "{prefix}-{6 uppercase alphanumerics}" and expires ttlDays from
// now.
func (s *KeyService) CreateKey(ctx context.Context, apiKey, prefix string, ttlDays, deviceLimit int) (string, error) {
	log := slogx.FromContext(ctx)

	if _, err := s.Store.Applications().GetApplicationByAPIKey(ctx, apiKey); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrAppNotFound
		}
		return "", err
	}

	if deviceLimit <= 0 {
		deviceLimit = DefaultDeviceLimit
	}

	keyString, err := keygen.NewLicenseKey(prefix)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	k := domain.Key{
		Key:         keyString,
		APIKey:      apiKey,
		Prefix:      prefix,
		DeviceLimit: deviceLimit,
		ExpiresAt:   now.Add(time.Duration(ttlDays) * 24 * time.Hour),
		CreatedAt:   now,
	}

	if err := s.Store.Keys().CreateKey(ctx, k); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("license key collision", slog.String("prefix", prefix))
			return "", ErrKeyCollision
		}
		log.Error("failed to create key", slog.Any("error", err))
		return "", err
	}

	log.Info("key created",
		slog.String("key", keyString),
		slog.Int("device_limit", deviceLimit),
		slog.Time("expires_at", k.ExpiresAt),
	)
	return keyString, nil
}

// DeleteKey removes a key; true iff a matching row existed.
func (s *KeyService) DeleteKey(ctx context.Context, apiKey, key string) (bool, error) {
	return s.Store.Keys().DeleteKey(ctx, apiKey, key)
}

// BanKey marks a key banned. Idempotent: banning a banned key succeeds.
func (s *KeyService) BanKey(ctx context.Context, apiKey, key string) (bool, error) {
	return s.Store.Keys().BanKey(ctx, apiKey, key)
}

// ResetBinding clears the device set, used flag, system info and first-use
// timestamp in one transaction.
func (s *KeyService) ResetBinding(ctx context.Context, apiKey, key string) (bool, error) {
	var ok bool
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		ok, err = tx.Keys().ResetBinding(ctx, apiKey, key)
		return err
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ListKeys returns all keys of an application, newest first.
func (s *KeyService) ListKeys(ctx context.Context, apiKey string) ([]domain.Key, error) {
	return s.Store.Keys().ListKeysByAPI(ctx, apiKey)
}

// InspectKey returns the full key record or ErrKeyNotFound.
func (s *KeyService) InspectKey(ctx context.Context, apiKey, key string) (domain.Key, error) {
	k, err := s.Store.Keys().GetKey(ctx, apiKey, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Key{}, ErrKeyNotFound
		}
		return domain.Key{}, err
	}
	return k, nil
}

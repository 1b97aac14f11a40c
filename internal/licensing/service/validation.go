package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/keyhaven/keyhaven/internal/licensing/domain"
	"github.com/keyhaven/keyhaven/internal/licensing/store"
	"github.com/keyhaven/keyhaven/pkg/slogx"
)

// ValidationService is the core state machine. A key's state at validation
// time is derived from its stored fields, never stored itself, and the
// states are checked in a strict order: unknown application, unknown key,
// banned, expired, already bound, device-limit reached, new binding.
type ValidationService struct {
	Store store.Store
}

// Validate decides acceptance for (apiKey, key, hwid) and performs the
// device-binding side effect on the accept path. The whole decision runs
// inside one store transaction so it sees a single consistent snapshot of
// the key row, and the binding append re-checks the device count in the
// same statement; concurrent validations can therefore never push the
// device set past device_limit.
func (s *ValidationService) Validate(ctx context.Context, apiKey, key, hwid, systemInfo string) (domain.ValidationResult, error) {
	log := slogx.FromContext(ctx)

	var result domain.ValidationResult
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Applications().GetApplicationByAPIKey(ctx, apiKey); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				result = domain.Reject(domain.ReasonInvalidAPI)
				return nil
			}
			return err
		}

		k, err := tx.Keys().GetKey(ctx, apiKey, key)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				result = domain.Reject(domain.ReasonInvalidKey)
				return nil
			}
			return err
		}

		now := time.Now().UTC()

		switch {
		case k.Banned:
			result = domain.Reject(domain.ReasonBanned)
			return nil
		case k.Expired(now):
			result = domain.Reject(domain.ReasonExpired)
			return nil
		case k.BoundTo(hwid):
			// Repeat validation from an already-bound device is a no-op
			// success; the hwid must not be appended again.
			result = domain.Accept()
			return nil
		}

		bound, err := tx.Keys().BindDevice(ctx, key, hwid, k.DeviceLimit, now)
		if err != nil {
			return err
		}
		if !bound {
			result = domain.Reject(domain.ReasonLimited)
			return nil
		}

		if err := tx.Keys().MarkUsed(ctx, key, systemInfo, now); err != nil {
			return err
		}
		result = domain.Accept()
		return nil
	})
	if err != nil {
		log.Error("validation failed", slog.Any("error", err))
		return domain.ValidationResult{}, err
	}

	if !result.OK {
		log.Debug("key validation rejected",
			slog.String("reason", result.Reason),
			slog.String("hwid", hwid),
		)
	}
	return result, nil
}

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

var (
	ErrSupportExists   = errors.New("support grant already exists")
	ErrSupportNotFound = errors.New("support grant not found")
)

// SupportService manages delegated support grants. Only the main admin may
// add or remove grants; the main admin's own grant is implicit, never
// stored, and cannot be revoked.
type SupportService struct {
	Store  store.Store
	Access *AccessService
}

func (s *SupportService) AddSupport(ctx context.Context, userID, adminID string) error {
	log := slogx.FromContext(ctx)

	if adminID != s.Access.MainAdminID {
		return ErrPermissionDenied
	}
	if userID == s.Access.MainAdminID {
		// The admin's grant is implicit; storing it would only invite
		// someone to try revoking it.
		return ErrSupportExists
	}

	grant := domain.SupportGrant{
		UserID:  userID,
		AddedBy: adminID,
		AddedAt: time.Now().UTC(),
	}
	if err := s.Store.Supports().CreateSupport(ctx, grant); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrSupportExists
		}
		return err
	}

	log.Info("support grant added", slog.String("user", userID))
	return nil
}

func (s *SupportService) RemoveSupport(ctx context.Context, userID, adminID string) error {
	log := slogx.FromContext(ctx)

	if adminID != s.Access.MainAdminID {
		return ErrPermissionDenied
	}
	if userID == s.Access.MainAdminID {
		// Non-revocable by definition.
		return ErrPermissionDenied
	}

	ok, err := s.Store.Supports().DeleteSupport(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSupportNotFound
	}

	log.Info("support grant removed", slog.String("user", userID))
	return nil
}

func (s *SupportService) ListSupports(ctx context.Context) ([]domain.SupportGrant, error) {
	return s.Store.Supports().ListSupports(ctx)
}

package service

import (
	"context"
	"errors"

	"github.com/keyhaven/keyhaven/internal/licensing/domain"
	"github.com/keyhaven/keyhaven/internal/licensing/store"
)

const (
	// MaxApplicationsPerUser caps how many applications a regular actor may
	// own. Main admin and support grantees are exempt.
	MaxApplicationsPerUser = 10

	// UnlimitedApplications is the ceiling reported to quota-exempt actors.
	UnlimitedApplications = 999
)

// ErrPermissionDenied is returned whenever an actor lacks access to the
// operation it requested. Handlers translate it to 403.
var ErrPermissionDenied = errors.New("permission denied")

// AccessService is the single access-control component. Every mutating
// operation consults it; no handler re-derives admin checks inline.
type AccessService struct {
	Store store.Store

	// MainAdminID is the fixed identity with unconditional, non-revocable
	// full access. It holds an implicit support-equivalent grant.
	MainAdminID string
}

// ResolvePermission decides whether actorID may act on the application
// identified by apiKey (may be empty when the operation is not scoped to an
// application). Rules are evaluated in order, first match wins:
// main admin, support grantee, application creator.
func (s *AccessService) ResolvePermission(ctx context.Context, actorID, apiKey string) (domain.Permission, error) {
	if actorID == s.MainAdminID {
		return domain.Permission{Granted: true, IsMainAdmin: true}, nil
	}

	support, err := s.Store.Supports().IsSupport(ctx, actorID)
	if err != nil {
		return domain.Permission{}, err
	}
	if support {
		return domain.Permission{Granted: true}, nil
	}

	if apiKey == "" {
		return domain.Permission{}, nil
	}

	app, err := s.Store.Applications().GetApplicationByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Permission{}, nil
		}
		return domain.Permission{}, err
	}

	return domain.Permission{Granted: app.CreatedBy == actorID}, nil
}

// IsElevated reports whether actorID is the main admin or holds a support
// grant; elevated actors see every application and skip the creation quota.
func (s *AccessService) IsElevated(ctx context.Context, actorID string) (bool, error) {
	if actorID == s.MainAdminID {
		return true, nil
	}
	return s.Store.Supports().IsSupport(ctx, actorID)
}

// CountOwnedApplications returns how many applications actorID created.
func (s *AccessService) CountOwnedApplications(ctx context.Context, actorID string) (int, error) {
	return s.Store.Applications().CountByOwner(ctx, actorID)
}

// ApplicationQuota reports the owned-application count and the ceiling that
// applies to actorID. Quota-exempt actors get UnlimitedApplications.
func (s *AccessService) ApplicationQuota(ctx context.Context, actorID string) (count, limit int, err error) {
	count, err = s.CountOwnedApplications(ctx, actorID)
	if err != nil {
		return 0, 0, err
	}

	elevated, err := s.IsElevated(ctx, actorID)
	if err != nil {
		return 0, 0, err
	}
	if elevated {
		return count, UnlimitedApplications, nil
	}
	return count, MaxApplicationsPerUser, nil
}

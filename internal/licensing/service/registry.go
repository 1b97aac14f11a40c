package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/keyhaven/keyhaven/internal/licensing/domain"
	"github.com/keyhaven/keyhaven/internal/licensing/store"
	"github.com/keyhaven/keyhaven/pkg/idx"
	"github.com/keyhaven/keyhaven/pkg/keygen"
	"github.com/keyhaven/keyhaven/pkg/slogx"
)

var (
	ErrAppExists     = errors.New("application already exists")
	ErrAppNotFound   = errors.New("application not found")
	ErrQuotaExceeded = errors.New("application limit reached")
)

// RegistryService manages the application registry: creation with quota
// admission, owner-gated deletion with key cascade, and visibility-scoped
// listing.
type RegistryService struct {
	Store  store.Store
	Access *AccessService
}

// ApplicationListing is an application annotated with its live key count.
type ApplicationListing struct {
	domain.Application
	KeyCount int
}

// CreateApplication registers a new application for ownerID and returns its
// generated API key. Non-elevated owners are subject to the application
// quota; duplicate names come back as ErrAppExists even when the duplicate
// raced past the existence pre-check.
func (s *RegistryService) CreateApplication(ctx context.Context, name, ownerID string) (string, error) {
	log := slogx.FromContext(ctx)

	elevated, err := s.Access.IsElevated(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if !elevated {
		count, err := s.Access.CountOwnedApplications(ctx, ownerID)
		if err != nil {
			return "", err
		}
		if count >= MaxApplicationsPerUser {
			log.Warn("application quota reached",
				slog.String("owner", ownerID),
				slog.Int("count", count),
			)
			return "", ErrQuotaExceeded
		}
	}

	if _, err := s.Store.Applications().GetApplicationByName(ctx, name); err == nil {
		return "", ErrAppExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	app := domain.Application{
		ID:        idx.New().String(),
		Name:      name,
		APIKey:    keygen.NewAPIKey(),
		CreatedBy: ownerID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Store.Applications().CreateApplication(ctx, app); err != nil {
		// A concurrent create with the same name lands here; keep it a
		// graceful business rejection rather than a raw constraint fault.
		if errors.Is(err, store.ErrAlreadyExists) {
			return "", ErrAppExists
		}
		log.Error("failed to create application", slog.Any("error", err))
		return "", err
	}

	log.Info("application created",
		slog.String("app_id", app.ID),
		slog.String("name", name),
		slog.String("owner", ownerID),
	)
	return app.APIKey, nil
}

// DeleteApplication removes the named application. Only the main admin or
// the application's owner may delete it; keys and their device bindings go
// with it via the cascade.
func (s *RegistryService) DeleteApplication(ctx context.Context, name, actorID string) error {
	log := slogx.FromContext(ctx)

	app, err := s.Store.Applications().GetApplicationByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAppNotFound
		}
		return err
	}

	if actorID != s.Access.MainAdminID && app.CreatedBy != actorID {
		log.Warn("application delete denied",
			slog.String("name", name),
			slog.String("actor", actorID),
		)
		return ErrPermissionDenied
	}

	if _, err := s.Store.Applications().DeleteApplication(ctx, name); err != nil {
		log.Error("failed to delete application", slog.Any("error", err))
		return err
	}

	log.Info("application deleted",
		slog.String("name", name),
		slog.String("actor", actorID),
	)
	return nil
}

// ListApplications returns what actorID may see: elevated actors get every
// application, everyone else only their own. Each entry carries the live
// key count.
func (s *RegistryService) ListApplications(ctx context.Context, actorID string) ([]ApplicationListing, error) {
	elevated, err := s.Access.IsElevated(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var apps []domain.Application
	if elevated {
		apps, err = s.Store.Applications().ListApplications(ctx)
	} else {
		apps, err = s.Store.Applications().ListApplicationsByOwner(ctx, actorID)
	}
	if err != nil {
		return nil, err
	}

	listings := make([]ApplicationListing, 0, len(apps))
	for _, app := range apps {
		count, err := s.Store.Keys().CountByAPI(ctx, app.APIKey)
		if err != nil {
			return nil, err
		}
		listings = append(listings, ApplicationListing{Application: app, KeyCount: count})
	}
	return listings, nil
}

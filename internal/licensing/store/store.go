package store

import (
	"context"
	"errors"
	"time"

	"github.com/keyhaven/keyhaven/internal/licensing/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrUnavailable wraps transient connectivity failures (busy database,
	// unreachable file, bad connection). Callers at the boundary retry these
	// with bounded backoff before surfacing a service-unavailable condition.
	ErrUnavailable = errors.New("store: unavailable")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and it is the single synchronization point between concurrent
// requests: anything that reads a key row and conditionally writes it back
// must go through Tx/WithTx.
type Store interface {
	Applications() Applications
	Keys() Keys
	Supports() Supports

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Applications interface {
	// CreateApplication inserts a new application (id is provided via ULID).
	// A duplicate name or api_key maps to ErrAlreadyExists.
	CreateApplication(ctx context.Context, app domain.Application) error

	// GetApplicationByAPIKey resolves an application from its api key.
	GetApplicationByAPIKey(ctx context.Context, apiKey string) (domain.Application, error)

	// GetApplicationByName resolves an application from its unique name.
	GetApplicationByName(ctx context.Context, name string) (domain.Application, error)

	// ListApplications returns every application, newest first.
	ListApplications(ctx context.Context) ([]domain.Application, error)

	// ListApplicationsByOwner returns the applications created by ownerID,
	// newest first.
	ListApplicationsByOwner(ctx context.Context, ownerID string) ([]domain.Application, error)

	// CountByOwner feeds the application-creation quota check.
	CountByOwner(ctx context.Context, ownerID string) (int, error)

	// DeleteApplication removes an application by name and cascades to its
	// keys and their device bindings. Returns false if no row matched.
	DeleteApplication(ctx context.Context, name string) (bool, error)
}

type Keys interface {
	// CreateKey inserts a new key row. A key-string collision maps to
	// ErrAlreadyExists; it must surface as a creation failure, never as a
	// silent overwrite.
	CreateKey(ctx context.Context, k domain.Key) error

	// GetKey returns the key row scoped to its owning application, with the
	// bound device set loaded in binding order.
	GetKey(ctx context.Context, apiKey, key string) (domain.Key, error)

	// DeleteKey removes a key row; true iff a matching row existed.
	DeleteKey(ctx context.Context, apiKey, key string) (bool, error)

	// BanKey sets banned=true; idempotent. True iff a matching row exists.
	BanKey(ctx context.Context, apiKey, key string) (bool, error)

	// ResetBinding clears the device set, used, system_info and first_used.
	// Run it inside WithTx so the two statements commit atomically.
	ResetBinding(ctx context.Context, apiKey, key string) (bool, error)

	// ListKeysByAPI returns all keys of an application ordered by created_at
	// descending (newest first), device sets included.
	ListKeysByAPI(ctx context.Context, apiKey string) ([]domain.Key, error)

	// CountByAPI returns the live key count for an application.
	CountByAPI(ctx context.Context, apiKey string) (int, error)

	// BindDevice appends hwid to the key's device set only while the set is
	// still below deviceLimit, as a single conditional insert. Returns true
	// iff a slot was consumed. Two racing calls can never push the set past
	// the limit.
	BindDevice(ctx context.Context, key, hwid string, deviceLimit int, at time.Time) (bool, error)

	// MarkUsed flags the key as used, overwrites system_info and sets
	// first_used only if it was previously unset.
	MarkUsed(ctx context.Context, key, systemInfo string, at time.Time) error
}

type Supports interface {
	// CreateSupport inserts a grant; duplicate user ids map to ErrAlreadyExists.
	CreateSupport(ctx context.Context, grant domain.SupportGrant) error

	// DeleteSupport removes a grant; true iff a row existed.
	DeleteSupport(ctx context.Context, userID string) (bool, error)

	// ListSupports returns every grant, newest first.
	ListSupports(ctx context.Context) ([]domain.SupportGrant, error)

	// IsSupport reports whether userID holds an active grant.
	IsSupport(ctx context.Context, userID string) (bool, error)
}

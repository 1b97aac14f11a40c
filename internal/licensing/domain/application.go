package domain

import "time"

// Application is a registered tenant. Its APIKey is generated once at
// creation and never changes; both Name and APIKey are globally unique.
type Application struct {
	ID        string
	Name      string
	APIKey    string
	CreatedBy string // opaque owner id, trusted as-is
	CreatedAt time.Time
}

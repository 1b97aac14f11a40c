// Package licensesdk carries the wire types of the licensing action API and
// a small Go client for them. Server handlers and external consumers share
// these definitions so the contract lives in one place.
package licensesdk

import "time"

// ActionRequest is the single request shape of POST /v1/actions. The action
// field selects the operation; every other field is read only when the
// selected action requires it.
type ActionRequest struct {
	Action string `json:"action"`

	AppName     string `json:"app_name,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	API         string `json:"api,omitempty"`
	Prefix      string `json:"prefix,omitempty"`
	Days        int    `json:"days,omitempty"`
	DeviceLimit int    `json:"device_limit,omitempty"`
	Key         string `json:"key,omitempty"`
	HWID        string `json:"hwid,omitempty"`
	SystemInfo  string `json:"system_info,omitempty"`
	AdminID     string `json:"admin_id,omitempty"`
}

// Envelope is the uniform response wrapper. Business rejections come back
// with HTTP 200 and Success=false; Message carries the human-readable
// reason either way.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type CreateAppResponse struct {
	Envelope
	APIKey string `json:"api_key,omitempty"`
}

type CreateKeyResponse struct {
	Envelope
	Key string `json:"key,omitempty"`
}

// KeyRecord is the full-detail view returned by check_key.
type KeyRecord struct {
	Key         string     `json:"key"`
	Prefix      string     `json:"prefix"`
	DeviceLimit int        `json:"device_limit"`
	Banned      bool       `json:"banned"`
	Used        bool       `json:"used"`
	SystemInfo  string     `json:"system_info,omitempty"`
	HWIDs       []string   `json:"hwid"`
	FirstUsed   *time.Time `json:"first_used,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CheckKeyResponse struct {
	Envelope
	KeyRecord *KeyRecord `json:"key_record,omitempty"`
}

// KeySummary is the restricted view used by get_keys listings.
type KeySummary struct {
	Key       string    `json:"key"`
	Used      bool      `json:"used"`
	Banned    bool      `json:"banned"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	HWIDs     []string  `json:"hwid"`
}

type ListKeysResponse struct {
	Envelope
	Keys []KeySummary `json:"keys"`
}

// AppRecord is an application as seen in get_apps listings, annotated with
// its live key count.
type AppRecord struct {
	Name      string    `json:"name"`
	APIKey    string    `json:"api_key"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	KeyCount  int       `json:"key_count"`
}

type ListAppsResponse struct {
	Envelope
	Applications []AppRecord `json:"applications"`
}

type SupportRecord struct {
	UserID  string    `json:"user_id"`
	AddedBy string    `json:"added_by"`
	AddedAt time.Time `json:"added_at"`
}

type SupportsResponse struct {
	Envelope
	Supports []SupportRecord `json:"supports"`
}

type PermissionResponse struct {
	Envelope
	HasPermission bool `json:"has_permission"`
	IsAdmin       bool `json:"is_admin"`
	AppCount      int  `json:"app_count"`
	MaxApps       int  `json:"max_apps"`
}

// HealthChecks reports the state of critical dependencies for readyz.
type HealthChecks struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

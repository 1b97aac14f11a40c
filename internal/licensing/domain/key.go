package domain

import "time"

// Key is a license token owned by an Application (via APIKey). HWIDs is the
// ordered set of bound device identifiers; its size never exceeds
// DeviceLimit. FirstUsed is set exactly once, on the first successful
// binding, and only cleared by an explicit reset.
type Key struct {
	Key         string
	APIKey      string
	Prefix      string
	DeviceLimit int
	Banned      bool
	Used        bool
	SystemInfo  string // opaque, last seen on the accept path
	HWIDs       []string
	FirstUsed   *time.Time
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Expired reports whether the key is past its expiry at the given instant.
// Expiry is evaluated lazily; there is no background sweeper.
func (k Key) Expired(now time.Time) bool {
	return now.After(k.ExpiresAt)
}

// BoundTo reports whether hwid is already in the bound device set.
func (k Key) BoundTo(hwid string) bool {
	for _, h := range k.HWIDs {
		if h == hwid {
			return true
		}
	}
	return false
}

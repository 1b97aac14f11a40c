package domain

import "time"

// SupportGrant confers application-management permission over every
// application, not just ones the grantee created. The main admin identity
// has an implicit grant that is never stored and cannot be revoked.
type SupportGrant struct {
	UserID  string
	AddedBy string
	AddedAt time.Time
}

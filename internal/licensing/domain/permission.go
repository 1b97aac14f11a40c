package domain

// Permission is the capability decision returned by access control and
// consulted uniformly by every mutating operation.
type Permission struct {
	Granted     bool
	IsMainAdmin bool
}

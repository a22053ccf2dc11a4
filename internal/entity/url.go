// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which maps an alias to a long URL and carries
// its lifecycle and hit counter, the usage events recorded on every redirect,
// and the aggregated statistics computed from both.
package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAliasConflict is returned when the requested alias is already held by an active URL.
	ErrAliasConflict = errors.New("alias already in use")
	// ErrAliasSpaceExhausted is returned when no free alias could be generated within the retry budget.
	ErrAliasSpaceExhausted = errors.New("alias space exhausted")
	// ErrURLNotFound is returned when a URL cannot be found, or is soft-deleted for alias lookups.
	ErrURLNotFound = errors.New("url not found")
	// ErrAccountingFailure is returned when a usage event could not be recorded.
	ErrAccountingFailure = errors.New("usage accounting failed")
)

// State is the lifecycle state of a URL.
type State string

const (
	StateActive  State = "active"
	StateDeleted State = "deleted"
)

// URL represents a shortened URL.
type URL struct {
	ID        uuid.UUID  // ID is the opaque surrogate identifier of the URL.
	Alias     string     // Alias is the short public identifier.
	LongURL   string     // LongURL is the redirect target.
	HitCount  int64      // HitCount is the running tally of successful redirects.
	CreatedAt time.Time  // CreatedAt is the timestamp when the URL was created.
	DeletedAt *time.Time // DeletedAt is set once the URL is soft-deleted.
}

// State reports whether the URL is active or soft-deleted.
func (u *URL) State() State {
	if u.DeletedAt != nil {
		return StateDeleted
	}
	return StateActive
}

// IsActive reports whether the URL is visible to alias lookups.
func (u *URL) IsActive() bool {
	return u.State() == StateActive
}

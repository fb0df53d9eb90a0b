package v1

import (
	"github.com/gosuda/intake/internal/domain"
)

// DataStore is the persistence surface the admin API reads from.
type DataStore interface {
	Complaints() domain.ComplaintRepository
}

// SessionReader exposes live call sessions for inspection. Satisfied by the
// in-memory session store.
type SessionReader interface {
	Get(callID string) (*domain.Session, bool)
	Len() int
}

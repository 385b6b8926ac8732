package collection

import (
	"time"

	"github.com/google/uuid"
)

// IDProvider generates record identifiers.
type IDProvider interface {
	NewID() string
}

// UUIDs generates random version 4 UUIDs.
type UUIDs struct{}

func (UUIDs) NewID() string { return uuid.NewString() }

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// maxIDAttempts bounds how often FreshID re-asks a provider that keeps
// returning ids already in use.
const maxIDAttempts = 8

// FreshID asks ids for an identifier that is not yet used by any record in items.
func FreshID[T Record](ids IDProvider, items []T) (string, error) {
	for range maxIDAttempts {
		id := ids.NewID()
		if id != "" && !Contains(items, id) {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

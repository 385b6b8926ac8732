package collection

import (
	"errors"
	"strings"
)

var (
	// ErrRejected is returned when an intent fails validation. The collection
	// is left untouched.
	ErrRejected = errors.New("rejected")

	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrIDExhausted is returned when the id provider keeps producing ids
	// that are already taken.
	ErrIDExhausted = errors.New("could not allocate a unique id")
)

// Record is anything stored in a collection. IDs are unique within one collection.
type Record interface {
	RecordID() string
}

// Blank reports whether s is empty or whitespace only.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Append returns a new collection with item added at the end.
func Append[T Record](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

// Prepend returns a new collection with item added at the front.
func Prepend[T Record](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

// Update returns a new collection where the record matching id is replaced
// by fn(record). ok is false, and the collection is returned as-is, if id is absent.
func Update[T Record](items []T, id string, fn func(T) T) ([]T, bool) {
	idx := indexOf(items, id)
	if idx < 0 {
		return items, false
	}
	out := make([]T, len(items))
	copy(out, items)
	out[idx] = fn(items[idx])
	return out, true
}

// Delete returns a new collection without the record matching id. Deleting an
// absent id returns an equal collection and ok=false.
func Delete[T Record](items []T, id string) ([]T, bool) {
	idx := indexOf(items, id)
	if idx < 0 {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...), true
}

// Find returns the record with the given id.
func Find[T Record](items []T, id string) (T, bool) {
	idx := indexOf(items, id)
	if idx < 0 {
		var zero T
		return zero, false
	}
	return items[idx], true
}

// Contains reports whether a record with id exists.
func Contains[T Record](items []T, id string) bool {
	return indexOf(items, id) >= 0
}

// Retain returns a new collection holding only the records keep accepts.
func Retain[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Map returns a new collection with fn applied to every record.
func Map[T any](items []T, fn func(T) T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = fn(it)
	}
	return out
}

func indexOf[T Record](items []T, id string) int {
	for i, it := range items {
		if it.RecordID() == id {
			return i
		}
	}
	return -1
}

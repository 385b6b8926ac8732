package collection

import "strings"

// Predicate selects records for display.
type Predicate[T any] func(T) bool

// Where returns the records matching every predicate. Nil predicates are
// skipped. The input is never modified.
func Where[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
next:
	for _, it := range items {
		for _, p := range preds {
			if p != nil && !p(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// MatchText reports whether query is a case-insensitive substring of any field.
// An empty query matches everything.
func MatchText(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// CountBy tallies records by the key fn extracts.
func CountBy[T any, K comparable](items []T, fn func(T) K) map[K]int {
	out := make(map[K]int)
	for _, it := range items {
		out[fn(it)]++
	}
	return out
}

// Count returns how many records satisfy pred.
func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}

// SumBy adds up the value fn extracts from every record.
func SumBy[T any](items []T, fn func(T) int64) int64 {
	var total int64
	for _, it := range items {
		total += fn(it)
	}
	return total
}

// Package patch helps apply partial updates where a nil pointer means "keep the current value".
package patch

// Coalesce returns *ptr when set, otherwise fallback.
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}

// Changed reports whether ptr is set to something other than current.
func Changed[T comparable](ptr *T, current T) bool {
	return ptr != nil && *ptr != current
}

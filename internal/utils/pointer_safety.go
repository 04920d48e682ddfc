// Package utils holds small generic helpers shared across the SDK. Ptr and
// Value support the sparse update payloads (members.UpdateParams,
// users.UpdateParams and friends), where a nil field means "leave
// unchanged".
package utils

// Value dereferences v, returning the zero value for a nil pointer.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// Ptr returns a pointer to v, for building sparse update payloads where
// nil means "leave unchanged".
func Ptr[T any](v T) *T {
	return &v
}

package foundation

import "strings"

// Normalizer resolves loosely written names to values of T. Names match
// case-insensitively and ignore surrounding whitespace.
type Normalizer[T any] struct {
	values map[string]T
}

// NewNormalizer indexes values by their normalized names.
func NewNormalizer[T any](values map[string]T) *Normalizer[T] {
	index := make(map[string]T, len(values))
	for name, v := range values {
		index[normalizeName(name)] = v
	}
	return &Normalizer[T]{values: index}
}

// Lookup returns the value named by raw.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	v, ok := n.values[normalizeName(raw)]
	return v, ok
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

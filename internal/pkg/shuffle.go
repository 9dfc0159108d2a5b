package pkg

import "math/rand"

// Source yields uniform integers in [0, n).
type Source interface {
	Intn(n int) int
}

type globalSource struct{}

func (globalSource) Intn(n int) int {
	return rand.Intn(n) //nolint: gosec // study order, not security
}

// DefaultSource - the process-wide auto-seeded generator.
var DefaultSource Source = globalSource{} //nolint: gochecknoglobals // stateless

// Shuffle returns a Fisher-Yates permutation of a copy of items.
// The input slice is never modified.
func Shuffle[T any](items []T, src Source) []T {
	if src == nil {
		src = DefaultSource
	}

	shuffled := make([]T, len(items))
	copy(shuffled, items)

	for i := len(shuffled); i > 0; i-- {
		j := src.Intn(i)
		shuffled[i-1], shuffled[j] = shuffled[j], shuffled[i-1]
	}

	return shuffled
}

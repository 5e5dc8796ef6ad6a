package memory

import (
	"cmp"
	"slices"
	"strings"
)

type comparator[T any] func(a, b T) int

// sortBy orders items by raw sort keys ("name", "-createdAt"). Unknown keys are
// ignored; with no usable key the fallback key is used. Ties are broken by id.
func sortBy[T any](items []T, keys []string, allowed map[string]comparator[T], fallback string, id func(T) string) {
	type step struct {
		cmp  comparator[T]
		desc bool
	}

	parse := func(keys []string) []step {
		var steps []step
		for _, k := range keys {
			k = strings.TrimSpace(k)
			desc := strings.HasPrefix(k, "-")
			if c, ok := allowed[strings.TrimPrefix(k, "-")]; ok {
				steps = append(steps, step{cmp: c, desc: desc})
			}
		}
		return steps
	}

	steps := parse(keys)
	if len(steps) == 0 {
		steps = parse([]string{fallback})
	}

	slices.SortStableFunc(items, func(a, b T) int {
		for _, s := range steps {
			c := s.cmp(a, b)
			if s.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return strings.Compare(id(a), id(b))
	})
}

// floatPtrCmp orders nil before any value.
func floatPtrCmp(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}

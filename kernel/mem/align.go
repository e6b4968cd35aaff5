package mem

import "golang.org/x/exp/constraints"

// AlignDown rounds v down to a multiple of align. align must be a power of 2.
func AlignDown[T constraints.Unsigned](v, align T) T {
	return v &^ (align - 1)
}

// AlignUp rounds v up to a multiple of align. align must be a power of 2.
func AlignUp[T constraints.Unsigned](v, align T) T {
	return (v + align - 1) &^ (align - 1)
}

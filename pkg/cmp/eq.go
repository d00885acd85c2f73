package cmp

// Eq is a value which knows how to compare itself with another of the same type.
type Eq[T any] interface {
	Equal(T) bool
}

// a == b as a predicate.
func EqEq[T comparable](a, b T) bool {
	return a == b
}

// PEqual compares values behind pointers.
//
// Two nils are equal. nil and non-nil are not.
func PEqual[T Eq[T]](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return (*a).Equal(*b)
}

// PEqEq is PEqual for comparable values.
func PEqEq[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

package cmp

// SliceEq reports a and b have the same elements in the same order.
func SliceEq[T comparable](a []T, b []T) bool {
	return SliceEqWith(a, b, EqEq[T])
}

// SliceEqual is SliceEq for values having an Equal method.
func SliceEqual[T Eq[T]](a []T, b []T) bool {
	return SliceEqWith(a, b, func(x, y T) bool { return x.Equal(y) })
}

func SliceEqWith[T any, U any](a []T, b []U, pred func(a T, b U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for nth := range a {
		if !pred(a[nth], b[nth]) {
			return false
		}
	}
	return true
}

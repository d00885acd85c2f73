package utils

import "sort"

// Map applies mapper to each element of sli.
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}

// Filter keeps elements which predicator evaluates as true.
//
// The result is never nil.
func Filter[T any](vs []T, predicator func(T) bool) []T {
	ret := []T{}
	for _, v := range vs {
		if predicator(v) {
			ret = append(ret, v)
		}
	}
	return ret
}

// First finds the first element matching predicator.
//
// returns (T, true) if found. Otherwise (zero value, false).
func First[T any](sli []T, predicator func(T) bool) (T, bool) {
	if i := IndexOf(sli, predicator); 0 <= i {
		return sli[i], true
	}
	var zero T
	return zero, false
}

// IndexOf returns the index of the first element matching predicator, or -1.
func IndexOf[T any](sli []T, predicator func(T) bool) int {
	for nth, v := range sli {
		if predicator(v) {
			return nth
		}
	}
	return -1
}

// ApplyAll applies modifiers to value in order.
func ApplyAll[T any](value *T, modifier ...func(*T) *T) *T {
	for _, m := range modifier {
		value = m(value)
	}
	return value
}

// Sorted returns a sorted copy of sli. sli itself is not changed.
func Sorted[T any](sli []T, less func(a, b T) bool) []T {
	ret := make([]T, len(sli))
	copy(ret, sli)
	sort.SliceStable(ret, func(i, j int) bool { return less(ret[i], ret[j]) })
	return ret
}

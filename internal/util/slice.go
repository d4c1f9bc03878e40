package util

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

func ContainsString(s []string, e string) bool {
	return slices.Contains(s, e)
}

// Min returns the smallest value of s, or 0 for an empty slice
func Min(s []float64) float64 {
	if len(s) < 1 {
		return 0
	}
	result := s[0]
	for _, v := range s {
		if v < result {
			result = v
		}
	}
	return result
}

// Max returns the biggest value of s, or 0 for an empty slice
func Max(s []float64) float64 {
	if len(s) < 1 {
		return 0
	}
	result := s[0]
	for _, v := range s {
		if v > result {
			result = v
		}
	}
	return result
}

func SortedKeys[T constraints.Ordered, K any](input map[T]K) []T {
	result := make([]T, 0, len(input))
	for k := range input {
		result = append(result, k)
	}
	slices.Sort(result)
	return result
}

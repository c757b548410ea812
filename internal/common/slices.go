package common

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// Cap returns at most n leading elements of s and the number of elements left out.
func Cap[S ~[]E, E any](s S, n int) (S, int) {
	if n < 0 || len(s) <= n {
		return s, 0
	}

	return s[:n], len(s) - n
}

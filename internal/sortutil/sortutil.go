package sortutil

import "sort"

// StableTitleSort returns a new slice containing the input titles sorted
// lexicographically. The original slice is not modified.
func StableTitleSort(titles []string) []string {
	out := make([]string, len(titles))
	copy(out, titles)
	sort.Strings(out)
	return out
}

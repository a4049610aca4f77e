package kripke

import "iter"

// Subsets yields every subset of names ordered by ascending size: the empty
// set, then each single name, then each pair, and so on up to all names.
// Subsets of equal size come in lexicographic combination order over the
// positions in names. Each yielded slice is freshly allocated.
func Subsets(names []string) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		n := len(names)
		for r := 0; r <= n; r++ {
			idx := make([]int, r)
			for i := range idx {
				idx[i] = i
			}
			for {
				subset := make([]string, r)
				for i, j := range idx {
					subset[i] = names[j]
				}
				if !yield(subset) {
					return
				}
				if !nextCombination(idx, n) {
					break
				}
			}
		}
	}
}

// nextCombination advances idx to the next r-combination of 0..n-1 in
// lexicographic order; false once the last one has been produced.
func nextCombination(idx []int, n int) bool {
	r := len(idx)
	i := r - 1
	for i >= 0 && idx[i] == n-r+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for j := i + 1; j < r; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}

// PowerSetOfWorlds collects Subsets over the structure's world names.
// It holds 2^n slices; prefer Subsets when the caller can stop early.
func (ks *Structure) PowerSetOfWorlds() [][]string {
	out := make([][]string, 0, 1<<min(ks.Len(), 20))
	for s := range Subsets(ks.names) {
		out = append(out, s)
	}
	return out
}

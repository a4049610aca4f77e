package werewolves

import (
	"slices"
	"sort"
)

// DistinctPermutations returns every distinct ordering of the letters of s
// in lexicographic order. Repeated letters yield each ordering once.
func DistinctPermutations(s string) []string {
	rs := []rune(s)
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })

	var out []string
	for {
		out = append(out, string(rs))
		if !nextPermutation(rs) {
			return out
		}
	}
}

// nextPermutation rearranges rs into the next lexicographic ordering and
// reports false when rs was already the last one.
func nextPermutation(rs []rune) bool {
	i := len(rs) - 2
	for i >= 0 && rs[i] >= rs[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(rs) - 1
	for rs[j] <= rs[i] {
		j--
	}
	rs[i], rs[j] = rs[j], rs[i]
	slices.Reverse(rs[i+1:])
	return true
}

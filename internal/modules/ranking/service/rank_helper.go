package service

import "time"

// DenseRank assigns 1-based dense ranks to values sorted ascending. Equal
// values share a rank and the next distinct value gets the previous rank + 1.
func DenseRank(sorted []time.Duration) []int {
	ranks := make([]int, len(sorted))
	rank := 0
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			rank++
		}
		ranks[i] = rank
	}
	return ranks
}

package analysis

import "sort"

// RankByDelta sorts entries in place by Delta descending. Ties keep their
// existing (catalog) order.
func RankByDelta(entries []SensitivityEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Delta > entries[j].Delta
	})
}

// Top returns at most n leading entries of an already ranked slice.
func Top(entries []SensitivityEntry, n int) []SensitivityEntry {
	if n < 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

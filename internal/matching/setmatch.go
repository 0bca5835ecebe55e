package matching

// matchThreshold is the minimum pairwise similarity for two tags to count as
// the same item during set matching.
const matchThreshold = 0.6

// SetMatch is the result of greedily pairing a source tag set against a
// target tag set.
type SetMatch struct {
	Count   int
	Matched []string
}

// MatchSets pairs items from source against target using fuzzy similarity.
// Each source item claims its best-scoring unused target item at or above the
// threshold; a claimed target index cannot be reused. Source order decides
// who wins contested target items: first come, first served. That greedy
// tie-break is part of the scoring contract, not an optimization target.
func MatchSets(source, target []string) SetMatch {
	result := SetMatch{}
	used := make(map[int]bool, len(target))

	for _, item := range source {
		bestIdx := -1
		bestScore := 0.0

		for idx, candidate := range target {
			if used[idx] {
				continue
			}
			score := Similarity(item, candidate)
			if score >= matchThreshold && score > bestScore {
				bestIdx = idx
				bestScore = score
			}
		}

		if bestIdx >= 0 {
			used[bestIdx] = true
			result.Count++
			result.Matched = append(result.Matched, item)
		}
	}

	return result
}

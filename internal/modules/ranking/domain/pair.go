package domain

// VotingPair is one head-to-head comparison. It leaves the pending
// queue only when a vote resolves it; skips increment Skipped and keep
// it queued.
type VotingPair struct {
	ID      string `json:"id"`
	LeftID  string `json:"left_id"`
	RightID string `json:"right_id"`
	Skipped int    `json:"skipped"`
}

// PairID is symmetric: both orderings of the same two candidates
// produce one identity.
func PairID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "::" + b
}

// GeneratePairs yields every unordered combination of the given ids
// whose symmetric id is not already in existing. The outer loop walks
// insertion order, the inner loop the ids after it, so output is
// deterministic for identical input. Fewer than two ids yield nothing.
func GeneratePairs(order []string, existing map[string]struct{}) []VotingPair {
	if len(order) < 2 {
		return nil
	}
	pairs := make([]VotingPair, 0, len(order)*(len(order)-1)/2)
	for i := 0; i < len(order)-1; i++ {
		for j := i + 1; j < len(order); j++ {
			pairID := PairID(order[i], order[j])
			if _, known := existing[pairID]; known {
				continue
			}
			pairs = append(pairs, VotingPair{ID: pairID, LeftID: order[i], RightID: order[j]})
		}
	}
	return pairs
}

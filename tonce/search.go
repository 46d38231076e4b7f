package tonce

// FindValidTimestamp tries startTs, startTs+1, … up to maxAttempts
// offsets and returns the first candidate satisfying the challenge's
// divisibility predicate (spec.md §4.5's find_valid_timestamp, used by
// the miner control loop of §4.8 step 4).
func FindValidTimestamp(tonce uint8, startTs uint64, maxAttempts uint64) (uint64, bool) {
	for i := uint64(0); i < maxAttempts; i++ {
		candidate := startTs + i
		if candidateResidue(candidate, tonce) == 0 {
			return candidate, true
		}
	}
	return 0, false
}

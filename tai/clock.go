package tai

import "time"

// UTCToTAIMillis converts a UTC millisecond timestamp to TAI milliseconds
// by adding the leap-second offset in effect at that instant.
func UTCToTAIMillis(utcMillis uint64) uint64 {
	utcSeconds := int64(utcMillis / 1000)
	offset := offsetForUTCSeconds(utcSeconds)
	return utcMillis + uint64(offset)*1000
}

// TAIToUTCMillis inverts UTCToTAIMillis. It is display-only: no
// consensus-critical comparison should ever be done on its output.
func TAIToUTCMillis(taiMillis uint64) uint64 {
	taiSeconds := int64(taiMillis / 1000)
	offset := offsetForTAISeconds(taiSeconds)
	adjusted := int64(taiMillis) - offset*1000
	if adjusted < 0 {
		return 0
	}
	return uint64(adjusted)
}

// NowTAIMillis reads the system wall clock as UTC milliseconds and maps it
// into TAI. This is the default clock source for the validator, the tonce
// challenge window, and the lockout registry.
func NowTAIMillis() uint64 {
	return UTCToTAIMillis(uint64(time.Now().UnixMilli()))
}

// ValidateOrdering reports whether curr strictly follows prev, the
// invariant every consecutive block timestamp pair must satisfy.
func ValidateOrdering(prev, curr uint64) bool {
	return curr > prev
}

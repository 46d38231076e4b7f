// Package tai implements the leap-second-safe International Atomic Time
// base that all consensus-critical timestamps in Hourcoin are expressed in.
package tai

// leapEntry is one row of the IERS leap-second table: at utcThreshold
// (seconds since the Unix epoch, UTC) the TAI-UTC offset becomes
// offsetSeconds and stays there until the next entry's threshold.
type leapEntry struct {
	utcThresholdSeconds int64
	offsetSeconds        int64
}

// leapTable is sorted ascending by utcThresholdSeconds. It covers every
// IERS leap second from 1972-01-01 (offset 10, the epoch TAI-UTC was
// defined to start at) through the most recent announced leap second
// (offset 37, in effect since 2017-01-01T00:00:00Z). Values past the last
// entry use the last entry's offset; there have been no further leap
// seconds scheduled since.
var leapTable = []leapEntry{
	{utcThresholdSeconds: 63072000, offsetSeconds: 10},  // 1972-01-01
	{utcThresholdSeconds: 78796800, offsetSeconds: 11},  // 1972-07-01
	{utcThresholdSeconds: 94694400, offsetSeconds: 12},  // 1973-01-01
	{utcThresholdSeconds: 126230400, offsetSeconds: 13}, // 1974-01-01
	{utcThresholdSeconds: 157766400, offsetSeconds: 14}, // 1975-01-01
	{utcThresholdSeconds: 189302400, offsetSeconds: 15}, // 1976-01-01
	{utcThresholdSeconds: 220924800, offsetSeconds: 16}, // 1977-01-01
	{utcThresholdSeconds: 252460800, offsetSeconds: 17}, // 1978-01-01
	{utcThresholdSeconds: 283996800, offsetSeconds: 18}, // 1979-01-01
	{utcThresholdSeconds: 315532800, offsetSeconds: 19}, // 1980-01-01
	{utcThresholdSeconds: 362793600, offsetSeconds: 20}, // 1981-07-01
	{utcThresholdSeconds: 394329600, offsetSeconds: 21}, // 1982-07-01
	{utcThresholdSeconds: 425865600, offsetSeconds: 22}, // 1983-07-01
	{utcThresholdSeconds: 489024000, offsetSeconds: 23}, // 1985-07-01
	{utcThresholdSeconds: 567993600, offsetSeconds: 24}, // 1988-01-01
	{utcThresholdSeconds: 631152000, offsetSeconds: 25}, // 1990-01-01
	{utcThresholdSeconds: 662688000, offsetSeconds: 26}, // 1991-01-01
	{utcThresholdSeconds: 709948800, offsetSeconds: 27}, // 1992-07-01
	{utcThresholdSeconds: 741484800, offsetSeconds: 28}, // 1993-07-01
	{utcThresholdSeconds: 773020800, offsetSeconds: 29}, // 1994-07-01
	{utcThresholdSeconds: 820454400, offsetSeconds: 30}, // 1996-01-01
	{utcThresholdSeconds: 867715200, offsetSeconds: 31}, // 1997-07-01
	{utcThresholdSeconds: 915148800, offsetSeconds: 32}, // 1999-01-01
	{utcThresholdSeconds: 1136073600, offsetSeconds: 33}, // 2006-01-01
	{utcThresholdSeconds: 1230768000, offsetSeconds: 34}, // 2009-01-01
	{utcThresholdSeconds: 1341100800, offsetSeconds: 35}, // 2012-07-01
	{utcThresholdSeconds: 1435708800, offsetSeconds: 36}, // 2015-07-01
	{utcThresholdSeconds: 1483228800, offsetSeconds: 37}, // 2017-01-01
}

// offsetForUTCSeconds returns the TAI-UTC offset in effect at the given
// UTC second. Inputs before the first table entry (pre-1972) resolve to
// offset 0 — spec.md §7 documents this as an accepted limitation rather
// than an error.
func offsetForUTCSeconds(utcSeconds int64) int64 {
	offset := int64(0)
	for _, entry := range leapTable {
		if utcSeconds < entry.utcThresholdSeconds {
			break
		}
		offset = entry.offsetSeconds
	}
	return offset
}

// offsetForTAISeconds returns the offset in effect for a TAI second,
// scanning thresholds already shifted into the TAI timeline
// (threshold + offset), which is what tai_to_utc_ms needs to invert
// utc_to_tai_ms correctly around each leap boundary.
func offsetForTAISeconds(taiSeconds int64) int64 {
	offset := int64(0)
	for _, entry := range leapTable {
		if taiSeconds < entry.utcThresholdSeconds+entry.offsetSeconds {
			break
		}
		offset = entry.offsetSeconds
	}
	return offset
}

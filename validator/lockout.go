// Package validator owns the canonical blockchain, the current mining
// round, and the per-miner lockout registry, and arbitrates block
// submissions against them (spec.md §4.6).
package validator

// LockoutMillis is the interval a miner must wait after a successful
// admission before another of its blocks can be accepted (spec.md §3,
// glossary "Lockout").
const LockoutMillis = 3_600_000

// MinerSession is the lockout record for one miner (spec.md §3).
type MinerSession struct {
	MinerID         string
	BlockAcceptedAt uint64
	MustWaitUntil   uint64
	Active          bool
}

// NewMinerSession opens a lockout starting at now.
func NewMinerSession(minerID string, now uint64) MinerSession {
	return MinerSession{
		MinerID:         minerID,
		BlockAcceptedAt: now,
		MustWaitUntil:   now + LockoutMillis,
		Active:          true,
	}
}

// SecondsRemaining returns the whole seconds left in the lockout at now,
// or 0 if it has already expired.
func (s MinerSession) SecondsRemaining(now uint64) uint64 {
	if now >= s.MustWaitUntil {
		return 0
	}
	return (s.MustWaitUntil - now) / 1000
}

// Expired reports whether the lockout has run its course.
func (s MinerSession) Expired(now uint64) bool {
	return now >= s.MustWaitUntil
}

// Package tonce implements the "time-only-used-once" challenge: a small
// divisor derived from the previous block's timestamp that constrains
// which candidate block timestamps a miner may legally propose during the
// 60-second window following a block's admission (spec.md §4.5).
package tonce

import (
	"crypto/sha256"
	"encoding/binary"

	"hourcoin/blockchain"
)

// WindowMillis is the duration a challenge stays active after it is
// opened (spec.md §4.5).
const WindowMillis = 60_000

// Challenge is TonceChallenge from spec.md §3: the previous block's
// timestamp, the TAI ms at which the round opened, and the derived
// divisor in 1..=31.
type Challenge struct {
	PrevTimestamp uint64
	StartedAt     uint64
	Tonce         uint8
}

// New derives a Challenge from the previous block's timestamp, per
// spec.md §4.5:
//
//  1. h = SHA256(prev_timestamp bytes LE)
//  2. raw = h[31] & 0x1F
//  3. tonce = raw == 0 ? 1 : raw
func New(prevTimestamp, startedAt uint64) Challenge {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], prevTimestamp)
	h := sha256.Sum256(b[:])

	raw := h[31] & 0x1F
	tonce := raw
	if tonce == 0 {
		tonce = 1
	}

	return Challenge{
		PrevTimestamp: prevTimestamp,
		StartedAt:     startedAt,
		Tonce:         tonce,
	}
}

// Active reports whether the challenge window is still open at now.
func (c Challenge) Active(now uint64) bool {
	return now-c.StartedAt < WindowMillis
}

// SecondsRemaining returns the whole seconds left in the challenge
// window, or 0 if it has expired.
func (c Challenge) SecondsRemaining(now uint64) uint64 {
	elapsed := now - c.StartedAt
	if elapsed >= WindowMillis {
		return 0
	}
	return (WindowMillis - elapsed) / 1000
}

// candidateResidue computes as_u128_be(SHA256(candidate LE)) mod tonce.
// The tonce divisor is at most 31, so the running remainder stays small;
// reducing
// the 16-byte big-endian value byte by byte (base-256 long division)
// avoids pulling math/big into the hot path of a proof search.
func candidateResidue(candidate uint64, tonce uint8) uint8 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], candidate)
	h := sha256.Sum256(b[:])
	return asU128BEMod(blockchain.Hash(h), tonce)
}

// ValidateTimestamp reports whether candidateTs is a legal block
// timestamp under this challenge at instant now: true if the challenge
// has expired (any candidate passes trivially), or if
// as_u128_be(SHA256(candidate_ts LE)) mod tonce == 0 (spec.md §4.5).
func (c Challenge) ValidateTimestamp(candidateTs, now uint64) bool {
	if !c.Active(now) {
		return true
	}
	return candidateResidue(candidateTs, c.Tonce) == 0
}

// EffectiveTonce returns 1 once the window has expired ("the effective
// tonce is 1"), or the derived divisor while still active.
func (c Challenge) EffectiveTonce(now uint64) uint8 {
	if !c.Active(now) {
		return 1
	}
	return c.Tonce
}

// asU128BEMod mirrors spec.md's as_u128_be(hash) mod tonce directly: the
// big-endian interpretation of the hash's first 16 bytes, reduced modulo
// tonce without ever materializing a big.Int.
func asU128BEMod(hash blockchain.Hash, tonce uint8) uint8 {
	u := blockchain.U128FromHash(hash)
	var remainder uint32
	for _, byt := range u {
		remainder = (remainder*256 + uint32(byt)) % uint32(tonce)
	}
	return uint8(remainder)
}

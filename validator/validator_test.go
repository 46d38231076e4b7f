package validator

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"hourcoin/blockchain"
)

// residue reimplements as_u128_be(SHA256(candidate LE)) mod tonce
// (spec.md §4.5) so tests can search for valid timestamps without
// reaching into the tonce package's unexported helpers.
func residue(candidate uint64, tonceDivisor uint8) uint8 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], candidate)
	h := sha256.Sum256(b[:])
	u := blockchain.U128FromHash(blockchain.Hash(h))
	var remainder uint32
	for _, byt := range u {
		remainder = (remainder*256 + uint32(byt)) % uint32(tonceDivisor)
	}
	return uint8(remainder)
}

func maxDifficulty() blockchain.U128 {
	var d blockchain.U128
	for i := range d {
		d[i] = 0xFF
	}
	return d
}

// virtualClock lets tests advance simulated TAI time deterministically
// (spec.md §9: "Replace it with a controllable source in tests").
type virtualClock struct{ now uint64 }

func (c *virtualClock) Now() uint64    { return c.now }
func (c *virtualClock) Advance(d uint64) { c.now += d }

func newTestValidator(t *testing.T) (*Validator, *virtualClock) {
	t.Helper()
	clock := &virtualClock{now: 1_000_000}
	v := New(maxDifficulty(), clock.Now)

	genesis := blockchain.NewGenesisBlock(
		[]blockchain.Output{{To: "genesis", Value: 2.0, Timestamp: clock.now}},
		clock.now,
		maxDifficulty(),
	)
	if err := v.AdmitGenesis(genesis); err != nil {
		t.Fatalf("genesis admission failed: %v", err)
	}
	return v, clock
}

func mineForRound(t *testing.T, v *Validator, clock *virtualClock, minerID string) blockchain.Block {
	t.Helper()
	info := v.Info()
	round := v.CurrentRoundInfo()

	ts, ok := findAnyValidTimestamp(round.Tonce, clock.now, round.ChallengeSecondsRemaining*1000+1000)
	if !ok {
		t.Fatalf("could not find a valid timestamp for the round")
	}
	clock.now = ts

	b := blockchain.Block{
		Index:         uint32(info.BlockCount),
		Timestamp:     ts,
		PrevBlockHash: info.LastBlockHash,
		Transactions: []blockchain.Transaction{
			{Outputs: []blockchain.Output{{To: blockchain.Address(minerID), Value: 2.0, Timestamp: ts}}},
		},
	}
	b.Mine(info.Difficulty)
	return b
}

// findAnyValidTimestamp is a tiny local re-implementation of
// tonce.FindValidTimestamp to avoid importing the tonce package's
// internal residue helper directly from tests; it applies the same
// predicate through the residue helper above.
func findAnyValidTimestamp(tonceDivisor uint8, start uint64, maxAttempts uint64) (uint64, bool) {
	if tonceDivisor == 0 {
		tonceDivisor = 1
	}
	for i := uint64(0); i < maxAttempts+1000; i++ {
		candidate := start + i
		if residue(candidate, tonceDivisor) == 0 {
			return candidate, true
		}
	}
	return 0, false
}

// TestLockoutEnforcement covers spec.md §8 scenario S3.
func TestLockoutEnforcement(t *testing.T) {
	v, clock := newTestValidator(t)

	b1 := mineForRound(t, v, clock, "alice")
	result := v.SubmitBlock("alice", b1)
	if result.Kind != Accepted {
		t.Fatalf("expected first submission to be accepted, got %v: %s", result.Kind, result.Message)
	}

	b2 := mineForRound(t, v, clock, "alice")
	result2 := v.SubmitBlock("alice", b2)
	if result2.Kind != RejectedMinerInLockout {
		t.Fatalf("expected RejectedMinerInLockout, got %v: %s", result2.Kind, result2.Message)
	}
	if result2.SecondsRemaining == 0 || result2.SecondsRemaining > 3600 {
		t.Errorf("seconds remaining = %d, want roughly 3600", result2.SecondsRemaining)
	}

	clock.Advance(LockoutMillis)
	b3 := mineForRound(t, v, clock, "alice")
	result3 := v.SubmitBlock("alice", b3)
	if result3.Kind != Accepted {
		t.Fatalf("expected submission after lockout expiry to be accepted, got %v: %s", result3.Kind, result3.Message)
	}
}

// TestOneAttemptPerRound covers spec.md §8 scenario S4: the first
// submission from a miner in a round is fully validated (and, here,
// rejected on its own merits); the second, from the same miner in the
// same still-open round, is rejected purely on the tie-break rule
// without ever reaching the admission pipeline.
func TestOneAttemptPerRound(t *testing.T) {
	v, clock := newTestValidator(t)

	info := v.Info()
	round := v.CurrentRoundInfo()
	ts, ok := findAnyValidTimestamp(round.Tonce, clock.now, round.ChallengeSecondsRemaining*1000+1000)
	if !ok {
		t.Fatalf("could not find a valid timestamp")
	}
	clock.now = ts

	// A structurally malformed block: wrong index, so it fails the
	// admission pipeline at step 1 but still consumes bob's one attempt.
	malformed := blockchain.Block{
		Index:         uint32(info.BlockCount) + 99,
		Timestamp:     ts,
		PrevBlockHash: info.LastBlockHash,
		Transactions: []blockchain.Transaction{
			{Outputs: []blockchain.Output{{To: "bob", Value: 2.0, Timestamp: ts}}},
		},
	}
	malformed.Mine(info.Difficulty)

	first := v.SubmitBlock("bob", malformed)
	if first.Kind == Accepted {
		t.Fatalf("malformed block should not be accepted")
	}

	wellFormed := blockchain.Block{
		Index:         uint32(info.BlockCount),
		Timestamp:     ts,
		PrevBlockHash: info.LastBlockHash,
		Transactions: []blockchain.Transaction{
			{Outputs: []blockchain.Output{{To: "bob", Value: 2.0, Timestamp: ts}}},
		},
	}
	wellFormed.Mine(info.Difficulty)

	second := v.SubmitBlock("bob", wellFormed)
	if second.Kind != RejectedAlreadyAttempted {
		t.Fatalf("expected RejectedAlreadyAttempted without touching the chain, got %v: %s", second.Kind, second.Message)
	}
	if v.Info().BlockCount != info.BlockCount {
		t.Fatalf("chain should not have grown from the second attempt")
	}
}

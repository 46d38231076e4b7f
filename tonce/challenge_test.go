package tonce

import "testing"

// TestTonceChallenge covers spec.md §8 scenario S2.
func TestTonceChallenge(t *testing.T) {
	c := New(1_000_000_000_000, 1_000_000_000_000)
	if c.Tonce < 1 || c.Tonce > 31 {
		t.Fatalf("tonce %d out of range 1..=31", c.Tonce)
	}

	got, ok := FindValidTimestamp(c.Tonce, c.PrevTimestamp+1, 10_000)
	if !ok {
		t.Fatalf("find_valid_timestamp found nothing within 10000 attempts")
	}
	if candidateResidue(got, c.Tonce) != 0 {
		t.Fatalf("candidate %d does not satisfy the divisibility predicate", got)
	}
}

// TestTonceDivisorRange covers spec.md §8 invariant 7 across many
// previous timestamps.
func TestTonceDivisorRange(t *testing.T) {
	for prev := uint64(0); prev < 2000; prev++ {
		c := New(prev, 0)
		if c.Tonce < 1 || c.Tonce > 31 {
			t.Fatalf("prev=%d: tonce %d out of range 1..=31", prev, c.Tonce)
		}
	}
}

func TestChallengeExpiry(t *testing.T) {
	c := New(0, 1_000_000)
	if !c.Active(1_000_000 + WindowMillis - 1) {
		t.Error("challenge should still be active just under the window")
	}
	if c.Active(1_000_000 + WindowMillis) {
		t.Error("challenge should be expired exactly at the window boundary")
	}
	if !c.ValidateTimestamp(999_999_999, 1_000_000+WindowMillis) {
		t.Error("any candidate should validate once the challenge has expired")
	}
	if c.EffectiveTonce(1_000_000+WindowMillis) != 1 {
		t.Error("effective tonce should be 1 once expired")
	}
}

func TestSecondsRemaining(t *testing.T) {
	c := New(0, 0)
	if got := c.SecondsRemaining(0); got != 60 {
		t.Errorf("SecondsRemaining at start = %d, want 60", got)
	}
	if got := c.SecondsRemaining(WindowMillis); got != 0 {
		t.Errorf("SecondsRemaining at boundary = %d, want 0", got)
	}
}

package blockchain

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

// U128 is a 128-bit unsigned integer stored big-endian, used for the
// difficulty ceiling and for the big-integer interpretation of a hash's
// first 16 bytes (spec.md §3, §4.3: "as_u128_be(hash) <= difficulty").
type U128 [16]byte

// Cmp returns -1, 0, or 1 as a is numerically less than, equal to, or
// greater than b.
func (a U128) Cmp(b U128) int {
	for i := 0; i < 16; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// LessOrEqual reports whether a <= b.
func (a U128) LessOrEqual(b U128) bool {
	return a.Cmp(b) <= 0
}

// String renders the value as 32 lowercase hex characters, the wire
// encoding for difficulty_hex (spec.md §4.7, §6).
func (a U128) String() string {
	return hex.EncodeToString(a[:])
}

// MarshalJSON encodes U128 as its lowercase hex string.
func (a U128) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON parses a 32-character lowercase hex string into a U128.
func (a *U128) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("u128: expected JSON string, got %s", data)
	}
	return a.UnmarshalHex(string(data[1 : len(data)-1]))
}

// UnmarshalHex parses a 32-character lowercase hex string in place.
func (a *U128) UnmarshalHex(s string) error {
	if len(s) != 32 {
		return fmt.Errorf("u128: want 32 hex characters, got %d", len(s))
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("u128: invalid hex: %w", err)
	}
	copy(a[:], decoded)
	return nil
}

// U128FromHash interprets the first 16 bytes of a 32-byte hash as a
// big-endian U128 — the "as_u128_be" operation of spec.md §3/§4.3.
func U128FromHash(h Hash) U128 {
	var u U128
	copy(u[:], h[:16])
	return u
}

// U128FromHex parses a 32-character lowercase hex string, as used for CLI
// difficulty arguments (spec.md §6).
func U128FromHex(s string) (U128, error) {
	var u U128
	err := u.UnmarshalHex(s)
	return u, err
}

// Big returns the value as a math/big.Int, used only at boundaries (hex
// parsing edge cases, arithmetic that doesn't need to run on every hash
// comparison).
func (a U128) Big() *big.Int {
	return new(big.Int).SetBytes(a[:])
}

// Package blockchain implements Hourcoin's core consensus data model: the
// UTXO/transaction/block types, SHA-256 hashing, proof-of-work mining, and
// the blockchain admission rules (spec.md §3, §4.1, §4.3, §4.4).
package blockchain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// Hash is a 32-byte SHA-256 digest, compared and stored by byte content and
// displayed as lowercase hex (spec.md §3).
type Hash [32]byte

// ZeroHash is the all-zero hash genesis blocks use as their previous-block
// hash (spec.md §3).
var ZeroHash = Hash{}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// MarshalJSON encodes the hash as a lowercase hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.String() + `"`), nil
}

// UnmarshalJSON parses a lowercase (or mixed-case) hex string into a Hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("hash: expected JSON string, got %s", data)
	}
	s := string(data[1 : len(data)-1])
	if len(s) != 64 {
		return fmt.Errorf("hash: want 64 hex characters, got %d", len(s))
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("hash: invalid hex: %w", err)
	}
	copy(h[:], decoded)
	return nil
}

// Address is an opaque miner/wallet identifier. There is no key
// cryptography in this layer (spec.md §1 Non-goals); an Address is just a
// string.
type Address string

// canonicalEncoder accumulates a domain object's byte image field by field,
// in the fixed order the caller writes them, matching spec.md §4.1: numeric
// fields are little-endian, strings are their raw UTF-8 bytes with no
// length prefix, and no implementation ever needs to parse the image back
// out — only digest it.
type canonicalEncoder struct {
	buf []byte
}

func (e *canonicalEncoder) writeUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *canonicalEncoder) writeUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *canonicalEncoder) writeFloat64(v float64) {
	e.writeUint64(math.Float64bits(v))
}

func (e *canonicalEncoder) writeBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *canonicalEncoder) writeString(s string) {
	e.buf = append(e.buf, []byte(s)...)
}

func (e *canonicalEncoder) sum() Hash {
	return sha256.Sum256(e.buf)
}

package blockchain

// Mine searches nonce = 0, 1, 2, … for the first hash whose big-endian
// U128 interpretation of the first 16 bytes is <= difficulty. It writes
// the winning hash and nonce back into the block (spec.md §4.3).
//
// Difficulty here is inverted from Bitcoin-style "target bits": a
// numerically smaller difficulty is a harder search.
func (b *Block) Mine(difficulty U128) {
	for nonce := uint64(0); ; nonce++ {
		b.Nonce = nonce
		h := b.ComputeHash()
		if U128FromHash(h).LessOrEqual(difficulty) {
			b.Hash = h
			return
		}
	}
}

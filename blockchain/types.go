package blockchain

// Output is a single UTXO: a payment of value to an address, timestamped
// with the TAI millisecond at which it was materialized. The timestamp is
// part of the output's identity and therefore part of its hash (spec.md
// §3).
type Output struct {
	To        Address `json:"to"`
	Value     float64 `json:"value"`
	Timestamp uint64  `json:"timestamp"`
}

// Hash returns the SHA-256 of the output's canonical byte image: address
// bytes, then value, then timestamp, in that fixed order (spec.md §4.1).
func (o Output) Hash() Hash {
	var e canonicalEncoder
	e.writeString(string(o.To))
	e.writeFloat64(o.Value)
	e.writeUint64(o.Timestamp)
	return e.sum()
}

// Transaction moves value from a set of prior outputs (copied, not
// referenced) to a set of new outputs. There are no signatures in this
// layer (spec.md §1 Non-goals): admission alone establishes validity.
type Transaction struct {
	Inputs  []Output `json:"inputs"`
	Outputs []Output `json:"outputs"`
}

// Hash is SHA-256 over the concatenation of every input hash followed by
// every output hash, in order (spec.md §3).
func (t Transaction) Hash() Hash {
	var e canonicalEncoder
	for _, in := range t.Inputs {
		h := in.Hash()
		e.writeBytes(h[:])
	}
	for _, out := range t.Outputs {
		h := out.Hash()
		e.writeBytes(h[:])
	}
	return e.sum()
}

// IsCoinbase reports whether t has no inputs and its outputs sum to
// exactly 2.0 — the fee-free coinbase definition of spec.md §3, the bound
// genesis must meet exactly (validation.go's AdmitBlock enforces this for
// block 0). Non-genesis coinbase transactions are additionally allowed to
// carry transaction fees on top of the base 2.0 (spec.md §4.4 item 7,
// §9); that looser bound is checked separately in AdmitBlock.
func (t Transaction) IsCoinbase() bool {
	return len(t.Inputs) == 0 && SumOutputs(t.Outputs) == 2.0
}

// SumOutputs adds up the value of every output.
func SumOutputs(outputs []Output) float64 {
	var total float64
	for _, o := range outputs {
		total += o.Value
	}
	return total
}

// MaxTimestamp returns the largest timestamp among outputs, or 0 if empty.
func MaxTimestamp(outputs []Output) uint64 {
	var max uint64
	for _, o := range outputs {
		if o.Timestamp > max {
			max = o.Timestamp
		}
	}
	return max
}

// MinTimestamp returns the smallest timestamp among outputs. Callers only
// invoke this on non-empty slices (every transaction has at least one
// output).
func MinTimestamp(outputs []Output) uint64 {
	if len(outputs) == 0 {
		return 0
	}
	min := outputs[0].Timestamp
	for _, o := range outputs[1:] {
		if o.Timestamp < min {
			min = o.Timestamp
		}
	}
	return min
}

// Block is one link of the chain: an index, a TAI-ms timestamp, the
// proof-of-work nonce, the previous block's hash, and the ordered
// transaction list. Hash is populated by mining, not by the constructor
// (spec.md §3, §4.3).
type Block struct {
	Index         uint32        `json:"index"`
	Timestamp     uint64        `json:"timestamp"`
	Hash          Hash          `json:"hash"`
	PrevBlockHash Hash          `json:"prev_block_hash"`
	Nonce         uint64        `json:"nonce"`
	Transactions  []Transaction `json:"transactions"`
}

// ComputeHash returns the SHA-256 of the block's canonical byte image:
// index (LE u32), timestamp (LE u64 — see DESIGN.md's u128 note), the
// prev_block_hash bytes, nonce (LE u64), then every transaction hash in
// order (spec.md §3).
func (b Block) ComputeHash() Hash {
	var e canonicalEncoder
	e.writeUint32(b.Index)
	e.writeUint64(b.Timestamp)
	e.writeBytes(b.PrevBlockHash[:])
	e.writeUint64(b.Nonce)
	for _, tx := range b.Transactions {
		h := tx.Hash()
		e.writeBytes(h[:])
	}
	return e.sum()
}

// Blockchain is the append-only block vector plus the live UTXO set and
// the current difficulty ceiling (spec.md §3).
type Blockchain struct {
	Blocks     []Block
	UTXOs      map[Hash]Output
	Difficulty U128
}

// NewBlockchain returns an empty chain at the given starting difficulty.
// Genesis is admitted separately via AdmitBlock, matching spec.md §9's
// resolution to build genesis on demand rather than as a package-level
// side effect.
func NewBlockchain(difficulty U128) *Blockchain {
	return &Blockchain{
		Blocks:     nil,
		UTXOs:      make(map[Hash]Output),
		Difficulty: difficulty,
	}
}

// Len returns the number of admitted blocks.
func (bc *Blockchain) Len() int {
	return len(bc.Blocks)
}

// Last returns the most recently admitted block and true, or the zero
// value and false if the chain is empty.
func (bc *Blockchain) Last() (Block, bool) {
	if len(bc.Blocks) == 0 {
		return Block{}, false
	}
	return bc.Blocks[len(bc.Blocks)-1], true
}

// HasUTXO reports whether the exact output, identified by its hash, is
// still unspent.
func (bc *Blockchain) HasUTXO(h Hash) bool {
	_, ok := bc.UTXOs[h]
	return ok
}

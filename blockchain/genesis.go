package blockchain

// NewGenesisBlock builds and mines block 0 from a caller-supplied coinbase
// output split. spec.md §3 lets that split land on an arbitrary set of
// addresses, but the total must still come to exactly 2.0 — AdmitBlock
// checks that with Transaction.IsCoinbase when the caller admits the
// result. Genesis is exempt only from the ordinary admission pipeline's
// parent-linkage checks, so it is constructed explicitly here rather than
// produced as a package-level side effect (see DESIGN.md's Open Question
// ledger).
func NewGenesisBlock(coinbaseOutputs []Output, timestamp uint64, difficulty U128) Block {
	coinbase := Transaction{
		Inputs:  nil,
		Outputs: coinbaseOutputs,
	}
	b := Block{
		Index:         0,
		Timestamp:     timestamp,
		PrevBlockHash: ZeroHash,
		Transactions:  []Transaction{coinbase},
	}
	b.Mine(difficulty)
	return b
}

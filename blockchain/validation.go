package blockchain

import "fmt"

// AdmitError identifies which admission check of spec.md §4.4 failed. The
// validator's state machine (see validator/submission.go) maps each kind
// to a distinct ValidationResult variant.
type AdmitError struct {
	Kind    AdmitErrorKind
	Message string
}

func (e *AdmitError) Error() string {
	return e.Message
}

// AdmitErrorKind enumerates the fail-fast checks of update_with_block, in
// the order spec.md §4.4 lists them.
type AdmitErrorKind int

const (
	ErrIndexMismatch AdmitErrorKind = iota
	ErrDifficultyNotMet
	ErrChainLinkage
	ErrTimestampOrder
	ErrHashMismatch
	ErrEmptyTransactions
	ErrMissingCoinbase
	ErrInputNotFound
	ErrDuplicateInput
	ErrInsufficientInput
	ErrTimestampInversion
	ErrBadCoinbaseAmount
)

func admitErr(kind AdmitErrorKind, format string, args ...interface{}) *AdmitError {
	return &AdmitError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AdmitBlock enforces, in order and fail-fast, the checks of spec.md
// §4.4's update_with_block. On success it removes every spent input from
// the UTXO set, inserts every output (including coinbase outputs), and
// appends the block.
func (bc *Blockchain) AdmitBlock(b Block) error {
	// 1. index == len(chain)
	if b.Index != uint32(len(bc.Blocks)) {
		return admitErr(ErrIndexMismatch, "block index %d does not match expected %d", b.Index, len(bc.Blocks))
	}

	// 2. as_u128_be(b.hash) <= difficulty
	if !U128FromHash(b.Hash).LessOrEqual(bc.Difficulty) {
		return admitErr(ErrDifficultyNotMet, "block hash %s exceeds difficulty %s", b.Hash, bc.Difficulty)
	}

	// 3. chain linkage and timestamp ordering
	if b.Index == 0 {
		if b.PrevBlockHash != ZeroHash {
			return admitErr(ErrChainLinkage, "genesis block must reference the zero hash")
		}
	} else {
		last, ok := bc.Last()
		if !ok {
			return admitErr(ErrChainLinkage, "chain is empty but block is not genesis")
		}
		if b.PrevBlockHash != last.Hash {
			return admitErr(ErrChainLinkage, "block prev_block_hash does not match chain tip")
		}
		if !(b.Timestamp > last.Timestamp) {
			return admitErr(ErrTimestampOrder, "block timestamp %d does not strictly follow tip timestamp %d", b.Timestamp, last.Timestamp)
		}
	}

	// 4. hash must equal the recomputed hash (detects tampering)
	if b.Hash != b.ComputeHash() {
		return admitErr(ErrHashMismatch, "block hash does not match its recomputed bytes")
	}

	// 5. non-empty transactions, first is coinbase
	if len(b.Transactions) == 0 {
		return admitErr(ErrEmptyTransactions, "block carries no transactions")
	}
	coinbaseTx := b.Transactions[0]
	if len(coinbaseTx.Inputs) != 0 {
		return admitErr(ErrMissingCoinbase, "first transaction is not coinbase")
	}

	// 6. every non-coinbase transaction's inputs/outputs
	var totalFees float64
	for i, tx := range b.Transactions[1:] {
		txIndex := i + 1

		seen := make(map[Hash]struct{}, len(tx.Inputs))
		for _, in := range tx.Inputs {
			h := in.Hash()
			if _, dup := seen[h]; dup {
				return admitErr(ErrDuplicateInput, "transaction %d double-spends input %s within itself", txIndex, h)
			}
			seen[h] = struct{}{}
			if !bc.HasUTXO(h) {
				return admitErr(ErrInputNotFound, "transaction %d references unknown or already-spent input %s", txIndex, h)
			}
		}

		inputSum := SumOutputs(tx.Inputs)
		outputSum := SumOutputs(tx.Outputs)
		if inputSum < outputSum {
			return admitErr(ErrInsufficientInput, "transaction %d spends more than its inputs provide", txIndex)
		}
		if len(tx.Outputs) > 0 && MinTimestamp(tx.Outputs) < MaxTimestamp(tx.Inputs) {
			return admitErr(ErrTimestampInversion, "transaction %d output predates its newest input", txIndex)
		}

		totalFees += inputSum - outputSum
	}

	// 7. coinbase amount: genesis must split exactly 2.0 across its outputs
	// (spec.md §3), every later block may add fees on top (spec.md §4.4
	// item 7, §9).
	if b.Index == 0 {
		if !coinbaseTx.IsCoinbase() {
			return admitErr(ErrBadCoinbaseAmount, "genesis coinbase pays %.8f, want exactly 2.0", SumOutputs(coinbaseTx.Outputs))
		}
	} else {
		coinbaseOut := SumOutputs(coinbaseTx.Outputs)
		if coinbaseOut > 2.0+totalFees {
			return admitErr(ErrBadCoinbaseAmount, "coinbase pays %.8f, exceeding base 2.0 plus fees %.8f", coinbaseOut, totalFees)
		}
	}

	// Apply: remove spent inputs, insert every output, append the block.
	for _, tx := range b.Transactions[1:] {
		for _, in := range tx.Inputs {
			delete(bc.UTXOs, in.Hash())
		}
	}
	for _, tx := range b.Transactions {
		for _, out := range tx.Outputs {
			bc.UTXOs[out.Hash()] = out
		}
	}
	bc.Blocks = append(bc.Blocks, b)
	return nil
}

// UpdateDifficulty applies a new difficulty ceiling. Difficulty is
// numerically inverted (lower = harder); an update is only accepted when
// it is easier or unchanged (spec.md §4.4, §9).
func (bc *Blockchain) UpdateDifficulty(next U128) error {
	if next.Cmp(bc.Difficulty) < 0 {
		return fmt.Errorf("difficulty update from %s to %s would make mining harder", bc.Difficulty, next)
	}
	bc.Difficulty = next
	return nil
}

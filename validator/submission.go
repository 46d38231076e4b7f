package validator

import "hourcoin/blockchain"

// ResultKind is the closed set of outcomes validate_block_submission can
// return (spec.md §4.6).
type ResultKind int

const (
	Accepted ResultKind = iota
	RejectedMinerInLockout
	RejectedAlreadyAttempted
	RejectedInvalidTimestamp
	RejectedTonceChallenge
	RejectedIndexMismatch
	RejectedDifficultyNotMet
	RejectedChainLinkage
	RejectedHashMismatch
	RejectedEmptyTransactions
	RejectedMissingCoinbase
	RejectedInputNotFound
	RejectedDuplicateInput
	RejectedInsufficientInput
	RejectedTimestampInversion
	RejectedBadCoinbaseAmount
)

// Result is the outcome of one submission attempt.
type Result struct {
	Kind             ResultKind
	Message          string
	SecondsRemaining uint64 // populated only for RejectedMinerInLockout
}

// admitErrKindToResult maps a blockchain.AdmitErrorKind (§4.4) onto the
// corresponding Rejected* variant of §4.6 step 6.
var admitErrKindToResult = map[blockchain.AdmitErrorKind]ResultKind{
	blockchain.ErrIndexMismatch:      RejectedIndexMismatch,
	blockchain.ErrDifficultyNotMet:   RejectedDifficultyNotMet,
	blockchain.ErrChainLinkage:       RejectedChainLinkage,
	blockchain.ErrTimestampOrder:     RejectedChainLinkage,
	blockchain.ErrHashMismatch:       RejectedHashMismatch,
	blockchain.ErrEmptyTransactions:  RejectedEmptyTransactions,
	blockchain.ErrMissingCoinbase:    RejectedMissingCoinbase,
	blockchain.ErrInputNotFound:      RejectedInputNotFound,
	blockchain.ErrDuplicateInput:     RejectedDuplicateInput,
	blockchain.ErrInsufficientInput:  RejectedInsufficientInput,
	blockchain.ErrTimestampInversion: RejectedTimestampInversion,
	blockchain.ErrBadCoinbaseAmount:  RejectedBadCoinbaseAmount,
}

// MaxTimestampSkewMillis bounds how far a submitted block's timestamp may
// drift from the validator's own clock (spec.md §4.6 step 4).
const MaxTimestampSkewMillis = 500

// SubmitBlock runs validate_block_submission (spec.md §4.6) against b on
// behalf of minerID: lockout check, one-attempt-per-round tie-break,
// timestamp skew, tonce challenge, then the full admission pipeline. On
// acceptance it opens a lockout for minerID and starts a new round.
func (v *Validator) SubmitBlock(minerID string, b blockchain.Block) Result {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()

	// 1. active, unexpired lockout
	if session, ok := v.lockouts[minerID]; ok && session.Active && !session.Expired(now) {
		return Result{
			Kind:             RejectedMinerInLockout,
			Message:          "miner is in an active lockout",
			SecondsRemaining: session.SecondsRemaining(now),
		}
	}

	// 2. one attempt per miner per round
	if _, attempted := v.roundAttempts[minerID]; attempted {
		return Result{Kind: RejectedAlreadyAttempted, Message: "miner already attempted this round"}
	}

	// 3. insert into round_attempts regardless of later outcome
	v.roundAttempts[minerID] = struct{}{}

	// 4. timestamp skew
	if absDiff(b.Timestamp, now) > MaxTimestampSkewMillis {
		return Result{Kind: RejectedInvalidTimestamp, Message: "block timestamp too far from validator clock"}
	}

	// 5. tonce challenge
	if v.currentRound == nil || !v.currentRound.Challenge.ValidateTimestamp(b.Timestamp, now) {
		return Result{Kind: RejectedTonceChallenge, Message: "block timestamp fails the tonce challenge"}
	}

	// 6. full admission pipeline
	if err := v.chain.AdmitBlock(b); err != nil {
		if admitErr, ok := err.(*blockchain.AdmitError); ok {
			if kind, known := admitErrKindToResult[admitErr.Kind]; known {
				return Result{Kind: kind, Message: admitErr.Error()}
			}
		}
		return Result{Kind: RejectedChainLinkage, Message: err.Error()}
	}

	// 7. accepted: open the lockout, start a new round
	v.lockouts[minerID] = NewMinerSession(minerID, now)
	v.startNewRoundLocked()
	return Result{Kind: Accepted, Message: "block accepted"}
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

package validator

import (
	"sync"

	"hourcoin/blockchain"
	"hourcoin/tai"
	"hourcoin/tonce"
)

// Clock abstracts the TAI clock so tests can drive lockout and window
// scenarios with virtual time (spec.md §9's "clock trust" note). New
// uses tai.NowTAIMillis when given a nil Clock.
type Clock func() uint64

// Validator is the single, mutex-guarded aggregate every connection
// handler borrows briefly (spec.md §4.6, §5). It plays the role
// `gocuria/blockchain/store/memory.go`'s MemoryChainStore played for the
// account-model chain, generalized to also own the round and lockout
// state that has no equivalent there.
type Validator struct {
	mu sync.Mutex

	chain         *blockchain.Blockchain
	currentRound  *Round
	lockouts      map[string]MinerSession
	roundAttempts map[string]struct{}

	now Clock
}

// New creates a Validator over an empty chain at the given starting
// difficulty. now defaults to tai.NowTAIMillis when nil.
func New(difficulty blockchain.U128, now Clock) *Validator {
	if now == nil {
		now = tai.NowTAIMillis
	}
	return &Validator{
		chain:         blockchain.NewBlockchain(difficulty),
		lockouts:      make(map[string]MinerSession),
		roundAttempts: make(map[string]struct{}),
		now:           now,
	}
}

// AdmitGenesis installs the genesis block and opens the first round. It
// must be called once, before the server starts accepting connections.
func (v *Validator) AdmitGenesis(genesis blockchain.Block) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.chain.AdmitBlock(genesis); err != nil {
		return err
	}
	v.startNewRoundLocked()
	return nil
}

// startNewRoundLocked creates a fresh Challenge from the chain tip's
// timestamp (or 0 pre-genesis), clears round_attempts, and reaps expired
// lockouts (spec.md §4.6's start_new_round). Callers must hold v.mu.
func (v *Validator) startNewRoundLocked() {
	now := v.now()

	var prevTimestamp uint64
	var prevHash blockchain.Hash
	var expectedIndex uint32
	if last, ok := v.chain.Last(); ok {
		prevTimestamp = last.Timestamp
		prevHash = last.Hash
		expectedIndex = last.Index + 1
	}

	v.currentRound = &Round{
		Challenge:     tonce.New(prevTimestamp, now),
		PrevBlockHash: prevHash,
		ExpectedIndex: expectedIndex,
	}
	v.roundAttempts = make(map[string]struct{})

	for id, session := range v.lockouts {
		if session.Expired(now) {
			delete(v.lockouts, id)
		}
	}
}

// BlockchainInfo is a snapshot for the GetBlockchainInfo wire response.
type BlockchainInfo struct {
	BlockCount    int
	Difficulty    blockchain.U128
	LastBlockHash blockchain.Hash
}

// Info returns a point-in-time snapshot of the chain's public state.
func (v *Validator) Info() BlockchainInfo {
	v.mu.Lock()
	defer v.mu.Unlock()

	info := BlockchainInfo{
		BlockCount: v.chain.Len(),
		Difficulty: v.chain.Difficulty,
	}
	if last, ok := v.chain.Last(); ok {
		info.LastBlockHash = last.Hash
	}
	return info
}

// RoundInfo is a snapshot for the GetRoundInfo wire response.
type RoundInfo struct {
	RoundStart                uint64
	Tonce                     uint8
	ChallengeSecondsRemaining uint64
	AttemptedMiners           []string
	ActiveLockouts            int
	Difficulty                blockchain.U128
}

// CurrentRoundInfo returns a snapshot of the open round.
func (v *Validator) CurrentRoundInfo() RoundInfo {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	info := RoundInfo{Difficulty: v.chain.Difficulty}
	if v.currentRound != nil {
		info.RoundStart = v.currentRound.Challenge.StartedAt
		info.Tonce = v.currentRound.Challenge.Tonce
		info.ChallengeSecondsRemaining = v.currentRound.Challenge.SecondsRemaining(now)
	}
	for id := range v.roundAttempts {
		info.AttemptedMiners = append(info.AttemptedMiners, id)
	}
	for _, session := range v.lockouts {
		if session.Active && !session.Expired(now) {
			info.ActiveLockouts++
		}
	}
	return info
}

// LockoutStatus is a snapshot for the CheckLockout wire response.
type LockoutStatus struct {
	Locked           bool
	SecondsRemaining uint64
}

// CheckLockout reports whether minerID currently has an unexpired
// lockout.
func (v *Validator) CheckLockout(minerID string) LockoutStatus {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	session, ok := v.lockouts[minerID]
	if !ok || !session.Active || session.Expired(now) {
		return LockoutStatus{Locked: false}
	}
	return LockoutStatus{Locked: true, SecondsRemaining: session.SecondsRemaining(now)}
}

// UpdateDifficulty applies a new, easier-or-equal difficulty ceiling
// (spec.md §4.4).
func (v *Validator) UpdateDifficulty(next blockchain.U128) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.chain.UpdateDifficulty(next)
}

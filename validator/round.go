package validator

import (
	"hourcoin/blockchain"
	"hourcoin/tonce"
)

// Round bundles the current tonce challenge with the previous block hash
// and the index the next block must carry (spec.md §3, §4.6).
type Round struct {
	Challenge     tonce.Challenge
	PrevBlockHash blockchain.Hash
	ExpectedIndex uint32
}

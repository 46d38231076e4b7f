// Package wire implements the validator-miner protocol: an externally
// tagged JSON message set (spec.md §4.7) exchanged over length-prefixed
// frames (framing.go). A message is either a bare string naming a
// fieldless variant ("GetBlockchainInfo") or a single-key object naming
// every other variant ({"SubmitBlock": {...}}) — the default serde
// representation of the reference implementation's message enums, not
// the {type,payload} envelope a hand-rolled Go protocol would reach for.
// Envelope's json.RawMessage-keyed struct is grounded on
// gocuria/p2p/messages.go's {Type, Payload json.RawMessage} shape,
// generalized from a peer-gossip message set to Hourcoin's
// request/response pairs and given custom (Un)MarshalJSON methods to
// produce the externally tagged wire shape instead of that struct's
// default field-tag encoding.
package wire

import (
	"encoding/json"
	"fmt"

	"hourcoin/blockchain"
)

// MessageType names one of the wire protocol's message variants.
type MessageType string

const (
	TypeGetRoundInfo      MessageType = "GetRoundInfo"
	TypeSubmitBlock       MessageType = "SubmitBlock"
	TypeCheckLockout      MessageType = "CheckLockout"
	TypeGetBlockchainInfo MessageType = "GetBlockchainInfo"

	TypeRoundInfo      MessageType = "RoundInfo"
	TypeBlockResult    MessageType = "BlockResult"
	TypeLockoutStatus  MessageType = "LockoutStatus"
	TypeBlockchainInfo MessageType = "BlockchainInfo"
	TypeError          MessageType = "Error"
)

// Envelope is one message of the wire's externally tagged set: a type
// tag and the raw JSON payload carried under it, decoded once the tag
// is known. Its JSON shape comes from MarshalJSON/UnmarshalJSON, not
// struct tags — see those for the two variant shapes.
type Envelope struct {
	Type    MessageType
	Payload json.RawMessage
}

// unitMessageTypes are the variants with no payload fields. Rust serde's
// default derive serializes a fieldless enum variant as a bare string
// equal to the variant name rather than a single-key object; Envelope
// mirrors that so this validator's frames parse against any other
// implementation of the protocol (spec.md §4.7, grounded on
// original_source/src/network/protocol.rs's MinerMessage::GetBlockchainInfo,
// the one unit variant in the message set).
var unitMessageTypes = map[MessageType]bool{
	TypeGetBlockchainInfo: true,
}

// MarshalJSON renders the envelope externally tagged: a unit variant as
// its bare type name ("GetBlockchainInfo"), every other variant as a
// single-key object ({"SubmitBlock": {...}}).
func (e Envelope) MarshalJSON() ([]byte, error) {
	if unitMessageTypes[e.Type] {
		return json.Marshal(e.Type)
	}
	return json.Marshal(map[MessageType]json.RawMessage{e.Type: e.Payload})
}

// UnmarshalJSON accepts either externally tagged shape: a bare string
// naming a unit variant, or a single-key object naming every other
// variant. A JSON string never unmarshals into the map below and vice
// versa, so trying the string case first is enough to disambiguate
// without consulting unitMessageTypes.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var name MessageType
	if err := json.Unmarshal(data, &name); err == nil {
		e.Type = name
		e.Payload = json.RawMessage("{}")
		return nil
	}

	var obj map[MessageType]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("wire: decode envelope: %w", err)
	}
	if len(obj) != 1 {
		return fmt.Errorf("wire: envelope object carries %d keys, want exactly 1", len(obj))
	}
	for k, v := range obj {
		e.Type, e.Payload = k, v
	}
	return nil
}

// NewEnvelope marshals payload and wraps it with its type tag.
func NewEnvelope(msgType MessageType, payload interface{}) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("wire: marshal %s payload: %w", msgType, err)
	}
	return Envelope{Type: msgType, Payload: body}, nil
}

// Decode unmarshals the envelope's payload into out.
func (e Envelope) Decode(out interface{}) error {
	if err := json.Unmarshal(e.Payload, out); err != nil {
		return fmt.Errorf("wire: unmarshal %s payload: %w", e.Type, err)
	}
	return nil
}

// --- Miner -> Validator request payloads ---

// GetRoundInfoRequest carries no fields beyond the requesting miner's ID.
type GetRoundInfoRequest struct {
	MinerID string `json:"miner_id"`
}

// SubmitBlockRequest submits a mined block on behalf of MinerID.
type SubmitBlockRequest struct {
	MinerID string       `json:"miner_id"`
	Block   BlockPayload `json:"block"`
}

// CheckLockoutRequest asks whether MinerID currently has an active
// lockout.
type CheckLockoutRequest struct {
	MinerID string `json:"miner_id"`
}

// GetBlockchainInfoRequest carries no fields.
type GetBlockchainInfoRequest struct{}

// --- Validator -> Miner response payloads ---

// RoundInfoResponse mirrors validator.RoundInfo over the wire.
type RoundInfoResponse struct {
	RoundStart                uint64   `json:"round_start"`
	Tonce                     uint8    `json:"tonce"`
	ChallengeSecondsRemaining uint64   `json:"challenge_seconds_remaining"`
	AttemptedMiners           []string `json:"attempted_miners"`
	ActiveLockouts            int      `json:"active_lockouts"`
	DifficultyHex             string   `json:"difficulty_hex"`
}

// BlockResultResponse reports the outcome of a SubmitBlock request.
type BlockResultResponse struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

// LockoutStatusResponse mirrors validator.LockoutStatus over the wire.
type LockoutStatusResponse struct {
	Locked           bool   `json:"locked"`
	SecondsRemaining uint64 `json:"seconds_remaining"`
}

// BlockchainInfoResponse mirrors validator.BlockchainInfo over the wire.
type BlockchainInfoResponse struct {
	BlockCount    int    `json:"block_count"`
	DifficultyHex string `json:"difficulty_hex"`
	LastHashHex   string `json:"last_hash_hex"`
}

// ErrorResponse is sent for protocol errors before the connection is
// closed (spec.md §4.6, §7).
type ErrorResponse struct {
	Message string `json:"message"`
}

// --- Block wire representation ---

// OutputPayload is the wire form of blockchain.Output. Value is a plain
// JSON number carrying the f64 (spec.md §4.7).
type OutputPayload struct {
	To        string  `json:"to"`
	Value     float64 `json:"value"`
	Timestamp uint64  `json:"timestamp"`
}

// TransactionPayload is the wire form of blockchain.Transaction.
type TransactionPayload struct {
	Inputs  []OutputPayload `json:"inputs"`
	Outputs []OutputPayload `json:"outputs"`
}

// BlockPayload is the wire form of blockchain.Block: hash and
// prev_block_hash serialize as lowercase hex strings, every other number
// as a JSON number (spec.md §4.7).
type BlockPayload struct {
	Index         uint32               `json:"index"`
	Timestamp     uint64               `json:"timestamp"`
	Hash          string               `json:"hash"`
	PrevBlockHash string               `json:"prev_block_hash"`
	Nonce         uint64               `json:"nonce"`
	Transactions  []TransactionPayload `json:"transactions"`
}

func outputToPayload(o blockchain.Output) OutputPayload {
	return OutputPayload{To: string(o.To), Value: o.Value, Timestamp: o.Timestamp}
}

func outputFromPayload(p OutputPayload) blockchain.Output {
	return blockchain.Output{To: blockchain.Address(p.To), Value: p.Value, Timestamp: p.Timestamp}
}

func transactionToPayload(t blockchain.Transaction) TransactionPayload {
	inputs := make([]OutputPayload, len(t.Inputs))
	for i, in := range t.Inputs {
		inputs[i] = outputToPayload(in)
	}
	outputs := make([]OutputPayload, len(t.Outputs))
	for i, out := range t.Outputs {
		outputs[i] = outputToPayload(out)
	}
	return TransactionPayload{Inputs: inputs, Outputs: outputs}
}

func transactionFromPayload(p TransactionPayload) blockchain.Transaction {
	inputs := make([]blockchain.Output, len(p.Inputs))
	for i, in := range p.Inputs {
		inputs[i] = outputFromPayload(in)
	}
	outputs := make([]blockchain.Output, len(p.Outputs))
	for i, out := range p.Outputs {
		outputs[i] = outputFromPayload(out)
	}
	return blockchain.Transaction{Inputs: inputs, Outputs: outputs}
}

// BlockToPayload converts a domain block to its wire representation.
func BlockToPayload(b blockchain.Block) BlockPayload {
	txs := make([]TransactionPayload, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = transactionToPayload(tx)
	}
	return BlockPayload{
		Index:         b.Index,
		Timestamp:     b.Timestamp,
		Hash:          b.Hash.String(),
		PrevBlockHash: b.PrevBlockHash.String(),
		Nonce:         b.Nonce,
		Transactions:  txs,
	}
}

// BlockFromPayload converts a wire block back into the domain type.
func BlockFromPayload(p BlockPayload) (blockchain.Block, error) {
	var hash, prevHash blockchain.Hash
	if err := hash.UnmarshalJSON([]byte(`"` + p.Hash + `"`)); err != nil {
		return blockchain.Block{}, fmt.Errorf("wire: block hash: %w", err)
	}
	if err := prevHash.UnmarshalJSON([]byte(`"` + p.PrevBlockHash + `"`)); err != nil {
		return blockchain.Block{}, fmt.Errorf("wire: prev_block_hash: %w", err)
	}
	txs := make([]blockchain.Transaction, len(p.Transactions))
	for i, tx := range p.Transactions {
		txs[i] = transactionFromPayload(tx)
	}
	return blockchain.Block{
		Index:         p.Index,
		Timestamp:     p.Timestamp,
		Hash:          hash,
		PrevBlockHash: prevHash,
		Nonce:         p.Nonce,
		Transactions:  txs,
	}, nil
}

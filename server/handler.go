package server

import (
	"fmt"
	"net"

	"hourcoin/validator"
	"hourcoin/wire"
)

// resultKindToString names each validator.ResultKind for the wire's
// BlockResult.Result field (spec.md §4.7: "Accepted"|"Rejected…").
var resultKindToString = map[validator.ResultKind]string{
	validator.Accepted:                  "Accepted",
	validator.RejectedMinerInLockout:    "RejectedMinerInLockout",
	validator.RejectedAlreadyAttempted:  "RejectedAlreadyAttempted",
	validator.RejectedInvalidTimestamp:  "RejectedInvalidTimestamp",
	validator.RejectedTonceChallenge:    "RejectedTonceChallenge",
	validator.RejectedIndexMismatch:     "RejectedIndexMismatch",
	validator.RejectedDifficultyNotMet:  "RejectedDifficultyNotMet",
	validator.RejectedChainLinkage:      "RejectedChainLinkage",
	validator.RejectedHashMismatch:      "RejectedHashMismatch",
	validator.RejectedEmptyTransactions: "RejectedEmptyTransactions",
	validator.RejectedMissingCoinbase:   "RejectedMissingCoinbase",
	validator.RejectedInputNotFound:     "RejectedInputNotFound",
	validator.RejectedDuplicateInput:    "RejectedDuplicateInput",
	validator.RejectedInsufficientInput: "RejectedInsufficientInput",
	validator.RejectedTimestampInversion: "RejectedTimestampInversion",
	validator.RejectedBadCoinbaseAmount:  "RejectedBadCoinbaseAmount",
}

// dispatch handles one decoded request envelope against v, returning the
// response envelope to write back. Grounded on gocuria/p2p/messagehandler.go's
// ProcessMessage switch, adapted from a fire-and-forget peer-gossip
// dispatch to a request/response dispatch that always produces exactly
// one reply (spec.md §5: no pipelining, one outstanding request at a
// time).
func dispatch(v *validator.Validator, registry *ConnectionRegistry, conn net.Conn, msg wire.Envelope) (wire.Envelope, error) {
	switch msg.Type {
	case wire.TypeGetBlockchainInfo:
		return handleGetBlockchainInfo(v)

	case wire.TypeGetRoundInfo:
		var req wire.GetRoundInfoRequest
		if err := msg.Decode(&req); err != nil {
			return errorEnvelope(err)
		}
		registry.NoteMinerID(conn, req.MinerID)
		return handleGetRoundInfo(v)

	case wire.TypeCheckLockout:
		var req wire.CheckLockoutRequest
		if err := msg.Decode(&req); err != nil {
			return errorEnvelope(err)
		}
		registry.NoteMinerID(conn, req.MinerID)
		return handleCheckLockout(v, req)

	case wire.TypeSubmitBlock:
		var req wire.SubmitBlockRequest
		if err := msg.Decode(&req); err != nil {
			return errorEnvelope(err)
		}
		registry.NoteMinerID(conn, req.MinerID)
		return handleSubmitBlock(v, req)

	default:
		return errorEnvelope(fmt.Errorf("unknown message type %q", msg.Type))
	}
}

func handleGetBlockchainInfo(v *validator.Validator) (wire.Envelope, error) {
	info := v.Info()
	return wire.NewEnvelope(wire.TypeBlockchainInfo, wire.BlockchainInfoResponse{
		BlockCount:    info.BlockCount,
		DifficultyHex: info.Difficulty.String(),
		LastHashHex:   info.LastBlockHash.String(),
	})
}

func handleGetRoundInfo(v *validator.Validator) (wire.Envelope, error) {
	round := v.CurrentRoundInfo()
	return wire.NewEnvelope(wire.TypeRoundInfo, wire.RoundInfoResponse{
		RoundStart:                round.RoundStart,
		Tonce:                     round.Tonce,
		ChallengeSecondsRemaining: round.ChallengeSecondsRemaining,
		AttemptedMiners:           round.AttemptedMiners,
		ActiveLockouts:            round.ActiveLockouts,
		DifficultyHex:             round.Difficulty.String(),
	})
}

func handleCheckLockout(v *validator.Validator, req wire.CheckLockoutRequest) (wire.Envelope, error) {
	status := v.CheckLockout(req.MinerID)
	return wire.NewEnvelope(wire.TypeLockoutStatus, wire.LockoutStatusResponse{
		Locked:           status.Locked,
		SecondsRemaining: status.SecondsRemaining,
	})
}

func handleSubmitBlock(v *validator.Validator, req wire.SubmitBlockRequest) (wire.Envelope, error) {
	block, err := wire.BlockFromPayload(req.Block)
	if err != nil {
		return errorEnvelope(err)
	}
	result := v.SubmitBlock(req.MinerID, block)
	name, ok := resultKindToString[result.Kind]
	if !ok {
		name = "Rejected"
	}
	return wire.NewEnvelope(wire.TypeBlockResult, wire.BlockResultResponse{
		Result:  name,
		Message: result.Message,
	})
}

func errorEnvelope(err error) (wire.Envelope, error) {
	env, marshalErr := wire.NewEnvelope(wire.TypeError, wire.ErrorResponse{Message: err.Error()})
	if marshalErr != nil {
		return wire.Envelope{}, marshalErr
	}
	return env, nil
}

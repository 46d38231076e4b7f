// Package miner implements the mining client's control loop against a
// long-lived validator connection (spec.md §4.8). Grounded on
// gocuria/src/mining/miner.go's nonce-search loop for the proof-of-work
// step and gocuria/p2p/server.go's connectToPeer retry/backoff shape for
// the network step.
package miner

import (
	"fmt"
	"log"
	"math/rand"
	"net"
	"time"

	"hourcoin/blockchain"
	"hourcoin/tai"
	"hourcoin/tonce"
	"hourcoin/wire"
)

// CoinbaseValue is the fixed reward a mined block's coinbase carries
// (spec.md §4.8 step 5).
const CoinbaseValue = 2.0

// FindTimestampAttempts caps how many candidate offsets
// find_valid_timestamp tries before giving up for one round (spec.md
// §4.5, §4.8 step 4).
const FindTimestampAttempts = 100_000

// timestampBackoffBase and timestampBackoffMax bound the jittered sleep
// after find_valid_timestamp exhausts its attempts, mirroring the
// retry/backoff shape of connect's dial loop.
const (
	timestampBackoffBase = 500 * time.Millisecond
	timestampBackoffMax  = 5 * time.Second
)

// jitteredBackoff returns a random duration in [base, 2*base) capped at
// maxDelay, so many miners failing a timestamp search at once don't retry in
// lockstep.
func jitteredBackoff(base, maxDelay time.Duration) time.Duration {
	if base >= maxDelay {
		return maxDelay
	}
	delay := base + time.Duration(rand.Int63n(int64(base)))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

// Client drives the control loop of spec.md §4.8 against one validator
// connection.
type Client struct {
	MinerID        string
	RewardAddress  string
	ValidatorAddr  string
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
}

// New returns a Client ready to Run, with the reward address defaulting
// to the miner's own ID when empty (spec.md §6).
func New(minerID, validatorAddr, rewardAddress string) *Client {
	if rewardAddress == "" {
		rewardAddress = minerID
	}
	return &Client{
		MinerID:        minerID,
		RewardAddress:  rewardAddress,
		ValidatorAddr:  validatorAddr,
		RetryBaseDelay: 500 * time.Millisecond,
		RetryMaxDelay:  10 * time.Second,
	}
}

// connect dials the validator with exponential backoff, mirroring
// gocuria/p2p/server.go's connectToPeer retry shape.
func (c *Client) connect() (net.Conn, error) {
	delay := c.RetryBaseDelay
	var lastErr error
	for attempt := 0; attempt < 10; attempt++ {
		conn, err := net.DialTimeout("tcp", c.ValidatorAddr, 5*time.Second)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		log.Printf("miner: connect attempt %d failed: %v", attempt+1, err)
		time.Sleep(delay)
		delay *= 2
		if delay > c.RetryMaxDelay {
			delay = c.RetryMaxDelay
		}
	}
	return nil, fmt.Errorf("miner: could not connect to %s: %w", c.ValidatorAddr, lastErr)
}

func request(conn net.Conn, msgType wire.MessageType, payload interface{}, out interface{}) error {
	env, err := wire.NewEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	if err := wire.WriteFrame(conn, env); err != nil {
		return err
	}
	resp, err := wire.ReadFrame(conn)
	if err != nil {
		return err
	}
	if resp.Type == wire.TypeError {
		var errPayload wire.ErrorResponse
		resp.Decode(&errPayload)
		return fmt.Errorf("miner: validator error: %s", errPayload.Message)
	}
	return resp.Decode(out)
}

// RunOnce executes one iteration of the control loop of spec.md §4.8: it
// learns the chain state, respects any lockout, finds a legal timestamp,
// mines a block, and submits it. It returns the block result string
// ("Accepted" or a Rejected variant) as soon as the validator answers.
// When the lockout check finds the miner locked, it sleeps the reported
// remainder and returns an empty result. Transport failures, an exhausted
// timestamp search, and unparsable chain state come back as errors.
func (c *Client) RunOnce(conn net.Conn) (string, error) {
	// 1. GetBlockchainInfo
	var chainInfo wire.BlockchainInfoResponse
	if err := request(conn, wire.TypeGetBlockchainInfo, wire.GetBlockchainInfoRequest{}, &chainInfo); err != nil {
		return "", err
	}

	// 2. CheckLockout
	var lockout wire.LockoutStatusResponse
	if err := request(conn, wire.TypeCheckLockout, wire.CheckLockoutRequest{MinerID: c.MinerID}, &lockout); err != nil {
		return "", err
	}
	if lockout.Locked {
		time.Sleep(time.Duration(lockout.SecondsRemaining) * time.Second)
		return "", nil
	}

	// 3. GetRoundInfo
	var round wire.RoundInfoResponse
	if err := request(conn, wire.TypeGetRoundInfo, wire.GetRoundInfoRequest{MinerID: c.MinerID}, &round); err != nil {
		return "", err
	}

	// 4. find_valid_timestamp
	nowTAI := tai.NowTAIMillis()
	ts, ok := tonce.FindValidTimestamp(round.Tonce, nowTAI, FindTimestampAttempts)
	if !ok {
		delay := jitteredBackoff(timestampBackoffBase, timestampBackoffMax)
		log.Printf("miner: no valid timestamp within %d attempts, backing off %s", FindTimestampAttempts, delay)
		time.Sleep(delay)
		return "", fmt.Errorf("miner: could not find a valid timestamp within %d attempts", FindTimestampAttempts)
	}

	// 5. build and mine the block
	difficulty, err := blockchain.U128FromHex(chainInfo.DifficultyHex)
	if err != nil {
		return "", fmt.Errorf("miner: parse difficulty: %w", err)
	}
	var prevHash blockchain.Hash
	if err := prevHash.UnmarshalJSON([]byte(`"` + chainInfo.LastHashHex + `"`)); err != nil {
		return "", fmt.Errorf("miner: parse last hash: %w", err)
	}

	block := blockchain.Block{
		Index:         uint32(chainInfo.BlockCount),
		Timestamp:     ts,
		PrevBlockHash: prevHash,
		Transactions: []blockchain.Transaction{
			{Outputs: []blockchain.Output{{To: blockchain.Address(c.RewardAddress), Value: CoinbaseValue, Timestamp: ts}}},
		},
	}
	block.Mine(difficulty)

	// 6. SubmitBlock
	var result wire.BlockResultResponse
	err = request(conn, wire.TypeSubmitBlock, wire.SubmitBlockRequest{
		MinerID: c.MinerID,
		Block:   wire.BlockToPayload(block),
	}, &result)
	if err != nil {
		return "", err
	}

	// An accepted block puts this miner into lockout; the lockout check at
	// step 2 of the next call sleeps it out.
	return result.Result, nil
}

// Run connects to the validator and loops RunOnce, reconnecting with
// backoff whenever RunOnce returns an error. It returns nil once stop is
// closed (checked between RunOnce calls), or the dial error when connect
// gives up.
func (c *Client) Run(stop <-chan struct{}) error {
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		conn, err := c.connect()
		if err != nil {
			return err
		}

		for {
			select {
			case <-stop:
				conn.Close()
				return nil
			default:
			}

			result, err := c.RunOnce(conn)
			if err != nil {
				log.Printf("miner: round failed: %v", err)
				conn.Close()
				break
			}
			if result != "" {
				log.Printf("miner: submission result: %s", result)
			}
		}
	}
}

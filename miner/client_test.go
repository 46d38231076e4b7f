package miner

import (
	"context"
	"net"
	"testing"
	"time"

	"hourcoin/blockchain"
	"hourcoin/server"
	"hourcoin/validator"
)

func maxDifficulty() blockchain.U128 {
	var d blockchain.U128
	for i := range d {
		d[i] = 0xFF
	}
	return d
}

// TestRunOnceMinesAndSubmits exercises the miner control loop against a
// real validator server, covering spec.md §4.8 steps 1-6 end to end.
func TestRunOnceMinesAndSubmits(t *testing.T) {
	v := validator.New(maxDifficulty(), nil)
	genesis := blockchain.NewGenesisBlock(
		[]blockchain.Output{{To: "genesis", Value: 2.0, Timestamp: 1}},
		1,
		maxDifficulty(),
	)
	if err := v.AdmitGenesis(genesis); err != nil {
		t.Fatalf("genesis admission failed: %v", err)
	}

	s := server.NewServer("127.0.0.1:0", v)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.ListenAndServe(ctx)

	var addr net.Addr
	for i := 0; i < 100; i++ {
		if addr = s.ListenAddr(); addr != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if addr == nil {
		t.Fatal("server did not bind within the timeout")
	}

	client := New("alice", addr.String(), "")
	conn, err := net.DialTimeout("tcp", addr.String(), time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	result, err := client.RunOnce(conn)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if result != "Accepted" {
		t.Fatalf("result = %q, want Accepted", result)
	}
}

func TestJitteredBackoffStaysInBounds(t *testing.T) {
	base := 500 * time.Millisecond
	maxDelay := 5 * time.Second
	for i := 0; i < 50; i++ {
		delay := jitteredBackoff(base, maxDelay)
		if delay < base || delay > maxDelay {
			t.Fatalf("jitteredBackoff() = %s, want in [%s, %s]", delay, base, maxDelay)
		}
	}
}

func TestJitteredBackoffBaseAboveMaxClamps(t *testing.T) {
	if got := jitteredBackoff(10*time.Second, time.Second); got != time.Second {
		t.Errorf("jitteredBackoff() = %s, want clamped to 1s", got)
	}
}

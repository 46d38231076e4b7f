package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hourcoin/blockchain"
	"hourcoin/config"
	"hourcoin/server"
	"hourcoin/statusapi"
	"hourcoin/tai"
	"hourcoin/timeoracle"
	"hourcoin/validator"
)

// bootstrapAddress receives the genesis block's 2.0-coin coinbase. It is
// not a real miner; it exists so the genesis block carries the coinbase
// admission requires, and the first round's tonce challenge is then
// derived from the genesis timestamp (spec.md §3, §9).
const bootstrapAddress = blockchain.Address("genesis")

// clockFromConfig returns the validator's TAI time source. When
// TimeOracleURL is set, every read tries the external oracle first and
// falls back to the local TAI clock on any failure (spec.md §6); an
// empty URL uses the local clock directly.
func clockFromConfig(cfg config.ValidatorConfig) validator.Clock {
	if cfg.TimeOracleURL == "" {
		return tai.NowTAIMillis
	}
	oracle := timeoracle.New(cfg.TimeOracleURL)
	return func() uint64 {
		ms, _ := oracle.NowTAIMillisOrFallback()
		return ms
	}
}

func main() {
	configPath := flag.String("config", "", "Path to validator config YAML (optional)")
	flag.Parse()

	cfg, err := config.LoadValidatorConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	difficulty, err := blockchain.U128FromHex(cfg.DifficultyHex)
	if err != nil {
		log.Fatalf("Invalid difficulty_hex %q: %v", cfg.DifficultyHex, err)
	}

	clock := clockFromConfig(cfg)
	genesisTime := clock()
	genesis := blockchain.NewGenesisBlock(
		[]blockchain.Output{{To: bootstrapAddress, Value: 2.0, Timestamp: genesisTime}},
		genesisTime,
		difficulty,
	)

	v := validator.New(difficulty, clock)
	if err := v.AdmitGenesis(genesis); err != nil {
		log.Fatalf("Failed to admit genesis block: %v", err)
	}

	log.Println("Starting Hourcoin validator...")

	srv := server.NewServer(cfg.ListenAddress, v)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil {
			log.Fatalf("validator server error: %v", err)
		}
	}()

	if cfg.StatusAPIAddr != "" {
		status := statusapi.New(v, srv.Registry)
		go func() {
			log.Printf("Status API listening on %s", cfg.StatusAPIAddr)
			if err := status.ListenAndServe(cfg.StatusAPIAddr); err != nil {
				log.Printf("status API stopped: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	cancel()
	srv.Wait()
	log.Println("All connections drained, exiting.")
}

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hourcoin/config"
	"hourcoin/miner"
)

func main() {
	configPath := flag.String("config", "", "Path to miner config YAML (optional)")
	minerID := flag.String("id", "", "Miner ID (overrides config file)")
	validatorAddr := flag.String("validator", "", "Validator TCP address (overrides config file)")
	flag.Parse()

	cfg, err := config.LoadMinerConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *minerID != "" {
		cfg.MinerID = *minerID
	}
	if *validatorAddr != "" {
		cfg.ValidatorAddress = *validatorAddr
	}
	if cfg.MinerID == "" {
		log.Fatal("miner_id is required (set it in the config file or pass -id)")
	}

	client := miner.New(cfg.MinerID, cfg.ValidatorAddress, cfg.RewardAddress)

	log.Printf("Starting Hourcoin miner %q against %s (reward address %s)", client.MinerID, client.ValidatorAddr, client.RewardAddress)

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- client.Run(stop) }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Println("Shutting down...")
		close(stop)
		<-done
	case err := <-done:
		if err != nil {
			log.Fatalf("miner stopped: %v", err)
		}
	}
}

package main

import (
	"fmt"
	"os"
	"time"

	"auction-engine/internal/audit"
	auction "auction-engine/internal/auctionService"
	"auction-engine/internal/config"
	"auction-engine/internal/repository"
	"auction-engine/internal/scheduler"
	"auction-engine/internal/server"
	"auction-engine/utils"
)

func main() {

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	utils.SetLogLevel(cfg.Log.Level)

	store := repository.NewMemoryStore()
	auctionSvc := auction.NewAuctionService(store, audit.NewLogSink())

	if cfg.Seed.Enabled {
		prepopulateAuctions(auctionSvc)
	}

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(auctionSvc)
		if err := sched.Start(cfg.Scheduler.Spec); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start scheduler: %v\n", err)
			os.Exit(1)
		}
		defer sched.Stop()
	}

	router := server.SetupRouter(auctionSvc)

	addr := ":" + cfg.Server.Port
	fmt.Printf("Starting auction server on %s...\n", addr)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// prepopulateAuctions adds sample auctions for local development
func prepopulateAuctions(svc *auction.AuctionService) {
	now := time.Now().UTC()
	end := now.Add(72 * time.Hour)
	reserve := 250000.0

	samples := []auction.CreateAuctionInput{
		{AuctionCode: "AUC-2026-001", AssetID: "asset1", AuctionType: "ENGLISH", ScheduledStart: now, ScheduledEnd: &end, StartingBid: 100000, BidIncrement: 5000},
		{AuctionCode: "AUC-2026-002", AssetID: "asset2", AuctionType: "ENGLISH", ScheduledStart: now.Add(24 * time.Hour), StartingBid: 200000, ReservePrice: &reserve, BidIncrement: 10000},
	}

	for _, in := range samples {
		if _, err := svc.CreateAuction("seed", in); err != nil {
			utils.Warn("failed to seed auction", map[string]any{"auction_code": in.AuctionCode, "error": err.Error()})
		}
	}
}

// Package scheduler drives time-based auction lifecycle transitions:
// SCHEDULED auctions past their scheduled start are activated, ACTIVE
// auctions past their scheduled end are completed. Transitions go through
// the auction service so they stay serialized with concurrent bidding.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/utils"
)

const sweepPageSize = 100

// AuctionService is the slice of the service the scheduler needs.
type AuctionService interface {
	ListAuctions(filter repository.AuctionFilter) ([]models.Auction, int, error)
	TransitionStatus(auctionID, userID string, newStatus models.AuctionStatus) (models.Auction, error)
}

// Scheduler periodically sweeps auctions for due lifecycle transitions.
type Scheduler struct {
	svc  AuctionService
	cron *cron.Cron
	now  func() time.Time
}

// New creates a scheduler sweeping on the given cron spec.
func New(svc AuctionService) *Scheduler {
	return &Scheduler{
		svc:  svc,
		cron: cron.New(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Start registers the sweep under the given cron spec and starts the cron loop.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	utils.Info("scheduler started", map[string]any{"spec": spec})
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	utils.Info("scheduler stopped", nil)
}

// Sweep runs one pass over due auctions. Safe to call directly from tests.
func (s *Scheduler) Sweep() {
	now := s.now()
	s.activateDue(now)
	s.completeOverdue(now)
}

func (s *Scheduler) activateDue(now time.Time) {
	for _, a := range s.collect(models.AuctionScheduled) {
		if a.ScheduledStart.After(now) {
			continue
		}
		if _, err := s.svc.TransitionStatus(a.AuctionID, "scheduler", models.AuctionActive); err != nil {
			utils.Warn("scheduler: failed to activate auction", map[string]any{
				"auction_id": a.AuctionID,
				"error":      err.Error(),
			})
			continue
		}
		utils.Info("scheduler: auction activated", map[string]any{"auction_id": a.AuctionID})
	}
}

func (s *Scheduler) completeOverdue(now time.Time) {
	for _, a := range s.collect(models.AuctionActive) {
		if a.ScheduledEnd == nil || a.ScheduledEnd.After(now) {
			continue
		}
		if _, err := s.svc.TransitionStatus(a.AuctionID, "scheduler", models.AuctionCompleted); err != nil {
			utils.Warn("scheduler: failed to complete auction", map[string]any{
				"auction_id": a.AuctionID,
				"error":      err.Error(),
			})
			continue
		}
		utils.Info("scheduler: auction completed", map[string]any{"auction_id": a.AuctionID})
	}
}

// collect pages through every auction in the given status.
func (s *Scheduler) collect(status models.AuctionStatus) []models.Auction {
	var all []models.Auction
	for page := 1; ; page++ {
		auctions, total, err := s.svc.ListAuctions(repository.AuctionFilter{
			Status: status,
			Page:   page,
			Limit:  sweepPageSize,
		})
		if err != nil {
			utils.Error("scheduler: failed to list auctions", map[string]any{
				"status": status,
				"error":  err.Error(),
			})
			return all
		}
		all = append(all, auctions...)
		if page*sweepPageSize >= total || len(auctions) == 0 {
			return all
		}
	}
}

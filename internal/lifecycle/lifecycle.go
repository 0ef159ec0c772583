// Package lifecycle holds the auction status state machine:
// SCHEDULED -> ACTIVE -> {COMPLETED, FAILED}.
package lifecycle

import (
	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
)

var transitions = map[models.AuctionStatus][]models.AuctionStatus{
	models.AuctionScheduled: {models.AuctionActive},
	models.AuctionActive:    {models.AuctionCompleted, models.AuctionFailed},
	models.AuctionCompleted: {},
	models.AuctionFailed:    {},
}

// CanTransition reports whether from -> to is a legal lifecycle edge.
func CanTransition(from, to models.AuctionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns an InvalidTransitionError for an illegal edge.
func CheckTransition(from, to models.AuctionStatus) error {
	if !CanTransition(from, to) {
		return &auctionerrors.InvalidTransitionError{From: string(from), To: string(to)}
	}
	return nil
}

// CanBid reports whether bidding is permitted in the given status.
// Bids are accepted only while the auction is ACTIVE.
func CanBid(status models.AuctionStatus) bool {
	return status == models.AuctionActive
}

// CanRegister reports whether registration is permitted in the given status.
func CanRegister(status models.AuctionStatus) bool {
	return status == models.AuctionScheduled || status == models.AuctionActive
}

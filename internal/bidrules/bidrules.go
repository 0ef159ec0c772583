// Package bidrules computes the minimum acceptable next bid for an auction.
// It is pure: callers must re-evaluate against the latest ledger state at
// the moment of acceptance, under the same serialization that guards the
// append (see the auction service).
package bidrules

import (
	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
)

// MinimumAcceptable returns the smallest amount a new bid must reach.
// highest is nil when the ledger is empty, in which case the floor is the
// auction's starting bid.
func MinimumAcceptable(auction models.Auction, highest *models.Bid) float64 {
	floor := auction.StartingBid
	if highest != nil {
		floor = highest.Amount
	}
	return floor + auction.BidIncrement
}

// ValidateAmount rejects amounts below the minimum acceptable bid with a
// BidTooLowError carrying the computed minimum.
func ValidateAmount(auction models.Auction, highest *models.Bid, amount float64) error {
	minimum := MinimumAcceptable(auction, highest)
	if amount < minimum {
		return &auctionerrors.BidTooLowError{Minimum: minimum}
	}
	return nil
}

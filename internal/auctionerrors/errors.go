package auctionerrors

import (
	"errors"
	"fmt"
)

// Repository-level errors
var (
	ErrAuctionNotFound      = errors.New("auction not found")
	ErrAuctionExists        = errors.New("auction already exists")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrNoBids               = errors.New("no bids placed for auction")
)

// business logic errors
var (
	ErrInvalidAuction     = errors.New("invalid auction")
	ErrInvalidBid         = errors.New("invalid bid")
	ErrBidTooLow          = errors.New("bid amount too low")
	ErrNotEligible        = errors.New("participant not eligible to bid")
	ErrAlreadyRegistered  = errors.New("already registered for this auction")
	ErrRegistrationClosed = errors.New("registration closed for this auction")
	ErrAuctionNotActive   = errors.New("auction is not active")
	ErrInvalidTransition  = errors.New("invalid auction status transition")
	ErrKYCAlreadyDecided  = errors.New("kyc status already decided")
	ErrInvalidKYCDecision = errors.New("invalid kyc decision")
)

// BidTooLowError is a BidTooLow rejection carrying the minimum acceptable
// amount so callers can report it to the bidder.
type BidTooLowError struct {
	Minimum float64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid amount too low: minimum acceptable bid is %.2f", e.Minimum)
}

func (e *BidTooLowError) Unwrap() error {
	return ErrBidTooLow
}

// InvalidTransitionError is an InvalidTransition rejection recording the
// edge that was refused.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid auction status transition from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

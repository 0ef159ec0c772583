package models

import "time"

// AuctionStatus is the lifecycle state of an auction.
type AuctionStatus string

const (
	AuctionScheduled AuctionStatus = "SCHEDULED"
	AuctionActive    AuctionStatus = "ACTIVE"
	AuctionCompleted AuctionStatus = "COMPLETED"
	AuctionFailed    AuctionStatus = "FAILED"
)

// Terminal reports whether the status permits no further transitions.
func (s AuctionStatus) Terminal() bool {
	return s == AuctionCompleted || s == AuctionFailed
}

// KYCStatus is the verification outcome attached to a registration.
type KYCStatus string

const (
	KYCPending  KYCStatus = "PENDING"
	KYCApproved KYCStatus = "APPROVED"
	KYCRejected KYCStatus = "REJECTED"
)

// Auction represents a timed competitive-bidding process for one asset
type Auction struct {
	AuctionID      string        `json:"auction_id"`
	AuctionCode    string        `json:"auction_code"`
	AssetID        string        `json:"asset_id"`
	AuctionType    string        `json:"auction_type"`
	Status         AuctionStatus `json:"status"`
	ScheduledStart time.Time     `json:"scheduled_start"`
	ScheduledEnd   *time.Time    `json:"scheduled_end,omitempty"`
	StartingBid    float64       `json:"starting_bid"`
	ReservePrice   *float64      `json:"reserve_price,omitempty"`
	BidIncrement   float64       `json:"bid_increment"`
	TotalBids      int           `json:"total_bids"`
	WinningBidID   *string       `json:"winning_bid_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Registration is a participant's enrollment for one auction.
// At most one registration exists per (auction, participant) pair.
type Registration struct {
	RegistrationID string         `json:"registration_id"`
	AuctionID      string         `json:"auction_id"`
	UserID         string         `json:"user_id"`
	KYCStatus      KYCStatus      `json:"kyc_status"`
	KYCData        map[string]any `json:"kyc_data,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Bid represents a user's bid on an auction. Sequence is the insertion
// order within the auction's ledger, starting at 1.
type Bid struct {
	BidID     string    `json:"bid_id"`
	AuctionID string    `json:"auction_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Sequence  int64     `json:"sequence"`
	IsWinning bool      `json:"is_winning"`
	PlacedAt  time.Time `json:"placed_at"`
}

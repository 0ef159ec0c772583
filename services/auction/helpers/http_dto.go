package helpers

import "time"

// Request/Response DTOs
type CreateAuctionRequest struct {
	AuctionCode    string     `json:"auction_code" binding:"required"`
	AssetID        string     `json:"asset_id"`
	AuctionType    string     `json:"auction_type" binding:"required,oneof=ENGLISH DUTCH SEALED_BID HYBRID"`
	ScheduledStart time.Time  `json:"scheduled_start" binding:"required"`
	ScheduledEnd   *time.Time `json:"scheduled_end"`
	StartingBid    float64    `json:"starting_bid" binding:"required,gt=0"`
	ReservePrice   *float64   `json:"reserve_price"`
	BidIncrement   float64    `json:"bid_increment" binding:"required,gt=0"`
}

type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type RegisterRequest struct {
	KYCData map[string]any `json:"kyc_data"`
}

type TransitionStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=SCHEDULED ACTIVE COMPLETED FAILED"`
}

type KYCDecisionRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

type BidResponse struct {
	BidID     string  `json:"bid_id"`
	AuctionID string  `json:"auction_id"`
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	Sequence  int64   `json:"sequence"`
	IsWinning bool    `json:"is_winning"`
	PlacedAt  string  `json:"placed_at"`
}

type AuctionResponse struct {
	AuctionID      string       `json:"auction_id"`
	AuctionCode    string       `json:"auction_code"`
	AssetID        string       `json:"asset_id,omitempty"`
	AuctionType    string       `json:"auction_type"`
	Status         string       `json:"status"`
	ScheduledStart string       `json:"scheduled_start"`
	ScheduledEnd   *string      `json:"scheduled_end,omitempty"`
	StartingBid    float64      `json:"starting_bid"`
	ReservePrice   *float64     `json:"reserve_price,omitempty"`
	BidIncrement   float64      `json:"bid_increment"`
	TotalBids      int          `json:"total_bids"`
	WinningBid     *BidResponse `json:"winning_bid,omitempty"`
}

type RegistrationResponse struct {
	RegistrationID string `json:"registration_id"`
	AuctionID      string `json:"auction_id"`
	UserID         string `json:"user_id"`
	KYCStatus      string `json:"kyc_status"`
	CreatedAt      string `json:"created_at"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

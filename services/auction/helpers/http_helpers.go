package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message.
// Anything unmatched is treated as an infrastructure failure.
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrRegistrationNotFound):
		return http.StatusNotFound, "registration not found"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusBadRequest, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrNotEligible):
		return http.StatusForbidden, "must be registered and KYC approved to bid"
	case errors.Is(err, auctionerrors.ErrAuctionNotActive):
		return http.StatusBadRequest, "auction is not active"
	case errors.Is(err, auctionerrors.ErrAlreadyRegistered):
		return http.StatusBadRequest, "already registered for this auction"
	case errors.Is(err, auctionerrors.ErrRegistrationClosed):
		return http.StatusBadRequest, "registration closed for this auction"
	case errors.Is(err, auctionerrors.ErrInvalidTransition):
		return http.StatusBadRequest, "invalid auction status transition"
	case errors.Is(err, auctionerrors.ErrKYCAlreadyDecided):
		return http.StatusBadRequest, "kyc status already decided"
	case errors.Is(err, auctionerrors.ErrInvalidKYCDecision):
		return http.StatusBadRequest, "invalid kyc decision"
	case errors.Is(err, auctionerrors.ErrAuctionExists):
		return http.StatusBadRequest, "auction already exists"
	case errors.Is(err, auctionerrors.ErrInvalidAuction):
		return http.StatusBadRequest, "invalid auction details"
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusNotFound, "no bids placed for auction"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// JSONBidTooLow reports a BidTooLow rejection including the minimum
// acceptable amount so the caller can quote it to the bidder.
func JSONBidTooLow(c *gin.Context, err error, minimum float64) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  http.StatusBadRequest,
		"message": "bid amount too low",
		"error":   err.Error(),
		"minimum": minimum,
	})
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// ToBidResponse shapes a bid for the wire.
func ToBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		AuctionID: bid.AuctionID,
		UserID:    bid.UserID,
		Amount:    bid.Amount,
		Sequence:  bid.Sequence,
		IsWinning: bid.IsWinning,
		PlacedAt:  bid.PlacedAt.UTC().Format(time.RFC3339),
	}
}

// ToAuctionResponse shapes an auction for the wire. winning is nil when the
// ledger is empty.
func ToAuctionResponse(a model.Auction, winning *model.Bid) AuctionResponse {
	resp := AuctionResponse{
		AuctionID:      a.AuctionID,
		AuctionCode:    a.AuctionCode,
		AssetID:        a.AssetID,
		AuctionType:    a.AuctionType,
		Status:         string(a.Status),
		ScheduledStart: a.ScheduledStart.UTC().Format(time.RFC3339),
		StartingBid:    a.StartingBid,
		ReservePrice:   a.ReservePrice,
		BidIncrement:   a.BidIncrement,
		TotalBids:      a.TotalBids,
	}
	if a.ScheduledEnd != nil {
		end := a.ScheduledEnd.UTC().Format(time.RFC3339)
		resp.ScheduledEnd = &end
	}
	if winning != nil {
		bid := ToBidResponse(*winning)
		resp.WinningBid = &bid
	}
	return resp
}

// ToRegistrationResponse shapes a registration for the wire. The KYC payload
// itself is never echoed back.
func ToRegistrationResponse(reg model.Registration) RegistrationResponse {
	return RegistrationResponse{
		RegistrationID: reg.RegistrationID,
		AuctionID:      reg.AuctionID,
		UserID:         reg.UserID,
		KYCStatus:      string(reg.KYCStatus),
		CreatedAt:      reg.CreatedAt.UTC().Format(time.RFC3339),
	}
}

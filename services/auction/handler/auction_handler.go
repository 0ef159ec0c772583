package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"auction-engine/internal/auctionerrors"
	auction "auction-engine/internal/auctionService"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// Context keys under which the identity middleware stores the authenticated
// participant ID and role.
const (
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"
)

type AuctionServiceInterface interface {
	CreateAuction(userID string, in auction.CreateAuctionInput) (model.Auction, error)
	GetAuction(auctionID string) (model.Auction, error)
	ListAuctions(filter repository.AuctionFilter) ([]model.Auction, int, error)
	TransitionStatus(auctionID, userID string, newStatus model.AuctionStatus) (model.Auction, error)
	Register(auctionID, userID string, kycData map[string]any) (model.Registration, error)
	ApplyKYCDecision(auctionID, userID string, status model.KYCStatus) (model.Registration, error)
	PlaceBid(auctionID, userID string, amount float64) (model.Bid, error)
	GetWinningBid(auctionID string) (model.Bid, error)
	GetBidsForAuction(auctionID string) ([]model.Bid, error)
	GetRegistrations(auctionID string) ([]model.Registration, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// userID returns the participant ID injected by the identity middleware.
func userID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	created, err := h.service.CreateAuction(userID(c), auction.CreateAuctionInput{
		AuctionCode:    req.AuctionCode,
		AssetID:        req.AssetID,
		AuctionType:    req.AuctionType,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		StartingBid:    req.StartingBid,
		ReservePrice:   req.ReservePrice,
		BidIncrement:   req.BidIncrement,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateAuctionHandler: failed to create auction", map[string]any{
			"auction_code": req.AuctionCode,
			"error":        err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToAuctionResponse(created, nil), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id":   created.AuctionID,
		"auction_code": created.AuctionCode,
	})
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	filter := repository.AuctionFilter{
		Status: model.AuctionStatus(c.Query("status")),
		Page:   page,
		Limit:  limit,
	}

	auctions, total, err := h.service.ListAuctions(filter)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListAuctionsHandler: error listing auctions", map[string]any{"error": err.Error()})
		return
	}

	resp := make([]helpers.AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		resp = append(resp, helpers.ToAuctionResponse(a, nil))
	}

	pages := (total + limit - 1) / limit

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"auctions": resp,
		"pagination": helpers.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, "auctions retrieved successfully")
}

// GetAuctionHandler handles GET /auctions/:auction_id. The response carries
// the current winning bid and the total-bid count.
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	a, err := h.service.GetAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	var winning *model.Bid
	bid, err := h.service.GetWinningBid(auctionID)
	if err == nil {
		winning = &bid
	} else if !errors.Is(err, auctionerrors.ErrNoBids) {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving winning bid", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponse(a, winning), "auction retrieved successfully")
}

// TransitionStatusHandler handles PATCH /auctions/:auction_id/status
func (h *AuctionHandler) TransitionStatusHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.TransitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "TransitionStatusHandler", err)
		return
	}

	a, err := h.service.TransitionStatus(auctionID, userID(c), model.AuctionStatus(req.Status))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("TransitionStatusHandler: transition rejected", map[string]any{
			"auction_id": auctionID,
			"to":         req.Status,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponse(a, nil), "auction status updated successfully")
	helpers.LogSuccess("TransitionStatusHandler", "auction status updated successfully", map[string]any{
		"auction_id": auctionID,
		"status":     req.Status,
	})
}

// RegisterHandler handles POST /auctions/:auction_id/register
func (h *AuctionHandler) RegisterHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	reg, err := h.service.Register(auctionID, userID(c), req.KYCData)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("RegisterHandler: registration rejected", map[string]any{
			"auction_id": auctionID,
			"user_id":    userID(c),
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToRegistrationResponse(reg), "registration created successfully")
	helpers.LogSuccess("RegisterHandler", "registration created successfully", map[string]any{
		"registration_id": reg.RegistrationID,
		"auction_id":      auctionID,
		"user_id":         reg.UserID,
	})
}

// PlaceBidHandler handles POST /auctions/:auction_id/bid
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(auctionID, userID(c), req.Amount)
	if err != nil {
		var tooLow *auctionerrors.BidTooLowError
		if errors.As(err, &tooLow) {
			helpers.JSONBidTooLow(c, err, tooLow.Minimum)
			utils.Info("PlaceBidHandler: bid below minimum", map[string]any{
				"auction_id": auctionID,
				"user_id":    userID(c),
				"amount":     req.Amount,
				"minimum":    tooLow.Minimum,
			})
			return
		}

		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"auction_id": auctionID,
			"user_id":    userID(c),
			"amount":     req.Amount,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToBidResponse(bid), "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": auctionID,
		"user_id":    bid.UserID,
		"amount":     bid.Amount,
	})
}

// ListBidsHandler handles GET /auctions/:auction_id/bids. Bids are returned
// newest first.
func (h *AuctionHandler) ListBidsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	bids, err := h.service.GetBidsForAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListBidsHandler: error retrieving bids", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for i := len(bids) - 1; i >= 0; i-- {
		resp = append(resp, helpers.ToBidResponse(bids[i]))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
}

// ListRegistrationsHandler handles GET /auctions/:auction_id/registrations
func (h *AuctionHandler) ListRegistrationsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	regs, err := h.service.GetRegistrations(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListRegistrationsHandler: error retrieving registrations", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	resp := make([]helpers.RegistrationResponse, 0, len(regs))
	for _, reg := range regs {
		resp = append(resp, helpers.ToRegistrationResponse(reg))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "registrations retrieved successfully")
}

// ApplyKYCDecisionHandler handles PUT /auctions/:auction_id/registrations/:user_id/kyc.
// It is the integration point for the external KYC decision feed.
func (h *AuctionHandler) ApplyKYCDecisionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	targetUserID := c.Param("user_id")

	var req helpers.KYCDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ApplyKYCDecisionHandler", err)
		return
	}

	reg, err := h.service.ApplyKYCDecision(auctionID, targetUserID, model.KYCStatus(req.Status))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ApplyKYCDecisionHandler: kyc decision rejected", map[string]any{
			"auction_id": auctionID,
			"user_id":    targetUserID,
			"status":     req.Status,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToRegistrationResponse(reg), "kyc decision applied successfully")
	helpers.LogSuccess("ApplyKYCDecisionHandler", "kyc decision applied successfully", map[string]any{
		"auction_id": auctionID,
		"user_id":    targetUserID,
		"kyc_status": req.Status,
	})
}

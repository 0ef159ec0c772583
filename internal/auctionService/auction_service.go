package auction

import (
	"errors"
	"fmt"
	"time"

	"auction-engine/internal/audit"
	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/bidrules"
	"auction-engine/internal/lifecycle"
	"auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/utils"
)

// AuctionService defines the business logic for auction bidding and registration
type AuctionService struct {
	store repository.AuctionStore
	audit audit.Sink
	locks *auctionLocks
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(store repository.AuctionStore, sink audit.Sink) *AuctionService {
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &AuctionService{
		store: store,
		audit: sink,
		locks: newAuctionLocks(),
	}
}

// CreateAuctionInput carries the fields needed to open a new auction.
type CreateAuctionInput struct {
	AuctionCode    string
	AssetID        string
	AuctionType    string
	ScheduledStart time.Time
	ScheduledEnd   *time.Time
	StartingBid    float64
	ReservePrice   *float64
	BidIncrement   float64
}

// CreateAuction validates the input and stores a new SCHEDULED auction.
func (s *AuctionService) CreateAuction(userID string, in CreateAuctionInput) (models.Auction, error) {
	if in.AuctionCode == "" {
		return models.Auction{}, fmt.Errorf("service: %w - missing auction code", auctionerrors.ErrInvalidAuction)
	}
	if in.StartingBid <= 0 {
		return models.Auction{}, fmt.Errorf("service: %w - non-positive starting bid", auctionerrors.ErrInvalidAuction)
	}
	if in.BidIncrement <= 0 {
		return models.Auction{}, fmt.Errorf("service: %w - bid increment must be positive", auctionerrors.ErrInvalidAuction)
	}
	if in.ReservePrice != nil && *in.ReservePrice < in.StartingBid {
		return models.Auction{}, fmt.Errorf("service: %w - reserve price below starting bid", auctionerrors.ErrInvalidAuction)
	}

	a := models.Auction{
		AuctionID:      utils.GenerateID(),
		AuctionCode:    in.AuctionCode,
		AssetID:        in.AssetID,
		AuctionType:    in.AuctionType,
		Status:         models.AuctionScheduled,
		ScheduledStart: in.ScheduledStart,
		ScheduledEnd:   in.ScheduledEnd,
		StartingBid:    in.StartingBid,
		ReservePrice:   in.ReservePrice,
		BidIncrement:   in.BidIncrement,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.store.CreateAuction(a); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to create auction %s: %w", in.AuctionCode, err)
	}

	s.audit.Record(audit.Entry{
		UserID:     userID,
		AuctionID:  a.AuctionID,
		Action:     "CREATE_AUCTION",
		EntityType: "Auction",
		EntityID:   a.AuctionID,
	})

	return a, nil
}

// GetAuction returns the auction with the given ID
func (s *AuctionService) GetAuction(auctionID string) (models.Auction, error) {
	if auctionID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return a, nil
}

// ListAuctions returns a page of auctions and the total match count.
func (s *AuctionService) ListAuctions(filter repository.AuctionFilter) ([]models.Auction, int, error) {
	auctions, total, err := s.store.ListAuctions(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return auctions, total, nil
}

// TransitionStatus moves an auction along one lifecycle edge. It takes the
// same per-auction lock as PlaceBid, so a transition is never reordered
// relative to in-flight bid acceptance on that auction: a bid observes
// either the old status or the new one, never a mix.
func (s *AuctionService) TransitionStatus(auctionID, userID string, newStatus models.AuctionStatus) (models.Auction, error) {
	if auctionID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}

	lock := s.locks.get(auctionID)
	lock.Lock()
	defer lock.Unlock()

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}

	if err := lifecycle.CheckTransition(a.Status, newStatus); err != nil {
		return models.Auction{}, fmt.Errorf("service: %w", err)
	}

	updated, err := s.store.UpdateAuctionStatus(auctionID, newStatus)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to update status of auction %s: %w", auctionID, err)
	}

	s.audit.Record(audit.Entry{
		UserID:     userID,
		AuctionID:  auctionID,
		Action:     "TRANSITION_STATUS",
		EntityType: "Auction",
		EntityID:   auctionID,
		Changes:    map[string]any{"from": a.Status, "to": newStatus},
	})

	return updated, nil
}

// Register enrolls a participant for an auction with a PENDING KYC status.
// Registering twice for the same auction fails with ErrAlreadyRegistered.
// The per-auction lock is held across the status check and the insert, so a
// registration never lands on an auction after its terminal transition.
func (s *AuctionService) Register(auctionID, userID string, kycData map[string]any) (models.Registration, error) {
	if auctionID == "" || userID == "" {
		return models.Registration{}, fmt.Errorf("service: %w - missing auctionID or userID", auctionerrors.ErrInvalidAuction)
	}

	lock := s.locks.get(auctionID)
	lock.Lock()
	defer lock.Unlock()

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return models.Registration{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}

	if !lifecycle.CanRegister(a.Status) {
		return models.Registration{}, fmt.Errorf("service: %w - auction %s is %s", auctionerrors.ErrRegistrationClosed, auctionID, a.Status)
	}

	reg := models.Registration{
		RegistrationID: utils.GenerateID(),
		AuctionID:      auctionID,
		UserID:         userID,
		KYCStatus:      models.KYCPending,
		KYCData:        kycData,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.store.CreateRegistration(reg); err != nil {
		return models.Registration{}, fmt.Errorf("service: failed to register user %s for auction %s: %w", userID, auctionID, err)
	}

	s.audit.Record(audit.Entry{
		UserID:     userID,
		AuctionID:  auctionID,
		Action:     "CREATE_REGISTRATION",
		EntityType: "Registration",
		EntityID:   reg.RegistrationID,
	})

	return reg, nil
}

// ApplyKYCDecision records the outcome of the external KYC check for a
// registration. Only APPROVED or REJECTED are accepted, and only once.
func (s *AuctionService) ApplyKYCDecision(auctionID, userID string, status models.KYCStatus) (models.Registration, error) {
	if status != models.KYCApproved && status != models.KYCRejected {
		return models.Registration{}, fmt.Errorf("service: %w - %q", auctionerrors.ErrInvalidKYCDecision, status)
	}

	reg, err := s.store.UpdateKYCStatus(auctionID, userID, status)
	if err != nil {
		return models.Registration{}, fmt.Errorf("service: failed to apply kyc decision for user %s on auction %s: %w", userID, auctionID, err)
	}
	return reg, nil
}

// IsEligibleToBid reports whether the participant may submit bids: a
// registration must exist with an APPROVED KYC status. A missing
// registration is not an error, just ineligibility.
func (s *AuctionService) IsEligibleToBid(auctionID, userID string) (bool, error) {
	reg, err := s.store.GetRegistration(auctionID, userID)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrRegistrationNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("service: failed to check registration of user %s for auction %s: %w", userID, auctionID, err)
	}
	return reg.KYCStatus == models.KYCApproved, nil
}

// PlaceBid runs the full acceptance pipeline for one bid: lifecycle check,
// eligibility gate, increment validation against the latest ledger state,
// then the atomic append. The whole sequence holds the auction's lock, so
// two concurrent bids can never both clear the same prior highest amount.
func (s *AuctionService) PlaceBid(auctionID, userID string, amount float64) (models.Bid, error) {
	if auctionID == "" || userID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing auctionID or userID", auctionerrors.ErrInvalidBid)
	}
	if amount <= 0 {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}

	lock := s.locks.get(auctionID)
	lock.Lock()
	defer lock.Unlock()

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}

	if !lifecycle.CanBid(a.Status) {
		return models.Bid{}, fmt.Errorf("service: %w - auction %s is %s", auctionerrors.ErrAuctionNotActive, auctionID, a.Status)
	}

	eligible, err := s.IsEligibleToBid(auctionID, userID)
	if err != nil {
		return models.Bid{}, err
	}
	if !eligible {
		return models.Bid{}, fmt.Errorf("service: %w - user %s must be registered and KYC approved", auctionerrors.ErrNotEligible, userID)
	}

	var highest *models.Bid
	current, err := s.store.GetWinningBid(auctionID)
	if err == nil {
		highest = &current
	} else if !errors.Is(err, auctionerrors.ErrNoBids) {
		return models.Bid{}, fmt.Errorf("service: failed to read current highest bid for auction %s: %w", auctionID, err)
	}

	if err := bidrules.ValidateAmount(a, highest, amount); err != nil {
		return models.Bid{}, fmt.Errorf("service: %w", err)
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		AuctionID: auctionID,
		UserID:    userID,
		Amount:    amount,
		PlacedAt:  time.Now().UTC(),
	}

	accepted, err := s.store.AppendBid(bid)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to append bid for auction %s by user %s: %w", auctionID, userID, err)
	}

	s.audit.Record(audit.Entry{
		UserID:     userID,
		AuctionID:  auctionID,
		Action:     "PLACE_BID",
		EntityType: "Bid",
		EntityID:   accepted.BidID,
		Changes:    map[string]any{"amount": amount},
	})

	return accepted, nil
}

// GetWinningBid returns the current winning bid for an auction
func (s *AuctionService) GetWinningBid(auctionID string) (models.Bid, error) {
	if auctionID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}

	bid, err := s.store.GetWinningBid(auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for auction %s: %w", auctionID, err)
	}
	return bid, nil
}

// GetBidsForAuction returns the auction's ledger in insertion order.
func (s *AuctionService) GetBidsForAuction(auctionID string) ([]models.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}

	bids, err := s.store.ListBids(auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// GetRegistrations returns all registrations for an auction.
func (s *AuctionService) GetRegistrations(auctionID string) ([]models.Registration, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}

	regs, err := s.store.ListRegistrations(auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list registrations for auction %s: %w", auctionID, err)
	}
	return regs, nil
}

package repository

import (
	"fmt"
	"sync"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
)

// AuctionFilter narrows and pages auction listings.
type AuctionFilter struct {
	Status model.AuctionStatus // empty matches all statuses
	Page   int                 // 1-based; values < 1 are treated as 1
	Limit  int                 // values < 1 fall back to 20
}

// AuctionStore defines the durable storage interface for auctions, their
// registrant sets and their bid ledgers.
type AuctionStore interface {
	CreateAuction(auction model.Auction) error
	GetAuction(auctionID string) (model.Auction, error)
	ListAuctions(filter AuctionFilter) ([]model.Auction, int, error)
	UpdateAuctionStatus(auctionID string, status model.AuctionStatus) (model.Auction, error)

	CreateRegistration(reg model.Registration) error
	GetRegistration(auctionID, userID string) (model.Registration, error)
	ListRegistrations(auctionID string) ([]model.Registration, error)
	UpdateKYCStatus(auctionID, userID string, status model.KYCStatus) (model.Registration, error)

	AppendBid(bid model.Bid) (model.Bid, error)
	GetWinningBid(auctionID string) (model.Bid, error)
	ListBids(auctionID string) ([]model.Bid, error)
}

// MemoryStore is a concurrency-safe in-memory implementation of AuctionStore
type MemoryStore struct {
	mu            sync.RWMutex
	auctions      map[string]model.Auction                 // key: auctionID
	registrations map[string]map[string]model.Registration // key: auctionID -> userID
	bids          map[string][]model.Bid                   // key: auctionID -> ledger in insertion order
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions:      make(map[string]model.Auction),
		registrations: make(map[string]map[string]model.Registration),
		bids:          make(map[string][]model.Bid),
	}
}

// CreateAuction stores a new auction keyed by its ID.
func (s *MemoryStore) CreateAuction(auction model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[auction.AuctionID]; ok {
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, auctionerrors.ErrAuctionExists)
	}
	s.auctions[auction.AuctionID] = auction
	return nil
}

// GetAuction returns the auction with the given ID
func (s *MemoryStore) GetAuction(auctionID string) (model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return auction, nil
}

// ListAuctions returns a page of auctions matching the filter plus the total
// match count. Results are ordered by scheduled start, newest first.
func (s *MemoryStore) ListAuctions(filter AuctionFilter) ([]model.Auction, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Auction, 0, len(s.auctions))
	for _, a := range s.auctions {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		matched = append(matched, a)
	}

	for i := 1; i < len(matched); i++ {
		for j := i; j > 0 && matched[j].ScheduledStart.After(matched[j-1].ScheduledStart); j-- {
			matched[j], matched[j-1] = matched[j-1], matched[j]
		}
	}

	total := len(matched)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	start := (page - 1) * limit
	if start >= total {
		return []model.Auction{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return append([]model.Auction(nil), matched[start:end]...), total, nil
}

// UpdateAuctionStatus sets the lifecycle status of an auction. Legality of
// the transition is the caller's concern; the store only persists it.
func (s *MemoryStore) UpdateAuctionStatus(auctionID string, status model.AuctionStatus) (model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("update status of auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	auction.Status = status
	s.auctions[auctionID] = auction
	return auction, nil
}

// CreateRegistration stores a registration, enforcing the uniqueness of the
// (auction, participant) pair. A second registration by the same user for
// the same auction fails with ErrAlreadyRegistered; it never overwrites.
func (s *MemoryStore) CreateRegistration(reg model.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[reg.AuctionID]; !ok {
		return fmt.Errorf("register for auction %s: %w", reg.AuctionID, auctionerrors.ErrAuctionNotFound)
	}

	byUser, ok := s.registrations[reg.AuctionID]
	if !ok {
		byUser = make(map[string]model.Registration)
		s.registrations[reg.AuctionID] = byUser
	}
	if _, exists := byUser[reg.UserID]; exists {
		return fmt.Errorf("register user %s for auction %s: %w", reg.UserID, reg.AuctionID, auctionerrors.ErrAlreadyRegistered)
	}
	byUser[reg.UserID] = reg
	return nil
}

// GetRegistration returns the registration for the (auction, participant) pair.
func (s *MemoryStore) GetRegistration(auctionID, userID string) (model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.registrations[auctionID][userID]
	if !ok {
		return model.Registration{}, fmt.Errorf("get registration of user %s for auction %s: %w", userID, auctionID, auctionerrors.ErrRegistrationNotFound)
	}
	return reg, nil
}

// ListRegistrations returns all registrations for an auction.
func (s *MemoryStore) ListRegistrations(auctionID string) ([]model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("list registrations for auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}

	regs := make([]model.Registration, 0, len(s.registrations[auctionID]))
	for _, reg := range s.registrations[auctionID] {
		regs = append(regs, reg)
	}
	return regs, nil
}

// UpdateKYCStatus applies an external KYC decision to a registration. The
// status moves from PENDING to a terminal value exactly once; a second
// decision fails with ErrKYCAlreadyDecided.
func (s *MemoryStore) UpdateKYCStatus(auctionID, userID string, status model.KYCStatus) (model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[auctionID][userID]
	if !ok {
		return model.Registration{}, fmt.Errorf("update kyc of user %s for auction %s: %w", userID, auctionID, auctionerrors.ErrRegistrationNotFound)
	}
	if reg.KYCStatus != model.KYCPending {
		return model.Registration{}, fmt.Errorf("update kyc of user %s for auction %s: %w", userID, auctionID, auctionerrors.ErrKYCAlreadyDecided)
	}
	reg.KYCStatus = status
	s.registrations[auctionID][userID] = reg
	return reg, nil
}

// AppendBid appends an accepted bid to the auction's ledger. The previous
// winner's flag is cleared, the new bid is marked winning, the auction's
// total-bid counter is bumped and its winning-bid reference updated, all
// under one critical section so no reader observes a partial update.
func (s *MemoryStore) AppendBid(bid model.Bid) (model.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[bid.AuctionID]
	if !ok {
		return model.Bid{}, fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionNotFound)
	}

	ledger := s.bids[bid.AuctionID]
	for i := range ledger {
		if ledger[i].IsWinning {
			ledger[i].IsWinning = false
		}
	}

	bid.Sequence = int64(len(ledger) + 1)
	bid.IsWinning = true
	s.bids[bid.AuctionID] = append(ledger, bid)

	auction.TotalBids++
	winningID := bid.BidID
	auction.WinningBidID = &winningID
	s.auctions[bid.AuctionID] = auction

	return bid, nil
}

// GetWinningBid returns the bid currently flagged as winning for an auction.
func (s *MemoryStore) GetWinningBid(auctionID string) (model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ledger, ok := s.bids[auctionID]
	if !ok || len(ledger) == 0 {
		return model.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}

	for i := len(ledger) - 1; i >= 0; i-- {
		if ledger[i].IsWinning {
			return ledger[i], nil
		}
	}
	return model.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
}

// ListBids returns the auction's ledger in insertion order.
func (s *MemoryStore) ListBids(auctionID string) ([]model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("list bids for auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return append([]model.Bid(nil), s.bids[auctionID]...), nil
}

// AddAuction inserts an auction unconditionally. This method is intended for tests only.
func (s *MemoryStore) AddAuction(auction model.Auction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auctions[auction.AuctionID] = auction
}

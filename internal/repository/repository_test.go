package repository

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"

	"github.com/stretchr/testify/require"
)

// Helper to create a new Auction
func newAuction(auctionID string, status model.AuctionStatus, startingBid, increment float64) model.Auction {
	return model.Auction{
		AuctionID:      auctionID,
		AuctionCode:    fmt.Sprintf("AUC-%s", auctionID),
		AuctionType:    "ENGLISH",
		Status:         status,
		ScheduledStart: time.Now().UTC(),
		StartingBid:    startingBid,
		BidIncrement:   increment,
		CreatedAt:      time.Now().UTC(),
	}
}

// Helper to create a new Bid
func newBid(bidID, auctionID, userID string, amount float64) model.Bid {
	return model.Bid{
		BidID:     bidID,
		AuctionID: auctionID,
		UserID:    userID,
		Amount:    amount,
		PlacedAt:  time.Now().UTC(),
	}
}

// Helper to create a new Registration
func newRegistration(auctionID, userID string, status model.KYCStatus) model.Registration {
	return model.Registration{
		RegistrationID: fmt.Sprintf("reg-%s-%s", auctionID, userID),
		AuctionID:      auctionID,
		UserID:         userID,
		KYCStatus:      status,
		CreatedAt:      time.Now().UTC(),
	}
}

// Test CreateAuction / GetAuction
func TestMemoryStore_CreateAndGetAuction(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	a := newAuction("auction1", model.AuctionScheduled, 100000, 5000)

	require.NoError(t, store.CreateAuction(a))

	got, err := store.GetAuction("auction1")
	require.NoError(t, err)
	require.Equal(t, a, got)

	// a second create for the same ID must fail, not overwrite
	err = store.CreateAuction(a)
	require.Error(t, err)
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionExists))

	_, err = store.GetAuction("missing")
	require.Error(t, err)
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
}

// Test ListAuctions filtering and pagination
func TestMemoryStore_ListAuctions(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	for i := 0; i < 5; i++ {
		a := newAuction(fmt.Sprintf("auction%d", i), model.AuctionScheduled, 100000, 5000)
		a.ScheduledStart = time.Now().UTC().Add(time.Duration(i) * time.Hour)
		if i%2 == 0 {
			a.Status = model.AuctionActive
		}
		require.NoError(t, store.CreateAuction(a))
	}

	active, total, err := store.ListAuctions(AuctionFilter{Status: model.AuctionActive})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, active, 3)
	for _, a := range active {
		require.Equal(t, model.AuctionActive, a.Status)
	}

	// newest scheduled start comes first
	all, total, err := store.ListAuctions(AuctionFilter{})
	require.NoError(t, err)
	require.Equal(t, 5, total)
	for i := 1; i < len(all); i++ {
		require.False(t, all[i].ScheduledStart.After(all[i-1].ScheduledStart))
	}

	page2, total, err := store.ListAuctions(AuctionFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, page2, 2)

	empty, total, err := store.ListAuctions(AuctionFilter{Page: 4, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Empty(t, empty)
}

// Test UpdateAuctionStatus
func TestMemoryStore_UpdateAuctionStatus(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.CreateAuction(newAuction("auction1", model.AuctionScheduled, 100000, 5000)))

	updated, err := store.UpdateAuctionStatus("auction1", model.AuctionActive)
	require.NoError(t, err)
	require.Equal(t, model.AuctionActive, updated.Status)

	got, err := store.GetAuction("auction1")
	require.NoError(t, err)
	require.Equal(t, model.AuctionActive, got.Status)

	_, err = store.UpdateAuctionStatus("missing", model.AuctionActive)
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
}

// Test CreateRegistration uniqueness of the (auction, participant) pair
func TestMemoryStore_CreateRegistration(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.CreateAuction(newAuction("auction1", model.AuctionScheduled, 100000, 5000)))

	tests := []struct {
		name          string
		reg           model.Registration
		expectedError error
	}{
		{name: "first_registration", reg: newRegistration("auction1", "user1", model.KYCPending), expectedError: nil},
		{name: "duplicate_registration", reg: newRegistration("auction1", "user1", model.KYCPending), expectedError: auctionerrors.ErrAlreadyRegistered},
		{name: "same_user_other_auction_missing", reg: newRegistration("auctionX", "user1", model.KYCPending), expectedError: auctionerrors.ErrAuctionNotFound},
		{name: "other_user_same_auction", reg: newRegistration("auction1", "user2", model.KYCPending), expectedError: nil},
	}

	for _, tc := range tests {
		// cases build on each other; run sequentially
		t.Run(tc.name, func(t *testing.T) {
			err := store.CreateRegistration(tc.reg)
			if tc.expectedError == nil {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
			}
		})
	}
}

// Concurrent duplicate registrations: exactly one succeeds regardless of timing
func TestMemoryStore_CreateRegistration_Concurrent(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.CreateAuction(newAuction("auction1", model.AuctionScheduled, 100000, 5000)))

	const attempts = 50
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.CreateRegistration(newRegistration("auction1", "user1", model.KYCPending))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			require.True(t, errors.Is(err, auctionerrors.ErrAlreadyRegistered))
		}
	}
	require.Equal(t, 1, successes)
}

// Test UpdateKYCStatus moves PENDING to a terminal value exactly once
func TestMemoryStore_UpdateKYCStatus(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.CreateAuction(newAuction("auction1", model.AuctionScheduled, 100000, 5000)))
	require.NoError(t, store.CreateRegistration(newRegistration("auction1", "user1", model.KYCPending)))

	reg, err := store.UpdateKYCStatus("auction1", "user1", model.KYCApproved)
	require.NoError(t, err)
	require.Equal(t, model.KYCApproved, reg.KYCStatus)

	// second decision is rejected
	_, err = store.UpdateKYCStatus("auction1", "user1", model.KYCRejected)
	require.Error(t, err)
	require.True(t, errors.Is(err, auctionerrors.ErrKYCAlreadyDecided))

	got, err := store.GetRegistration("auction1", "user1")
	require.NoError(t, err)
	require.Equal(t, model.KYCApproved, got.KYCStatus)

	_, err = store.UpdateKYCStatus("auction1", "nobody", model.KYCApproved)
	require.True(t, errors.Is(err, auctionerrors.ErrRegistrationNotFound))
}

// Test AppendBid applies winner swap, counter bump and pointer update as one unit
func TestMemoryStore_AppendBid(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.CreateAuction(newAuction("auction1", model.AuctionActive, 100000, 5000)))

	first, err := store.AppendBid(newBid("bid1", "auction1", "user1", 105000))
	require.NoError(t, err)
	require.True(t, first.IsWinning)
	require.Equal(t, int64(1), first.Sequence)

	second, err := store.AppendBid(newBid("bid2", "auction1", "user2", 110000))
	require.NoError(t, err)
	require.True(t, second.IsWinning)
	require.Equal(t, int64(2), second.Sequence)

	// previous winner flag cleared, counter and pointer updated together
	ledger, err := store.ListBids("auction1")
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	require.False(t, ledger[0].IsWinning)
	require.True(t, ledger[1].IsWinning)

	a, err := store.GetAuction("auction1")
	require.NoError(t, err)
	require.Equal(t, 2, a.TotalBids)
	require.NotNil(t, a.WinningBidID)
	require.Equal(t, "bid2", *a.WinningBidID)

	winning, err := store.GetWinningBid("auction1")
	require.NoError(t, err)
	require.Equal(t, "bid2", winning.BidID)

	_, err = store.AppendBid(newBid("bid3", "missing", "user1", 100))
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
}

// Test GetWinningBid against an empty ledger
func TestMemoryStore_GetWinningBid_NoBids(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.CreateAuction(newAuction("auction1", model.AuctionActive, 100000, 5000)))

	_, err := store.GetWinningBid("auction1")
	require.Error(t, err)
	require.True(t, errors.Is(err, auctionerrors.ErrNoBids))
}

// Concurrent appends: at most one winner flag regardless of interleaving
func TestMemoryStore_AppendBid_Concurrent(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.CreateAuction(newAuction("auction1", model.AuctionActive, 100, 1)))

	const bidders = 50
	var wg sync.WaitGroup
	errs := make([]error, bidders)
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.AppendBid(newBid(fmt.Sprintf("bid%d", i), "auction1", fmt.Sprintf("user%d", i), float64(101+i)))
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	ledger, err := store.ListBids("auction1")
	require.NoError(t, err)
	require.Len(t, ledger, bidders)

	winners := 0
	for _, b := range ledger {
		if b.IsWinning {
			winners++
		}
	}
	require.Equal(t, 1, winners)

	// sequences strictly increasing in ledger order
	for i, b := range ledger {
		require.Equal(t, int64(i+1), b.Sequence)
	}

	a, err := store.GetAuction("auction1")
	require.NoError(t, err)
	require.Equal(t, bidders, a.TotalBids)
	require.NotNil(t, a.WinningBidID)
	require.Equal(t, ledger[bidders-1].BidID, *a.WinningBidID)
}

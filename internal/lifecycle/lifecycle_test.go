package lifecycle

import (
	"errors"
	"testing"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"

	"github.com/stretchr/testify/require"
)

// Test CheckTransition over every edge of the state machine
func TestCheckTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    model.AuctionStatus
		to      model.AuctionStatus
		allowed bool
	}{
		{name: "scheduled_to_active", from: model.AuctionScheduled, to: model.AuctionActive, allowed: true},
		{name: "active_to_completed", from: model.AuctionActive, to: model.AuctionCompleted, allowed: true},
		{name: "active_to_failed", from: model.AuctionActive, to: model.AuctionFailed, allowed: true},
		{name: "scheduled_to_completed", from: model.AuctionScheduled, to: model.AuctionCompleted, allowed: false},
		{name: "scheduled_to_failed", from: model.AuctionScheduled, to: model.AuctionFailed, allowed: false},
		{name: "active_to_scheduled", from: model.AuctionActive, to: model.AuctionScheduled, allowed: false},
		{name: "completed_is_terminal", from: model.AuctionCompleted, to: model.AuctionActive, allowed: false},
		{name: "failed_is_terminal", from: model.AuctionFailed, to: model.AuctionActive, allowed: false},
		{name: "self_transition", from: model.AuctionActive, to: model.AuctionActive, allowed: false},
		{name: "unknown_target", from: model.AuctionScheduled, to: model.AuctionStatus("PAUSED"), allowed: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := CheckTransition(tc.from, tc.to)
			if tc.allowed {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.True(t, errors.Is(err, auctionerrors.ErrInvalidTransition))

				var invalid *auctionerrors.InvalidTransitionError
				require.True(t, errors.As(err, &invalid))
				require.Equal(t, string(tc.from), invalid.From)
				require.Equal(t, string(tc.to), invalid.To)
			}
		})
	}
}

func TestCanBid(t *testing.T) {
	t.Parallel()

	require.True(t, CanBid(model.AuctionActive))
	require.False(t, CanBid(model.AuctionScheduled))
	require.False(t, CanBid(model.AuctionCompleted))
	require.False(t, CanBid(model.AuctionFailed))
}

func TestCanRegister(t *testing.T) {
	t.Parallel()

	require.True(t, CanRegister(model.AuctionScheduled))
	require.True(t, CanRegister(model.AuctionActive))
	require.False(t, CanRegister(model.AuctionCompleted))
	require.False(t, CanRegister(model.AuctionFailed))
}

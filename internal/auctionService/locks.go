package auction

import "sync"

// auctionLocks hands out one mutex per auction so that the
// read-validate-append sequence serializes within an auction while
// unrelated auctions proceed independently.
type auctionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAuctionLocks() *auctionLocks {
	return &auctionLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for an auction, creating it on first use.
// Locks are never removed; the set of live auctions is bounded.
func (l *auctionLocks) get(auctionID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[auctionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[auctionID] = m
	}
	return m
}

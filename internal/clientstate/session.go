package clientstate

import (
	"context"
	"sync"

	"github.com/spec-kit/pollution-service/internal/auth"
)

// Session tracks which partition is active and scopes favorite operations
// to it. The only transitions are Login and Logout; switching the active
// identity never merges or drops another partition's contents. Reads go
// through to the store each time, so the previous account's favorites stay
// persisted and simply become unreachable until that account logs back in.
type Session struct {
	mu     sync.Mutex
	store  *Store
	active string
}

// NewSession starts a session in the unauthenticated guest state.
func NewSession(store *Store) *Session {
	return &Session{store: store, active: GuestPartition}
}

// ActivePartition returns the partition key currently in effect.
func (s *Session) ActivePartition() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Login switches the active partition to the authenticated identity.
// Login never clears anything.
func (s *Session) Login(identity *auth.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = PartitionKey(identity)
}

// Logout transitions back to the guest partition. Credential expiry is
// handled the same way: the client drops the stale token and calls Logout.
// The departing account's persisted partition is left intact.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = GuestPartition
}

// Favorites returns the active partition's favorites.
func (s *Session) Favorites(ctx context.Context) ([]Ref, error) {
	return s.store.Read(ctx, s.ActivePartition())
}

// Add favorites a report in the active partition.
func (s *Session) Add(ctx context.Context, ref Ref) error {
	return s.store.Add(ctx, s.ActivePartition(), ref)
}

// Remove unfavorites a report in the active partition.
func (s *Session) Remove(ctx context.Context, reportID int64) error {
	return s.store.Remove(ctx, s.ActivePartition(), reportID)
}

// ClearFavorites wipes the active partition only. This backs the explicit
// "clear my favorites" action; it is never invoked on login.
func (s *Session) ClearFavorites(ctx context.Context) error {
	return s.store.Clear(ctx, s.ActivePartition())
}

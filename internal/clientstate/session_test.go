package clientstate

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/pollution-service/internal/auth"
	"github.com/spec-kit/pollution-service/internal/domain"
)

func testIdentity(subjectID int64) *auth.Identity {
	now := time.Now()
	return &auth.Identity{
		SubjectID: subjectID,
		Role:      domain.RoleUser,
		IssuedAt:  now,
		ExpiresAt: now.Add(2 * time.Hour),
	}
}

func TestSessionStartsAsGuest(t *testing.T) {
	store, _ := newMemoryStore()
	session := NewSession(store)

	if session.ActivePartition() != GuestPartition {
		t.Fatalf("expected guest partition, got %q", session.ActivePartition())
	}
}

func TestSessionLoginLogoutTransitions(t *testing.T) {
	store, _ := newMemoryStore()
	session := NewSession(store)

	session.Login(testIdentity(42))
	if session.ActivePartition() != "42" {
		t.Fatalf("expected partition 42, got %q", session.ActivePartition())
	}

	session.Logout()
	if session.ActivePartition() != GuestPartition {
		t.Fatalf("expected guest after logout, got %q", session.ActivePartition())
	}
}

func TestSessionScopesOperationsToActivePartition(t *testing.T) {
	store, _ := newMemoryStore()
	session := NewSession(store)
	ctx := context.Background()

	if err := session.Add(ctx, ref(1, "guest fav")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	session.Login(testIdentity(42))
	if err := session.Add(ctx, ref(2, "user fav")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	mine, err := session.Favorites(ctx)
	if err != nil {
		t.Fatalf("Favorites failed: %v", err)
	}
	if len(mine) != 1 || mine[0].ReportID != 2 {
		t.Fatalf("expected only the user's favorite, got %+v", mine)
	}

	session.Logout()
	guest, err := session.Favorites(ctx)
	if err != nil {
		t.Fatalf("Favorites failed: %v", err)
	}
	if len(guest) != 1 || guest[0].ReportID != 1 {
		t.Fatalf("expected only the guest favorite, got %+v", guest)
	}
}

func TestSessionSwitchAccountsNoLeak(t *testing.T) {
	store, _ := newMemoryStore()
	session := NewSession(store)
	ctx := context.Background()

	session.Login(testIdentity(1))
	_ = session.Add(ctx, ref(11, "first account"))

	session.Logout()
	session.Login(testIdentity(2))

	favs, err := session.Favorites(ctx)
	if err != nil {
		t.Fatalf("Favorites failed: %v", err)
	}
	if len(favs) != 0 {
		t.Fatalf("second account sees foreign favorites: %+v", favs)
	}

	_ = session.Add(ctx, ref(22, "second account"))

	// the first account's favorites survive its absence untouched
	session.Logout()
	session.Login(testIdentity(1))
	favs, err = session.Favorites(ctx)
	if err != nil {
		t.Fatalf("Favorites failed: %v", err)
	}
	if len(favs) != 1 || favs[0].ReportID != 11 {
		t.Fatalf("first account's favorites lost or polluted: %+v", favs)
	}
}

func TestSessionClearFavoritesOnlyActive(t *testing.T) {
	store, _ := newMemoryStore()
	session := NewSession(store)
	ctx := context.Background()

	_ = session.Add(ctx, ref(1, "guest fav"))
	session.Login(testIdentity(42))
	_ = session.Add(ctx, ref(2, "user fav"))

	if err := session.ClearFavorites(ctx); err != nil {
		t.Fatalf("ClearFavorites failed: %v", err)
	}

	mine, _ := session.Favorites(ctx)
	if len(mine) != 0 {
		t.Fatalf("active partition not cleared: %+v", mine)
	}

	session.Logout()
	guest, _ := session.Favorites(ctx)
	if len(guest) != 1 || guest[0].ReportID != 1 {
		t.Fatalf("guest partition affected by ClearFavorites: %+v", guest)
	}
}

package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kobina/pos-cart-service/internal/domain/catalog"
	domainErrors "github.com/kobina/pos-cart-service/internal/domain/errors"
	"github.com/kobina/pos-cart-service/internal/pkg/clock"
)

func newTestStore(clk clock.Clock) *Store {
	n := 0
	snapshot := testSnapshot()
	return NewStore(StoreOptions{
		Clock:       clk,
		Config:      Config{ClearArmTimeout: 2500 * time.Millisecond, MessageTTL: 3500 * time.Millisecond},
		IdleTimeout: 2 * time.Hour,
		Loader: func(context.Context) (*catalog.Snapshot, error) {
			return snapshot, nil
		},
		Sink:     newFakeSink(),
		Registry: newFakeRegistry(),
		NewSessionID: func() string {
			n++
			return fmt.Sprintf("POS-%d", n)
		},
		NewSaleID: func() string { return "sale-1" },
		Logger:    zap.NewNop(),
	})
}

func TestStore_CreateAndGet(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	store := newTestStore(clk)

	sess, err := store.Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.ID != "POS-1" {
		t.Errorf("unexpected session id %q", sess.ID)
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != sess {
		t.Error("expected the same session instance")
	}

	if _, err := store.Get("POS-99"); err != domainErrors.ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStore_IdleSessionExpiresOnGet(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	store := newTestStore(clk)

	sess, _ := store.Create(context.Background())

	clk.Advance(2*time.Hour + time.Minute)
	if _, err := store.Get(sess.ID); err != domainErrors.ErrSessionNotFound {
		t.Errorf("expected idle session dropped, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected store emptied, got %d", store.Len())
	}
}

func TestStore_ActivityKeepsSessionAlive(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	store := newTestStore(clk)

	sess, _ := store.Create(context.Background())

	clk.Advance(90 * time.Minute)
	sess.AddLine(1, catalog.UnitPiece) // touches the session

	clk.Advance(90 * time.Minute)
	if _, err := store.Get(sess.ID); err != nil {
		t.Errorf("expected active session kept, got %v", err)
	}
}

func TestStore_Sweep(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	store := newTestStore(clk)

	store.Create(context.Background())
	store.Create(context.Background())

	clk.Advance(time.Hour)
	stillActive, _ := store.Create(context.Background())

	clk.Advance(90 * time.Minute)

	if removed := store.Sweep(); removed != 2 {
		t.Errorf("expected 2 idle sessions removed, got %d", removed)
	}
	if _, err := store.Get(stillActive.ID); err != nil {
		t.Errorf("expected the newer session kept, got %v", err)
	}
}

func TestStore_Remove(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	store := newTestStore(clk)

	sess, _ := store.Create(context.Background())
	store.Remove(sess.ID)

	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
}

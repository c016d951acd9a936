package ports

import (
	"context"

	"github.com/kobina/pos-cart-service/internal/domain/catalog"
)

// SnapshotCache fronts the product source so every new session does not hit
// the ledger store. A miss returns (nil, nil).
type SnapshotCache interface {
	GetSnapshot(ctx context.Context) (*catalog.Snapshot, error)
	SetSnapshot(ctx context.Context, snapshot *catalog.Snapshot) error
	Invalidate(ctx context.Context) error
}

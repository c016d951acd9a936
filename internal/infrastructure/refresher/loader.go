package refresher

import (
	"context"

	"go.uber.org/zap"

	"github.com/kobina/pos-cart-service/internal/application/ports"
	"github.com/kobina/pos-cart-service/internal/application/session"
	"github.com/kobina/pos-cart-service/internal/domain/catalog"
)

// NewCachedLoader builds the snapshot loader sessions call: cache first,
// source on a miss, and the fresh result republished so the next caller
// hits the cache.
func NewCachedLoader(source ports.ProductSource, cache ports.SnapshotCache, log *zap.Logger) session.SnapshotLoader {
	return func(ctx context.Context) (*catalog.Snapshot, error) {
		if cache != nil {
			snapshot, err := cache.GetSnapshot(ctx)
			if err != nil {
				log.Warn("snapshot cache read failed", zap.Error(err))
			} else if snapshot != nil {
				return snapshot, nil
			}
		}

		snapshot, err := source.LoadSnapshot(ctx)
		if err != nil {
			return nil, err
		}

		if cache != nil {
			if err := cache.SetSnapshot(ctx, snapshot); err != nil {
				log.Warn("snapshot cache write failed", zap.Error(err))
			}
		}
		return snapshot, nil
	}
}

package refresher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kobina/pos-cart-service/internal/application/ports"
	"github.com/kobina/pos-cart-service/internal/infrastructure/monitoring"
)

// SnapshotRefresher periodically reloads the product snapshot from the source
// and republishes it to the cache, so open sessions see stock movements made
// outside this process within one interval.
type SnapshotRefresher struct {
	source   ports.ProductSource
	cache    ports.SnapshotCache
	interval time.Duration
	log      *zap.Logger
	stopChan chan struct{}
}

func NewSnapshotRefresher(source ports.ProductSource, cache ports.SnapshotCache, interval time.Duration, log *zap.Logger) *SnapshotRefresher {
	return &SnapshotRefresher{
		source:   source,
		cache:    cache,
		interval: interval,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

func (r *SnapshotRefresher) Start(ctx context.Context) {
	r.log.Info("starting snapshot refresher", zap.Duration("interval", r.interval))

	if err := r.refresh(ctx); err != nil {
		r.log.Error("initial snapshot refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("snapshot refresher stopped")
			return
		case <-r.stopChan:
			r.log.Info("snapshot refresher stopped")
			return
		case <-ticker.C:
			if err := r.refresh(ctx); err != nil {
				r.log.Error("snapshot refresh failed", zap.Error(err))
			}
		}
	}
}

func (r *SnapshotRefresher) Stop() {
	close(r.stopChan)
}

func (r *SnapshotRefresher) refresh(ctx context.Context) error {
	snapshot, err := r.source.LoadSnapshot(ctx)
	monitoring.RecordSnapshotRefresh(err)
	if err != nil {
		return err
	}

	if err := r.cache.SetSnapshot(ctx, snapshot); err != nil {
		r.log.Warn("snapshot cache update failed", zap.Error(err))
	}

	r.log.Debug("snapshot refreshed", zap.Int("products", snapshot.Len()))
	return nil
}

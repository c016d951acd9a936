package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kobina/pos-cart-service/internal/domain/catalog"
	"github.com/kobina/pos-cart-service/internal/infrastructure/monitoring"
)

const snapshotKey = "pos:snapshot:products"

// SnapshotCache keeps the serialized product snapshot in Redis so new
// sessions and refresh cycles do not always hit Postgres. Entries expire on
// their own; a miss is not an error.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewSnapshotCache(conn *Connection, ttl time.Duration, log *zap.Logger) *SnapshotCache {
	client := monitoring.InstrumentRedisClient(conn.GetClient())
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

type cachedProduct struct {
	ID               int64            `json:"id"`
	SKU              string           `json:"sku"`
	Name             string           `json:"name"`
	Category         string           `json:"category"`
	Unit             string           `json:"unit"`
	CurrentStock     decimal.Decimal  `json:"current_stock"`
	SellingPrice     decimal.Decimal  `json:"selling_price"`
	PackSize         *int             `json:"pack_size,omitempty"`
	PackSellingPrice *decimal.Decimal `json:"pack_selling_price,omitempty"`
}

func (c *SnapshotCache) GetSnapshot(ctx context.Context) (*catalog.Snapshot, error) {
	payload, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cached []cachedProduct
	if err := json.Unmarshal(payload, &cached); err != nil {
		c.log.Warn("corrupt snapshot cache entry dropped", zap.Error(err))
		_ = c.Invalidate(ctx)
		return nil, nil
	}

	products := make([]*catalog.Product, 0, len(cached))
	for _, cp := range cached {
		products = append(products, &catalog.Product{
			ID:               cp.ID,
			SKU:              cp.SKU,
			Name:             cp.Name,
			Category:         cp.Category,
			Unit:             cp.Unit,
			CurrentStock:     cp.CurrentStock,
			SellingPrice:     cp.SellingPrice,
			PackSize:         cp.PackSize,
			PackSellingPrice: cp.PackSellingPrice,
		})
	}
	return catalog.NewSnapshot(products), nil
}

func (c *SnapshotCache) SetSnapshot(ctx context.Context, snapshot *catalog.Snapshot) error {
	products := snapshot.Products()
	cached := make([]cachedProduct, 0, len(products))
	for _, p := range products {
		cached = append(cached, cachedProduct{
			ID:               p.ID,
			SKU:              p.SKU,
			Name:             p.Name,
			Category:         p.Category,
			Unit:             p.Unit,
			CurrentStock:     p.CurrentStock,
			SellingPrice:     p.SellingPrice,
			PackSize:         p.PackSize,
			PackSellingPrice: p.PackSellingPrice,
		})
	}

	payload, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey, payload, c.ttl).Err()
}

func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, snapshotKey).Err()
}

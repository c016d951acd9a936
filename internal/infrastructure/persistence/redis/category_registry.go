package redis

import (
	"context"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/kobina/pos-cart-service/internal/infrastructure/monitoring"
)

const categoriesKey = "pos:categories"

// CategoryRegistry keeps the known category names in a Redis set. Writes are
// best effort; the engine tolerates a registry that is down.
type CategoryRegistry struct {
	client *redis.Client
}

func NewCategoryRegistry(conn *Connection) *CategoryRegistry {
	return &CategoryRegistry{
		client: monitoring.InstrumentRedisClient(conn.GetClient()),
	}
}

func (r *CategoryRegistry) Categories(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, categoriesKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (r *CategoryRegistry) Register(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return r.client.SAdd(ctx, categoriesKey, name).Err()
}

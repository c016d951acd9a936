package redis

import (
	"context"

	"github.com/kobina/pos-cart-service/internal/infrastructure/bloom"
	"github.com/kobina/pos-cart-service/internal/infrastructure/monitoring"
	localbloom "github.com/kobina/pos-cart-service/internal/pkg/bloom"
)

// SubmissionFilter answers "has this client sale id possibly been stored
// before" using a Redis-backed bloom filter shared by every terminal.
type SubmissionFilter struct {
	filter *bloom.RedisBloomFilter
}

func NewSubmissionFilter(conn *Connection) *SubmissionFilter {
	client := monitoring.InstrumentRedisClient(conn.GetClient())
	m, k := bloom.GetOptimalParameters(1_000_000, 0.01)
	return &SubmissionFilter{
		filter: bloom.NewRedisBloomFilter(client, "pos:bloom:submitted_sales", m, k),
	}
}

func (f *SubmissionFilter) Add(ctx context.Context, clientSaleID string) error {
	return f.filter.Add(ctx, clientSaleID)
}

func (f *SubmissionFilter) MayContain(ctx context.Context, clientSaleID string) (bool, error) {
	return f.filter.Contains(ctx, clientSaleID)
}

// LocalSubmissionFilter is the in-process variant used where a shared Redis
// filter is unnecessary, such as tests. False positives only cost one extra
// SELECT.
type LocalSubmissionFilter struct {
	filter *localbloom.Filter
}

func NewLocalSubmissionFilter(expectedItems uint) *LocalSubmissionFilter {
	return &LocalSubmissionFilter{
		filter: localbloom.NewFilterWithExpectedItems(expectedItems, 0.01),
	}
}

func (f *LocalSubmissionFilter) Add(_ context.Context, clientSaleID string) error {
	f.filter.Add(clientSaleID)
	return nil
}

func (f *LocalSubmissionFilter) MayContain(_ context.Context, clientSaleID string) (bool, error) {
	return f.filter.Contains(clientSaleID), nil
}

package ports

import (
	"context"

	"github.com/kobina/pos-cart-service/internal/domain/catalog"
)

// ProductSource supplies the ordered, read-only stock ledger snapshot the
// engine validates against. Implementations own stock bookkeeping; the engine
// never writes through this port.
type ProductSource interface {
	LoadSnapshot(ctx context.Context) (*catalog.Snapshot, error)
}

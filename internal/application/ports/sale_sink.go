package ports

import (
	"context"

	"github.com/kobina/pos-cart-service/internal/domain/checkout"
)

// SaleSink accepts one checkout's finalized lines, in cart order, and owns
// their persistence. The engine hands the list off and does not await the
// result beyond logging; nothing the sink returns can unwind a checkout.
type SaleSink interface {
	SubmitSale(ctx context.Context, lines []*checkout.FinalizedSaleLine) error
}

package monitoring

import (
	"context"

	"github.com/kobina/pos-cart-service/internal/application/ports"
	"github.com/kobina/pos-cart-service/internal/domain/checkout"
)

// InstrumentedSaleSink counts failed background hand-offs without the
// application layer knowing about metrics.
type InstrumentedSaleSink struct {
	next ports.SaleSink
}

func NewInstrumentedSaleSink(next ports.SaleSink) *InstrumentedSaleSink {
	return &InstrumentedSaleSink{next: next}
}

func (s *InstrumentedSaleSink) SubmitSale(ctx context.Context, lines []*checkout.FinalizedSaleLine) error {
	if err := s.next.SubmitSale(ctx, lines); err != nil {
		RecordSaleHandOffFailure()
		return err
	}
	return nil
}

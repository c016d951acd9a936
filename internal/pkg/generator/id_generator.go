package generator

import (
	"fmt"

	"github.com/google/uuid"
)

type IDGenerator struct{}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// GenerateSessionID returns the identifier for a new terminal session.
func (g *IDGenerator) GenerateSessionID() string {
	return fmt.Sprintf("POS-%s", uuid.NewString())
}

// GenerateClientSaleID returns the idempotency key attached to one emitted
// sale line. The submission sink uses it to drop duplicate hand-offs after
// offline or poor-network retries.
func (g *IDGenerator) GenerateClientSaleID() string {
	return uuid.NewString()
}

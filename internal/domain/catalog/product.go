package catalog

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/kobina/pos-cart-service/internal/domain/errors"
)

// SellingUnit is how one cart line sells a product: loose pieces or a
// fixed-size pack priced separately.
type SellingUnit string

const (
	UnitPiece SellingUnit = "piece"
	UnitPack  SellingUnit = "pack"
)

func (u SellingUnit) Valid() bool {
	return u == UnitPiece || u == UnitPack
}

// Product is one row of the stock ledger snapshot. The cart engine reads it,
// never mutates it; CurrentStock may be fractional and may go negative in the
// ledger itself (historic corrections), so availability is always clamped.
type Product struct {
	ID               int64
	SKU              string
	Name             string
	Category         string
	Unit             string
	CurrentStock     decimal.Decimal
	SellingPrice     decimal.Decimal
	PackSize         *int
	PackSellingPrice *decimal.Decimal
}

// AvailableStock is the piece count shown to the operator and compared by the
// availability validator: the ledger stock floor-clamped to zero.
func (p *Product) AvailableStock() decimal.Decimal {
	if p.CurrentStock.IsNegative() {
		return decimal.Zero
	}
	return p.CurrentStock
}

// CanSellByPack reports whether pack-unit lines are allowed for this product.
// A missing or non-positive pack size would make the piece conversion
// meaningless, so pack selection is rejected up front.
func (p *Product) CanSellByPack() bool {
	return p.PackSize != nil && *p.PackSize > 0 && p.PackSellingPrice != nil
}

// UnitPrice returns the selling price for the given unit.
func (p *Product) UnitPrice(unit SellingUnit) (decimal.Decimal, error) {
	switch unit {
	case UnitPiece:
		return p.SellingPrice, nil
	case UnitPack:
		if !p.CanSellByPack() {
			return decimal.Zero, domainErrors.ErrPackNotSellable
		}
		return *p.PackSellingPrice, nil
	}
	return decimal.Zero, domainErrors.ErrPackNotSellable
}

// PiecesPerUnit returns how many ledger pieces one sold unit consumes.
func (p *Product) PiecesPerUnit(unit SellingUnit) (int, error) {
	switch unit {
	case UnitPiece:
		return 1, nil
	case UnitPack:
		if !p.CanSellByPack() {
			return 0, domainErrors.ErrPackNotSellable
		}
		return *p.PackSize, nil
	}
	return 0, domainErrors.ErrPackNotSellable
}

// Snapshot is the ordered, read-only product list one session validates
// against. Order follows the product source.
type Snapshot struct {
	products []*Product
	byID     map[int64]*Product
}

func NewSnapshot(products []*Product) *Snapshot {
	byID := make(map[int64]*Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Snapshot{
		products: products,
		byID:     byID,
	}
}

func (s *Snapshot) Products() []*Product {
	return s.products
}

func (s *Snapshot) Get(id int64) (*Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, domainErrors.ErrProductNotFound
	}
	return p, nil
}

func (s *Snapshot) Len() int {
	return len(s.products)
}

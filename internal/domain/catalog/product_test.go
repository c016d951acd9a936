package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestAvailableStock_ClampsNegative(t *testing.T) {
	p := &Product{ID: 1, Name: "Cement", CurrentStock: decimal.NewFromInt(-3)}

	if !p.AvailableStock().IsZero() {
		t.Errorf("expected negative ledger stock to clamp to zero, got %s", p.AvailableStock())
	}
}

func TestAvailableStock_PassesThroughFractional(t *testing.T) {
	p := &Product{ID: 1, CurrentStock: decimal.RequireFromString("2.5")}

	if !p.AvailableStock().Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("expected 2.5, got %s", p.AvailableStock())
	}
}

func TestCanSellByPack(t *testing.T) {
	tests := []struct {
		name     string
		packSize *int
		price    *decimal.Decimal
		want     bool
	}{
		{"both set", intPtr(6), decPtr("50"), true},
		{"no pack size", nil, decPtr("50"), false},
		{"zero pack size", intPtr(0), decPtr("50"), false},
		{"negative pack size", intPtr(-2), decPtr("50"), false},
		{"no pack price", intPtr(6), nil, false},
		{"neither", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{ID: 1, PackSize: tt.packSize, PackSellingPrice: tt.price}
			if got := p.CanSellByPack(); got != tt.want {
				t.Errorf("CanSellByPack() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnitPrice_PackWithoutPackPricing(t *testing.T) {
	p := &Product{ID: 1, SellingPrice: decimal.NewFromInt(10)}

	if _, err := p.UnitPrice(UnitPack); err == nil {
		t.Error("expected error for pack price on piece-only product")
	}

	price, err := p.UnitPrice(UnitPiece)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !price.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected piece price 10, got %s", price)
	}
}

func TestPiecesPerUnit(t *testing.T) {
	p := &Product{ID: 1, PackSize: intPtr(6), PackSellingPrice: decPtr("50")}

	per, err := p.PiecesPerUnit(UnitPack)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if per != 6 {
		t.Errorf("expected 6 pieces per pack, got %d", per)
	}

	per, err = p.PiecesPerUnit(UnitPiece)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if per != 1 {
		t.Errorf("expected 1 piece per piece, got %d", per)
	}
}

func TestSnapshot_GetAndOrder(t *testing.T) {
	products := []*Product{
		{ID: 2, Name: "Bolt"},
		{ID: 1, Name: "Nail"},
	}
	snap := NewSnapshot(products)

	if snap.Len() != 2 {
		t.Fatalf("expected 2 products, got %d", snap.Len())
	}

	got := snap.Products()
	if got[0].ID != 2 || got[1].ID != 1 {
		t.Error("expected snapshot to preserve source order")
	}

	if _, err := snap.Get(1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := snap.Get(99); err == nil {
		t.Error("expected error for unknown product")
	}
}

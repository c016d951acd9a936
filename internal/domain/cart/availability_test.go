package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kobina/pos-cart-service/internal/domain/catalog"
	domainErrors "github.com/kobina/pos-cart-service/internal/domain/errors"
)

// Five pieces in stock, pack of six: the pack is rejected outright, loose
// pieces sell one at a time until the fifth, and the sixth is rejected.
func TestAvailability_PackLargerThanStock(t *testing.T) {
	c := New()
	eggs := packProduct(1, "Eggs", 5, "2", 6, "11")

	err := c.AddLine(eggs, catalog.UnitPack)
	if !domainErrors.IsOutOfStock(err) {
		t.Fatalf("expected out-of-stock error, got %v", err)
	}
	if err.Error() != "Not enough stock. Available: 5" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !c.IsEmpty() {
		t.Error("rejected pack add must leave the cart unchanged")
	}

	for i := 0; i < 5; i++ {
		if err := c.AddLine(eggs, catalog.UnitPiece); err != nil {
			t.Fatalf("piece add %d: unexpected error: %v", i+1, err)
		}
	}

	err = c.AddLine(eggs, catalog.UnitPiece)
	if !domainErrors.IsOutOfStock(err) {
		t.Fatalf("expected sixth piece rejected, got %v", err)
	}
	if qty := c.Lines()[0].Quantity; qty != 5 {
		t.Errorf("expected quantity to stay at 5, got %d", qty)
	}
}

// Piece and pack lines of the same product share one stock pool.
func TestAvailability_AggregatesAcrossUnits(t *testing.T) {
	c := New()
	eggs := packProduct(1, "Eggs", 8, "2", 6, "11")

	if err := c.AddLine(eggs, catalog.UnitPack); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddLine(eggs, catalog.UnitPiece); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddLine(eggs, catalog.UnitPiece); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 6 + 2 pieces committed; a ninth piece exceeds the pool of 8.
	err := c.AddLine(eggs, catalog.UnitPiece)
	if !domainErrors.IsOutOfStock(err) {
		t.Errorf("expected out-of-stock across units, got %v", err)
	}
}

func TestAvailability_NegativeStockSellsNothing(t *testing.T) {
	c := New()
	p := pieceProduct(1, "Flour", 0, "3")
	p.CurrentStock = decimal.NewFromInt(-4)

	err := c.AddLine(p, catalog.UnitPiece)
	if !domainErrors.IsOutOfStock(err) {
		t.Fatalf("expected out-of-stock error, got %v", err)
	}
	if err.Error() != "Not enough stock. Available: 0" {
		t.Errorf("expected availability reported as 0, got %q", err.Error())
	}
}

func TestAvailability_FractionalStock(t *testing.T) {
	c := New()
	p := pieceProduct(1, "Rope", 0, "3")
	p.CurrentStock = decimal.RequireFromString("2.5")

	if err := c.AddLine(p, catalog.UnitPiece); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddLine(p, catalog.UnitPiece); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3 > 2.5
	err := c.AddLine(p, catalog.UnitPiece)
	if !domainErrors.IsOutOfStock(err) {
		t.Errorf("expected third piece rejected against 2.5, got %v", err)
	}
}

func TestPiecesRequired_HypotheticalReplacesStoredLine(t *testing.T) {
	eggs := packProduct(1, "Eggs", 100, "2", 6, "11")
	lines := []*Line{
		{Product: eggs, Unit: catalog.UnitPack, Quantity: 2},
		{Product: eggs, Unit: catalog.UnitPiece, Quantity: 3},
	}

	got := PiecesRequired(lines, 1, &Hypothetical{
		Key:      Key{ProductID: 1, Unit: catalog.UnitPiece},
		Quantity: 5,
		Product:  eggs,
	})
	if got != 17 { // 2*6 + 5
		t.Errorf("expected 17 pieces, got %d", got)
	}

	got = PiecesRequired(lines, 1, nil)
	if got != 15 { // 2*6 + 3
		t.Errorf("expected 15 pieces, got %d", got)
	}
}

func TestCheckCart_FirstViolationWins(t *testing.T) {
	soap := pieceProduct(1, "Soap", 1, "5")
	flour := pieceProduct(2, "Flour", 1, "3")

	lines := []*Line{
		{Product: soap, Unit: catalog.UnitPiece, Quantity: 2},
		{Product: flour, Unit: catalog.UnitPiece, Quantity: 2},
	}

	err := CheckCart(lines)
	if !domainErrors.IsOutOfStock(err) {
		t.Fatalf("expected out-of-stock error, got %v", err)
	}

	var oos *domainErrors.OutOfStockError
	if !asOutOfStock(err, &oos) || oos.ProductName != "Soap" {
		t.Errorf("expected the first line's product reported, got %v", err)
	}
}

func asOutOfStock(err error, target **domainErrors.OutOfStockError) bool {
	e, ok := err.(*domainErrors.OutOfStockError)
	if ok {
		*target = e
	}
	return ok
}

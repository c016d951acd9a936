package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kobina/pos-cart-service/internal/domain/catalog"
	domainErrors "github.com/kobina/pos-cart-service/internal/domain/errors"
)

func pieceProduct(id int64, name string, stock int64, price string) *catalog.Product {
	return &catalog.Product{
		ID:           id,
		Name:         name,
		CurrentStock: decimal.NewFromInt(stock),
		SellingPrice: decimal.RequireFromString(price),
	}
}

func packProduct(id int64, name string, stock int64, price string, packSize int, packPrice string) *catalog.Product {
	p := pieceProduct(id, name, stock, price)
	p.PackSize = &packSize
	pp := decimal.RequireFromString(packPrice)
	p.PackSellingPrice = &pp
	return p
}

func TestAddLine_IncrementsSameKey(t *testing.T) {
	c := New()
	soap := pieceProduct(1, "Soap", 10, "5")

	for i := 0; i < 3; i++ {
		if err := c.AddLine(soap, catalog.UnitPiece); err != nil {
			t.Fatalf("add %d: unexpected error: %v", i, err)
		}
	}

	if c.Len() != 1 {
		t.Fatalf("expected a single line, got %d", c.Len())
	}
	if qty := c.Lines()[0].Quantity; qty != 3 {
		t.Errorf("expected quantity 3, got %d", qty)
	}
}

func TestAddLine_SeparateLinesPerUnit(t *testing.T) {
	c := New()
	eggs := packProduct(1, "Eggs", 60, "2", 30, "55")

	if err := c.AddLine(eggs, catalog.UnitPiece); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddLine(eggs, catalog.UnitPack); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Len() != 2 {
		t.Fatalf("expected two lines for piece and pack, got %d", c.Len())
	}
	if c.TotalUnits() != 2 {
		t.Errorf("expected 2 units across lines, got %d", c.TotalUnits())
	}
}

func TestAddLine_PackOnPieceOnlyProduct(t *testing.T) {
	c := New()
	soap := pieceProduct(1, "Soap", 10, "5")

	if err := c.AddLine(soap, catalog.UnitPack); err != domainErrors.ErrPackNotSellable {
		t.Errorf("expected ErrPackNotSellable, got %v", err)
	}
	if !c.IsEmpty() {
		t.Error("rejected add must leave the cart empty")
	}
}

func TestSetQuantity_UnknownLine(t *testing.T) {
	c := New()

	err := c.SetQuantity(Key{ProductID: 9, Unit: catalog.UnitPiece}, 2)
	if err != domainErrors.ErrLineNotFound {
		t.Errorf("expected ErrLineNotFound, got %v", err)
	}
}

func TestSetQuantity_BelowOneRemovesLine(t *testing.T) {
	c := New()
	soap := pieceProduct(1, "Soap", 10, "5")
	if err := c.AddLine(soap, catalog.UnitPiece); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := c.SetQuantity(Key{ProductID: 1, Unit: catalog.UnitPiece}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsEmpty() {
		t.Error("expected quantity zero to remove the line")
	}
}

func TestSetQuantity_RejectionKeepsOldQuantity(t *testing.T) {
	c := New()
	soap := pieceProduct(1, "Soap", 5, "5")
	if err := c.AddLine(soap, catalog.UnitPiece); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := c.SetQuantity(Key{ProductID: 1, Unit: catalog.UnitPiece}, 6)
	if !domainErrors.IsOutOfStock(err) {
		t.Fatalf("expected out-of-stock error, got %v", err)
	}
	if qty := c.Lines()[0].Quantity; qty != 1 {
		t.Errorf("expected quantity untouched at 1, got %d", qty)
	}
}

func TestRemoveLine_AbsentKeyIsNoOp(t *testing.T) {
	c := New()
	soap := pieceProduct(1, "Soap", 10, "5")
	if err := c.AddLine(soap, catalog.UnitPiece); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.RemoveLine(Key{ProductID: 99, Unit: catalog.UnitPiece})
	if c.Len() != 1 {
		t.Errorf("expected cart unchanged, got %d lines", c.Len())
	}
}

func TestUndoLastAdd_DecrementsThenRemoves(t *testing.T) {
	c := New()
	soap := pieceProduct(1, "Soap", 10, "5")

	c.AddLine(soap, catalog.UnitPiece)
	c.AddLine(soap, catalog.UnitPiece)

	if !c.UndoLastAdd() {
		t.Fatal("expected undo to apply")
	}
	if qty := c.Lines()[0].Quantity; qty != 1 {
		t.Errorf("expected quantity 1 after undo, got %d", qty)
	}

	// Pointer is consumed: a second undo without a new add is a no-op.
	if c.UndoLastAdd() {
		t.Error("expected second undo to be a no-op")
	}
	if c.Len() != 1 {
		t.Errorf("expected line to survive the no-op undo, got %d lines", c.Len())
	}
}

func TestUndoLastAdd_RemovesSingleUnitLine(t *testing.T) {
	c := New()
	soap := pieceProduct(1, "Soap", 10, "5")
	c.AddLine(soap, catalog.UnitPiece)

	if !c.UndoLastAdd() {
		t.Fatal("expected undo to apply")
	}
	if !c.IsEmpty() {
		t.Error("expected undo of a fresh line to empty the cart")
	}
}

func TestUndoLastAdd_PointerClearedByRemove(t *testing.T) {
	c := New()
	soap := pieceProduct(1, "Soap", 10, "5")
	c.AddLine(soap, catalog.UnitPiece)
	c.RemoveLine(Key{ProductID: 1, Unit: catalog.UnitPiece})

	if c.UndoLastAdd() {
		t.Error("expected undo after removing the target line to be a no-op")
	}
}

func TestTotals(t *testing.T) {
	c := New()
	soap := pieceProduct(1, "Soap", 100, "2.50")
	eggs := packProduct(2, "Eggs", 120, "2", 30, "55")

	c.AddLine(soap, catalog.UnitPiece)
	c.AddLine(soap, catalog.UnitPiece)
	c.AddLine(eggs, catalog.UnitPack)

	want := decimal.RequireFromString("60") // 2*2.50 + 55
	if !c.Total().Equal(want) {
		t.Errorf("expected total %s, got %s", want, c.Total())
	}
	if c.TotalUnits() != 3 {
		t.Errorf("expected 3 units, got %d", c.TotalUnits())
	}
}

func TestClear(t *testing.T) {
	c := New()
	soap := pieceProduct(1, "Soap", 10, "5")
	c.AddLine(soap, catalog.UnitPiece)

	c.Clear()

	if !c.IsEmpty() {
		t.Error("expected empty cart after clear")
	}
	if c.UndoLastAdd() {
		t.Error("expected undo pointer dropped by clear")
	}
}

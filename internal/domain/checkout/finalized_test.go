package checkout

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kobina/pos-cart-service/internal/domain/cart"
	"github.com/kobina/pos-cart-service/internal/domain/catalog"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("sale-%d", n)
	}
}

func testLines() []*cart.Line {
	soap := &catalog.Product{
		ID:           1,
		Name:         "Soap",
		CurrentStock: decimal.NewFromInt(100),
		SellingPrice: decimal.NewFromInt(10),
	}

	packSize := 6
	packPrice := decimal.NewFromInt(20)
	eggs := &catalog.Product{
		ID:               2,
		Name:             "Eggs",
		CurrentStock:     decimal.NewFromInt(100),
		SellingPrice:     decimal.NewFromInt(4),
		PackSize:         &packSize,
		PackSellingPrice: &packPrice,
	}

	return []*cart.Line{
		{Product: soap, Unit: catalog.UnitPiece, Quantity: 3},
		{Product: eggs, Unit: catalog.UnitPack, Quantity: 1},
	}
}

func TestBuildSaleLines_CashSale(t *testing.T) {
	ctx := NewContext()
	ctx.Notes = "counter 2"

	records := BuildSaleLines(testLines(), ctx, sequentialIDs())

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ClientSaleID != "sale-1" {
		t.Errorf("expected generated id sale-1, got %q", first.ClientSaleID)
	}
	if first.Quantity != 3 || first.SaleUnitType != "piece" {
		t.Errorf("unexpected piece line: qty=%d unit=%q", first.Quantity, first.SaleUnitType)
	}
	if first.PackQuantity != nil {
		t.Error("piece line must not carry a pack quantity")
	}
	if !first.TotalPrice.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected total 30, got %s", first.TotalPrice)
	}
	if first.CustomerName != nil {
		t.Error("cash sale must not carry a customer name")
	}
	if first.Notes == nil || *first.Notes != "counter 2" {
		t.Errorf("expected notes passed through, got %v", first.Notes)
	}
	if first.AmountPaid != nil || first.PartialPaymentMethod != nil {
		t.Error("cash sale must not carry partial payment fields")
	}

	second := records[1]
	if second.Quantity != 6 {
		t.Errorf("expected pack line normalized to 6 pieces, got %d", second.Quantity)
	}
	if second.PackQuantity == nil || *second.PackQuantity != 1 {
		t.Errorf("expected pack quantity 1, got %v", second.PackQuantity)
	}
	if !second.UnitPrice.Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected pack unit price 20, got %s", second.UnitPrice)
	}
}

func TestBuildSaleLines_CreditAttachesPayments(t *testing.T) {
	ctx := NewContext()
	ctx.PaymentMethod = PaymentCredit
	ctx.CustomerName = "Ama"
	ctx.CreditorPhone = "024 555 1234"
	ctx.InitialPayment = decimal.NewFromInt(40)

	// Totals are 30 and 20: first absorbs 30, second 10.
	records := BuildSaleLines(testLines(), ctx, sequentialIDs())

	if records[0].AmountPaid == nil || !records[0].AmountPaid.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected first line amount 30, got %v", records[0].AmountPaid)
	}
	if records[1].AmountPaid == nil || !records[1].AmountPaid.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected second line amount 10, got %v", records[1].AmountPaid)
	}
	for i, r := range records {
		if r.PartialPaymentMethod == nil || *r.PartialPaymentMethod != "cash" {
			t.Errorf("record %d: expected partial payment method cash, got %v", i, r.PartialPaymentMethod)
		}
		if r.CustomerName == nil || *r.CustomerName != "Ama" {
			t.Errorf("record %d: expected customer name, got %v", i, r.CustomerName)
		}
		if r.Notes == nil || *r.Notes != "Phone: 024 555 1234" {
			t.Errorf("record %d: expected phone in notes, got %v", i, r.Notes)
		}
	}
}

func TestBuildSaleLines_ZeroAmountStaysAbsent(t *testing.T) {
	ctx := NewContext()
	ctx.PaymentMethod = PaymentCredit
	ctx.CustomerName = "Ama"
	ctx.CreditorPhone = "0200000000"
	ctx.InitialPayment = decimal.NewFromInt(30)

	records := BuildSaleLines(testLines(), ctx, sequentialIDs())

	// The payment is consumed entirely by the first line.
	if records[0].AmountPaid == nil {
		t.Error("expected first line to carry the payment")
	}
	if records[1].AmountPaid != nil {
		t.Errorf("expected no amount on the exhausted line, got %v", records[1].AmountPaid)
	}
	if records[1].PartialPaymentMethod != nil {
		t.Error("partial payment method must be absent with the amount")
	}
}

func TestBuildSaleLines_NotesJoinedWithPhone(t *testing.T) {
	ctx := NewContext()
	ctx.PaymentMethod = PaymentCredit
	ctx.CustomerName = "Ama"
	ctx.CreditorPhone = "0200000000"
	ctx.Notes = "weekly customer"

	records := BuildSaleLines(testLines(), ctx, sequentialIDs())

	want := "weekly customer | Phone: 0200000000"
	if records[0].Notes == nil || *records[0].Notes != want {
		t.Errorf("expected %q, got %v", want, records[0].Notes)
	}
}

func TestBuildSaleLines_DistinctIDsPerLine(t *testing.T) {
	records := BuildSaleLines(testLines(), NewContext(), sequentialIDs())

	if records[0].ClientSaleID == records[1].ClientSaleID {
		t.Error("expected a distinct client sale id per line")
	}
}

package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kobina/pos-cart-service/internal/domain/cart"
	"github.com/kobina/pos-cart-service/internal/domain/catalog"
)

// PartialPaymentMethod tags how an up-front amount on a credit sale was taken.
// The terminal collects up-front payments in cash only.
const PartialPaymentMethod = "cash"

// FinalizedSaleLine is the immutable record emitted for one cart line at
// checkout. Quantity is normalized to pieces regardless of selling unit;
// PackQuantity carries the pack count only for pack-unit lines. AmountPaid is
// set only on credit lines that absorbed part of the up-front payment.
type FinalizedSaleLine struct {
	ClientSaleID         string           `json:"client_sale_id"`
	ProductID            int64            `json:"product_id"`
	Quantity             int              `json:"quantity"`
	SaleUnitType         string           `json:"sale_unit_type"`
	PackQuantity         *int             `json:"pack_quantity,omitempty"`
	UnitPrice            decimal.Decimal  `json:"unit_price"`
	TotalPrice           decimal.Decimal  `json:"total_price"`
	CustomerName         *string          `json:"customer_name"`
	PaymentMethod        string           `json:"payment_method"`
	Notes                *string          `json:"notes"`
	AmountPaid           *decimal.Decimal `json:"amount_paid,omitempty"`
	PartialPaymentMethod *string          `json:"partial_payment_method,omitempty"`
}

// BuildSaleLines turns the cart's lines, in their stored order, into the
// finalized records for one checkout. For credit sales the initial payment is
// allocated across the lines here, once, and the creditor phone is appended to
// every line's notes so the sink can attach it to the creditor record.
func BuildSaleLines(lines []*cart.Line, ctx Context, newClientSaleID func() string) []*FinalizedSaleLine {
	out := make([]*FinalizedSaleLine, 0, len(lines))

	for _, line := range lines {
		record := &FinalizedSaleLine{
			ClientSaleID:  newClientSaleID(),
			ProductID:     line.Product.ID,
			Quantity:      line.Pieces(),
			SaleUnitType:  string(line.Unit),
			UnitPrice:     line.UnitPrice(),
			TotalPrice:    line.Total(),
			CustomerName:  optionalString(ctx.CustomerName),
			PaymentMethod: string(ctx.PaymentMethod),
			Notes:         optionalString(buildNotes(ctx)),
		}

		if line.Unit == catalog.UnitPack {
			packs := line.Quantity
			record.PackQuantity = &packs
		}

		out = append(out, record)
	}

	if ctx.IsCredit() && ctx.InitialPayment.IsPositive() {
		attachPayments(out, ctx.InitialPayment)
	}

	return out
}

func attachPayments(records []*FinalizedSaleLine, payment decimal.Decimal) {
	totals := make([]decimal.Decimal, len(records))
	for i, r := range records {
		totals[i] = r.TotalPrice
	}

	applied := AllocateInitialPayment(totals, payment)
	method := PartialPaymentMethod

	for i, amount := range applied {
		if !amount.IsPositive() {
			continue
		}
		a := amount
		records[i].AmountPaid = &a
		records[i].PartialPaymentMethod = &method
	}
}

func buildNotes(ctx Context) string {
	notes := strings.TrimSpace(ctx.Notes)
	if !ctx.IsCredit() || strings.TrimSpace(ctx.CreditorPhone) == "" {
		return notes
	}

	phone := fmt.Sprintf("Phone: %s", strings.TrimSpace(ctx.CreditorPhone))
	if notes == "" {
		return phone
	}
	return notes + " | " + phone
}

func optionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

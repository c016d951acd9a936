package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kobina/pos-cart-service/internal/infrastructure/monitoring"
)

// SaleRow is one persisted sale line as returned to the back-office listing.
type SaleRow struct {
	ID                   int64            `json:"id"`
	ClientSaleID         string           `json:"client_sale_id"`
	ProductID            int64            `json:"product_id"`
	ProductName          string           `json:"product_name"`
	Quantity             int64            `json:"quantity"`
	SaleUnitType         string           `json:"sale_unit_type"`
	PackQuantity         *int64           `json:"pack_quantity,omitempty"`
	UnitPrice            decimal.Decimal  `json:"unit_price"`
	TotalPrice           decimal.Decimal  `json:"total_price"`
	CustomerName         *string          `json:"customer_name,omitempty"`
	PaymentMethod        string           `json:"payment_method"`
	Notes                *string          `json:"notes,omitempty"`
	AmountPaid           *decimal.Decimal `json:"amount_paid,omitempty"`
	PartialPaymentMethod *string          `json:"partial_payment_method,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
}

// SaleReader serves the read side of the sales table.
type SaleReader struct {
	db *sql.DB
}

func NewSaleReader(conn *Connection) *SaleReader {
	return &SaleReader{db: conn.GetDB()}
}

// ListRecent returns the newest sale lines first, capped at limit.
func (r *SaleReader) ListRecent(ctx context.Context, limit int) ([]*SaleRow, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "sales", `
		SELECT s.id, s.client_sale_id, s.product_id, p.name, s.quantity,
		       s.sale_unit_type, s.pack_quantity, s.unit_price, s.total_price,
		       s.customer_name, s.payment_method, s.notes, s.amount_paid,
		       s.partial_payment_method, s.created_at
		FROM sales s
		JOIN products p ON p.id = s.product_id
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []*SaleRow
	for rows.Next() {
		var row SaleRow
		var packQty sql.NullInt64
		var amountPaid decimal.NullDecimal
		var customer, notes, partialMethod sql.NullString
		if err := rows.Scan(
			&row.ID, &row.ClientSaleID, &row.ProductID, &row.ProductName, &row.Quantity,
			&row.SaleUnitType, &packQty, &row.UnitPrice, &row.TotalPrice,
			&customer, &row.PaymentMethod, &notes, &amountPaid,
			&partialMethod, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale row: %w", err)
		}
		if amountPaid.Valid {
			paid := amountPaid.Decimal
			row.AmountPaid = &paid
		}
		if packQty.Valid {
			row.PackQuantity = &packQty.Int64
		}
		if customer.Valid {
			row.CustomerName = &customer.String
		}
		if notes.Valid {
			row.Notes = &notes.String
		}
		if partialMethod.Valid {
			row.PartialPaymentMethod = &partialMethod.String
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}

package postgres

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/kobina/pos-cart-service/internal/domain/catalog"
	"github.com/kobina/pos-cart-service/internal/infrastructure/monitoring"
)

// ProductSource reads the stock ledger view: one row per product with its
// current stock as the sum of all stock movements.
type ProductSource struct {
	db *sql.DB
}

func NewProductSource(conn *Connection) *ProductSource {
	return &ProductSource{db: conn.GetDB()}
}

func (s *ProductSource) LoadSnapshot(ctx context.Context) (*catalog.Snapshot, error) {
	query := `
		SELECT p.id, p.sku, p.name, COALESCE(p.category, ''), COALESCE(p.unit, 'unit'),
		       p.selling_price, p.pack_size, p.pack_selling_price,
		       COALESCE(SUM(m.change), 0) AS current_stock
		FROM products p
		LEFT JOIN stock_movements m ON m.product_id = p.id
		GROUP BY p.id
		ORDER BY p.name ASC, p.id ASC
	`

	rows, err := monitoring.InstrumentQuery(ctx, s.db, "SELECT", "products", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		var (
			p            catalog.Product
			packSize     sql.NullInt64
			packPrice    decimal.NullDecimal
			sellingPrice decimal.NullDecimal
		)

		if err := rows.Scan(
			&p.ID, &p.SKU, &p.Name, &p.Category, &p.Unit,
			&sellingPrice, &packSize, &packPrice, &p.CurrentStock,
		); err != nil {
			return nil, err
		}

		if sellingPrice.Valid {
			p.SellingPrice = sellingPrice.Decimal
		}
		if packSize.Valid {
			size := int(packSize.Int64)
			p.PackSize = &size
		}
		if packPrice.Valid {
			price := packPrice.Decimal
			p.PackSellingPrice = &price
		}

		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return catalog.NewSnapshot(products), nil
}

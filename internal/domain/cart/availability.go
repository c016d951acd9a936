package cart

import (
	"github.com/shopspring/decimal"

	"github.com/kobina/pos-cart-service/internal/domain/catalog"
	domainErrors "github.com/kobina/pos-cart-service/internal/domain/errors"
)

// PiecesRequired computes the total piece demand a set of lines places on one
// product, across every selling unit. When hypothetical is non-nil, the line
// matching its key is counted at the hypothetical quantity instead of its
// stored one; a key not present in the lines contributes as a new line.
type Hypothetical struct {
	Key      Key
	Quantity int
	Product  *catalog.Product
}

func PiecesRequired(lines []*Line, productID int64, hypothetical *Hypothetical) int {
	required := 0
	replaced := false

	for _, line := range lines {
		if line.Product.ID != productID {
			continue
		}
		if hypothetical != nil && line.Key() == hypothetical.Key {
			required += hypotheticalPieces(hypothetical)
			replaced = true
			continue
		}
		required += line.Pieces()
	}

	if hypothetical != nil && !replaced && hypothetical.Key.ProductID == productID {
		required += hypotheticalPieces(hypothetical)
	}

	return required
}

func hypotheticalPieces(h *Hypothetical) int {
	per, err := h.Product.PiecesPerUnit(h.Key.Unit)
	if err != nil {
		return h.Quantity
	}
	return h.Quantity * per
}

// CheckLine validates a hypothetical quantity change for one (product, unit)
// key against the product's clamped availability, counting every line that
// touches the product.
func CheckLine(lines []*Line, product *catalog.Product, key Key, newQuantity int) error {
	required := PiecesRequired(lines, product.ID, &Hypothetical{
		Key:      key,
		Quantity: newQuantity,
		Product:  product,
	})

	available := product.AvailableStock()
	if decimal.NewFromInt(int64(required)).GreaterThan(available) {
		return domainErrors.NewOutOfStock(product.Name, available)
	}
	return nil
}

// CheckCart re-runs the availability computation for every product the cart
// touches. It runs once at submission time as a defense against stale
// terminal state and reports only the first failing product, in line order.
func CheckCart(lines []*Line) error {
	seen := make(map[int64]bool, len(lines))
	for _, line := range lines {
		product := line.Product
		if seen[product.ID] {
			continue
		}
		seen[product.ID] = true

		required := PiecesRequired(lines, product.ID, nil)
		available := product.AvailableStock()
		if decimal.NewFromInt(int64(required)).GreaterThan(available) {
			return domainErrors.NewOutOfStock(product.Name, available)
		}
	}
	return nil
}

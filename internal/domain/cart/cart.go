package cart

import (
	"github.com/shopspring/decimal"

	"github.com/kobina/pos-cart-service/internal/domain/catalog"
	domainErrors "github.com/kobina/pos-cart-service/internal/domain/errors"
)

// Key identifies one cart line. The same product may appear twice in a cart
// when sold under different units (loose pieces and a pack), never twice under
// the same unit.
type Key struct {
	ProductID int64
	Unit      catalog.SellingUnit
}

type Line struct {
	Product  *catalog.Product
	Unit     catalog.SellingUnit
	Quantity int
}

func (l *Line) Key() Key {
	return Key{ProductID: l.Product.ID, Unit: l.Unit}
}

func (l *Line) UnitPrice() decimal.Decimal {
	price, err := l.Product.UnitPrice(l.Unit)
	if err != nil {
		return decimal.Zero
	}
	return price
}

// Total is the line total in the line's own selling unit.
func (l *Line) Total() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Pieces is the line's demand on the stock ledger, normalized to pieces.
func (l *Line) Pieces() int {
	per, err := l.Product.PiecesPerUnit(l.Unit)
	if err != nil {
		return l.Quantity
	}
	return l.Quantity * per
}

// Cart is an ordered sequence of lines. Insertion order is significant: the
// payment allocator walks it front to back and undo targets the newest add.
type Cart struct {
	lines     []*Line
	lastAdded *Key
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) Lines() []*Line {
	out := make([]*Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) find(key Key) (*Line, int) {
	for i, line := range c.lines {
		if line.Key() == key {
			return line, i
		}
	}
	return nil, -1
}

// AddLine adds one unit of the product under the given selling unit,
// incrementing the existing line when the (product, unit) key is already in
// the cart. The mutation is rejected, cart untouched, when the added unit
// would push the product's piece-equivalent demand past its availability.
func (c *Cart) AddLine(product *catalog.Product, unit catalog.SellingUnit) error {
	if !unit.Valid() {
		return domainErrors.ErrPackNotSellable
	}
	if unit == catalog.UnitPack && !product.CanSellByPack() {
		return domainErrors.ErrPackNotSellable
	}

	key := Key{ProductID: product.ID, Unit: unit}
	quantity := 1
	if line, _ := c.find(key); line != nil {
		quantity = line.Quantity + 1
	}

	if err := CheckLine(c.lines, product, key, quantity); err != nil {
		return err
	}

	if line, _ := c.find(key); line != nil {
		line.Quantity = quantity
	} else {
		c.lines = append(c.lines, &Line{
			Product:  product,
			Unit:     unit,
			Quantity: 1,
		})
	}

	c.lastAdded = &key
	return nil
}

// SetQuantity replaces a line's quantity. A quantity below one removes the
// line. On an availability violation the quantity is left unchanged and the
// error is returned; there is no silent clamping.
func (c *Cart) SetQuantity(key Key, quantity int) error {
	line, _ := c.find(key)
	if line == nil {
		return domainErrors.ErrLineNotFound
	}

	if quantity < 1 {
		c.RemoveLine(key)
		return nil
	}

	if err := CheckLine(c.lines, line.Product, key, quantity); err != nil {
		return err
	}

	line.Quantity = quantity
	return nil
}

// RemoveLine deletes the matching line. Removing an absent key is a no-op.
func (c *Cart) RemoveLine(key Key) {
	_, idx := c.find(key)
	if idx < 0 {
		return
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	if c.lastAdded != nil && *c.lastAdded == key {
		c.lastAdded = nil
	}
}

// Clear empties the cart and drops the undo pointer.
func (c *Cart) Clear() {
	c.lines = nil
	c.lastAdded = nil
}

// UndoLastAdd reverts the most recent AddLine by one unit, removing the line
// when the quantity reaches zero. The pointer is consumed either way. With no
// pending pointer, or when the pointed-at line is gone, it is a no-op.
func (c *Cart) UndoLastAdd() bool {
	if c.lastAdded == nil {
		return false
	}
	key := *c.lastAdded
	c.lastAdded = nil

	line, _ := c.find(key)
	if line == nil {
		return false
	}

	if line.Quantity <= 1 {
		c.RemoveLine(key)
	} else {
		line.Quantity--
	}
	return true
}

// Total is the grand total over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Total())
	}
	return total
}

// TotalUnits counts units sold across lines in their own selling units, not
// pieces: three loose pieces and one pack count as four.
func (c *Cart) TotalUnits() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

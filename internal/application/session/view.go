package session

import (
	"github.com/shopspring/decimal"
)

// LineView is one cart line flattened for the transport layer.
type LineView struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Unit        string          `json:"unit"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type MessageView struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

// View is a consistent read of the whole session, taken under one lock.
type View struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	Lines         []LineView      `json:"lines"`
	CartTotal     decimal.Decimal `json:"cart_total"`
	TotalUnits    int             `json:"total_units"`
	PaymentMethod string          `json:"payment_method"`
	CustomerName  string          `json:"customer_name"`
	Notes         string          `json:"notes"`
	ClearArmed    bool            `json:"clear_armed"`
	Message       *MessageView    `json:"message,omitempty"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.cart.Lines()
	views := make([]LineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, LineView{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			SKU:         line.Product.SKU,
			Unit:        string(line.Unit),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice(),
			LineTotal:   line.Total(),
		})
	}

	view := View{
		ID:            s.ID,
		Status:        string(s.status),
		Lines:         views,
		CartTotal:     s.cart.Total(),
		TotalUnits:    s.cart.TotalUnits(),
		PaymentMethod: string(s.checkout.PaymentMethod),
		CustomerName:  s.checkout.CustomerName,
		Notes:         s.checkout.Notes,
		ClearArmed:    s.clearArmed(s.clk.Now()),
	}

	if msg := s.currentMessageLocked(); msg != nil {
		view.Message = &MessageView{Text: msg.Text, Kind: string(msg.Kind)}
	}

	return view
}

package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kobina/pos-cart-service/internal/application/session"
	"github.com/kobina/pos-cart-service/internal/infrastructure/http/response"
)

type ProductsHandler struct {
	loader session.SnapshotLoader
	log    *zap.Logger
}

func NewProductsHandler(loader session.SnapshotLoader, log *zap.Logger) *ProductsHandler {
	return &ProductsHandler{
		loader: loader,
		log:    log,
	}
}

type ProductView struct {
	ID               int64            `json:"id"`
	SKU              string           `json:"sku"`
	Name             string           `json:"name"`
	Category         string           `json:"category"`
	Unit             string           `json:"unit"`
	AvailableStock   decimal.Decimal  `json:"available_stock"`
	SellingPrice     decimal.Decimal  `json:"selling_price"`
	PackSize         *int             `json:"pack_size,omitempty"`
	PackSellingPrice *decimal.Decimal `json:"pack_selling_price,omitempty"`
	CanSellByPack    bool             `json:"can_sell_by_pack"`
}

func (h *ProductsHandler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := h.loader(r.Context())
	if err != nil {
		h.log.Error("product snapshot load failed", zap.Error(err))
		response.WriteError(w, http.StatusServiceUnavailable, response.StatusError, "Product catalog unavailable")
		return
	}

	products := snapshot.Products()
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{
			ID:               p.ID,
			SKU:              p.SKU,
			Name:             p.Name,
			Category:         p.Category,
			Unit:             p.Unit,
			AvailableStock:   p.AvailableStock(),
			SellingPrice:     p.SellingPrice,
			PackSize:         p.PackSize,
			PackSellingPrice: p.PackSellingPrice,
			CanSellByPack:    p.CanSellByPack(),
		})
	}

	response.WriteSuccess(w, views)
}

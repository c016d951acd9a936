package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/kobina/pos-cart-service/internal/infrastructure/http/response"
	"github.com/kobina/pos-cart-service/internal/infrastructure/persistence/postgres"
)

type SalesHandler struct {
	reader *postgres.SaleReader
	log    *zap.Logger
}

func NewSalesHandler(reader *postgres.SaleReader, log *zap.Logger) *SalesHandler {
	return &SalesHandler{
		reader: reader,
		log:    log,
	}
}

func (h *SalesHandler) HandleListSales(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			response.WriteValidationError(w, "Validation failed", map[string]string{
				"limit": "limit must be an integer between 1 and 500",
			})
			return
		}
		limit = parsed
	}

	sales, err := h.reader.ListRecent(r.Context(), limit)
	if err != nil {
		h.log.Error("sale listing failed", zap.Error(err))
		response.WriteError(w, http.StatusInternalServerError, response.StatusInternalError, "Internal server error")
		return
	}

	response.WriteSuccess(w, sales)
}

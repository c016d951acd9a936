package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kobina/pos-cart-service/internal/application/ports"
	"github.com/kobina/pos-cart-service/internal/infrastructure/http/response"
)

type CategoriesHandler struct {
	registry ports.CategoryRegistry
	log      *zap.Logger
}

func NewCategoriesHandler(registry ports.CategoryRegistry, log *zap.Logger) *CategoriesHandler {
	return &CategoriesHandler{
		registry: registry,
		log:      log,
	}
}

func (h *CategoriesHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleRegister(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *CategoriesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.registry.Categories(r.Context())
	if err != nil {
		h.log.Error("category listing failed", zap.Error(err))
		response.WriteError(w, http.StatusServiceUnavailable, response.StatusError, "Category registry unavailable")
		return
	}
	response.WriteSuccess(w, names)
}

func (h *CategoriesHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Invalid request body", nil)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"name": "name is required",
		})
		return
	}

	if err := h.registry.Register(r.Context(), name); err != nil {
		h.log.Error("category registration failed", zap.String("category", name), zap.Error(err))
		response.WriteError(w, http.StatusServiceUnavailable, response.StatusError, "Category registry unavailable")
		return
	}

	response.WriteJSON(w, http.StatusCreated, response.Success(map[string]string{"name": name}))
}

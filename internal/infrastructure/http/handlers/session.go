package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kobina/pos-cart-service/internal/application/session"
	"github.com/kobina/pos-cart-service/internal/domain/catalog"
	"github.com/kobina/pos-cart-service/internal/domain/checkout"
	domainErrors "github.com/kobina/pos-cart-service/internal/domain/errors"
	"github.com/kobina/pos-cart-service/internal/infrastructure/http/response"
	"github.com/kobina/pos-cart-service/internal/infrastructure/monitoring"
)

type SessionHandler struct {
	store *session.Store
	log   *zap.Logger
}

func NewSessionHandler(store *session.Store, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		store: store,
		log:   log,
	}
}

func (h *SessionHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, err := h.store.Create(r.Context())
	if err != nil {
		h.log.Error("session creation failed", zap.Error(err))
		response.WriteError(w, http.StatusServiceUnavailable, response.StatusError, "Product catalog unavailable")
		return
	}

	monitoring.SetActiveSessions(h.store.Len())
	response.WriteJSON(w, http.StatusCreated, response.Success(sess.View()))
}

func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, err := h.store.Get(sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteSuccess(w, sess.View())
}

func (h *SessionHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	h.store.Remove(sessionID)
	monitoring.SetActiveSessions(h.store.Len())
	w.WriteHeader(http.StatusNoContent)
}

type lineRequest struct {
	ProductID int64  `json:"product_id"`
	Unit      string `json:"unit"`
	Quantity  *int   `json:"quantity,omitempty"`
}

func (h *SessionHandler) HandleLines(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, err := h.store.Get(sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	var req lineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Invalid request body", nil)
		return
	}

	unit := catalog.SellingUnit(req.Unit)
	if !unit.Valid() {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"unit": "unit must be \"piece\" or \"pack\"",
		})
		return
	}

	switch r.Method {
	case http.MethodPost:
		err = sess.AddLine(req.ProductID, unit)
		monitoring.RecordCartMutation("add_line")
	case http.MethodPut:
		if req.Quantity == nil {
			response.WriteValidationError(w, "Validation failed", map[string]string{
				"quantity": "quantity is required",
			})
			return
		}
		err = sess.SetQuantity(req.ProductID, unit, *req.Quantity)
		monitoring.RecordCartMutation("set_quantity")
	case http.MethodDelete:
		err = sess.RemoveLine(req.ProductID, unit)
		monitoring.RecordCartMutation("remove_line")
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteSuccess(w, sess.View())
}

func (h *SessionHandler) HandleUndo(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, err := h.store.Get(sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	if err := sess.UndoLastAdd(); err != nil {
		response.WriteDomainError(w, err)
		return
	}
	monitoring.RecordCartMutation("undo_last_add")
	response.WriteSuccess(w, sess.View())
}

type clearResult struct {
	Cleared bool         `json:"cleared"`
	Session session.View `json:"session"`
}

// HandleClear drives the two-step clear: the first call arms, the second
// inside the window clears. The armed state rides back on the view.
func (h *SessionHandler) HandleClear(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, err := h.store.Get(sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	cleared := sess.RequestClear()
	if cleared {
		monitoring.RecordCartMutation("clear")
	}
	response.WriteSuccess(w, clearResult{Cleared: cleared, Session: sess.View()})
}

type checkoutFieldsRequest struct {
	PaymentMethod string `json:"payment_method"`
	CustomerName  string `json:"customer_name"`
	Notes         string `json:"notes"`
}

func (h *SessionHandler) HandleCheckoutFields(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, err := h.store.Get(sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	var req checkoutFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Invalid request body", nil)
		return
	}

	method, err := checkout.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	if err := sess.SetCheckoutFields(method, req.CustomerName, req.Notes); err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteSuccess(w, sess.View())
}

type submitResult struct {
	NeedsCreditDetails bool         `json:"needs_credit_details"`
	LinesRecorded      int          `json:"lines_recorded"`
	Session            session.View `json:"session"`
}

func (h *SessionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, err := h.store.Get(sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	monitoring.RecordCheckoutAttempt()

	outcome, err := sess.Submit(r.Context())
	if err != nil {
		monitoring.RecordCheckoutFailure(failureReason(err))
		response.WriteDomainError(w, err)
		return
	}

	if !outcome.NeedsCreditDetails {
		monitoring.RecordCheckoutSuccess()
	}
	response.WriteSuccess(w, submitResult{
		NeedsCreditDetails: outcome.NeedsCreditDetails,
		LinesRecorded:      len(outcome.Finalized),
		Session:            sess.View(),
	})
}

type creditDetailsRequest struct {
	CreditorPhone  string          `json:"creditor_phone"`
	InitialPayment decimal.Decimal `json:"initial_payment"`
}

func (h *SessionHandler) HandleCreditDetails(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, err := h.store.Get(sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req creditDetailsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteValidationError(w, "Invalid request body", nil)
			return
		}

		outcome, err := sess.ConfirmCreditDetails(r.Context(), req.CreditorPhone, req.InitialPayment)
		if err != nil {
			monitoring.RecordCheckoutFailure(failureReason(err))
			response.WriteDomainError(w, err)
			return
		}

		monitoring.RecordCheckoutSuccess()
		response.WriteSuccess(w, submitResult{
			LinesRecorded: len(outcome.Finalized),
			Session:       sess.View(),
		})
	case http.MethodDelete:
		if err := sess.CancelCreditDetails(); err != nil {
			response.WriteDomainError(w, err)
			return
		}
		response.WriteSuccess(w, sess.View())
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func failureReason(err error) string {
	switch {
	case domainErrors.IsOutOfStock(err):
		return "out_of_stock"
	case domainErrors.IsMissingField(err):
		return "missing_field"
	case domainErrors.IsInvalidAmount(err):
		return "invalid_amount"
	case err == domainErrors.ErrCartEmpty:
		return "cart_empty"
	default:
		return "other"
	}
}

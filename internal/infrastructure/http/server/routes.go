package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kobina/pos-cart-service/internal/infrastructure/http/middleware"
	"github.com/kobina/pos-cart-service/internal/infrastructure/monitoring"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", s.healthHandler.HandleHealth())

	mux.HandleFunc("/api/v1/products", s.productsHandler.HandleListProducts)
	mux.HandleFunc("/api/v1/categories", s.categoriesHandler.HandleCategories)
	mux.HandleFunc("/api/v1/sales", s.salesHandler.HandleListSales)
	mux.HandleFunc("/api/v1/sessions", s.sessionHandler.HandleCreateSession)
	mux.HandleFunc("/api/v1/sessions/", s.handleSessionRoutes)

	handler := middleware.NewRecoveryMiddleware(s.logger)(mux)
	handler = middleware.NewLoggingMiddleware(s.logger)(handler)
	handler = monitoring.WrapHandler(handler)
	handler = s.corsMiddleware(handler)
	handler = s.timeoutMiddleware(handler)

	return handler
}

func (s *Server) handleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/sessions/")
	parts := strings.Split(path, "/")

	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	sessionID := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.sessionHandler.HandleGetSession(w, r, sessionID)
		case http.MethodDelete:
			s.sessionHandler.HandleDeleteSession(w, r, sessionID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "lines":
			s.sessionHandler.HandleLines(w, r, sessionID)
		case "undo":
			s.sessionHandler.HandleUndo(w, r, sessionID)
		case "clear":
			s.sessionHandler.HandleClear(w, r, sessionID)
		case "checkout":
			s.sessionHandler.HandleCheckoutFields(w, r, sessionID)
		case "submit":
			s.sessionHandler.HandleSubmit(w, r, sessionID)
		case "credit-details":
			s.sessionHandler.HandleCreditDetails(w, r, sessionID)
		default:
			http.NotFound(w, r)
		}
		return
	}

	http.NotFound(w, r)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Expose-Headers", "Link")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "300")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.TimeoutHandler(next, 90*time.Second, "Request timeout")
}

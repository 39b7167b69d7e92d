package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"invoicepro/backend/internal/service"
	"invoicepro/backend/internal/store"
)

type API struct {
	service       *service.Service
	allowedOrigin string
}

func New(svc *service.Service, allowedOrigin string) *API {
	return &API{
		service:       svc,
		allowedOrigin: allowedOrigin,
	}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(recoverPanics)
	r.Use(a.withMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMethodNotAllowed(w)
	})

	r.Get("/healthz", a.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard", a.handleDashboard)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", a.handleListProducts)
			r.Post("/", a.handleCreateProduct)
			r.Put("/{id}", a.handleUpdateProduct)
			r.Delete("/{id}", a.handleDeleteProduct)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", a.handleListCustomers)
			r.Post("/", a.handleCreateCustomer)
			r.Put("/{id}", a.handleUpdateCustomer)
			r.Delete("/{id}", a.handleDeleteCustomer)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", a.handleListInvoices)
			r.Get("/{id}", a.handleGetInvoice)
			r.Get("/{id}/document", a.handleInvoiceDocument)
		})

		r.Route("/draft", func(r chi.Router) {
			r.Get("/", a.handleDraft)
			r.Post("/customer", a.handleSelectCustomer)
			r.Post("/lines", a.handleAddLine)
			r.Delete("/lines/{lineID}", a.handleRemoveLine)
			r.Get("/totals", a.handleDraftTotals)
			r.Post("/finalize", a.handleFinalize)
		})
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s request_id=%s", r.Method, r.URL.Path, time.Since(startedAt), middleware.GetReqID(r.Context()))
	})
}

// recoverPanics turns a handler panic into the same generic JSON 500 that
// writeError produces. http.ErrAbortHandler is re-raised for net/http.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Printf("panic recovered request_id=%s: %v\n%s", middleware.GetReqID(r.Context()), rec, debug.Stack())
			writeError(w, http.StatusInternalServerError, fmt.Errorf("panic: %v", rec))
		}()
		next.ServeHTTP(w, r)
	})
}

// statusFor maps service and store errors onto HTTP statuses. Anything
// unrecognised, including corrupt or unreachable storage, is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrIncompleteDraft):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func confirmed(r *http.Request) bool {
	ok, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get("confirm")))
	return err == nil && ok
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func writeError(w http.ResponseWriter, status int, err error) {
	// 5xx bodies stay generic; the cause goes to the log only.
	msg := err.Error()
	if status >= 500 {
		log.Printf("internal error (status %d): %v", status, err)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

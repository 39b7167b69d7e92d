package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"invoicepro/backend/internal/domain"
)

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := a.service.Stats(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.service.ListProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductUpsertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.ID = ""

	resp, err := a.service.UpsertProduct(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductUpsertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := a.service.UpsertProduct(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	removed, err := a.service.DeleteProduct(r.Context(), chi.URLParam(r, "id"), confirmed(r))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (a *API) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := a.service.ListCustomers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customers": customers})
}

func (a *API) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomerUpsertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.ID = ""

	resp, err := a.service.UpsertCustomer(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *API) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomerUpsertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := a.service.UpsertCustomer(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	removed, err := a.service.DeleteCustomer(r.Context(), chi.URLParam(r, "id"), confirmed(r))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (a *API) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := a.service.ListInvoices(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"invoices": invoices})
}

func (a *API) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := a.service.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"invoice": inv})
}

func (a *API) handleInvoiceDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := a.service.InvoiceDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func (a *API) handleDraft(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"draft": a.service.DraftState()})
}

func (a *API) handleDraftTotals(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"totals": a.service.Totals()})
}

func (a *API) handleSelectCustomer(w http.ResponseWriter, r *http.Request) {
	var req domain.SelectCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	state, err := a.service.SelectCustomer(r.Context(), req.CustomerID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"draft": state})
}

func (a *API) handleAddLine(w http.ResponseWriter, r *http.Request) {
	var req domain.AddLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	state, err := a.service.AddLine(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"draft": state})
}

func (a *API) handleRemoveLine(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"draft": a.service.RemoveLine(chi.URLParam(r, "lineID"))})
}

func (a *API) handleFinalize(w http.ResponseWriter, r *http.Request) {
	resp, err := a.service.Finalize(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

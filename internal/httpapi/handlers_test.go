package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"invoicepro/backend/internal/domain"
	"invoicepro/backend/internal/service"
	"invoicepro/backend/internal/store"
	"invoicepro/backend/internal/store/memory"
)

// newTestAPI builds a full API over an in-memory store so handler tests
// exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()
	svc := service.New(memory.New(), nil, nil, 0, nil)
	return New(svc, "*")
}

func doJSON(t *testing.T, h http.Handler, method string, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v (status %d)", err, rec.Code)
	}
	return out
}

func TestHandleHealth(t *testing.T) {
	handler := newTestAPI(t).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody[map[string]any](t, rec)
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestProductLifecycle(t *testing.T) {
	handler := newTestAPI(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", domain.ProductUpsertRequest{Name: "Widget", Price: "9.99", Unit: "pcs"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	created := decodeBody[domain.ProductResponse](t, rec)
	if created.Product.ID == "" || !created.Saved {
		t.Fatalf("unexpected create response: %+v", created)
	}

	rec = doJSON(t, handler, http.MethodPut, "/api/v1/products/"+created.Product.ID, domain.ProductUpsertRequest{Name: "Widget XL", Price: "12", Unit: "pcs"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/products?q=xl", nil)
	listed := decodeBody[struct {
		Products []domain.Product `json:"products"`
	}](t, rec)
	if len(listed.Products) != 1 || listed.Products[0].Name != "Widget XL" {
		t.Fatalf("unexpected product list: %+v", listed.Products)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/v1/products/"+created.Product.ID, nil)
	if rec.Code != http.StatusPreconditionRequired {
		t.Fatalf("expected 428 without confirm, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/v1/products/"+created.Product.ID+"?confirm=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on confirmed delete, got %d", rec.Code)
	}
	removed := decodeBody[map[string]bool](t, rec)
	if !removed["removed"] {
		t.Fatalf("expected removed=true, got %+v", removed)
	}
}

func TestCreateProductValidation(t *testing.T) {
	handler := newTestAPI(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", domain.ProductUpsertRequest{Name: "", Price: "1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"name":"x","price":"1","colour":"red"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", res.Code)
	}
}

func TestCustomerDiscountOutOfRangeRejected(t *testing.T) {
	handler := newTestAPI(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/customers", domain.CustomerUpsertRequest{Name: "Acme", Discount: "150"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for discount 150, got %d", rec.Code)
	}
}

func TestDraftFinalizeFlow(t *testing.T) {
	handler := newTestAPI(t).Handler()

	product := decodeBody[domain.ProductResponse](t, doJSON(t, handler, http.MethodPost, "/api/v1/products", domain.ProductUpsertRequest{Name: "Hosting", Price: "40", Unit: "month"})).Product
	customer := decodeBody[domain.CustomerResponse](t, doJSON(t, handler, http.MethodPost, "/api/v1/customers", domain.CustomerUpsertRequest{Name: "Acme", Email: "ap@acme.test", Discount: "10"})).Customer

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/draft/finalize", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty draft, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/draft/customer", domain.SelectCustomerRequest{CustomerID: customer.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 selecting customer, got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/draft/lines", domain.AddLineRequest{ProductID: product.ID, Quantity: "1"})
	draft := decodeBody[struct {
		Draft domain.DraftState `json:"draft"`
	}](t, rec).Draft
	if draft.Status != domain.DraftReady || len(draft.Items) != 1 {
		t.Fatalf("expected ready draft with one line, got %+v", draft)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/draft/totals", nil)
	totals := decodeBody[struct {
		Totals domain.Totals `json:"totals"`
	}](t, rec).Totals
	if totals.Total.StringFixed(2) != "36.00" {
		t.Fatalf("expected total 36.00, got %s", totals.Total)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/draft/finalize", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on finalize, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	finalized := decodeBody[domain.FinalizeResponse](t, rec)
	if !strings.HasPrefix(finalized.Invoice.InvoiceNumber, "INV-") {
		t.Fatalf("unexpected invoice number %q", finalized.Invoice.InvoiceNumber)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/"+finalized.Invoice.ID+"/document", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for document, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html document, got %q", ct)
	}
	if !strings.Contains(res.Body.String(), "Discount (10%):") {
		t.Fatalf("expected discount line in document")
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/draft", nil)
	after := decodeBody[struct {
		Draft domain.DraftState `json:"draft"`
	}](t, rec).Draft
	if after.Status != domain.DraftEmpty {
		t.Fatalf("expected empty draft after finalize, got %s", after.Status)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/dashboard", nil)
	stats := decodeBody[struct {
		Stats domain.DashboardStats `json:"stats"`
	}](t, rec).Stats
	if stats.Invoices != 1 || stats.Products != 1 || stats.Customers != 1 {
		t.Fatalf("unexpected dashboard stats: %+v", stats)
	}
}

func TestMissingInvoiceReturns404(t *testing.T) {
	handler := newTestAPI(t).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/invoices/inv-missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCorruptStorageReturnsGeneric500(t *testing.T) {
	svc := service.New(memory.NewSeeded(map[string]string{store.ProductsKey: "{oops"}), nil, nil, 0, nil)
	handler := New(svc, "*").Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/products", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "internal server error" {
		t.Fatalf("expected generic error body, got %q", body["error"])
	}
}

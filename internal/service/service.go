package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"invoicepro/backend/internal/cache"
	"invoicepro/backend/internal/domain"
	"invoicepro/backend/internal/printer"
	"invoicepro/backend/internal/render"
	"invoicepro/backend/internal/store"
	"invoicepro/backend/internal/xid"
)

var (
	// ErrConfirmationRequired rejects a destructive call that was not
	// explicitly confirmed. Nothing is changed.
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrIncompleteDraft      = errors.New("invoice draft is incomplete")
)

var hundred = decimal.NewFromInt(100)

// Bounds for any number taken from user input. Larger exponents make every
// later String or JSON encoding of the value arbitrarily expensive.
const (
	maxFractionDigits = 4
	maxIntegerDigits  = 12
)

var integerLimit = decimal.New(1, maxIntegerDigits)

var errNumberOutOfRange = errors.New("number out of range")

type Service struct {
	products  *store.Collection[domain.Product]
	customers *store.Collection[domain.Customer]
	invoices  *store.Collection[domain.Invoice]

	renderer    *render.Renderer
	documents   cache.DocumentCache
	documentTTL time.Duration
	printer     printer.Printer
	now         func() time.Time

	mu    sync.Mutex
	draft draft
}

func New(kv store.KV, renderer *render.Renderer, documents cache.DocumentCache, documentTTL time.Duration, out printer.Printer) *Service {
	if renderer == nil {
		renderer = render.New(render.Company{})
	}
	if documents == nil {
		documents = cache.NoopDocumentCache{}
	}
	if documentTTL <= 0 {
		documentTTL = 24 * time.Hour
	}
	if out == nil {
		out = printer.Discard{}
	}

	return &Service{
		products:    store.NewCollection[domain.Product](kv, store.ProductsKey),
		customers:   store.NewCollection[domain.Customer](kv, store.CustomersKey),
		invoices:    store.NewCollection[domain.Invoice](kv, store.InvoicesKey),
		renderer:    renderer,
		documents:   documents,
		documentTTL: documentTTL,
		printer:     out,
		now:         time.Now,
	}
}

func (s *Service) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.products.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterRecords(products, query, func(p domain.Product) []string {
		return []string{p.Name}
	}), nil
}

func (s *Service) UpsertProduct(ctx context.Context, req domain.ProductUpsertRequest) (domain.ProductResponse, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	req.Unit = strings.TrimSpace(req.Unit)
	if req.Name == "" {
		return domain.ProductResponse{}, fmt.Errorf("%w: product name is required", store.ErrInvalidRecord)
	}

	price, err := parseAmount(req.Price)
	if errors.Is(err, errNumberOutOfRange) {
		return domain.ProductResponse{}, fmt.Errorf("%w: price %q is out of range", store.ErrInvalidRecord, req.Price)
	}
	if err != nil {
		return domain.ProductResponse{}, fmt.Errorf("%w: price %q is not a number", store.ErrInvalidRecord, req.Price)
	}
	if price.IsNegative() {
		return domain.ProductResponse{}, fmt.Errorf("%w: price must not be negative", store.ErrInvalidRecord)
	}

	product := domain.Product{
		ID:          req.ID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Price:       price,
		Unit:        req.Unit,
	}

	if product.ID == "" {
		product.ID = xid.New("prod")
		if err := s.products.Upsert(ctx, product); err != nil {
			return domain.ProductResponse{}, err
		}
		return domain.ProductResponse{Product: product, Saved: true}, nil
	}

	saved, err := s.products.Update(ctx, product)
	if err != nil {
		return domain.ProductResponse{}, err
	}
	if !saved {
		log.Printf("[service] product %s no longer exists, edit ignored", product.ID)
	}
	return domain.ProductResponse{Product: product, Saved: saved}, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string, confirmed bool) (bool, error) {
	if !confirmed {
		return false, ErrConfirmationRequired
	}
	return s.products.Remove(ctx, strings.TrimSpace(id))
}

func (s *Service) ListCustomers(ctx context.Context, query string) ([]domain.Customer, error) {
	customers, err := s.customers.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterRecords(customers, query, func(c domain.Customer) []string {
		return []string{c.Name, c.Email}
	}), nil
}

func (s *Service) UpsertCustomer(ctx context.Context, req domain.CustomerUpsertRequest) (domain.CustomerResponse, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.CustomerResponse{}, fmt.Errorf("%w: customer name is required", store.ErrInvalidRecord)
	}

	discount, err := parseDiscount(req.Discount)
	if err != nil {
		return domain.CustomerResponse{}, err
	}

	customer := domain.Customer{
		ID:       req.ID,
		Name:     req.Name,
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Address:  strings.TrimSpace(req.Address),
		Discount: discount,
	}

	if customer.ID == "" {
		customer.ID = xid.New("cust")
		if err := s.customers.Upsert(ctx, customer); err != nil {
			return domain.CustomerResponse{}, err
		}
		return domain.CustomerResponse{Customer: customer, Saved: true}, nil
	}

	saved, err := s.customers.Update(ctx, customer)
	if err != nil {
		return domain.CustomerResponse{}, err
	}
	if !saved {
		log.Printf("[service] customer %s no longer exists, edit ignored", customer.ID)
	}
	return domain.CustomerResponse{Customer: customer, Saved: saved}, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id string, confirmed bool) (bool, error) {
	if !confirmed {
		return false, ErrConfirmationRequired
	}
	return s.customers.Remove(ctx, strings.TrimSpace(id))
}

func (s *Service) ListInvoices(ctx context.Context, query string) ([]domain.Invoice, error) {
	invoices, err := s.invoices.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterRecords(invoices, query, func(inv domain.Invoice) []string {
		return []string{inv.InvoiceNumber, inv.CustomerName}
	}), nil
}

func (s *Service) GetInvoice(ctx context.Context, id string) (domain.Invoice, error) {
	return s.invoices.Get(ctx, strings.TrimSpace(id))
}

// InvoiceDocument returns the printable document of a stored invoice.
func (s *Service) InvoiceDocument(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if doc, found, err := s.documents.Get(ctx, id); err != nil {
		log.Printf("[service] WARN: document cache read failed invoice=%s: %v", id, err)
	} else if found {
		return doc, nil
	}

	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		return "", err
	}
	doc, err := s.renderer.Invoice(inv)
	if err != nil {
		return "", err
	}
	if err := s.documents.Set(ctx, inv.ID, string(doc), s.documentTTL); err != nil {
		log.Printf("[service] WARN: document cache write failed invoice=%s: %v", inv.ID, err)
	}
	return string(doc), nil
}

func (s *Service) Stats(ctx context.Context) (domain.DashboardStats, error) {
	products, err := s.products.Count(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	customers, err := s.customers.Count(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	invoices, err := s.invoices.Count(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return domain.DashboardStats{Products: products, Customers: customers, Invoices: invoices}, nil
}

// parseDiscount treats empty or unparseable input as no discount. A number
// outside 0..100 is rejected rather than clamped.
func parseDiscount(raw string) (decimal.Decimal, error) {
	discount, err := parseAmount(raw)
	if errors.Is(err, errNumberOutOfRange) {
		return decimal.Zero, fmt.Errorf("%w: discount %q is out of range", store.ErrInvalidRecord, raw)
	}
	if err != nil {
		return decimal.Zero, nil
	}
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return decimal.Zero, fmt.Errorf("%w: discount must be between 0 and 100, got %s", store.ErrInvalidRecord, discount)
	}
	return discount, nil
}

// parseAmount parses a decimal and rejects values with more than
// maxFractionDigits decimals or maxIntegerDigits integer digits. The exponent
// is checked before anything that would expand the coefficient.
func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, err
	}
	if d.Exponent() < -maxFractionDigits || d.Exponent() > maxIntegerDigits {
		return decimal.Zero, errNumberOutOfRange
	}
	if d.Abs().GreaterThanOrEqual(integerLimit) {
		return decimal.Zero, errNumberOutOfRange
	}
	return d, nil
}

func filterRecords[T any](records []T, query string, fields func(T) []string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records
	}

	filtered := make([]T, 0, len(records))
	for _, rec := range records {
		for _, field := range fields(rec) {
			if strings.Contains(strings.ToLower(field), query) {
				filtered = append(filtered, rec)
				break
			}
		}
	}
	return filtered
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"invoicepro/backend/internal/domain"
	"invoicepro/backend/internal/printer"
	"invoicepro/backend/internal/store"
	"invoicepro/backend/internal/xid"
)

// draft is the invoice being assembled. It lives only in memory; a restart
// discards it.
type draft struct {
	customer *domain.Customer
	items    []domain.InvoiceLineItem
}

func (d draft) status() domain.DraftStatus {
	switch {
	case d.customer != nil && len(d.items) > 0:
		return domain.DraftReady
	case d.customer != nil:
		return domain.DraftCustomerSelected
	case len(d.items) > 0:
		return domain.DraftItemsOnly
	default:
		return domain.DraftEmpty
	}
}

// ComputeTotals sums line amounts and applies a percentage discount.
func ComputeTotals(items []domain.InvoiceLineItem, discountPercent decimal.Decimal) domain.Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	discountAmount := subtotal.Mul(discountPercent).Div(hundred)
	return domain.Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          subtotal.Sub(discountAmount),
	}
}

func (s *Service) DraftState() domain.DraftState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Service) Totals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

// SelectCustomer snapshots the customer into the draft. An empty or unknown
// id clears the selection.
func (s *Service) SelectCustomer(ctx context.Context, customerID string) (domain.DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		s.draft.customer = nil
		return s.stateLocked(), nil
	}

	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return s.stateLocked(), err
		}
		s.draft.customer = nil
		return s.stateLocked(), nil
	}
	s.draft.customer = &customer
	return s.stateLocked(), nil
}

// AddLine copies the product's name and price into a new line. An unknown
// product, or a quantity that is not a positive number within range, leaves
// the draft as is.
func (s *Service) AddLine(ctx context.Context, req domain.AddLineRequest) (domain.DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	productID := strings.TrimSpace(req.ProductID)
	quantity, err := parseAmount(req.Quantity)
	if productID == "" || err != nil || !quantity.IsPositive() {
		return s.stateLocked(), nil
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return s.stateLocked(), nil
		}
		return s.stateLocked(), err
	}

	s.draft.items = append(s.draft.items, domain.InvoiceLineItem{
		ID:          xid.New("line"),
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		Rate:        product.Price,
		Amount:      product.Price.Mul(quantity),
	})
	return s.stateLocked(), nil
}

func (s *Service) RemoveLine(lineID string) domain.DraftState {
	s.mu.Lock()
	defer s.mu.Unlock()

	lineID = strings.TrimSpace(lineID)
	s.draft.items = slices.DeleteFunc(s.draft.items, func(item domain.InvoiceLineItem) bool {
		return item.ID == lineID
	})
	return s.stateLocked()
}

// Finalize persists the draft as an immutable invoice and starts a new empty
// draft. The printable document is produced afterwards; failures there are
// logged and reported through Printed, never returned.
func (s *Service) Finalize(ctx context.Context) (domain.FinalizeResponse, error) {
	inv, err := s.commitDraft(ctx)
	if err != nil {
		return domain.FinalizeResponse{}, err
	}

	resp := domain.FinalizeResponse{Invoice: inv}
	resp.Document, resp.Printed = s.publish(context.WithoutCancel(ctx), inv)
	return resp, nil
}

func (s *Service) commitDraft(ctx context.Context) (domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.customer == nil {
		return domain.Invoice{}, fmt.Errorf("%w: select a customer", ErrIncompleteDraft)
	}
	if len(s.draft.items) == 0 {
		return domain.Invoice{}, fmt.Errorf("%w: add at least one item", ErrIncompleteDraft)
	}

	createdAt := s.now().UTC()
	customer := *s.draft.customer
	items := slices.Clone(s.draft.items)
	totals := ComputeTotals(items, customer.Discount)

	inv := domain.Invoice{
		ID:              xid.New("inv"),
		InvoiceNumber:   fmt.Sprintf("INV-%d", createdAt.UnixMilli()),
		Date:            createdAt.Format("2006-01-02"),
		CreatedAt:       createdAt,
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		Discount:        customer.Discount,
		Items:           items,
		Subtotal:        totals.Subtotal,
		DiscountAmount:  totals.DiscountAmount,
		Total:           totals.Total,
	}

	if err := s.invoices.Upsert(ctx, inv); err != nil {
		return domain.Invoice{}, err
	}
	s.draft = draft{}
	log.Printf("[service] invoice %s finalized customer=%s items=%d total=%s", inv.InvoiceNumber, inv.CustomerID, len(inv.Items), inv.Total.StringFixed(2))
	return inv, nil
}

func (s *Service) publish(ctx context.Context, inv domain.Invoice) (string, bool) {
	doc, err := s.renderer.Invoice(inv)
	if err != nil {
		log.Printf("[service] WARN: render failed invoice=%s: %v", inv.InvoiceNumber, err)
		return "", false
	}
	if err := s.documents.Set(ctx, inv.ID, string(doc), s.documentTTL); err != nil {
		log.Printf("[service] WARN: document cache write failed invoice=%s: %v", inv.ID, err)
	}
	if err := s.printer.Print(ctx, printer.Job{
		Name:        inv.InvoiceNumber,
		ContentType: "text/html; charset=utf-8",
		Body:        doc,
	}); err != nil {
		if errors.Is(err, printer.ErrNotPrinted) {
			return string(doc), false
		}
		log.Printf("[service] WARN: print hand-off failed invoice=%s: %v", inv.InvoiceNumber, err)
		return string(doc), false
	}
	return string(doc), true
}

func (s *Service) stateLocked() domain.DraftState {
	state := domain.DraftState{
		Status: s.draft.status(),
		Items:  slices.Clone(s.draft.items),
		Totals: s.totalsLocked(),
	}
	if state.Items == nil {
		state.Items = []domain.InvoiceLineItem{}
	}
	if s.draft.customer != nil {
		customer := *s.draft.customer
		state.Customer = &customer
	}
	return state
}

func (s *Service) totalsLocked() domain.Totals {
	discount := decimal.Zero
	if s.draft.customer != nil {
		discount = s.draft.customer.Discount
	}
	return ComputeTotals(s.draft.items, discount)
}

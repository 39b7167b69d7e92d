package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
}

func (p Product) RecordID() string { return p.ID }

// ProductUpsertRequest carries form input. Price stays a string so the
// service decides how unparseable input is treated.
type ProductUpsertRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Unit        string `json:"unit"`
}

type ProductResponse struct {
	Product Product `json:"product"`
	Saved   bool    `json:"saved"`
}

type Customer struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	Address  string          `json:"address"`
	Discount decimal.Decimal `json:"discount"`
}

func (c Customer) RecordID() string { return c.ID }

type CustomerUpsertRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Discount string `json:"discount"`
}

type CustomerResponse struct {
	Customer Customer `json:"customer"`
	Saved    bool     `json:"saved"`
}

type InvoiceLineItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

type Invoice struct {
	ID              string            `json:"id"`
	InvoiceNumber   string            `json:"invoice_number"`
	Date            string            `json:"date"`
	CreatedAt       time.Time         `json:"created_at"`
	CustomerID      string            `json:"customer_id"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	CustomerAddress string            `json:"customer_address"`
	Discount        decimal.Decimal   `json:"discount"`
	Items           []InvoiceLineItem `json:"items"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	DiscountAmount  decimal.Decimal   `json:"discount_amount"`
	Total           decimal.Decimal   `json:"total"`
}

func (i Invoice) RecordID() string { return i.ID }

type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

type DraftStatus string

const (
	DraftEmpty            DraftStatus = "empty"
	DraftItemsOnly        DraftStatus = "items_only"
	DraftCustomerSelected DraftStatus = "customer_selected"
	DraftReady            DraftStatus = "ready"
)

type DraftState struct {
	Status   DraftStatus       `json:"status"`
	Customer *Customer         `json:"customer,omitempty"`
	Items    []InvoiceLineItem `json:"items"`
	Totals   Totals            `json:"totals"`
}

type SelectCustomerRequest struct {
	CustomerID string `json:"customer_id"`
}

type AddLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  string `json:"quantity"`
}

type FinalizeResponse struct {
	Invoice  Invoice `json:"invoice"`
	Document string  `json:"document,omitempty"`
	Printed  bool    `json:"printed"`
}

type DashboardStats struct {
	Products  int `json:"products"`
	Customers int `json:"customers"`
	Invoices  int `json:"invoices"`
}

package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidRecord = errors.New("invalid record")
	// ErrCorrupt marks a stored blob that exists but does not decode.
	// It is never reported as an empty collection.
	ErrCorrupt = errors.New("stored collection is corrupt")
	ErrStorage = errors.New("storage unavailable")
)

// Names of the persisted blobs, one per record kind.
const (
	ProductsKey  = "products"
	CustomersKey = "customers"
	InvoicesKey  = "invoices"
)

// KV is a durable store of named string blobs. Get reports found=false for a
// name that was never set. Set overwrites and is durable when it returns.
type KV interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name string, value string) error
}

package cache

import (
	"context"
	"time"
)

// DocumentCache holds rendered invoice documents keyed by invoice id.
// Invoices never change after finalization, so entries only expire by TTL.
type DocumentCache interface {
	Get(ctx context.Context, invoiceID string) (string, bool, error)
	Set(ctx context.Context, invoiceID string, document string, ttl time.Duration) error
}

type NoopDocumentCache struct{}

func (NoopDocumentCache) Get(_ context.Context, _ string) (string, bool, error) {
	return "", false, nil
}

func (NoopDocumentCache) Set(_ context.Context, _ string, _ string, _ time.Duration) error {
	return nil
}
